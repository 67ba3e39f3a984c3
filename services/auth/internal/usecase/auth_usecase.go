package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-blog/pkg/apperror"
	"recipe-blog/pkg/jwt"
	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/validation"
	"recipe-blog/services/auth/internal/entity"
	"recipe-blog/services/auth/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	// bcrypt ignores bytes past 72
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*entity.User, string, error)
	Login(ctx context.Context, input LoginInput) (*entity.User, string, error)
	GetUser(ctx context.Context, userID string) (*entity.User, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	logger     *logger.Logger
	hashCost   int
}

func NewAuthUseCase(userRepo persistent.UserRepository, jwtService *jwt.Service, logger *logger.Logger) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
		hashCost:   bcrypt.DefaultCost,
	}
}

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)

func (uc *authUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, string, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)
	if err := validation.Struct(input); err != nil {
		return nil, "", err
	}

	if _, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", fmt.Errorf("%w: user with this email already exists", apperror.ErrConflict)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, "", err
	}

	if _, err := uc.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, "", fmt.Errorf("%w: username already taken", apperror.ErrConflict)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.hashCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Email:    input.Email,
		Username: input.Username,
		Password: string(hashedPassword),
		Role:     entity.RoleMember,
		IsActive: true,
	}

	// a concurrent registration can still hit the unique index
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	uc.logger.Info("User %s registered", user.ID)
	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Login(ctx context.Context, input LoginInput) (*entity.User, string, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validation.Struct(input); err != nil {
		return nil, "", err
	}

	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, "", errInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, "", errInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", fmt.Errorf("%w: account is deactivated", apperror.ErrForbidden)
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	if err := apperror.RequireID(userID, "user"); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}
