package usecase

import (
	"context"
	"time"

	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/metrics"
	"recipe-blog/pkg/validation"
	"recipe-blog/services/recipe/internal/entity"
	"recipe-blog/services/recipe/internal/repo/persistent"
)

type RateInput struct {
	Point int `json:"point" validate:"gte=1,lte=5"`
}

// LedgerUseCase records likes and ratings against posts the user can see.
type LedgerUseCase interface {
	Like(ctx context.Context, postID, userID string) (*entity.LikeSummary, error)
	Unlike(ctx context.Context, postID, userID string) (*entity.LikeSummary, error)
	Rate(ctx context.Context, postID, userID string, input RateInput) (*entity.RatingSummary, error)
}

type ledgerUseCase struct {
	postRepo   persistent.PostRepository
	ledgerRepo persistent.LedgerRepository
	logger     *logger.Logger
	now        func() time.Time
}

func NewLedgerUseCase(postRepo persistent.PostRepository, ledgerRepo persistent.LedgerRepository, logger *logger.Logger) LedgerUseCase {
	return &ledgerUseCase{
		postRepo:   postRepo,
		ledgerRepo: ledgerRepo,
		logger:     logger,
		now:        utcNow,
	}
}

// Like is idempotent: a second like by the same user reports Created=false.
func (uc *ledgerUseCase) Like(ctx context.Context, postID, userID string) (*entity.LikeSummary, error) {
	if _, err := loadVisiblePost(ctx, uc.postRepo, postID, userID, uc.now()); err != nil {
		return nil, err
	}

	created, err := uc.ledgerRepo.CreateLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if created {
		metrics.LikesTotal.WithLabelValues("created").Inc()
	} else {
		metrics.LikesTotal.WithLabelValues("duplicate").Inc()
		uc.logger.Debug("User %s already liked post %s", userID, postID)
	}

	count, err := uc.ledgerRepo.LikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &entity.LikeSummary{PostID: postID, Liked: true, Created: created, LikeCount: count}, nil
}

func (uc *ledgerUseCase) Unlike(ctx context.Context, postID, userID string) (*entity.LikeSummary, error) {
	if _, err := loadVisiblePost(ctx, uc.postRepo, postID, userID, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.ledgerRepo.DeleteLike(ctx, postID, userID); err != nil {
		return nil, err
	}

	count, err := uc.ledgerRepo.LikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &entity.LikeSummary{PostID: postID, Liked: false, LikeCount: count}, nil
}

// Rate stores the user's point for the post, replacing an earlier one.
func (uc *ledgerUseCase) Rate(ctx context.Context, postID, userID string, input RateInput) (*entity.RatingSummary, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	if _, err := loadVisiblePost(ctx, uc.postRepo, postID, userID, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.ledgerRepo.UpsertRate(ctx, postID, userID, input.Point); err != nil {
		return nil, err
	}
	metrics.RatingsTotal.Inc()

	average, err := uc.ledgerRepo.RateAverage(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &entity.RatingSummary{PostID: postID, Point: input.Point, Average: average}, nil
}
