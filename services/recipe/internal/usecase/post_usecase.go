package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"recipe-blog/pkg/apperror"
	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/metrics"
	"recipe-blog/pkg/queue"
	"recipe-blog/pkg/s3"
	"recipe-blog/pkg/validation"
	"recipe-blog/services/recipe/internal/entity"
	"recipe-blog/services/recipe/internal/repo/persistent"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	TopIngredientsLimit = 5
	topIngredientsKey   = "ingredients:top"
)

type PostInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=10000"`
	Difficulty  string   `json:"difficulty" validate:"required,oneof=E M H"`
	Ingredients []string `json:"ingredients" validate:"max=50,dive,max=200"`
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Difficulty = strings.ToUpper(strings.TrimSpace(in.Difficulty))
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.ReadSeeker
}

type PostUseCase interface {
	CreatePost(ctx context.Context, userID string, input PostInput, image *ImageUpload) (*entity.Post, error)
	GetPost(ctx context.Context, postID, userID string) (*entity.PostDetail, error)
	UpdatePost(ctx context.Context, postID, userID string, input PostInput) (*entity.Post, error)
	DeletePost(ctx context.Context, postID, userID string) error
	PublishPost(ctx context.Context, postID, userID string) (*entity.Post, error)
	ListPublished(ctx context.Context) ([]*entity.Post, error)
	ListDrafts(ctx context.Context, userID string) ([]*entity.Post, error)
	Search(ctx context.Context, query string) ([]*entity.Post, error)
	SearchByIngredient(ctx context.Context, term string) ([]*entity.Post, error)
	TopIngredients(ctx context.Context) ([]entity.IngredientUsage, error)
}

type postUseCase struct {
	postRepo    persistent.PostRepository
	ledgerRepo  persistent.LedgerRepository
	commentRepo persistent.CommentRepository
	images      ImageStore
	events      EventPublisher
	redisClient *redis.Client
	topTTL      time.Duration
	logger      *logger.Logger
	now         func() time.Time
}

// NewPostUseCase wires the post flows. images, events and redisClient may be
// nil; uploads are then rejected, events skipped and top ingredients
// computed on every call.
func NewPostUseCase(
	postRepo persistent.PostRepository,
	ledgerRepo persistent.LedgerRepository,
	commentRepo persistent.CommentRepository,
	images ImageStore,
	events EventPublisher,
	redisClient *redis.Client,
	topTTL time.Duration,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo:    postRepo,
		ledgerRepo:  ledgerRepo,
		commentRepo: commentRepo,
		images:      images,
		events:      events,
		redisClient: redisClient,
		topTTL:      topTTL,
		logger:      logger,
		now:         utcNow,
	}
}

func (uc *postUseCase) CreatePost(ctx context.Context, userID string, input PostInput, image *ImageUpload) (*entity.Post, error) {
	input.normalize()
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	post := &entity.Post{
		AuthorID:    userID,
		Title:       input.Title,
		Description: input.Description,
		Difficulty:  entity.Difficulty(input.Difficulty),
		Ingredients: input.Ingredients,
	}

	if image != nil {
		if err := uc.uploadImage(ctx, post, image); err != nil {
			return nil, err
		}
	}

	if err := uc.postRepo.Create(ctx, post); err != nil {
		uc.deleteImage(post.ImageKey)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.invalidateTopIngredients(ctx)
	uc.logger.Info("Post %s created as draft by %s", post.ID, userID)
	return post, nil
}

func (uc *postUseCase) uploadImage(ctx context.Context, post *entity.Post, image *ImageUpload) error {
	if uc.images == nil {
		return apperror.Validation("image uploads are disabled")
	}

	contentType := image.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if !strings.HasPrefix(contentType, "image/") {
		return apperror.Validation("image must be an image file, got %s", contentType)
	}

	key := s3.ImageKey(post.AuthorID, image.Filename)
	url, err := uc.images.UploadFile(ctx, key, image.Body, contentType)
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}

	post.ImageKey = key
	post.ImageURL = url
	return nil
}

func (uc *postUseCase) deleteImage(key string) {
	if key == "" || uc.images == nil {
		return
	}
	// the request context may already be cancelled
	if err := uc.images.DeleteFile(context.Background(), key); err != nil {
		uc.logger.Warn("Failed to delete image %s: %v", key, err)
	}
}

func (uc *postUseCase) GetPost(ctx context.Context, postID, userID string) (*entity.PostDetail, error) {
	now := uc.now()
	post, err := loadVisiblePost(ctx, uc.postRepo, postID, userID, now)
	if err != nil {
		return nil, err
	}

	detail := &entity.PostDetail{
		Post:    *post,
		IsDraft: !post.IsPublished(now),
		CanEdit: userID != "" && post.AuthorID == userID,
	}

	if detail.LikeCount, err = uc.ledgerRepo.LikeCount(ctx, postID); err != nil {
		return nil, err
	}
	if detail.RateAverage, err = uc.ledgerRepo.RateAverage(ctx, postID); err != nil {
		return nil, err
	}
	if detail.Comments, err = uc.commentRepo.ListApproved(ctx, postID); err != nil {
		return nil, err
	}

	if userID != "" {
		if detail.IsLiked, err = uc.ledgerRepo.IsLiked(ctx, postID, userID); err != nil {
			return nil, err
		}
		if detail.UserRating, err = uc.ledgerRepo.UserRating(ctx, postID, userID); err != nil {
			return nil, err
		}
	}

	return detail, nil
}

// loadOwnPost returns the post only to its author. Drafts of other users are
// missing, their published posts are forbidden.
func (uc *postUseCase) loadOwnPost(ctx context.Context, postID, userID string) (*entity.Post, error) {
	post, err := loadVisiblePost(ctx, uc.postRepo, postID, userID, uc.now())
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, fmt.Errorf("%w: only the author can change this post", apperror.ErrForbidden)
	}
	return post, nil
}

func (uc *postUseCase) UpdatePost(ctx context.Context, postID, userID string, input PostInput) (*entity.Post, error) {
	input.normalize()
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	post, err := uc.loadOwnPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	post.Title = input.Title
	post.Description = input.Description
	post.Difficulty = entity.Difficulty(input.Difficulty)
	post.Ingredients = input.Ingredients

	if err := uc.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	uc.invalidateTopIngredients(ctx)
	return post, nil
}

func (uc *postUseCase) DeletePost(ctx context.Context, postID, userID string) error {
	post, err := uc.loadOwnPost(ctx, postID, userID)
	if err != nil {
		return err
	}

	if err := uc.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	uc.deleteImage(post.ImageKey)
	uc.invalidateTopIngredients(ctx)
	uc.logger.Info("Post %s deleted by %s", postID, userID)
	return nil
}

// PublishPost makes the post public now and hands it to userID.
// Publishing an already published post refreshes its timestamp.
func (uc *postUseCase) PublishPost(ctx context.Context, postID, userID string) (*entity.Post, error) {
	if err := apperror.RequireID(postID, "post"); err != nil {
		return nil, err
	}
	if err := apperror.RequireID(userID, "user"); err != nil {
		return nil, err
	}

	now := uc.now()
	post, err := uc.postRepo.Publish(ctx, postID, userID, now)
	if err != nil {
		return nil, err
	}

	metrics.PostsPublishedTotal.Inc()
	uc.publishEvent(ctx, queue.ModerationEvent{
		Type:       queue.EventPostPublished,
		PostID:     post.ID,
		ActorID:    userID,
		OccurredAt: now,
	})
	return post, nil
}

func (uc *postUseCase) publishEvent(ctx context.Context, event queue.ModerationEvent) {
	if uc.events == nil {
		return
	}
	if err := uc.events.PublishModerationEvent(ctx, event); err != nil {
		uc.logger.Error("Failed to publish %s event for post %s: %v", event.Type, event.PostID, err)
	}
}

func (uc *postUseCase) ListPublished(ctx context.Context) ([]*entity.Post, error) {
	return uc.postRepo.ListPublished(ctx, uc.now())
}

func (uc *postUseCase) ListDrafts(ctx context.Context, userID string) ([]*entity.Post, error) {
	return uc.postRepo.ListDrafts(ctx, userID)
}

func (uc *postUseCase) Search(ctx context.Context, query string) ([]*entity.Post, error) {
	return uc.postRepo.Search(ctx, query, uc.now())
}

func (uc *postUseCase) SearchByIngredient(ctx context.Context, term string) ([]*entity.Post, error) {
	return uc.postRepo.SearchByIngredient(ctx, term, uc.now())
}

// TopIngredients serves the five most used ingredients, from Redis when a
// fresh copy is cached.
func (uc *postUseCase) TopIngredients(ctx context.Context) ([]entity.IngredientUsage, error) {
	if cached, ok := uc.cachedTopIngredients(ctx); ok {
		metrics.TopIngredientsCache.WithLabelValues("hit").Inc()
		return cached, nil
	}
	metrics.TopIngredientsCache.WithLabelValues("miss").Inc()

	usages, err := uc.postRepo.TopIngredients(ctx, TopIngredientsLimit)
	if err != nil {
		return nil, err
	}

	uc.cacheTopIngredients(ctx, usages)
	return usages, nil
}

func (uc *postUseCase) cachedTopIngredients(ctx context.Context) ([]entity.IngredientUsage, bool) {
	if uc.redisClient == nil {
		return nil, false
	}

	data, err := uc.redisClient.Get(ctx, topIngredientsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			uc.logger.Warn("Failed to read top ingredients cache: %v", err)
		}
		return nil, false
	}

	var usages []entity.IngredientUsage
	if err := json.Unmarshal(data, &usages); err != nil {
		uc.logger.Warn("Discarding malformed top ingredients cache: %v", err)
		return nil, false
	}
	return usages, true
}

func (uc *postUseCase) cacheTopIngredients(ctx context.Context, usages []entity.IngredientUsage) {
	if uc.redisClient == nil || uc.topTTL <= 0 {
		return
	}

	data, err := json.Marshal(usages)
	if err != nil {
		uc.logger.Warn("Failed to encode top ingredients: %v", err)
		return
	}
	if err := uc.redisClient.Set(ctx, topIngredientsKey, data, uc.topTTL).Err(); err != nil {
		uc.logger.Warn("Failed to cache top ingredients: %v", err)
	}
}

func (uc *postUseCase) invalidateTopIngredients(ctx context.Context) {
	if uc.redisClient == nil {
		return
	}
	if err := uc.redisClient.Del(ctx, topIngredientsKey).Err(); err != nil {
		uc.logger.Warn("Failed to invalidate top ingredients cache: %v", err)
	}
}
