package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/metrics"
	"recipe-blog/pkg/queue"
	"recipe-blog/pkg/validation"
	"recipe-blog/services/recipe/internal/entity"
	"recipe-blog/services/recipe/internal/repo/persistent"
)

type CommentInput struct {
	Author string `json:"author" validate:"required,max=200"`
	Text   string `json:"text" validate:"required,max=5000"`
}

type CommentUseCase interface {
	AddComment(ctx context.Context, postID, userID string, input CommentInput) (*entity.Comment, error)
	VisibleComments(ctx context.Context, postID, userID string) ([]*entity.Comment, error)
}

type commentUseCase struct {
	postRepo    persistent.PostRepository
	commentRepo persistent.CommentRepository
	events      EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

func NewCommentUseCase(
	postRepo persistent.PostRepository,
	commentRepo persistent.CommentRepository,
	events EventPublisher,
	logger *logger.Logger,
) CommentUseCase {
	return &commentUseCase{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		events:      events,
		logger:      logger,
		now:         utcNow,
	}
}

// AddComment stores an unapproved comment and notifies the moderators.
func (uc *commentUseCase) AddComment(ctx context.Context, postID, userID string, input CommentInput) (*entity.Comment, error) {
	input.Author = strings.TrimSpace(input.Author)
	input.Text = strings.TrimSpace(input.Text)
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	now := uc.now()
	if _, err := loadVisiblePost(ctx, uc.postRepo, postID, userID, now); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		PostID: postID,
		Author: input.Author,
		Text:   input.Text,
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	metrics.CommentsTotal.WithLabelValues("submitted").Inc()

	if uc.events != nil {
		event := queue.ModerationEvent{
			Type:       queue.EventCommentSubmitted,
			PostID:     postID,
			CommentID:  comment.ID,
			ActorID:    userID,
			OccurredAt: now,
		}
		if err := uc.events.PublishModerationEvent(ctx, event); err != nil {
			uc.logger.Error("Failed to publish comment %s for moderation: %v", comment.ID, err)
		}
	}

	return comment, nil
}

func (uc *commentUseCase) VisibleComments(ctx context.Context, postID, userID string) ([]*entity.Comment, error) {
	if _, err := loadVisiblePost(ctx, uc.postRepo, postID, userID, uc.now()); err != nil {
		return nil, err
	}
	return uc.commentRepo.ListApproved(ctx, postID)
}
