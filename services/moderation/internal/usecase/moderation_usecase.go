package usecase

import (
	"context"
	"time"

	"recipe-blog/pkg/apperror"
	"recipe-blog/pkg/logger"
	"recipe-blog/pkg/metrics"
	"recipe-blog/pkg/queue"
	"recipe-blog/services/moderation/internal/entity"
	"recipe-blog/services/moderation/internal/repo/persistent"
)

const DefaultPendingLimit = 50

// EventQueue is satisfied by *queue.Client.
type EventQueue interface {
	PublishModerationEvent(ctx context.Context, event queue.ModerationEvent) error
	QueueLength() (int, error)
}

type ModerationUseCase interface {
	PendingComments(ctx context.Context, limit, offset int) ([]*entity.Comment, error)
	ApproveComment(ctx context.Context, commentID, moderatorID string) (*entity.Comment, error)
	RemoveComment(ctx context.Context, commentID, moderatorID string) (string, error)
	Stats(ctx context.Context) (*entity.Stats, error)
	HandleEvent(event queue.ModerationEvent) error
}

type moderationUseCase struct {
	commentRepo persistent.CommentRepository
	events      EventQueue
	logger      *logger.Logger
	now         func() time.Time
}

// NewModerationUseCase builds the moderation flows. events may be nil.
func NewModerationUseCase(commentRepo persistent.CommentRepository, events EventQueue, logger *logger.Logger) ModerationUseCase {
	return &moderationUseCase{
		commentRepo: commentRepo,
		events:      events,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (uc *moderationUseCase) PendingComments(ctx context.Context, limit, offset int) ([]*entity.Comment, error) {
	if limit <= 0 || limit > 200 {
		limit = DefaultPendingLimit
	}
	if offset < 0 {
		offset = 0
	}
	return uc.commentRepo.ListPending(ctx, limit, offset)
}

func (uc *moderationUseCase) ApproveComment(ctx context.Context, commentID, moderatorID string) (*entity.Comment, error) {
	if err := apperror.RequireID(commentID, "comment"); err != nil {
		return nil, err
	}

	comment, err := uc.commentRepo.Approve(ctx, commentID)
	if err != nil {
		return nil, err
	}

	metrics.CommentsTotal.WithLabelValues("approved").Inc()
	uc.logger.Info("Comment %s on post %s approved by %s", commentID, comment.PostID, moderatorID)
	uc.publish(ctx, queue.ModerationEvent{
		Type:      queue.EventCommentApproved,
		PostID:    comment.PostID,
		CommentID: commentID,
		ActorID:   moderatorID,
	})
	return comment, nil
}

// RemoveComment deletes the comment and returns its post id so callers can
// go back to the post.
func (uc *moderationUseCase) RemoveComment(ctx context.Context, commentID, moderatorID string) (string, error) {
	if err := apperror.RequireID(commentID, "comment"); err != nil {
		return "", err
	}

	postID, err := uc.commentRepo.Remove(ctx, commentID)
	if err != nil {
		return "", err
	}

	metrics.CommentsTotal.WithLabelValues("removed").Inc()
	uc.logger.Info("Comment %s on post %s removed by %s", commentID, postID, moderatorID)
	uc.publish(ctx, queue.ModerationEvent{
		Type:      queue.EventCommentRemoved,
		PostID:    postID,
		CommentID: commentID,
		ActorID:   moderatorID,
	})
	return postID, nil
}

func (uc *moderationUseCase) Stats(ctx context.Context) (*entity.Stats, error) {
	pending, err := uc.commentRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	stats := &entity.Stats{PendingComments: pending, QueuedEvents: -1}
	if uc.events != nil {
		if length, err := uc.events.QueueLength(); err != nil {
			uc.logger.Warn("Failed to inspect moderation queue: %v", err)
		} else {
			stats.QueuedEvents = length
		}
	}
	return stats, nil
}

// HandleEvent records events read from the moderation queue. Comments that
// were removed before the event arrived are skipped.
func (uc *moderationUseCase) HandleEvent(event queue.ModerationEvent) error {
	metrics.ModerationEventsConsumed.WithLabelValues(event.Type).Inc()

	switch event.Type {
	case queue.EventCommentSubmitted:
		if apperror.RequireID(event.CommentID, "comment") != nil {
			uc.logger.Warn("Dropping %s event with malformed comment id %q", event.Type, event.CommentID)
			return nil
		}
		comment, err := uc.commentRepo.GetByID(context.Background(), event.CommentID)
		if err != nil {
			uc.logger.Debug("Submitted comment %s is gone: %v", event.CommentID, err)
			return nil
		}
		if !comment.Approved {
			uc.logger.Info("Comment %s on %q awaits review", comment.ID, comment.PostTitle)
		}
	case queue.EventPostPublished:
		uc.logger.Info("Post %s published by %s", event.PostID, event.ActorID)
	default:
		uc.logger.Debug("Moderation event %s for comment %s", event.Type, event.CommentID)
	}
	return nil
}

func (uc *moderationUseCase) publish(ctx context.Context, event queue.ModerationEvent) {
	if uc.events == nil {
		return
	}
	event.OccurredAt = uc.now()
	if err := uc.events.PublishModerationEvent(ctx, event); err != nil {
		uc.logger.Error("Failed to publish %s for comment %s: %v", event.Type, event.CommentID, err)
	}
}
