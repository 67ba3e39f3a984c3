package usecase

import (
	"context"
	"io"
	"time"

	"recipe-blog/pkg/apperror"
	"recipe-blog/pkg/queue"
	"recipe-blog/services/recipe/internal/entity"
	"recipe-blog/services/recipe/internal/repo/persistent"
)

// ImageStore is satisfied by *s3.Client.
type ImageStore interface {
	UploadFile(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// EventPublisher is satisfied by *queue.Client.
type EventPublisher interface {
	PublishModerationEvent(ctx context.Context, event queue.ModerationEvent) error
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// loadVisiblePost returns the post when userID may see it. Other users'
// drafts are reported as missing.
func loadVisiblePost(ctx context.Context, repo persistent.PostRepository, postID, userID string, now time.Time) (*entity.Post, error) {
	if err := apperror.RequireID(postID, "post"); err != nil {
		return nil, err
	}
	post, err := repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished(now) && post.AuthorID != userID {
		return nil, apperror.NotFound("post")
	}
	return post, nil
}
