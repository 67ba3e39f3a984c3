package persistent

import (
	"context"

	"recipe-blog/pkg/models"
	"recipe-blog/services/recipe/internal/entity"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	ListApproved(ctx context.Context, postID string) ([]*entity.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create always stores the comment unapproved.
func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	commentModel.Approved = false

	if err := r.db.WithContext(ctx).Create(commentModel).Error; err != nil {
		return err
	}

	*comment = *ToCommentEntity(commentModel)
	return nil
}

func (r *commentRepository) ListApproved(ctx context.Context, postID string) ([]*entity.Comment, error) {
	var commentModels []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND approved = ?", postID, true).
		Order("created_at ASC, id ASC").
		Find(&commentModels).Error
	if err != nil {
		return nil, err
	}

	comments := make([]*entity.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}
