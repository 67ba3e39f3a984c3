package persistent

import (
	"context"
	"time"

	"recipe-blog/pkg/apperror"
	"recipe-blog/pkg/models"
	"recipe-blog/services/moderation/internal/entity"

	"gorm.io/gorm"
)

type CommentRepository interface {
	ListPending(ctx context.Context, limit, offset int) ([]*entity.Comment, error)
	CountPending(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	Approve(ctx context.Context, id string) (*entity.Comment, error)
	Remove(ctx context.Context, id string) (string, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

type commentRow struct {
	ID        string
	PostID    string
	PostTitle string
	Author    string
	Text      string
	Approved  bool
	CreatedAt time.Time
}

func (row *commentRow) toEntity() *entity.Comment {
	return &entity.Comment{
		ID:        row.ID,
		PostID:    row.PostID,
		PostTitle: row.PostTitle,
		Author:    row.Author,
		Text:      row.Text,
		Approved:  row.Approved,
		CreatedAt: row.CreatedAt,
	}
}

func (r *commentRepository) withPost(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.post_id, posts.title AS post_title, comments.author, comments.text, comments.approved, comments.created_at").
		Joins("LEFT JOIN posts ON posts.id = comments.post_id")
}

// ListPending returns unapproved comments, oldest first.
func (r *commentRepository) ListPending(ctx context.Context, limit, offset int) ([]*entity.Comment, error) {
	var rows []commentRow
	query := r.withPost(ctx).
		Where("comments.approved = ?", false).
		Order("comments.created_at ASC, comments.id ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	comments := make([]*entity.Comment, len(rows))
	for i := range rows {
		comments[i] = rows[i].toEntity()
	}
	return comments, nil
}

func (r *commentRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("approved = ?", false).Count(&count).Error
	return count, err
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	var rows []commentRow
	if err := r.withPost(ctx).Where("comments.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NotFound("comment")
	}
	return rows[0].toEntity(), nil
}

// Approve marks the comment visible. Approving twice is harmless.
func (r *commentRepository) Approve(ctx context.Context, id string) (*entity.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, apperror.FromGorm(err, "comment")
	}

	if !comment.Approved {
		comment.Approve()
		if err := r.db.WithContext(ctx).Model(&comment).Update("approved", true).Error; err != nil {
			return nil, err
		}
	}

	return r.GetByID(ctx, id)
}

// Remove deletes the comment for good and returns the id of its post.
func (r *commentRepository) Remove(ctx context.Context, id string) (string, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return "", apperror.FromGorm(err, "comment")
	}

	if err := r.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		return "", err
	}
	return comment.PostID, nil
}
