package persistent

import (
	"context"
	"errors"

	"recipe-blog/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository stores likes and rates. Both are unique per (post, user).
type LedgerRepository interface {
	CreateLike(ctx context.Context, postID, userID string) (bool, error)
	DeleteLike(ctx context.Context, postID, userID string) error
	IsLiked(ctx context.Context, postID, userID string) (bool, error)
	LikeCount(ctx context.Context, postID string) (int64, error)
	UpsertRate(ctx context.Context, postID, userID string, point int) error
	UserRating(ctx context.Context, postID, userID string) (int, error)
	RateAverage(ctx context.Context, postID string) (float64, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// CreateLike reports false when the user already liked the post.
func (r *ledgerRepository) CreateLike(ctx context.Context, postID, userID string) (bool, error) {
	like := &models.Like{PostID: postID, UserID: userID}
	err := r.db.WithContext(ctx).Create(like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *ledgerRepository) DeleteLike(ctx context.Context, postID, userID string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{}).Error
}

func (r *ledgerRepository) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ledgerRepository) LikeCount(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// UpsertRate inserts the rate or overwrites the point in a single statement.
func (r *ledgerRepository) UpsertRate(ctx context.Context, postID, userID string, point int) error {
	rate := &models.Rate{PostID: postID, UserID: userID, Point: point}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"point", "updated_at"}),
	}).Create(rate).Error
}

// UserRating returns 0 when the user has not rated the post.
func (r *ledgerRepository) UserRating(ctx context.Context, postID, userID string) (int, error) {
	var rate models.Rate
	err := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rate.Point, nil
}

// RateAverage returns 0 for a post nobody rated.
func (r *ledgerRepository) RateAverage(ctx context.Context, postID string) (float64, error) {
	var average float64
	err := r.db.WithContext(ctx).Model(&models.Rate{}).
		Select("COALESCE(AVG(point), 0)").
		Where("post_id = ?", postID).
		Scan(&average).Error
	return average, err
}
