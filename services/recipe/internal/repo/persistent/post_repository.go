package persistent

import (
	"context"
	"strings"
	"time"

	"recipe-blog/pkg/apperror"
	"recipe-blog/pkg/models"
	"recipe-blog/services/recipe/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// posts linked to an ingredient whose name matches the pattern
	ingredientMatchSQL = "posts.id IN (SELECT post_ingredients.post_id FROM post_ingredients " +
		"JOIN ingredients ON ingredients.id = post_ingredients.ingredient_id " +
		`WHERE LOWER(ingredients.name) LIKE ? ESCAPE '\')`

	textMatchSQL = `(LOWER(posts.title) LIKE ? ESCAPE '\' OR LOWER(posts.description) LIKE ? ESCAPE '\' OR ` +
		ingredientMatchSQL + ")"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id string) error
	Publish(ctx context.Context, postID, userID string, now time.Time) (*entity.Post, error)
	ListPublished(ctx context.Context, now time.Time) ([]*entity.Post, error)
	ListDrafts(ctx context.Context, authorID string) ([]*entity.Post, error)
	SearchByIngredient(ctx context.Context, term string, now time.Time) ([]*entity.Post, error)
	Search(ctx context.Context, query string, now time.Time) ([]*entity.Post, error)
	TopIngredients(ctx context.Context, limit int) ([]entity.IngredientUsage, error)
	UserExists(ctx context.Context, userID string) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func preloadIngredients(db *gorm.DB) *gorm.DB {
	return db.Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("ingredients.name ASC")
	})
}

func published(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Where("posts.published_at IS NOT NULL AND posts.published_at <= ?", now.UTC())
}

// likePattern builds a case-insensitive containment pattern for term.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.ToLower(term))
	return "%" + escaped + "%"
}

// resolveIngredients returns one stored row per distinct normalized name,
// creating missing ones.
func resolveIngredients(tx *gorm.DB, names []string) ([]models.Ingredient, error) {
	seen := make(map[string]bool, len(names))
	ingredients := make([]models.Ingredient, 0, len(names))

	for _, raw := range names {
		name := models.NormalizeIngredientName(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&models.Ingredient{Name: name}).Error; err != nil {
			return nil, err
		}

		var stored models.Ingredient
		if err := tx.Where("name = ?", name).First(&stored).Error; err != nil {
			return nil, err
		}
		ingredients = append(ingredients, stored)
	}

	return ingredients, nil
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ingredients, err := resolveIngredients(tx, post.Ingredients)
		if err != nil {
			return err
		}
		postModel.Ingredients = ingredients

		if err := tx.Omit("Ingredients.*").Create(postModel).Error; err != nil {
			return err
		}

		*post = *ToPostEntity(postModel)
		return nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var postModel models.Post
	if err := preloadIngredients(r.db.WithContext(ctx)).Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, apperror.FromGorm(err, "post")
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) Update(ctx context.Context, post *entity.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Post
		if err := tx.Where("id = ?", post.ID).First(&existing).Error; err != nil {
			return apperror.FromGorm(err, "post")
		}

		if err := tx.Model(&existing).Updates(map[string]interface{}{
			"title":       post.Title,
			"description": post.Description,
			"difficulty":  string(post.Difficulty),
			"image_url":   post.ImageURL,
			"image_key":   post.ImageKey,
		}).Error; err != nil {
			return err
		}

		ingredients, err := resolveIngredients(tx, post.Ingredients)
		if err != nil {
			return err
		}
		if err := tx.Model(&existing).Association("Ingredients").Replace(ingredients); err != nil {
			return err
		}

		var reloaded models.Post
		if err := preloadIngredients(tx).Where("id = ?", post.ID).First(&reloaded).Error; err != nil {
			return err
		}
		*post = *ToPostEntity(&reloaded)
		return nil
	})
}

// Delete removes the post with its comments, likes, rates and ingredient links.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.Comment{}, &models.Like{}, &models.Rate{}} {
			if err := tx.Where("post_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM post_ingredients WHERE post_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("post")
		}
		return nil
	})
}

// Publish stamps published_at and hands the post to userID. Concurrent
// publishes are last-write-wins.
func (r *postRepository) Publish(ctx context.Context, postID, userID string, now time.Time) (*entity.Post, error) {
	var post *entity.Post

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userCount int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&userCount).Error; err != nil {
			return err
		}
		if userCount == 0 {
			return apperror.NotFound("user")
		}

		var postModel models.Post
		if err := tx.Where("id = ?", postID).First(&postModel).Error; err != nil {
			return apperror.FromGorm(err, "post")
		}

		postModel.Publish(userID, now.UTC())
		if err := tx.Model(&postModel).Select("published_at", "author_id").Updates(&postModel).Error; err != nil {
			return err
		}

		var reloaded models.Post
		if err := preloadIngredients(tx).Where("id = ?", postID).First(&reloaded).Error; err != nil {
			return err
		}
		post = ToPostEntity(&reloaded)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) ListPublished(ctx context.Context, now time.Time) ([]*entity.Post, error) {
	var postModels []models.Post
	query := published(preloadIngredients(r.db.WithContext(ctx)), now).Order("posts.created_at ASC")
	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}
	return ToPostEntities(postModels), nil
}

func (r *postRepository) ListDrafts(ctx context.Context, authorID string) ([]*entity.Post, error) {
	var postModels []models.Post
	query := preloadIngredients(r.db.WithContext(ctx)).
		Where("posts.published_at IS NULL AND posts.author_id = ?", authorID).
		Order("posts.created_at ASC")
	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}
	return ToPostEntities(postModels), nil
}

func (r *postRepository) SearchByIngredient(ctx context.Context, term string, now time.Time) ([]*entity.Post, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*entity.Post{}, nil
	}

	var postModels []models.Post
	query := published(preloadIngredients(r.db.WithContext(ctx)), now).
		Where(ingredientMatchSQL, likePattern(term)).
		Order("posts.created_at ASC")
	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}
	return ToPostEntities(postModels), nil
}

// Search matches every whitespace separated term against title, description
// and ingredient names. A post matching several terms is returned once.
func (r *postRepository) Search(ctx context.Context, query string, now time.Time) ([]*entity.Post, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return []*entity.Post{}, nil
	}

	conditions := make([]string, len(terms))
	args := make([]interface{}, 0, len(terms)*3)
	for i, term := range terms {
		pattern := likePattern(term)
		conditions[i] = textMatchSQL
		args = append(args, pattern, pattern, pattern)
	}

	var postModels []models.Post
	q := published(preloadIngredients(r.db.WithContext(ctx)), now).
		Where("("+strings.Join(conditions, " OR ")+")", args...).
		Order("posts.created_at ASC")
	if err := q.Find(&postModels).Error; err != nil {
		return nil, err
	}
	return ToPostEntities(postModels), nil
}

func (r *postRepository) TopIngredients(ctx context.Context, limit int) ([]entity.IngredientUsage, error) {
	usages := []entity.IngredientUsage{}
	err := r.db.WithContext(ctx).
		Table("ingredients").
		Select("ingredients.name AS name, COUNT(post_ingredients.post_id) AS total").
		Joins("JOIN post_ingredients ON post_ingredients.ingredient_id = ingredients.id").
		Group("ingredients.id, ingredients.name").
		Order("total DESC, ingredients.name ASC").
		Limit(limit).
		Scan(&usages).Error
	if err != nil {
		return nil, err
	}
	return usages, nil
}

func (r *postRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error
	return count > 0, err
}
