package persistent

import (
	"recipe-blog/pkg/models"
	"recipe-blog/services/recipe/internal/entity"
)

func ToPostEntity(m *models.Post) *entity.Post {
	if m == nil {
		return nil
	}

	post := &entity.Post{
		ID:              m.ID,
		AuthorID:        m.AuthorID,
		Title:           m.Title,
		ImageURL:        m.ImageURL,
		ImageKey:        m.ImageKey,
		Description:     m.Description,
		Difficulty:      entity.Difficulty(m.Difficulty),
		DifficultyLabel: m.Difficulty.Label(),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		PublishedAt:     m.PublishedAt,
		Ingredients:     make([]string, len(m.Ingredients)),
	}

	for i, ing := range m.Ingredients {
		post.Ingredients[i] = ing.Name
	}

	return post
}

func ToPostEntities(ms []models.Post) []*entity.Post {
	posts := make([]*entity.Post, len(ms))
	for i := range ms {
		posts[i] = ToPostEntity(&ms[i])
	}
	return posts
}

// ToPostModel maps the scalar columns only; ingredients are resolved by the
// repository because they need ids.
func ToPostModel(e *entity.Post) *models.Post {
	if e == nil {
		return nil
	}

	return &models.Post{
		ID:          e.ID,
		AuthorID:    e.AuthorID,
		Title:       e.Title,
		ImageURL:    e.ImageURL,
		ImageKey:    e.ImageKey,
		Description: e.Description,
		Difficulty:  models.Difficulty(e.Difficulty),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		PublishedAt: e.PublishedAt,
	}
}

func ToCommentEntity(m *models.Comment) *entity.Comment {
	if m == nil {
		return nil
	}

	return &entity.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		Author:    m.Author,
		Text:      m.Text,
		Approved:  m.Approved,
		CreatedAt: m.CreatedAt,
	}
}

func ToCommentModel(e *entity.Comment) *models.Comment {
	if e == nil {
		return nil
	}

	return &models.Comment{
		ID:        e.ID,
		PostID:    e.PostID,
		Author:    e.Author,
		Text:      e.Text,
		Approved:  e.Approved,
		CreatedAt: e.CreatedAt,
	}
}
