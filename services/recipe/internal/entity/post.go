package entity

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "E"
	DifficultyMedium Difficulty = "M"
	DifficultyHard   Difficulty = "H"
)

type Post struct {
	ID              string     `json:"id"`
	AuthorID        string     `json:"author_id"`
	Title           string     `json:"title"`
	ImageURL        string     `json:"image_url,omitempty"`
	ImageKey        string     `json:"-"`
	Description     string     `json:"description"`
	Difficulty      Difficulty `json:"difficulty"`
	DifficultyLabel string     `json:"difficulty_label"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	PublishedAt     *time.Time `json:"published_at"`
	Ingredients     []string   `json:"ingredients"`
}

// IsPublished reports whether the post is public at now.
func (p *Post) IsPublished(now time.Time) bool {
	return p.PublishedAt != nil && !p.PublishedAt.After(now)
}

// PostDetail is a post with the aggregates shown on its page.
type PostDetail struct {
	Post
	LikeCount     int64      `json:"like_count"`
	RateAverage   float64    `json:"rate_average"`
	IsLiked       bool       `json:"is_liked"`
	UserRating    int        `json:"user_rating,omitempty"`
	Comments      []*Comment `json:"comments"`
	IsDraft       bool       `json:"is_draft"`
	CanEdit       bool       `json:"can_edit"`
}

type IngredientUsage struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

// RatingSummary is returned after a rating so clients can refresh the score.
type RatingSummary struct {
	PostID  string  `json:"post_id"`
	Point   int     `json:"point"`
	Average float64 `json:"average"`
}

type LikeSummary struct {
	PostID    string `json:"post_id"`
	Liked     bool   `json:"liked"`
	Created   bool   `json:"created"`
	LikeCount int64  `json:"like_count"`
}
