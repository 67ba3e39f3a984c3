package entity

import "time"

// Comment is a comment as seen by moderators, with the title of its post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	PostTitle string    `json:"post_title"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

type Stats struct {
	PendingComments int64 `json:"pending_comments"`
	// QueuedEvents is -1 when the queue is unavailable.
	QueuedEvents int `json:"queued_events"`
}
