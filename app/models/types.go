package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Post represents a blog article. Slug is the stable external identifier
// used in URLs; the numeric ID is used for relational lookups (comments
// reference posts by ID). Content carries trusted HTML from the backend.
type Post struct {
	ID            int       `json:"id" validate:"gte=0"`
	Slug          string    `json:"slug" validate:"required"`
	Title         string    `json:"title" validate:"required,min=3,max=200"`
	Content       string    `json:"content" validate:"required"`
	Excerpt       string    `json:"excerpt,omitempty"`
	Category      string    `json:"category,omitempty"`
	Author        string    `json:"author,omitempty"`
	AuthorAvatar  string    `json:"author_avatar,omitempty"`
	FeaturedImage string    `json:"featured_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	Published     bool      `json:"published"`
}

// Comment represents a reader comment on a Post, subject to moderation.
// ParentID is non-nil for threaded replies.
type Comment struct {
	ID        int       `json:"id" validate:"gte=0"`
	PostID    int       `json:"post" validate:"required,gt=0"`
	ParentID  *int      `json:"parent,omitempty"`
	Name      string    `json:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" validate:"required,email"`
	Content   string    `json:"content" validate:"required,min=1,max=1000"`
	Approved  bool      `json:"approved"`
	Trashed   bool      `json:"is_trash"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentSubmission is the input for creating a comment. It is validated
// locally before any network call or fixture mutation happens.
type CommentSubmission struct {
	PostID   int    `json:"post" validate:"required,gt=0"`
	ParentID *int   `json:"parent,omitempty" validate:"omitempty,gt=0"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Content  string `json:"content" validate:"required,min=1,max=1000"`
}

// PostPage is the paginated list envelope the backend uses for posts.
// Degraded is set when the results were synthesized from local fixtures
// because no backend was reachable; it never appears on the wire.
type PostPage struct {
	Results  []Post `json:"results"`
	Count    int    `json:"count"`
	Degraded bool   `json:"-"`
}

// CommentPage is the paginated list envelope for comments.
type CommentPage struct {
	Results  []Comment `json:"results"`
	Count    int       `json:"count"`
	Degraded bool      `json:"-"`
}

// Moderation states a comment moves through.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusTrash    = "trash"
)
