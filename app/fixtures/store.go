// Package fixtures holds the degraded-mode dataset: a small set of blog
// posts and comments the client answers from when no backend is reachable,
// behind a store interface the mock API server shares.
package fixtures

import (
	"errors"
	"sort"
	"strings"

	"vacationblog/app/models"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Store is the data access interface for the fixture set. MemoryStore keeps
// it in process; BadgerStore persists it on disk for the mock server.
type Store interface {
	Posts() ([]models.Post, error)
	PostBySlug(slug string) (*models.Post, error)
	PostByID(id int) (*models.Post, error)
	AddPost(post *models.Post) error
	UpdatePost(post *models.Post) error
	DeletePost(id int) error

	Comments(postID int) ([]models.Comment, error)
	CommentByID(id int) (*models.Comment, error)
	AddComment(comment *models.Comment) error
	UpdateComment(comment *models.Comment) error
	DeleteComment(id int) error
}

// Filter holds the list-posts predicates the backend applies server-side.
// The degraded fallback applies the same predicates to the fixture set so
// a synthesized response matches the request shape.
type Filter struct {
	Title         string
	Slug          string
	Category      string
	PublishedOnly bool
	Page          int
	Limit         int
}

// FilterPosts applies f to posts and returns the requested page along with
// the total number of matches, newest first.
func FilterPosts(posts []models.Post, f Filter) ([]models.Post, int) {
	matched := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if f.Title != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Title)) {
			continue
		}
		if f.Slug != "" && p.Slug != f.Slug {
			continue
		}
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.PublishedOnly && !p.Published {
			continue
		}
		matched = append(matched, p)
	}

	// Ties broken by id so the order is stable across calls even when the
	// backing store iterates in map order.
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	count := len(matched)

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit <= 0 {
		return matched, count
	}
	offset := (page - 1) * limit
	if offset >= count {
		return []models.Post{}, count
	}
	end := offset + limit
	if end > count {
		end = count
	}
	return matched[offset:end], count
}

// VisibleComments returns the approved, non-trashed comments from the given
// set, oldest first, matching what the backend's comment listing serves.
func VisibleComments(comments []models.Comment) []models.Comment {
	visible := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Approved && !c.Trashed {
			visible = append(visible, c)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		if !visible[i].CreatedAt.Equal(visible[j].CreatedAt) {
			return visible[i].CreatedAt.Before(visible[j].CreatedAt)
		}
		return visible[i].ID < visible[j].ID
	})
	return visible
}
