package models

import (
	"errors"
	"time"
)

// Validate checks if the comment meets all validation requirements
func (c *Comment) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.CreatedAt.IsZero() {
		return errors.New("created_at cannot be zero")
	}

	return nil
}

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
}

// Status reports the comment's moderation state.
func (c *Comment) Status() string {
	switch {
	case c.Trashed:
		return StatusTrash
	case c.Approved:
		return StatusApproved
	default:
		return StatusPending
	}
}

// Validate checks a comment submission before it is sent anywhere.
func (s *CommentSubmission) Validate() error {
	return validate.Struct(s)
}

// Comment builds the provisional, pending-moderation comment a submission
// turns into.
func (s *CommentSubmission) Comment() *Comment {
	return &Comment{
		PostID:    s.PostID,
		ParentID:  s.ParentID,
		Name:      s.Name,
		Email:     s.Email,
		Content:   s.Content,
		Approved:  false,
		Trashed:   false,
		CreatedAt: time.Now(),
	}
}
