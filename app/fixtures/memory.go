package fixtures

import (
	"fmt"
	"sync"

	"vacationblog/app/models"
)

// MemoryStore keeps the fixture set in process memory. Mutations survive for
// the lifetime of the process and are lost on restart, which is the point:
// the store papers over backend outages, it is not a database.
type MemoryStore struct {
	mu            sync.RWMutex
	posts         map[int]models.Post
	comments      map[int]models.Comment
	nextPostID    int
	nextCommentID int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:         make(map[int]models.Post),
		comments:      make(map[int]models.Comment),
		nextPostID:    1,
		nextCommentID: 1,
	}
}

// NewSeededStore returns an in-memory store pre-populated with the built-in
// article and comment set.
func NewSeededStore() *MemoryStore {
	s := NewMemoryStore()
	for _, p := range SeedPosts() {
		post := p
		s.posts[post.ID] = post
		if post.ID >= s.nextPostID {
			s.nextPostID = post.ID + 1
		}
	}
	for _, c := range SeedComments() {
		comment := c
		s.comments[comment.ID] = comment
		if comment.ID >= s.nextCommentID {
			s.nextCommentID = comment.ID + 1
		}
	}
	return s
}

// Posts returns all posts in the store.
func (s *MemoryStore) Posts() ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, p)
	}
	return posts, nil
}

// PostBySlug returns the post with the given slug or ErrNotFound.
func (s *MemoryStore) PostBySlug(slug string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.Slug == slug {
			post := p
			return &post, nil
		}
	}
	return nil, ErrNotFound
}

// PostByID returns the post with the given id or ErrNotFound.
func (s *MemoryStore) PostByID(id int) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	post := p
	return &post, nil
}

// AddPost validates and stores a post, assigning an id when none is set.
func (s *MemoryStore) AddPost(post *models.Post) error {
	if post == nil {
		return fmt.Errorf("post cannot be nil")
	}
	post.BeforeCreate()

	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == 0 {
		post.ID = s.nextPostID
	}
	if err := post.Validate(); err != nil {
		return err
	}
	if post.ID >= s.nextPostID {
		s.nextPostID = post.ID + 1
	}
	s.posts[post.ID] = *post
	return nil
}

// UpdatePost replaces an existing post.
func (s *MemoryStore) UpdatePost(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; !ok {
		return ErrNotFound
	}
	s.posts[post.ID] = *post
	return nil
}

// DeletePost removes a post and its comments.
func (s *MemoryStore) DeletePost(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

// Comments returns all comments for a post, regardless of moderation state.
func (s *MemoryStore) Comments(postID int) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

// CommentByID returns the comment with the given id or ErrNotFound.
func (s *MemoryStore) CommentByID(id int) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	comment := c
	return &comment, nil
}

// AddComment validates and appends a comment, assigning an id when none is
// set. Malformed comments are rejected before the store is touched.
func (s *MemoryStore) AddComment(comment *models.Comment) error {
	if comment == nil {
		return fmt.Errorf("comment cannot be nil")
	}
	comment.BeforeCreate()

	s.mu.Lock()
	defer s.mu.Unlock()

	if comment.ID == 0 {
		comment.ID = s.nextCommentID
	}
	if err := comment.Validate(); err != nil {
		return err
	}
	if comment.ID >= s.nextCommentID {
		s.nextCommentID = comment.ID + 1
	}
	s.comments[comment.ID] = *comment
	return nil
}

// UpdateComment replaces an existing comment.
func (s *MemoryStore) UpdateComment(comment *models.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[comment.ID]; !ok {
		return ErrNotFound
	}
	s.comments[comment.ID] = *comment
	return nil
}

// DeleteComment removes a comment.
func (s *MemoryStore) DeleteComment(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return ErrNotFound
	}
	delete(s.comments, id)
	return nil
}
