package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacationblog/app/models"
)

func TestMemoryStorePostLookups(t *testing.T) {
	store := NewSeededStore()

	post, err := store.PostBySlug("safety-first")
	require.NoError(t, err)
	assert.Equal(t, "safety-first", post.Slug)

	_, err = store.PostBySlug("does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)

	byID, err := store.PostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.Slug, byID.Slug)

	_, err = store.PostByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreAddComment(t *testing.T) {
	store := NewSeededStore()

	before, err := store.Comments(1)
	require.NoError(t, err)

	comment := &models.Comment{
		PostID:  1,
		Name:    "New Reader",
		Email:   "reader@example.com",
		Content: "Great write-up.",
	}
	submittedAt := time.Now()
	require.NoError(t, store.AddComment(comment))

	// Id synthesized, timestamp no earlier than submission, size grew by one.
	assert.Greater(t, comment.ID, 0)
	assert.False(t, comment.CreatedAt.Before(submittedAt))
	assert.Equal(t, models.StatusPending, comment.Status())

	after, err := store.Comments(1)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
}

func TestMemoryStoreRejectsMalformedComment(t *testing.T) {
	store := NewSeededStore()

	before, err := store.Comments(1)
	require.NoError(t, err)

	err = store.AddComment(&models.Comment{
		PostID: 1,
		Name:   "No Content",
		Email:  "x@example.com",
	})
	assert.Error(t, err)

	// No mutation happened.
	after, err := store.Comments(1)
	require.NoError(t, err)
	assert.Len(t, after, len(before))

	assert.Error(t, store.AddComment(nil))
}

func TestMemoryStoreCommentIDsDoNotCollide(t *testing.T) {
	store := NewSeededStore()

	first := &models.Comment{PostID: 1, Name: "A B", Email: "a@example.com", Content: "one"}
	second := &models.Comment{PostID: 1, Name: "C D", Email: "c@example.com", Content: "two"}
	require.NoError(t, store.AddComment(first))
	require.NoError(t, store.AddComment(second))

	assert.NotEqual(t, first.ID, second.ID)
	for _, seeded := range SeedComments() {
		assert.NotEqual(t, seeded.ID, first.ID)
		assert.NotEqual(t, seeded.ID, second.ID)
	}
}

func TestMemoryStorePostCRUD(t *testing.T) {
	store := NewMemoryStore()

	post := &models.Post{
		Slug:    "new-post",
		Title:   "A Brand New Post",
		Content: "<p>hello</p>",
	}
	require.NoError(t, store.AddPost(post))
	assert.Equal(t, 1, post.ID)

	post.Title = "A Renamed Post"
	require.NoError(t, store.UpdatePost(post))

	got, err := store.PostByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "A Renamed Post", got.Title)

	require.NoError(t, store.DeletePost(post.ID))
	_, err = store.PostByID(post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeletePost(post.ID), ErrNotFound)
}

func TestMemoryStoreDeletePostRemovesComments(t *testing.T) {
	store := NewSeededStore()

	require.NoError(t, store.DeletePost(1))

	comments, err := store.Comments(1)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
