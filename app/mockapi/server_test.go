package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vacationblog/app/fixtures"
	"vacationblog/app/models"
)

func newTestServer(t *testing.T) (*Server, fixtures.Store) {
	t.Helper()
	store := fixtures.NewSeededStore()
	return New(store, nil), store
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestPostRoutes(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("GET /api/posts/ returns the envelope", func(t *testing.T) {
		w := doRequest(t, s, "GET", "/api/posts/", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var page models.PostPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Equal(t, 6, page.Count)
		require.Len(t, page.Results, 6)
	})

	t.Run("GET /api/posts/ applies title filter and pagination", func(t *testing.T) {
		w := doRequest(t, s, "GET", "/api/posts/?title=driver&page=1&limit=2", "")
		require.Equal(t, http.StatusOK, w.Code)

		var page models.PostPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Len(t, page.Results, 2)
		require.Greater(t, page.Count, 2, "count is total matches, not page size")
	})

	t.Run("GET /api/posts/{id}/ returns one post", func(t *testing.T) {
		w := doRequest(t, s, "GET", "/api/posts/1/", "")
		require.Equal(t, http.StatusOK, w.Code)

		var post models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
		require.Equal(t, "safety-first", post.Slug)
	})

	t.Run("GET /api/posts/{slug}/ routes slugs to the slug handler", func(t *testing.T) {
		w := doRequest(t, s, "GET", "/api/posts/safety-first/", "")
		require.Equal(t, http.StatusOK, w.Code)

		var post models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
		require.Equal(t, 1, post.ID)
	})

	t.Run("GET /api/posts/by-slug/{slug}/ serves the legacy shape", func(t *testing.T) {
		w := doRequest(t, s, "GET", "/api/posts/by-slug/safety-first/", "")
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown slug is a 404 with a detail body", func(t *testing.T) {
		w := doRequest(t, s, "GET", "/api/posts/does-not-exist/", "")
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Contains(t, w.Body.String(), "detail")
	})

	t.Run("POST then DELETE round trip", func(t *testing.T) {
		body := `{"slug":"new-post","title":"New Post","content":"<p>hello</p>","published":true}`
		w := doRequest(t, s, "POST", "/api/posts/", body)
		require.Equal(t, http.StatusCreated, w.Code)

		var created models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		require.Greater(t, created.ID, 6)

		w = doRequest(t, s, "DELETE", "/api/posts/7/", "")
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(t, s, "GET", "/api/posts/7/", "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("PATCH changes only the sent fields", func(t *testing.T) {
		w := doRequest(t, s, "PATCH", "/api/posts/2/", `{"published":false}`)
		require.Equal(t, http.StatusOK, w.Code)

		var patched models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
		require.False(t, patched.Published)
		require.NotEmpty(t, patched.Title, "unsent fields keep their values")
	})
}

func TestCommentRoutes(t *testing.T) {
	s, store := newTestServer(t)

	t.Run("GET /api/comments/ filters by post and moderation", func(t *testing.T) {
		w := doRequest(t, s, "GET", "/api/comments/?post=1&approved=true&is_trash=false", "")
		require.Equal(t, http.StatusOK, w.Code)

		var page models.CommentPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Equal(t, 2, page.Count)
	})

	t.Run("legacy path shapes serve the moderated view", func(t *testing.T) {
		for _, path := range []string{"/api/comments/post/1/", "/api/comments/by-post/1/"} {
			w := doRequest(t, s, "GET", path, "")
			require.Equal(t, http.StatusOK, w.Code, path)

			var page models.CommentPage
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
			require.Equal(t, 2, page.Count, path)
		}
	})

	t.Run("POST /api/comments/ stores the comment unapproved", func(t *testing.T) {
		body := `{"post":1,"name":"Jane Doe","email":"jane@example.com","content":"nice"}`
		w := doRequest(t, s, "POST", "/api/comments/", body)
		require.Equal(t, http.StatusCreated, w.Code)

		var created models.Comment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		require.False(t, created.Approved)

		listed := doRequest(t, s, "GET", "/api/comments/post/1/", "")
		var page models.CommentPage
		require.NoError(t, json.Unmarshal(listed.Body.Bytes(), &page))
		require.Equal(t, 2, page.Count, "pending comments stay out of listings")
	})

	t.Run("invalid submission is a 400", func(t *testing.T) {
		w := doRequest(t, s, "POST", "/api/comments/", `{"post":1,"name":"J","email":"not-an-email","content":""}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("submission for a missing post is a 400", func(t *testing.T) {
		body := `{"post":9999,"name":"Jane Doe","email":"jane@example.com","content":"hello"}`
		w := doRequest(t, s, "POST", "/api/comments/", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("moderation approves a pending comment", func(t *testing.T) {
		comment := &models.Comment{PostID: 2, Name: "Pending", Email: "p@example.com", Content: "waiting"}
		require.NoError(t, store.AddComment(comment))

		w := doRequest(t, s, "POST", "/api/comments/approve/"+strconv.Itoa(comment.ID)+"/", "")
		require.Equal(t, http.StatusOK, w.Code)

		var updated models.Comment
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		require.True(t, updated.Approved)
	})

	t.Run("moderation delete removes the comment", func(t *testing.T) {
		comment := &models.Comment{PostID: 2, Name: "Doomed", Email: "d@example.com", Content: "bye"}
		require.NoError(t, store.AddComment(comment))

		w := doRequest(t, s, "POST", "/api/comments/delete/"+strconv.Itoa(comment.ID)+"/", "")
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(t, s, "POST", "/api/comments/approve/"+strconv.Itoa(comment.ID)+"/", "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /api/comments/counts/ keys by post id string", func(t *testing.T) {
		w := doRequest(t, s, "GET", "/api/comments/counts/", "")
		require.Equal(t, http.StatusOK, w.Code)

		var counts map[string]int
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
		require.Equal(t, 2, counts["1"])
		require.Contains(t, counts, "3")
	})

	t.Run("GET /api/comments/check-approved/{id}/", func(t *testing.T) {
		w := doRequest(t, s, "GET", "/api/comments/check-approved/1/", "")
		require.Equal(t, http.StatusOK, w.Code)

		var page models.CommentPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Equal(t, 2, page.Count)
	})
}

func TestAuthRoutes(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("login issues tokens", func(t *testing.T) {
		w := doRequest(t, s, "POST", "/api/auth/login/", `{"username":"admin","password":"pw"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var tokens map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
		require.NotEmpty(t, tokens["access"])
		require.NotEmpty(t, tokens["refresh"])
	})

	t.Run("login without a password is a 400", func(t *testing.T) {
		w := doRequest(t, s, "POST", "/api/auth/login/", `{"username":"admin"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("profile requires a bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/profile/", nil)
		w := httptest.NewRecorder()
		s.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)

		req = httptest.NewRequest("GET", "/api/profile/", nil)
		req.Header.Set("Authorization", "Bearer anything")
		w = httptest.NewRecorder()
		s.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	})
}

