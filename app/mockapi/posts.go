package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"vacationblog/app/fixtures"
	"vacationblog/app/models"
)

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.Posts()
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	results, count := fixtures.FilterPosts(posts, fixtures.Filter{
		Title:         q.Get("title"),
		Slug:          q.Get("slug"),
		Category:      q.Get("category"),
		PublishedOnly: q.Get("published") == "true",
		Page:          page,
		Limit:         limit,
	})

	s.sendJSON(w, http.StatusOK, models.PostPage{Results: results, Count: count})
}

func (s *Server) showPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := s.store.PostByID(id)
	if err != nil {
		s.postError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, post)
}

func (s *Server) showPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := s.store.PostBySlug(mux.Vars(r)["slug"])
	if err != nil {
		s.postError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, post)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var post models.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	if err := s.store.AddPost(&post); err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.sendJSON(w, http.StatusCreated, post)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var post models.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	post.ID = id

	if err := s.store.UpdatePost(&post); err != nil {
		s.postError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, post)
}

// patchPost applies a partial update. Only the fields present in the body
// change; everything else keeps its stored value.
func (s *Server) patchPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := s.store.PostByID(id)
	if err != nil {
		s.postError(w, err)
		return
	}

	var patch struct {
		Title         *string `json:"title"`
		Content       *string `json:"content"`
		Excerpt       *string `json:"excerpt"`
		Category      *string `json:"category"`
		Author        *string `json:"author"`
		FeaturedImage *string `json:"featured_image_url"`
		Published     *bool   `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	if patch.Title != nil {
		post.Title = *patch.Title
	}
	if patch.Content != nil {
		post.Content = *patch.Content
	}
	if patch.Excerpt != nil {
		post.Excerpt = *patch.Excerpt
	}
	if patch.Category != nil {
		post.Category = *patch.Category
	}
	if patch.Author != nil {
		post.Author = *patch.Author
	}
	if patch.FeaturedImage != nil {
		post.FeaturedImage = *patch.FeaturedImage
	}
	if patch.Published != nil {
		post.Published = *patch.Published
	}

	if err := s.store.UpdatePost(post); err != nil {
		s.postError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, post)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := s.store.DeletePost(id); err != nil {
		s.postError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) postError(w http.ResponseWriter, err error) {
	if errors.Is(err, fixtures.ErrNotFound) {
		s.sendError(w, http.StatusNotFound, "post not found")
		return
	}
	s.sendError(w, http.StatusInternalServerError, err.Error())
}
