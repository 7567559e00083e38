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

// listComments handles the query-param listing shape. Without a post filter
// it returns every comment; moderation filters apply when requested, which
// is how the public pages call it.
func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var comments []models.Comment
	if raw := q.Get("post"); raw != "" {
		postID, err := strconv.Atoi(raw)
		if err != nil {
			s.sendError(w, http.StatusBadRequest, "invalid post filter")
			return
		}
		found, err := s.store.Comments(postID)
		if err != nil {
			s.sendError(w, http.StatusInternalServerError, err.Error())
			return
		}
		comments = found
	} else {
		all, err := s.allComments()
		if err != nil {
			s.sendError(w, http.StatusInternalServerError, err.Error())
			return
		}
		comments = all
	}

	filtered := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if q.Get("approved") == "true" && !c.Approved {
			continue
		}
		if q.Get("is_trash") == "false" && c.Trashed {
			continue
		}
		filtered = append(filtered, c)
	}

	s.sendJSON(w, http.StatusOK, models.CommentPage{Results: filtered, Count: len(filtered)})
}

// commentsForPost handles the legacy path-param shapes. These always serve
// the moderated view.
func (s *Server) commentsForPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	comments, err := s.store.Comments(id)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	visible := fixtures.VisibleComments(comments)
	s.sendJSON(w, http.StatusOK, models.CommentPage{Results: visible, Count: len(visible)})
}

// createComment accepts a submission and stores it unapproved, the way the
// backend holds new comments for moderation.
func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var sub models.CommentSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if err := sub.Validate(); err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.store.PostByID(sub.PostID); err != nil {
		if errors.Is(err, fixtures.ErrNotFound) {
			s.sendError(w, http.StatusBadRequest, "post does not exist")
			return
		}
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	comment := sub.Comment()
	if err := s.store.AddComment(comment); err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.sendJSON(w, http.StatusCreated, comment)
}

func (s *Server) checkApproved(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	comments, err := s.store.Comments(id)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	visible := fixtures.VisibleComments(comments)
	s.sendJSON(w, http.StatusOK, models.CommentPage{Results: visible, Count: len(visible)})
}

// commentCounts returns visible-comment counts keyed by post id. Keys are
// strings because that is what the backend serializes.
func (s *Server) commentCounts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.Posts()
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	counts := make(map[string]int, len(posts))
	for _, post := range posts {
		comments, err := s.store.Comments(post.ID)
		if err != nil {
			s.sendError(w, http.StatusInternalServerError, err.Error())
			return
		}
		counts[strconv.Itoa(post.ID)] = len(fixtures.VisibleComments(comments))
	}
	s.sendJSON(w, http.StatusOK, counts)
}

func (s *Server) moderateComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid comment id")
		return
	}
	action := vars["action"]

	if action == "delete" {
		if err := s.store.DeleteComment(id); err != nil {
			s.commentError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	comment, err := s.store.CommentByID(id)
	if err != nil {
		s.commentError(w, err)
		return
	}

	switch action {
	case "approve":
		comment.Approved = true
	case "unapprove":
		comment.Approved = false
	case "trash":
		comment.Trashed = true
	case "restore":
		comment.Trashed = false
	}

	if err := s.store.UpdateComment(comment); err != nil {
		s.commentError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, comment)
}

// allComments walks every post's comments. The store keys comments by post,
// so the unfiltered listing has to aggregate.
func (s *Server) allComments() ([]models.Comment, error) {
	posts, err := s.store.Posts()
	if err != nil {
		return nil, err
	}

	var all []models.Comment
	for _, post := range posts {
		comments, err := s.store.Comments(post.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, comments...)
	}
	return all, nil
}

func (s *Server) commentError(w http.ResponseWriter, err error) {
	if errors.Is(err, fixtures.ErrNotFound) {
		s.sendError(w, http.StatusNotFound, "comment not found")
		return
	}
	s.sendError(w, http.StatusInternalServerError, err.Error())
}
