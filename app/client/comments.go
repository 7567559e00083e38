package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"vacationblog/app/fixtures"
	"vacationblog/app/models"
)

// commentEndpoint describes one shape of the comment-listing endpoint.
type commentEndpoint struct {
	path  string // format string taking the post id
	query func(postID int) url.Values
}

// Comment-listing shapes, tried in order until one succeeds. The query-param
// form is the current backend; the path forms cover older deployments.
// Which shape succeeded is not remembered between calls, matching the
// backend contract rather than optimizing for it.
var defaultCommentEndpoints = []commentEndpoint{
	{
		path: "/comments/",
		query: func(postID int) url.Values {
			q := url.Values{}
			q.Set("post", strconv.Itoa(postID))
			q.Set("approved", "true")
			q.Set("is_trash", "false")
			return q
		},
	},
	{path: "/comments/post/%d/"},
	{path: "/comments/by-post/%d/"},
}

// Moderation actions the backend accepts.
var moderationActions = map[string]bool{
	"approve":   true,
	"unapprove": true,
	"trash":     true,
	"restore":   true,
	"delete":    true,
}

// CommentResult is a single comment plus the degraded-mode tag.
type CommentResult struct {
	Comment  models.Comment
	Degraded bool
}

// ListComments fetches the approved, non-trashed comments for a post. The
// server applies the moderation filter; the client does not double-filter a
// real response. With no backend reachable the fixture set answers, with
// the same filter applied.
func (c *Client) ListComments(ctx context.Context, postID int) (*models.CommentPage, error) {
	var lastErr error
	for _, shape := range c.commentEndpoints {
		req := request{method: http.MethodGet}
		if shape.query != nil {
			req.path = shape.path
			req.query = shape.query(postID)
		} else {
			req.path = fmt.Sprintf(shape.path, postID)
		}

		resp, err := c.do(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = responseError(resp)
			resp.Body.Close()
			continue
		}

		page, err := decodeCommentPage(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		return page, nil
	}

	if isNetwork(lastErr) {
		return c.degradedListComments(postID, lastErr)
	}
	return nil, lastErr
}

// SubmitComment validates and posts a new comment. Validation happens
// before any network call or fixture mutation. With no backend reachable
// the comment is appended to the fixture set for the rest of the session
// and returned as pending.
func (c *Client) SubmitComment(ctx context.Context, sub models.CommentSubmission) (*CommentResult, error) {
	if err := sub.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode comment: %w", err)
	}

	req := request{method: http.MethodPost, path: "/comments/", body: body}
	resp, err := c.do(ctx, req)
	if err != nil {
		if isNetwork(err) {
			return c.degradedSubmitComment(sub, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, &ValidationError{Detail: readDetail(resp.Body)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}

	var created models.Comment
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode comment: %w", err)
	}
	return &CommentResult{Comment: created}, nil
}

// CheckApproved asks the backend whether a post has approved comments and
// returns them.
func (c *Client) CheckApproved(ctx context.Context, postID int) (*models.CommentPage, error) {
	req := request{method: http.MethodGet, path: fmt.Sprintf("/comments/check-approved/%d/", postID)}
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}
	return decodeCommentPage(resp.Body)
}

// CommentCounts fetches per-post comment counts, keyed by post id.
func (c *Client) CommentCounts(ctx context.Context) (map[string]int, error) {
	var counts map[string]int
	req := request{method: http.MethodGet, path: "/comments/counts/"}
	if err := c.getJSON(ctx, req, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// ModerateComment fires a moderation action (approve, unapprove, trash,
// restore, delete) for a comment. Failures always surface to the caller.
func (c *Client) ModerateComment(ctx context.Context, action string, commentID int) error {
	if !moderationActions[action] {
		return &ValidationError{Detail: fmt.Sprintf("unknown moderation action %q", action)}
	}

	req := request{method: http.MethodPost, path: fmt.Sprintf("/comments/%s/%d/", action, commentID)}
	return c.getJSON(ctx, req, nil)
}

// decodeCommentPage accepts both the results/count envelope and a bare
// array.
func decodeCommentPage(r io.Reader) (*models.CommentPage, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode comment list: %w", err)
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var comments []models.Comment
		if err := json.Unmarshal(trimmed, &comments); err != nil {
			return nil, fmt.Errorf("unexpected comment list shape: %w", err)
		}
		return &models.CommentPage{Results: comments, Count: len(comments)}, nil
	}

	var page models.CommentPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("unexpected comment list shape: %w", err)
	}
	if page.Results == nil {
		page.Results = []models.Comment{}
	}
	return &page, nil
}

// readDetail pulls the detail message out of an error response body, if the
// backend sent one.
func readDetail(r io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}

func (c *Client) degradedListComments(postID int, cause error) (*models.CommentPage, error) {
	comments, err := c.fixtures.Comments(postID)
	if err != nil {
		return nil, cause
	}

	visible := fixtures.VisibleComments(comments)
	c.log.Info().Int("post_id", postID).Int("count", len(visible)).Msg("serving comments from fixtures")
	return &models.CommentPage{Results: visible, Count: len(visible), Degraded: true}, nil
}

func (c *Client) degradedSubmitComment(sub models.CommentSubmission, cause error) (*CommentResult, error) {
	comment := sub.Comment()
	if err := c.fixtures.AddComment(comment); err != nil {
		return nil, cause
	}

	c.log.Info().Int("post_id", sub.PostID).Int("id", comment.ID).Msg("comment kept locally, backend unreachable")
	return &CommentResult{Comment: *comment, Degraded: true}, nil
}
