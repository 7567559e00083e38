package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"vacationblog/app/fixtures"
	"vacationblog/app/models"
)

// Single-post lookup shapes, tried in order. The second form exists for
// backend versions that route slugs under /posts/by-slug/.
var defaultSlugEndpoints = []string{
	"/posts/%s/",
	"/posts/by-slug/%s/",
}

// ListOptions are the server-side filters for listing posts.
type ListOptions struct {
	Title         string
	Slug          string
	Category      string
	Page          int
	Limit         int
	PublishedOnly bool
}

// PostResult is a single post plus the degraded-mode tag.
type PostResult struct {
	Post     models.Post
	Degraded bool
}

// ListPosts fetches a page of posts. When no backend is reachable the same
// filters are applied to the fixture set and the page is tagged Degraded.
func (c *Client) ListPosts(ctx context.Context, opts ListOptions) (*models.PostPage, error) {
	q := url.Values{}
	if opts.Title != "" {
		q.Set("title", opts.Title)
	}
	if opts.Slug != "" {
		q.Set("slug", opts.Slug)
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.PublishedOnly {
		q.Set("published", "true")
	}

	resp, err := c.do(ctx, request{method: http.MethodGet, path: "/posts/", query: q})
	if err != nil {
		if isNetwork(err) {
			return c.degradedListPosts(opts, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}
	return decodePostPage(resp.Body)
}

// GetPostBySlug fetches one post by its slug, probing the known endpoint
// shapes in order. A 404 from every shape is a NotFoundError; with no
// backend reachable the fixture set answers instead.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*PostResult, error) {
	if slug == "" {
		return nil, &ValidationError{Detail: "slug must not be empty"}
	}

	var lastErr error
	for _, shape := range c.slugEndpoints {
		req := request{method: http.MethodGet, path: fmt.Sprintf(shape, url.PathEscape(slug))}
		resp, err := c.do(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			lastErr = &NotFoundError{Resource: "post", Key: slug}
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			err := responseError(resp)
			resp.Body.Close()
			return nil, err
		}

		var post models.Post
		err = json.NewDecoder(resp.Body).Decode(&post)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		return &PostResult{Post: post}, nil
	}

	if isNetwork(lastErr) {
		return c.degradedPostBySlug(slug, lastErr)
	}
	return nil, lastErr
}

// GetPostByID fetches one post by its numeric id.
func (c *Client) GetPostByID(ctx context.Context, id int) (*PostResult, error) {
	req := request{method: http.MethodGet, path: fmt.Sprintf("/posts/%d/", id)}
	resp, err := c.do(ctx, req)
	if err != nil {
		if isNetwork(err) {
			return c.degradedPostByID(id, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{Resource: "post", Key: strconv.Itoa(id)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}

	var post models.Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("failed to decode post: %w", err)
	}
	return &PostResult{Post: post}, nil
}

// CreatePost creates a post. Mutations are plain passthrough calls: no
// degraded mode, failures always surface.
func (c *Client) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	body, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("failed to encode post: %w", err)
	}

	var created models.Post
	req := request{method: http.MethodPost, path: "/posts/", body: body}
	if err := c.getJSON(ctx, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePost replaces a post via PUT.
func (c *Client) UpdatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	body, err := json.Marshal(post)
	if err != nil {
		return nil, fmt.Errorf("failed to encode post: %w", err)
	}

	var updated models.Post
	req := request{method: http.MethodPut, path: fmt.Sprintf("/posts/%d/", post.ID), body: body}
	if err := c.getJSON(ctx, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// PatchPost applies a partial update to a post.
func (c *Client) PatchPost(ctx context.Context, id int, fields map[string]interface{}) (*models.Post, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode patch: %w", err)
	}

	var updated models.Post
	req := request{method: http.MethodPatch, path: fmt.Sprintf("/posts/%d/", id), body: body}
	if err := c.getJSON(ctx, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdatePostStatus flips a post's publish flag.
func (c *Client) UpdatePostStatus(ctx context.Context, id int, published bool) (*models.Post, error) {
	return c.PatchPost(ctx, id, map[string]interface{}{"published": published})
}

// DeletePost deletes a post.
func (c *Client) DeletePost(ctx context.Context, id int) error {
	req := request{method: http.MethodDelete, path: fmt.Sprintf("/posts/%d/", id)}
	return c.getJSON(ctx, req, nil)
}

// decodePostPage accepts both response shapes the backend has used: the
// results/count envelope and a bare array.
func decodePostPage(r io.Reader) (*models.PostPage, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode post list: %w", err)
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var posts []models.Post
		if err := json.Unmarshal(trimmed, &posts); err != nil {
			return nil, fmt.Errorf("unexpected post list shape: %w", err)
		}
		return &models.PostPage{Results: posts, Count: len(posts)}, nil
	}

	var page models.PostPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("unexpected post list shape: %w", err)
	}
	if page.Results == nil {
		page.Results = []models.Post{}
	}
	return &page, nil
}

func (c *Client) degradedListPosts(opts ListOptions, cause error) (*models.PostPage, error) {
	posts, err := c.fixtures.Posts()
	if err != nil {
		return nil, cause
	}

	results, count := fixtures.FilterPosts(posts, fixtures.Filter{
		Title:         opts.Title,
		Slug:          opts.Slug,
		Category:      opts.Category,
		PublishedOnly: opts.PublishedOnly,
		Page:          opts.Page,
		Limit:         opts.Limit,
	})

	c.log.Info().Int("count", count).Msg("serving post list from fixtures")
	return &models.PostPage{Results: results, Count: count, Degraded: true}, nil
}

func (c *Client) degradedPostBySlug(slug string, cause error) (*PostResult, error) {
	post, err := c.fixtures.PostBySlug(slug)
	if err != nil {
		if errors.Is(err, fixtures.ErrNotFound) {
			return nil, &NotFoundError{Resource: "post", Key: slug}
		}
		return nil, cause
	}

	c.log.Info().Str("slug", slug).Msg("serving post from fixtures")
	return &PostResult{Post: *post, Degraded: true}, nil
}

func (c *Client) degradedPostByID(id int, cause error) (*PostResult, error) {
	post, err := c.fixtures.PostByID(id)
	if err != nil {
		if errors.Is(err, fixtures.ErrNotFound) {
			return nil, &NotFoundError{Resource: "post", Key: strconv.Itoa(id)}
		}
		return nil, cause
	}

	c.log.Info().Int("id", id).Msg("serving post from fixtures")
	return &PostResult{Post: *post, Degraded: true}, nil
}
