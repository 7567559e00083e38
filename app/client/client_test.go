package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacationblog/app/config"
	"vacationblog/app/models"
	"vacationblog/app/tokens"
)

const (
	testProdURL = "https://prod.example.com/api"
	testDevURL  = "http://localhost:8000/api"
)

// recordedRequest is one attempt the scripted transport saw.
type recordedRequest struct {
	Method string
	URL    string
	Path   string
	Query  string
	Body   string
}

// scriptedTransport fakes the network layer so tests can count attempts
// precisely and simulate unreachable hosts.
type scriptedTransport struct {
	requests []recordedRequest
	respond  func(req *http.Request) (*http.Response, error)
}

func (t *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		body = string(data)
		req.Body = io.NopCloser(bytes.NewReader(data))
	}
	t.requests = append(t.requests, recordedRequest{
		Method: req.Method,
		URL:    req.URL.Scheme + "://" + req.URL.Host,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Body:   body,
	})
	return t.respond(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func connectionRefused(req *http.Request) (*http.Response, error) {
	return nil, fmt.Errorf("dial tcp %s: connection refused", req.URL.Host)
}

func isProdHost(req *http.Request) bool {
	return req.URL.Host == "prod.example.com"
}

func testConfig() *config.Config {
	return &config.Config{
		ProductionURL:   testProdURL,
		DevURL:          testDevURL,
		DevAltPortURL:   testDevURL,
		TimeoutMS:       1000,
		ProductionHosts: []string{"vacation-bna.vercel.app"},
	}
}

// newTestClient targets the dev URL through the scripted transport.
func newTestClient(transport *scriptedTransport, opts Options) *Client {
	opts.HTTPClient = &http.Client{Transport: transport}
	return New(testConfig(), config.Environment{Hostname: "localhost", Port: "3000"}, opts)
}

func TestFallbackRetriesIdenticalRequestAgainstProduction(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(req *http.Request) (*http.Response, error) {
			if isProdHost(req) {
				return jsonResponse(http.StatusOK, `{"results":[],"count":0}`), nil
			}
			return connectionRefused(req)
		},
	}
	c := newTestClient(transport, Options{})

	page, err := c.ListPosts(context.Background(), ListOptions{Title: "Safety", Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.False(t, page.Degraded)

	require.Len(t, transport.requests, 2)
	first, second := transport.requests[0], transport.requests[1]

	assert.Equal(t, "http://localhost:8000", first.URL)
	assert.Equal(t, "https://prod.example.com", second.URL)

	// The retried request is identical: method, path, query, body.
	assert.Equal(t, first.Method, second.Method)
	assert.Equal(t, "/api/posts/", second.Path)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Query, second.Query)
	assert.Equal(t, first.Body, second.Body)
}

func TestFallbackRetriesBodyVerbatim(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(req *http.Request) (*http.Response, error) {
			if isProdHost(req) {
				return jsonResponse(http.StatusOK, `{"id":9,"post":1,"name":"Jane Doe","email":"jane@example.com","content":"hi there"}`), nil
			}
			return connectionRefused(req)
		},
	}
	c := newTestClient(transport, Options{})

	_, err := c.SubmitComment(context.Background(), validSubmission())
	require.NoError(t, err)

	require.Len(t, transport.requests, 2)
	assert.Equal(t, http.MethodPost, transport.requests[1].Method)
	assert.Equal(t, transport.requests[0].Body, transport.requests[1].Body)
	assert.Contains(t, transport.requests[1].Body, `"content":"hi there"`)
}

func TestFallbackSecondFailureSurfacesWithoutFurtherRetries(t *testing.T) {
	transport := &scriptedTransport{
		respond: connectionRefused,
	}
	c := newTestClient(transport, Options{})

	// DeletePost has no degraded mode, so the network error surfaces.
	err := c.DeletePost(context.Background(), 1)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Contains(t, netErr.URL, "prod.example.com")

	// Exactly one retry: primary attempt plus the production attempt.
	assert.Len(t, transport.requests, 2)
}

func TestNoFallbackWhenAlreadyTargetingProduction(t *testing.T) {
	transport := &scriptedTransport{
		respond: connectionRefused,
	}
	cfg := testConfig()
	cfg.ForceProduction = true
	c := New(cfg, config.Environment{Hostname: "localhost", Port: "3000"}, Options{
		HTTPClient: &http.Client{Transport: transport},
	})

	err := c.DeletePost(context.Background(), 1)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Len(t, transport.requests, 1, "production failures must not be retried")
	assert.Equal(t, "https://prod.example.com", transport.requests[0].URL)
}

func TestNoFallbackOnServerError(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusInternalServerError, `{"detail":"boom"}`), nil
		},
	}
	c := newTestClient(transport, Options{})

	_, err := c.ListPosts(context.Background(), ListOptions{})

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusInternalServerError, srvErr.Status)
	assert.Equal(t, "Internal Server Error", srvErr.StatusText)
	assert.Len(t, transport.requests, 1, "server errors must not trigger the fallback")
}

func TestTimeoutCountsAsNetworkFailure(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	var prodHits int32
	prod := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&prodHits, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[],"count":0}`)
	}))
	defer prod.Close()

	cfg := &config.Config{
		ProductionURL: prod.URL + "/api",
		DevURL:        slow.URL + "/api",
		DevAltPortURL: slow.URL + "/api",
		TimeoutMS:     50,
	}
	c := New(cfg, config.Environment{Hostname: "localhost", Port: "3000"}, Options{})

	page, err := c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.False(t, page.Degraded, "the production answer is a real response")
	assert.EqualValues(t, 1, atomic.LoadInt32(&prodHits))
}

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	var gotAuth []string
	transport := &scriptedTransport{
		respond: func(req *http.Request) (*http.Response, error) {
			gotAuth = append(gotAuth, req.Header.Get("Authorization"))
			return jsonResponse(http.StatusOK, `{"results":[],"count":0}`), nil
		},
	}

	store := tokens.NewMemoryStore()
	c := newTestClient(transport, Options{Tokens: store})

	_, err := c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth[0], "no token stored, request goes out unauthenticated")

	require.NoError(t, store.Set("secret-token", ""))
	_, err = c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth[1])
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	var ids []string
	transport := &scriptedTransport{
		respond: func(req *http.Request) (*http.Response, error) {
			ids = append(ids, req.Header.Get("X-Request-ID"))
			return jsonResponse(http.StatusOK, `{"results":[],"count":0}`), nil
		},
	}
	c := newTestClient(transport, Options{})

	_, err := c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)
	_, err = c.ListPosts(context.Background(), ListOptions{})
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}

func TestLoginStoresTokens(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"access":"access-abc","refresh":"refresh-xyz"}`), nil
		},
	}
	store := tokens.NewMemoryStore()
	c := newTestClient(transport, Options{Tokens: store})

	require.NoError(t, c.Login(context.Background(), Credentials{Username: "admin", Password: "pw"}))
	assert.Equal(t, "access-abc", store.Token())
	assert.Equal(t, "refresh-xyz", store.RefreshToken())

	assert.Equal(t, "/api/auth/login/", transport.requests[0].Path)

	require.NoError(t, c.Logout())
	assert.Empty(t, store.Token())
}

func TestLoginLegacyTokenFields(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"token":"legacy-token","refresh_token":"legacy-refresh"}`), nil
		},
	}
	store := tokens.NewMemoryStore()
	c := newTestClient(transport, Options{Tokens: store})

	require.NoError(t, c.Login(context.Background(), Credentials{Username: "admin", Password: "pw"}))
	assert.Equal(t, "legacy-token", store.Token())
	assert.Equal(t, "legacy-refresh", store.RefreshToken())
}

func TestLoginRejected(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusBadRequest, `{"detail":"invalid credentials"}`), nil
		},
	}
	store := tokens.NewMemoryStore()
	c := newTestClient(transport, Options{Tokens: store})

	err := c.Login(context.Background(), Credentials{Username: "admin", Password: "wrong"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "invalid credentials", valErr.Detail)
	assert.Empty(t, store.Token())
}

func TestProfile(t *testing.T) {
	transport := &scriptedTransport{
		respond: func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
			return jsonResponse(http.StatusOK, `{"id":1,"username":"admin","email":"admin@example.com"}`), nil
		},
	}
	store := tokens.NewMemoryStore()
	require.NoError(t, store.Set("secret", ""))
	c := newTestClient(transport, Options{Tokens: store})

	profile, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", profile.Username)
}

func TestBaseURLResolution(t *testing.T) {
	cfg := testConfig()

	dev := New(cfg, config.Environment{Hostname: "localhost", Port: "3000"}, Options{})
	assert.Equal(t, testDevURL, dev.BaseURL())

	prod := New(cfg, config.Environment{Hostname: "vacation-bna.vercel.app"}, Options{})
	assert.Equal(t, testProdURL, prod.BaseURL())
}

func validSubmission() models.CommentSubmission {
	return models.CommentSubmission{
		PostID:  1,
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Content: "hi there",
	}
}
