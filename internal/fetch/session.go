// Package fetch is the HTTP access layer: cached GET requests,
// upstream failure classification, and status badge decoding.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Response is a fully-read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON decodes the response body, returning a ServiceError when the
// body is not valid JSON.
func (r *Response) JSON(url string, v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &ServiceError{URL: url, Message: fmt.Sprintf("%s returned invalid JSON: %v", url, err)}
	}
	return nil
}

// Session issues GET requests through an optional on-disk cache.
// Redirects are not followed: the coverage probe reads the Location
// header of a 302 directly.
type Session struct {
	client *http.Client
	cache  *Cache
	log    *slog.Logger
	now    func() time.Time
}

// NewSession creates a session. cache may be nil to disable caching.
func NewSession(cache *Cache, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		cache: cache,
		log:   logger,
		now:   time.Now,
	}
}

// Get performs a GET request, served from cache when a fresh entry
// exists. It logs "HIT <url>" or "GET <url>" accordingly. 4xx statuses
// become ServiceError; a 403 with an exhausted rate-limit quota becomes
// RateLimitError with a human wait estimate.
func (s *Session) Get(ctx context.Context, url string) (*Response, error) {
	if s.cache != nil {
		if resp, ok := s.cache.Get(url); ok {
			s.log.Debug("HIT " + url)
			return s.classify(url, resp)
		}
	}
	s.log.Debug("GET " + url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	resp := &Response{StatusCode: res.StatusCode, Header: res.Header, Body: body}
	if s.cache != nil && res.StatusCode < 400 {
		if err := s.cache.Put(url, resp); err != nil {
			s.log.Warn("cache write failed", "url", url, "error", err)
		}
	}
	return s.classify(url, resp)
}

func (s *Session) classify(url string, resp *Response) (*Response, error) {
	if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
		reset, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)
		resetAt := time.Unix(reset, 0)
		minutes := int(math.Ceil(resetAt.Sub(s.now()).Minutes()))
		return nil, &RateLimitError{
			ServiceError: ServiceError{
				URL: url,
				Message: fmt.Sprintf("%s\nTry again in %d minutes, at %s.",
					errorMessage(resp), minutes, resetAt.Format("15:04")),
			},
			Reset: resetAt,
		}
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, &ServiceError{URL: url, Message: errorMessage(resp)}
	}
	return resp, nil
}

// errorMessage extracts the endpoint's human-readable message from an
// error response body, falling back to the HTTP status text.
func errorMessage(resp *Response) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return http.StatusText(resp.StatusCode)
}

// GetJSON fetches url and decodes the body into v.
func (s *Session) GetJSON(ctx context.Context, url string, v any) error {
	resp, err := s.Get(ctx, url)
	if err != nil {
		return err
	}
	return resp.JSON(url, v)
}

// GetList fetches a paginated JSON array, following Link rel="next"
// headers and concatenating the pages in order.
func (s *Session) GetList(ctx context.Context, url string, batchSize int) ([]json.RawMessage, error) {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	var result []json.RawMessage
	for page := 1; ; page++ {
		pageURL := fmt.Sprintf("%s%sper_page=%d", url, sep, batchSize)
		if page > 1 {
			pageURL += fmt.Sprintf("&page=%d", page)
		}
		resp, err := s.Get(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		var items []json.RawMessage
		if err := resp.JSON(pageURL, &items); err != nil {
			return nil, err
		}
		result = append(result, items...)
		if !strings.Contains(resp.Header.Get("Link"), `rel="next"`) {
			break
		}
	}
	return result, nil
}
