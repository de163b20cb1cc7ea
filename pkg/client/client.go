// Package client talks to the clinical-trials search service.
//
// Search and SearchWithFilters fail loudly: any transport error or non-2xx
// status is returned to the caller. Suggest and FetchSummary never fail;
// problems are logged at debug level and reported as "nothing".
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rubiojr/trialsearch/pkg/log"
	"github.com/rubiojr/trialsearch/pkg/trials"
	"github.com/rubiojr/trialsearch/pkg/version"
)

// MinSuggestPrefix is the shortest trimmed prefix worth a suggestion request.
const MinSuggestPrefix = 2

// ErrRequestFailed is matched by every error caused by a non-success status.
var ErrRequestFailed = errors.New("request failed")

// StatusError reports a non-2xx response.
type StatusError struct {
	Op     string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return e.Op + " failed: " + e.Status
}

func (e *StatusError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Client is a thin HTTP client for the search service. It is safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithTimeout bounds every request. Zero keeps the transport's behavior.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// New returns a client for the service rooted at baseURL (including the
// /api prefix). Compressed responses are decoded transparently.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
		logger: log.ForService("client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search runs a free-text query.
func (c *Client) Search(ctx context.Context, query string, page, pageSize int) (*trials.SearchResponse, error) {
	params := pageParams(page, pageSize)
	var resp trials.SearchResponse
	if err := c.getJSON(ctx, "Search", "/search/"+url.PathEscape(query), params, &resp); err != nil {
		return nil, err
	}
	c.logger.Debugf("search %q page %d: %d of %d results", query, page, len(resp.Results), resp.Total)
	return &resp, nil
}

// SearchWithFilters runs a structured search. Each set entity field becomes
// its own query parameter; location is sent as a JSON object.
func (c *Client) SearchWithFilters(ctx context.Context, entities trials.ExtractedEntities, page, pageSize int) (*trials.SearchResponse, error) {
	params, err := EncodeEntities(entities)
	if err != nil {
		return nil, err
	}
	for k, v := range pageParams(page, pageSize) {
		params[k] = v
	}
	var resp trials.SearchResponse
	if err := c.getJSON(ctx, "Search", "/filter", params, &resp); err != nil {
		return nil, err
	}
	c.logger.Debugf("filter %s page %d: %d of %d results", params.Encode(), page, len(resp.Results), resp.Total)
	return &resp, nil
}

// Suggest returns autocomplete suggestions for prefix. Short prefixes and
// failures both yield nil.
func (c *Client) Suggest(ctx context.Context, prefix string) []string {
	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < MinSuggestPrefix {
		return nil
	}
	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := c.getJSON(ctx, "Suggest", "/suggest", url.Values{"q": {prefix}}, &resp); err != nil {
		c.logger.Debugf("suggest %q: %v", prefix, err)
		return nil
	}
	return resp.Suggestions
}

// FetchSummary returns the AI summary for query. ok is false when the
// service has none or the request failed.
func (c *Client) FetchSummary(ctx context.Context, query string) (summary string, ok bool) {
	var resp struct {
		Summary *string `json:"summary"`
	}
	if err := c.getJSON(ctx, "Summary", "/summary/"+url.PathEscape(query), nil, &resp); err != nil {
		c.logger.Debugf("summary %q: %v", query, err)
		return "", false
	}
	if resp.Summary == nil || strings.TrimSpace(*resp.Summary) == "" {
		return "", false
	}
	return *resp.Summary, true
}

// EncodeEntities turns entities into filter query parameters, omitting every
// nil or empty field. Confidence and clarification are never sent.
func EncodeEntities(e trials.ExtractedEntities) (url.Values, error) {
	params := url.Values{}
	set := func(key string, p *string) {
		if v := trials.Value(p); v != "" {
			params.Set(key, v)
		}
	}
	set("phase", e.Phase)
	set("condition", e.Condition)
	set("status", e.Status)
	set("sponsor", e.Sponsor)
	set("keyword", e.Keyword)
	set("age_group", e.AgeGroup)
	if e.EnrollmentMin != nil {
		params.Set("enrollment_min", strconv.Itoa(*e.EnrollmentMin))
	}
	if e.EnrollmentMax != nil {
		params.Set("enrollment_max", strconv.Itoa(*e.EnrollmentMax))
	}
	if !e.Location.IsZero() {
		loc := trials.LocationFilter{}
		if v := trials.Value(e.Location.City); v != "" {
			loc.City = &v
		}
		if v := trials.Value(e.Location.State); v != "" {
			loc.State = &v
		}
		if v := trials.Value(e.Location.Country); v != "" {
			loc.Country = &v
		}
		data, err := json.Marshal(loc)
		if err != nil {
			return nil, fmt.Errorf("encoding location: %w", err)
		}
		params.Set("location", string(data))
	}
	return params, nil
}

func pageParams(page, pageSize int) url.Values {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("page_size", strconv.Itoa(pageSize))
	}
	return params
}

func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", strings.ToLower(op), err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", strings.ToLower(op), err)
	}
	defer resp.Body.Close()
	c.logger.Debugf("GET %s -> %d in %s (request %s)", reqURL, resp.StatusCode, time.Since(start).Round(time.Millisecond), requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, Code: resp.StatusCode, Status: statusText(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", strings.ToLower(op), err)
	}
	return nil
}

// statusText returns the reason phrase of resp ("Internal Server Error").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	if text == "" {
		text = "HTTP " + strconv.Itoa(resp.StatusCode)
	}
	return text
}
