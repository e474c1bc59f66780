// Package datagokr is a client for the Korea Employment Agency for Persons
// with Disabilities job-offer feed published on data.go.kr.
package datagokr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"disability-jobs/internal/domain/job"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://apis.data.go.kr/B552583/job/job_list"
	DefaultTimeout   = 30 * time.Second
	DefaultPageSize  = 100
	DefaultPageDelay = 500 * time.Millisecond

	maxBodyBytes = 16 << 20
)

type Page struct {
	Items      []job.RawPosting
	TotalCount int
}

type Client struct {
	baseURL    string
	serviceKey string
	pageSize   int
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if s := strings.TrimSpace(baseURL); s != "" {
			c.baseURL = s
		}
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithPageSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithPageDelay sets the minimum spacing between two page requests.
// Zero disables pacing.
func WithPageDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.limiter = newPageLimiter(d)
	}
}

func newPageLimiter(d time.Duration) *rate.Limiter {
	if d <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// NewClient never fails on a missing key; fetches report ErrMissingServiceKey
// instead so a misconfigured deployment still starts and records failed runs.
func NewClient(serviceKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		serviceKey: strings.TrimSpace(serviceKey),
		pageSize:   DefaultPageSize,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     arbor.NewLogger(),
		limiter:    newPageLimiter(DefaultPageDelay),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) PageSize() int {
	return c.pageSize
}

// FetchPage requests one page of postings.
func (c *Client) FetchPage(ctx context.Context, pageNo, numOfRows int) (Page, error) {
	if c.serviceKey == "" {
		return Page{}, ErrMissingServiceKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(pageNo, numOfRows), nil)
	if err != nil {
		return Page{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/xml;q=0.9")

	c.logger.Debug().Int("page", pageNo).Int("rows", numOfRows).Msg("data.go.kr page request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Page{}, &HTTPStatusError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: env.Items, TotalCount: env.TotalCount}, nil
}

// FetchAll walks pages from 1 until a short page or maxPages. A failing page
// ends the walk and whatever was collected is returned; only a failure before
// anything was collected is reported as an error.
func (c *Client) FetchAll(ctx context.Context, maxPages int) (Page, error) {
	var out Page
	for pageNo := 1; pageNo <= maxPages; pageNo++ {
		p, err := c.FetchPage(ctx, pageNo, c.pageSize)
		if err != nil {
			if len(out.Items) == 0 {
				return Page{}, fmt.Errorf("fetch page %d: %w", pageNo, err)
			}
			c.logger.Warn().Err(err).Int("page", pageNo).Int("collected", len(out.Items)).
				Msg("data.go.kr page failed, stopping pagination")
			break
		}

		c.logger.Info().Int("page", pageNo).Int("items", len(p.Items)).Msg("data.go.kr page fetched")
		out.Items = append(out.Items, p.Items...)
		out.TotalCount = p.TotalCount

		if len(p.Items) < c.pageSize {
			break
		}
	}

	c.logger.Info().Int("items", len(out.Items)).Int("total_count", out.TotalCount).Msg("data.go.kr fetch finished")
	return out, nil
}

// pageURL appends the service key verbatim when it is already percent-encoded;
// data.go.kr issues keys in both forms.
func (c *Client) pageURL(pageNo, numOfRows int) string {
	key := c.serviceKey
	if !strings.Contains(key, "%") {
		key = url.QueryEscape(key)
	}
	q := url.Values{}
	q.Set("pageNo", strconv.Itoa(pageNo))
	q.Set("numOfRows", strconv.Itoa(numOfRows))

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + "serviceKey=" + key + "&" + q.Encode()
}
