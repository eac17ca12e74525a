package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"vex-tracker/internal/config"
	"vex-tracker/internal/constants"

	"github.com/valyala/fasthttp"
)

// Client talks to the RobotEvents-style competition data API. All listing
// endpoints share a paginated envelope; fetchList follows it to the last page.
type Client struct {
	baseURL     string
	token       string
	perPage     int
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`

	// seconds until reset
	Reset int `json:"reset"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		token:   cfg.APIToken,
		perPage: constants.PerPageDefault,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		rateLimit: RateLimitInfo{
			Limit:     100,
			Remaining: 100,
			Reset:     60,
			UpdatedAt: time.Now(),
		},
	}
}

func (c *Client) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *Client) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if limit := string(resp.Header.Peek("X-RateLimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			c.rateLimit.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-RateLimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimit.Remaining = val
		}
	}
	if reset := string(resp.Header.Peek("Retry-After")); reset != "" {
		if val, err := strconv.Atoi(reset); err == nil {
			c.rateLimit.Reset = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

// APIError is a non-2xx response from the remote API.
type APIError struct {
	Status int
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d on %s", e.Status, e.Path)
}

type pageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

type listEnvelope[T any] struct {
	Meta pageMeta `json:"meta"`
	Data []T      `json:"data"`
}

func doRequest[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if encoded := query.Encode(); encoded != "" {
		uri += "?" + encoded
	}

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("GET %s: %w", path, err)
		}
	}

	c.updateRateLimit(resp)

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, &APIError{Status: resp.StatusCode(), Path: path}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &result, nil
}

// fetchOne resolves a single-record endpoint.
func fetchOne[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	return doRequest[T](ctx, c, path, query)
}

// fetchList resolves the full result set of a listing endpoint, following
// the envelope's pagination from startPage through last_page in order.
func fetchList[T any](ctx context.Context, c *Client, path string, query url.Values, startPage int) ([]T, error) {
	page := startPage
	if page < 1 {
		page = 1
	}

	var out []T
	for fetched := 0; fetched < constants.MaxPages; fetched++ {
		q := url.Values{}
		for k, vs := range query {
			q[k] = vs
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(c.perPage))

		env, err := doRequest[listEnvelope[T]](ctx, c, path, q)
		if err != nil {
			return nil, err
		}
		out = append(out, env.Data...)

		if env.Meta.CurrentPage >= env.Meta.LastPage {
			return out, nil
		}
		page = env.Meta.CurrentPage + 1
	}

	return nil, fmt.Errorf("GET %s: pagination did not terminate after %d pages", path, constants.MaxPages)
}
