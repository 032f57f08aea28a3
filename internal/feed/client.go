// Package feed is the typed client for the news backend's read endpoints
// and its login endpoint.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Shym0608/News-Panel/internal/logger"
	"github.com/Shym0608/News-Panel/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	pathLogin         = "/auth/access"
	pathHome          = "/homepage"
	pathStory         = "/homepage/story"
	pathDigital       = "/homepage/digital"
	pathLiveVideos    = "/homepage/videos"
	pathSlidingVideos = "/homepage/videos/sliding"
	pathFilter        = "/searchEngine/filter"
)

// AllCategories is the category sentinel that means "no category filter".
const AllCategories = "All"

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	RetryCount     int
	RetryWait      time.Duration
	LiveVideoLimit int
}

// Client talks to the news backend. Feed reads always return a non-nil
// slice; on failure it is empty and the error is returned next to it.
type Client struct {
	http      *resty.Client
	auth      *resty.Client
	liveLimit int
	log       zerolog.Logger
}

const defaultLiveVideoLimit = 10

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.LiveVideoLimit <= 0 {
		cfg.LiveVideoLimit = defaultLiveVideoLimit
	}

	reads := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Cache-Control", "no-store").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4 * cfg.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r != nil && r.StatusCode() >= 500
		})

	// Login is a POST and is never retried.
	auth := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Cache-Control", "no-store")

	return &Client{
		http:      reads,
		auth:      auth,
		liveLimit: cfg.LiveVideoLimit,
		log:       logger.Component("feed"),
	}
}

// AggregateHome fetches the unfiltered, mixed homepage feed.
func (c *Client) AggregateHome(ctx context.Context) ([]models.NewsItem, error) {
	return c.fetchList(ctx, pathHome, nil, ShapeList)
}

// StoryList fetches the story-only feed.
func (c *Client) StoryList(ctx context.Context) ([]models.NewsItem, error) {
	return c.fetchList(ctx, pathStory, nil, ShapeList)
}

// DigitalList fetches the digital-only feed.
func (c *Client) DigitalList(ctx context.Context) ([]models.NewsItem, error) {
	return c.fetchList(ctx, pathDigital, nil, ShapeList)
}

// LiveVideos fetches the live rail, keeping at most LiveVideoLimit items.
func (c *Client) LiveVideos(ctx context.Context) ([]models.NewsItem, error) {
	items, err := c.fetchList(ctx, pathLiveVideos, nil, ShapeList)
	if len(items) > c.liveLimit {
		items = items[:c.liveLimit]
	}
	return items, err
}

// SlidingVideos fetches the featured video rail.
func (c *Client) SlidingVideos(ctx context.Context) ([]models.NewsItem, error) {
	return c.fetchList(ctx, pathSlidingVideos, nil, ShapeList)
}

// FilterQuery selects a page of the search engine's results.
type FilterQuery struct {
	Keyword  string
	Category string
	Page     int
	PageSize int
}

// Values encodes the query. Empty keywords and empty or "All" categories
// are left out.
func (q FilterQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.PageSize))
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.Category != "" && q.Category != AllCategories {
		v.Set("category", q.Category)
	}
	return v
}

// Filtered runs a keyword and/or category search. The backend answers with
// either a bare list or a page wrapper; both are accepted.
func (c *Client) Filtered(ctx context.Context, q FilterQuery) ([]models.NewsItem, error) {
	return c.fetchList(ctx, pathFilter, q.Values(), ShapeList, ShapePage)
}

func (c *Client) fetchList(ctx context.Context, endpoint string, query url.Values, accept ...Shape) ([]models.NewsItem, error) {
	start := time.Now()

	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(endpoint)
	backendLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		return c.fail(endpoint, outcomeNetwork, fmt.Errorf("%w: GET %s: %v", ErrNetwork, endpoint, err))
	}
	if !resp.IsSuccess() {
		return c.fail(endpoint, outcomeNetwork, fmt.Errorf("%w: GET %s: status %d", ErrNetwork, endpoint, resp.StatusCode()))
	}

	decoded, err := decodeFeed(resp.Body())
	if err != nil {
		return c.fail(endpoint, outcomeBadShape, fmt.Errorf("GET %s: %w", endpoint, err))
	}
	items, err := itemsOf(decoded, accept...)
	if err != nil {
		return c.fail(endpoint, outcomeBadShape, fmt.Errorf("GET %s: %w", endpoint, err))
	}

	backendRequests.WithLabelValues(endpoint, outcomeOK).Inc()
	c.log.Debug().
		Str("endpoint", endpoint).
		Str("shape", decoded.Shape.String()).
		Int("items", len(items)).
		Dur("latency", time.Since(start)).
		Msg("Fetched feed")

	return items, nil
}

func (c *Client) fail(endpoint, outcome string, err error) ([]models.NewsItem, error) {
	backendRequests.WithLabelValues(endpoint, outcome).Inc()
	c.log.Error().
		Err(err).
		Str("endpoint", endpoint).
		Msg("Feed request failed, serving empty result")
	return []models.NewsItem{}, err
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// Login posts the credentials and returns the opaque token. A rejected
// login yields *AuthError with the backend message, or "Login failed".
// The token may be empty when the backend accepts without issuing one.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	start := time.Now()

	resp, err := c.auth.R().
		SetContext(ctx).
		SetBody(loginRequest{Username: username, Password: password}).
		Post(pathLogin)
	backendLatency.WithLabelValues(pathLogin).Observe(time.Since(start).Seconds())

	if err != nil {
		backendRequests.WithLabelValues(pathLogin, outcomeNetwork).Inc()
		c.log.Error().Err(err).Msg("Login request failed")
		return "", fmt.Errorf("%w: POST %s: %v", ErrNetwork, pathLogin, err)
	}

	var body loginResponse
	decodeErr := json.Unmarshal(resp.Body(), &body)

	if !resp.IsSuccess() {
		backendRequests.WithLabelValues(pathLogin, outcomeRejected).Inc()
		msg := body.Message
		if decodeErr != nil || msg == "" {
			msg = defaultLoginMessage
		}
		c.log.Warn().
			Int("status", resp.StatusCode()).
			Str("message", msg).
			Msg("Login rejected")
		return "", &AuthError{Status: resp.StatusCode(), Message: msg}
	}

	if decodeErr != nil {
		backendRequests.WithLabelValues(pathLogin, outcomeBadShape).Inc()
		return "", fmt.Errorf("%w: login response: %v", ErrBadShape, decodeErr)
	}

	backendRequests.WithLabelValues(pathLogin, outcomeOK).Inc()
	return body.Token, nil
}
