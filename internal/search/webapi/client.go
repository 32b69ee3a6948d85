package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/saiisback/search-engine/internal/domain"
	"github.com/saiisback/search-engine/internal/search"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the search gateway over its JSON API. One outbound request
// per call; repeated identical calls are issued freely.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Results is a pointer so that a payload missing the array entirely can be
// told apart from an empty list.
type searchEnvelope struct {
	Query         string                 `json:"query"`
	Results       *[]domain.SearchResult `json:"results"`
	TotalResults  int                    `json:"total_results"`
	ExecutionTime float64                `json:"execution_time"`
	Error         string                 `json:"error,omitempty"`
}

type imageEnvelope struct {
	Query         string                `json:"query"`
	Results       *[]domain.ImageResult `json:"results"`
	TotalResults  int                   `json:"total_results"`
	ExecutionTime float64               `json:"execution_time"`
	Error         string                `json:"error,omitempty"`
}

func (c *Client) Search(ctx context.Context, req search.Request) (*search.Response, error) {
	body, err := c.get(ctx, "/api/search", req)
	if err != nil {
		return nil, err
	}

	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrBadPayload, err)
	}
	if env.Error != "" {
		return nil, fmt.Errorf("%w: %s", search.ErrSearchFailed, env.Error)
	}
	if env.Results == nil {
		return nil, fmt.Errorf("%w: missing results", search.ErrBadPayload)
	}

	return &search.Response{
		Query:         env.Query,
		Results:       *env.Results,
		TotalResults:  env.TotalResults,
		ExecutionTime: env.ExecutionTime,
	}, nil
}

func (c *Client) SearchImages(ctx context.Context, req search.Request) (*search.ImageResponse, error) {
	body, err := c.get(ctx, "/api/image-search", req)
	if err != nil {
		return nil, err
	}

	var env imageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrBadPayload, err)
	}
	if env.Error != "" {
		return nil, fmt.Errorf("%w: %s", search.ErrSearchFailed, env.Error)
	}
	if env.Results == nil {
		return nil, fmt.Errorf("%w: missing results", search.ErrBadPayload)
	}

	return &search.ImageResponse{
		Query:         env.Query,
		Results:       *env.Results,
		TotalResults:  env.TotalResults,
		ExecutionTime: env.ExecutionTime,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, req search.Request) ([]byte, error) {
	if req.Query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if req.MaxResults <= 0 {
		req.MaxResults = domain.DefaultResultCount
	}
	if req.Engine == "" {
		req.Engine = domain.EngineGoogle
	}

	params := url.Values{}
	params.Set("query", req.Query)
	params.Set("search_engine", string(req.Engine))
	params.Set("num_results", strconv.Itoa(req.MaxResults))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrSearchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		return nil, search.ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, search.ErrRateLimit
	case http.StatusBadRequest:
		return nil, search.ErrInvalidRequest
	default:
		c.logger.Warn("search backend error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d", search.ErrSearchFailed, resp.StatusCode)
	}
}
