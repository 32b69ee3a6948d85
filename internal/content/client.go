package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saiisback/search-engine/internal/domain"
)

var (
	ErrFetchFailed = errors.New("content fetch failed")
	ErrBadPayload  = errors.New("malformed content payload")
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client fetches extracted page content for one result URL on demand.
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

type contentEnvelope struct {
	URL           string              `json:"url"`
	Content       *domain.PageContent `json:"content"`
	Error         string              `json:"error,omitempty"`
	ExecutionTime float64             `json:"execution_time"`
}

func (c *Client) Fetch(ctx context.Context, rawURL string) (*domain.PageContent, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, domain.ErrEmptyURL
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, domain.ErrInvalidURL
	}

	params := url.Values{}
	params.Set("url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/content?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("content backend error",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	var env contentEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if env.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, env.Error)
	}
	if env.Content == nil {
		return nil, fmt.Errorf("%w: missing content", ErrBadPayload)
	}

	return env.Content, nil
}
