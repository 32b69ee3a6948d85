package mock

import (
	"context"
	"sync"
	"time"

	"github.com/saiisback/search-engine/internal/domain"
	"github.com/saiisback/search-engine/internal/search"
)

// Client is a scripted search.Client for tests.
type Client struct {
	Results      []domain.SearchResult
	ImageResults []domain.ImageResult
	Error        error
	Delay        time.Duration

	CallCount      int
	ImageCallCount int
	LastRequest    search.Request
	AllRequests    []search.Request

	mu sync.Mutex
}

func New() *Client {
	return &Client{}
}

func (c *Client) WithResults(results []domain.SearchResult) *Client {
	c.Results = results
	return c
}

func (c *Client) WithImageResults(results []domain.ImageResult) *Client {
	c.ImageResults = results
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Search(ctx context.Context, req search.Request) (*search.Response, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastRequest = req
	c.AllRequests = append(c.AllRequests, req)
	delay := c.Delay
	err := c.Error
	results := c.Results
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}

	return &search.Response{
		Query:         req.Query,
		Results:       results,
		TotalResults:  len(results),
		ExecutionTime: 0.5,
	}, nil
}

func (c *Client) SearchImages(ctx context.Context, req search.Request) (*search.ImageResponse, error) {
	c.mu.Lock()
	c.ImageCallCount++
	c.LastRequest = req
	c.AllRequests = append(c.AllRequests, req)
	delay := c.Delay
	err := c.Error
	results := c.ImageResults
	c.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if err != nil {
		return nil, err
	}

	return &search.ImageResponse{
		Query:         req.Query,
		Results:       results,
		TotalResults:  len(results),
		ExecutionTime: 0.5,
	}, nil
}

// SetDelay changes the delay mid-test, safely against in-flight calls.
func (c *Client) SetDelay(delay time.Duration) {
	c.mu.Lock()
	c.Delay = delay
	c.mu.Unlock()
}

func (c *Client) Calls() (text, image int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount, c.ImageCallCount
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.ImageCallCount = 0
	c.LastRequest = search.Request{}
	c.AllRequests = nil
}
