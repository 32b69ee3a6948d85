package search

import (
	"context"
	"errors"

	"github.com/saiisback/search-engine/internal/domain"
)

var (
	ErrUnauthorized   = errors.New("invalid API key")
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrInvalidRequest = errors.New("invalid request parameters")
	ErrSearchFailed   = errors.New("search request failed")
	ErrBadPayload     = errors.New("malformed search payload")
)

// Client issues one search per call and reports a result-or-error outcome.
// An empty result list is a valid response, distinct from an error.
type Client interface {
	Search(ctx context.Context, req Request) (*Response, error)
	SearchImages(ctx context.Context, req Request) (*ImageResponse, error)
}

type Request struct {
	Query      string
	Engine     domain.Engine
	MaxResults int
}

// Response carries the backend's list and metadata verbatim: no re-sorting,
// no recomputed totals.
type Response struct {
	Query         string
	Results       []domain.SearchResult
	TotalResults  int
	ExecutionTime float64
}

type ImageResponse struct {
	Query         string
	Results       []domain.ImageResult
	TotalResults  int
	ExecutionTime float64
}
