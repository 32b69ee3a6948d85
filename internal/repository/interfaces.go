package repository

import (
	"context"

	"github.com/saiisback/search-engine/internal/domain"
)

// Archive persists what the gateway serves: search request logs and snapshots
// of extracted page content. Writes happen off the request path, so callers
// treat failures as log-worthy rather than fatal.
type Archive interface {
	SaveSearchLog(ctx context.Context, log *domain.SearchLog) error
	RecentSearches(ctx context.Context, limit int) ([]domain.SearchLog, error)

	SavePageContent(ctx context.Context, page *domain.PageContent) error
	GetPageContent(ctx context.Context, url string) (*domain.PageContent, error)
}
