package repository

import (
	"context"
	"sync"
	"time"

	"github.com/saiisback/search-engine/internal/domain"
)

type MockArchive struct {
	mu     sync.RWMutex
	logs   []domain.SearchLog
	pages  map[string]*domain.PageContent
	nextID int64

	SaveLogErr  error
	SavePageErr error
}

func NewMockArchive() *MockArchive {
	return &MockArchive{
		pages:  make(map[string]*domain.PageContent),
		nextID: 1,
	}
}

func (m *MockArchive) SaveSearchLog(ctx context.Context, log *domain.SearchLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveLogErr != nil {
		return m.SaveLogErr
	}

	log.ID = m.nextID
	m.nextID++
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *MockArchive) RecentSearches(ctx context.Context, limit int) ([]domain.SearchLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.SearchLog, 0, limit)
	for i := len(m.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.logs[i])
	}
	return out, nil
}

func (m *MockArchive) SavePageContent(ctx context.Context, page *domain.PageContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SavePageErr != nil {
		return m.SavePageErr
	}

	copied := *page
	m.pages[page.URL] = &copied
	return nil
}

func (m *MockArchive) GetPageContent(ctx context.Context, url string) (*domain.PageContent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	page, ok := m.pages[url]
	if !ok {
		return nil, domain.ErrPageNotFound
	}
	copied := *page
	return &copied, nil
}

// Logs returns a copy of everything saved so far, oldest first.
func (m *MockArchive) Logs() []domain.SearchLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.SearchLog, len(m.logs))
	copy(out, m.logs)
	return out
}
