package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/saiisback/search-engine/internal/domain"
)

var (
	ErrEngineFetch = errors.New("engine fetch failed")
	ErrPageFetch   = errors.New("page fetch failed")
)

type Config struct {
	Timeout   time.Duration
	UserAgent string

	// Engine bases are overridable for tests.
	GoogleBaseURL string
	BingBaseURL   string
}

// Scraper turns engine result pages and arbitrary web pages into structured
// results. It is the gateway-side replacement for a headless browser: plain
// HTTP plus selector-based extraction.
type Scraper struct {
	client     *http.Client
	logger     *zap.Logger
	userAgent  string
	googleBase string
	bingBase   string
}

func New(cfg Config, logger *zap.Logger) *Scraper {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if cfg.GoogleBaseURL == "" {
		cfg.GoogleBaseURL = "https://www.google.com"
	}
	if cfg.BingBaseURL == "" {
		cfg.BingBaseURL = "https://www.bing.com"
	}

	return &Scraper{
		client:     &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		userAgent:  cfg.UserAgent,
		googleBase: cfg.GoogleBaseURL,
		bingBase:   cfg.BingBaseURL,
	}
}

// Search scrapes one results page of the selected engine. Results keep the
// page's order; positions are 1-based. Featured blocks, when requested and
// present, carry negative positions.
func (s *Scraper) Search(ctx context.Context, query string, engine domain.Engine, numResults int, includeFeatured bool) ([]domain.SearchResult, error) {
	if numResults <= 0 {
		numResults = domain.DefaultResultCount
	}

	switch engine {
	case domain.EngineBing:
		doc, err := s.fetchDoc(ctx, s.bingBase+"/search?q="+queryEscape(query))
		if err != nil {
			return nil, err
		}
		return parseBing(doc, numResults), nil
	default:
		doc, err := s.fetchDoc(ctx, fmt.Sprintf("%s/search?q=%s&num=%d", s.googleBase, queryEscape(query), numResults*2))
		if err != nil {
			return nil, err
		}
		return parseGoogle(doc, query, numResults, includeFeatured), nil
	}
}

func (s *Scraper) fetchDoc(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("engine page fetch failed",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d", ErrEngineFetch, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEngineFetch, err)
	}
	return doc, nil
}
