package gateway

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saiisback/search-engine/internal/domain"
)

type searchResponse struct {
	Query         string                `json:"query"`
	SearchEngine  domain.Engine         `json:"search_engine"`
	Results       []domain.SearchResult `json:"results"`
	TotalResults  int                   `json:"total_results"`
	ExecutionTime float64               `json:"execution_time"`
	Cached        bool                  `json:"cached,omitempty"`
}

type imageSearchResponse struct {
	Query         string               `json:"query"`
	SearchEngine  domain.Engine        `json:"search_engine"`
	Results       []domain.ImageResult `json:"results"`
	TotalResults  int                  `json:"total_results"`
	ExecutionTime float64              `json:"execution_time"`
	Cached        bool                 `json:"cached,omitempty"`
}

type contentResponse struct {
	URL           string              `json:"url"`
	Content       *domain.PageContent `json:"content"`
	ExecutionTime float64             `json:"execution_time"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params, ok := s.searchParams(w, r, domain.ModeText)
	if !ok {
		return
	}
	query := params.query

	cacheKey := string(query.Engine) + ":" + query.Text
	if params.useCache {
		if cached, ok := s.cache.Get(cacheKey); ok {
			s.metrics.RecordCacheHit()
			resp := cached.(searchResponse)
			// The cache holds the full scraped list; a hit serves the
			// requested slice while total_results keeps the full count.
			if len(resp.Results) > query.MaxResults {
				resp.Results = resp.Results[:query.MaxResults]
			}
			resp.Cached = true
			writeJSON(w, http.StatusOK, resp)
			return
		}
		s.metrics.RecordCacheMiss()
	}

	start := time.Now()
	results, err := s.scraper.Search(r.Context(), query.Text, query.Engine, query.MaxResults, params.includeFeatured)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.RecordScrape(string(query.Engine), "error", elapsed)
		s.logger.Error("search scrape failed",
			zap.String("query", query.Text),
			zap.String("engine", string(query.Engine)),
			zap.Error(err),
		)
		// The scrape outcome is part of the payload, not the transport:
		// clients render it, they do not retry it.
		writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()})
		return
	}
	s.metrics.RecordScrape(string(query.Engine), "success", elapsed)

	if results == nil {
		results = []domain.SearchResult{}
	}
	resp := searchResponse{
		Query:         query.Text,
		SearchEngine:  query.Engine,
		Results:       results,
		TotalResults:  len(results),
		ExecutionTime: elapsed.Seconds(),
	}

	if params.useCache {
		s.cache.Set(cacheKey, resp)
	}
	s.archiveSearch(query.Text, query.Engine, domain.ModeText, len(results), elapsed.Seconds())

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleImageSearch(w http.ResponseWriter, r *http.Request) {
	params, ok := s.searchParams(w, r, domain.ModeImage)
	if !ok {
		return
	}
	query := params.query

	cacheKey := "images:" + query.Text
	if params.useCache {
		if cached, ok := s.cache.Get(cacheKey); ok {
			s.metrics.RecordCacheHit()
			resp := cached.(imageSearchResponse)
			if len(resp.Results) > query.MaxResults {
				resp.Results = resp.Results[:query.MaxResults]
			}
			resp.Cached = true
			writeJSON(w, http.StatusOK, resp)
			return
		}
		s.metrics.RecordCacheMiss()
	}

	start := time.Now()
	results, err := s.scraper.SearchImages(r.Context(), query.Text, query.MaxResults)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.RecordScrape("images", "error", elapsed)
		s.logger.Error("image scrape failed",
			zap.String("query", query.Text),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()})
		return
	}
	s.metrics.RecordScrape("images", "success", elapsed)

	if results == nil {
		results = []domain.ImageResult{}
	}
	resp := imageSearchResponse{
		Query:         query.Text,
		SearchEngine:  query.Engine,
		Results:       results,
		TotalResults:  len(results),
		ExecutionTime: elapsed.Seconds(),
	}

	if params.useCache {
		s.cache.Set(cacheKey, resp)
	}
	s.archiveSearch(query.Text, query.Engine, domain.ModeImage, len(results), elapsed.Seconds())

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if strings.TrimSpace(rawURL) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url parameter is required"})
		return
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url must start with http:// or https://"})
		return
	}

	start := time.Now()
	page, err := s.scraper.FetchPage(r.Context(), rawURL)
	elapsed := time.Since(start)

	if err != nil {
		s.logger.Error("content fetch failed",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()})
		return
	}

	s.archivePage(page)

	writeJSON(w, http.StatusOK, contentResponse{
		URL:           rawURL,
		Content:       page,
		ExecutionTime: elapsed.Seconds(),
	})
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	cleared := s.cache.Clear()
	s.logger.Info("cache cleared", zap.Int("items", cleared))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"cleared_items": cleared,
	})
}

type searchQueryParams struct {
	query           domain.Query
	useCache        bool
	includeFeatured bool
}

// searchParams validates the shared query parameters of the search endpoints
// into a domain.Query. On failure the 400 response has already been written.
func (s *Server) searchParams(w http.ResponseWriter, r *http.Request, mode domain.SearchMode) (searchQueryParams, bool) {
	q := r.URL.Query()

	params := searchQueryParams{
		query: domain.Query{
			Text:       strings.TrimSpace(q.Get("query")),
			Mode:       mode,
			Engine:     domain.EngineGoogle,
			MaxResults: domain.DefaultResultCount,
		},
		useCache:        true,
		includeFeatured: true,
	}

	if raw := q.Get("search_engine"); raw != "" {
		params.query.Engine = domain.Engine(raw)
	}

	if raw := q.Get("num_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > domain.MaxResultCount {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "num_results must be between 1 and 20"})
			return params, false
		}
		params.query.MaxResults = n
	}

	if err := params.query.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: paramMessage(err)})
		return params, false
	}

	if raw := q.Get("use_cache"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "use_cache must be a boolean"})
			return params, false
		}
		params.useCache = v
	}

	if raw := q.Get("include_featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "include_featured must be a boolean"})
			return params, false
		}
		params.includeFeatured = v
	}

	return params, true
}

func paramMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return "query parameter is required"
	case errors.Is(err, domain.ErrQueryTooLong):
		return "query must be at most 1000 characters"
	case errors.Is(err, domain.ErrInvalidEngine):
		return "search_engine must be google or bing"
	default:
		return err.Error()
	}
}

// archiveSearch records the request off the response path. Archive failures
// are logged and otherwise ignored.
func (s *Server) archiveSearch(query string, engine domain.Engine, mode domain.SearchMode, resultCount int, execTime float64) {
	if s.archive == nil {
		return
	}

	log := &domain.SearchLog{
		Query:         query,
		Engine:        engine,
		Mode:          mode,
		ResultCount:   resultCount,
		ExecutionTime: execTime,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.archive.SaveSearchLog(ctx, log); err != nil {
			s.logger.Warn("archive search log failed", zap.Error(err))
		}
	}()
}

func (s *Server) archivePage(page *domain.PageContent) {
	if s.archive == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.archive.SavePageContent(ctx, page); err != nil {
			s.logger.Warn("archive page snapshot failed", zap.Error(err))
		}
	}()
}
