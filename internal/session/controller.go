package session

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/saiisback/search-engine/internal/domain"
	"github.com/saiisback/search-engine/internal/search"
	"github.com/saiisback/search-engine/internal/summary"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateDisplaying State = "displaying"
)

type Summarizer interface {
	Summarize(ctx context.Context, query string) (*summary.Outcome, error)
}

type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.PageContent, error)
}

// ResultsView is the renderable slice of state for the result list.
type ResultsView struct {
	Loading       bool
	Results       []domain.SearchResult
	ImageResults  []domain.ImageResult
	TotalResults  int
	ExecutionTime float64
	Error         string
}

type SummaryView struct {
	Status          summary.Status
	Text            string
	CredentialIndex int
	Error           string
}

type OverlayView struct {
	Open    bool
	Loading bool
	URL     string
	Page    *domain.PageContent
	Error   string
}

// View is an immutable snapshot of everything a renderer needs.
type View struct {
	State   State
	Query   string
	Mode    domain.SearchMode
	Engine  domain.Engine
	Results ResultsView
	Summary SummaryView
	Overlay OverlayView
}

type Config struct {
	MaxResults int
}

// Controller owns the visible state of one search session. Every fetch is
// tagged with a monotonic token per state slice; a settlement commits only if
// its token is still the latest issued for that slice, so stale responses for
// superseded inputs are discarded rather than cancelled.
type Controller struct {
	searcher   search.Client
	summarizer Summarizer
	content    ContentFetcher
	logger     *zap.Logger
	maxResults int

	mu     sync.Mutex
	wg     sync.WaitGroup
	notify func()

	state  State
	query  string
	mode   domain.SearchMode
	engine domain.Engine

	resultToken  uint64
	summaryToken uint64
	contentToken uint64

	results ResultsView
	summary SummaryView
	overlay OverlayView
}

func New(cfg Config, searcher search.Client, summarizer Summarizer, content ContentFetcher, logger *zap.Logger) *Controller {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = domain.DefaultResultCount
	}

	return &Controller{
		searcher:   searcher,
		summarizer: summarizer,
		content:    content,
		logger:     logger,
		maxResults: cfg.MaxResults,
		state:      StateIdle,
		mode:       domain.ModeText,
		engine:     domain.EngineGoogle,
	}
}

// SetNotify registers a callback invoked after every committed state change.
func (c *Controller) SetNotify(fn func()) {
	c.mu.Lock()
	c.notify = fn
	c.mu.Unlock()
}

// Submit starts a new search for the given text. Blank input is suppressed
// silently: no fetch, no transition. Overlong input is truncated to the
// domain cap before fetching.
func (c *Controller) Submit(ctx context.Context, text string) {
	c.mu.Lock()
	q := domain.Query{
		Text:       text,
		Mode:       c.mode,
		Engine:     c.engine,
		MaxResults: c.maxResults,
	}
	q.Sanitize()
	if err := q.Validate(); err != nil {
		c.mu.Unlock()
		return
	}

	c.query = q.Text
	c.resubmitLocked(ctx)
	c.mu.Unlock()
	c.fireNotify()
}

// SetMode switches between text and image results, re-fetching for the
// current query. Results for the previous mode are discarded immediately.
func (c *Controller) SetMode(ctx context.Context, mode domain.SearchMode) {
	if !mode.IsValid() {
		return
	}

	c.mu.Lock()
	if c.mode == mode {
		c.mu.Unlock()
		return
	}
	c.mode = mode
	if c.query != "" {
		c.resubmitLocked(ctx)
	}
	c.mu.Unlock()
	c.fireNotify()
}

func (c *Controller) SetEngine(ctx context.Context, engine domain.Engine) {
	if !engine.IsValid() {
		return
	}

	c.mu.Lock()
	if c.engine == engine {
		c.mu.Unlock()
		return
	}
	c.engine = engine
	if c.query != "" {
		c.resubmitLocked(ctx)
	}
	c.mu.Unlock()
	c.fireNotify()
}

// resubmitLocked discards the current lists, advances the fetch tokens and
// launches the fetchers for the current (query, mode, engine) identity.
func (c *Controller) resubmitLocked(ctx context.Context) {
	c.state = StateSubmitting
	c.results = ResultsView{Loading: true}

	c.resultToken++
	token := c.resultToken

	req := search.Request{
		Query:      c.query,
		Engine:     c.engine,
		MaxResults: c.maxResults,
	}

	switch c.mode {
	case domain.ModeImage:
		// Any in-flight summary belongs to text mode; drop its slice.
		c.summaryToken++
		c.summary = SummaryView{}

		c.wg.Add(1)
		go c.fetchImages(ctx, token, req)
	default:
		c.wg.Add(1)
		go c.fetchResults(ctx, token, req)

		if c.summarizer != nil {
			c.summaryToken++
			c.summary = SummaryView{Status: summary.StatusPending}
			c.wg.Add(1)
			go c.fetchSummary(ctx, c.summaryToken, c.query)
		}
	}
}

func (c *Controller) fetchResults(ctx context.Context, token uint64, req search.Request) {
	defer c.wg.Done()

	resp, err := c.searcher.Search(ctx, req)

	c.mu.Lock()
	if token != c.resultToken {
		c.mu.Unlock()
		c.logger.Debug("stale result response discarded", zap.String("query", req.Query))
		return
	}

	c.state = StateDisplaying
	if err != nil {
		c.results = ResultsView{Error: err.Error()}
	} else {
		c.results = ResultsView{
			Results:       resp.Results,
			TotalResults:  resp.TotalResults,
			ExecutionTime: resp.ExecutionTime,
		}
	}
	c.mu.Unlock()
	c.fireNotify()
}

func (c *Controller) fetchImages(ctx context.Context, token uint64, req search.Request) {
	defer c.wg.Done()

	resp, err := c.searcher.SearchImages(ctx, req)

	c.mu.Lock()
	if token != c.resultToken {
		c.mu.Unlock()
		c.logger.Debug("stale image response discarded", zap.String("query", req.Query))
		return
	}

	c.state = StateDisplaying
	if err != nil {
		c.results = ResultsView{Error: err.Error()}
	} else {
		c.results = ResultsView{
			ImageResults:  resp.Results,
			TotalResults:  resp.TotalResults,
			ExecutionTime: resp.ExecutionTime,
		}
	}
	c.mu.Unlock()
	c.fireNotify()
}

func (c *Controller) fetchSummary(ctx context.Context, token uint64, query string) {
	defer c.wg.Done()

	outcome, err := c.summarizer.Summarize(ctx, query)

	c.mu.Lock()
	if token != c.summaryToken {
		c.mu.Unlock()
		c.logger.Debug("stale summary discarded", zap.String("query", query))
		return
	}

	switch {
	case err != nil:
		c.summary = SummaryView{Status: summary.StatusFailed, Error: err.Error()}
	case outcome == nil:
		c.summary = SummaryView{}
	default:
		c.summary = SummaryView{
			Status:          outcome.Status,
			Text:            outcome.Text,
			CredentialIndex: outcome.CredentialIndex,
		}
	}
	c.mu.Unlock()
	c.fireNotify()
}

// OpenContent loads the page overlay for one result. Opening another URL
// while a load is in flight supersedes it: only the latest requested URL's
// outcome is shown.
func (c *Controller) OpenContent(ctx context.Context, url string) {
	if strings.TrimSpace(url) == "" {
		return
	}

	c.mu.Lock()
	c.contentToken++
	token := c.contentToken
	c.overlay = OverlayView{Open: true, Loading: true, URL: url}
	c.mu.Unlock()
	c.fireNotify()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		page, err := c.content.Fetch(ctx, url)

		c.mu.Lock()
		if token != c.contentToken || !c.overlay.Open {
			c.mu.Unlock()
			c.logger.Debug("stale content response discarded", zap.String("url", url))
			return
		}

		if err != nil {
			c.overlay = OverlayView{Open: true, URL: url, Error: err.Error()}
		} else {
			c.overlay = OverlayView{Open: true, URL: url, Page: page}
		}
		c.mu.Unlock()
		c.fireNotify()
	}()
}

func (c *Controller) CloseContent() {
	c.mu.Lock()
	c.contentToken++
	c.overlay = OverlayView{}
	c.mu.Unlock()
	c.fireNotify()
}

// Snapshot returns a copy of the current view state.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		State:   c.state,
		Query:   c.query,
		Mode:    c.mode,
		Engine:  c.engine,
		Results: c.results,
		Summary: c.summary,
		Overlay: c.overlay,
	}
}

// Wait blocks until every fetch launched so far has settled or been
// discarded. Intended for tests and one-shot clients.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) fireNotify() {
	c.mu.Lock()
	fn := c.notify
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
