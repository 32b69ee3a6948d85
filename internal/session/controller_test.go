package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/saiisback/search-engine/internal/domain"
	searchmock "github.com/saiisback/search-engine/internal/search/mock"
	"github.com/saiisback/search-engine/internal/summary"
)

type stubSummarizer struct {
	outcome *summary.Outcome
	err     error
	delay   time.Duration

	mu    sync.Mutex
	calls int
}

func (s *stubSummarizer) Summarize(ctx context.Context, query string) (*summary.Outcome, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.outcome, s.err
}

type stubContent struct {
	mu    sync.Mutex
	pages map[string]*domain.PageContent
	delay map[string]time.Duration
	calls []string
}

func newStubContent() *stubContent {
	return &stubContent{
		pages: make(map[string]*domain.PageContent),
		delay: make(map[string]time.Duration),
	}
}

func (s *stubContent) Fetch(ctx context.Context, url string) (*domain.PageContent, error) {
	s.mu.Lock()
	s.calls = append(s.calls, url)
	d := s.delay[url]
	page := s.pages[url]
	s.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
	if page == nil {
		return nil, errors.New("not found")
	}
	return page, nil
}

func newController(searcher *searchmock.Client, summarizer Summarizer, content ContentFetcher) *Controller {
	return New(Config{MaxResults: 5}, searcher, summarizer, content, zap.NewNop())
}

func textResults(n int) []domain.SearchResult {
	results := make([]domain.SearchResult, n)
	for i := range results {
		results[i] = domain.SearchResult{ID: "r", Title: "t", Position: i + 1}
	}
	return results
}

func TestController_SubmitTransitions(t *testing.T) {
	searcher := searchmock.New().WithResults(textResults(5))
	c := newController(searcher, nil, newStubContent())

	if got := c.Snapshot().State; got != StateIdle {
		t.Fatalf("initial state = %v, want idle", got)
	}

	c.Submit(context.Background(), "rust ownership")

	if got := c.Snapshot().State; got != StateSubmitting && got != StateDisplaying {
		t.Errorf("state after submit = %v", got)
	}

	c.Wait()

	snap := c.Snapshot()
	if snap.State != StateDisplaying {
		t.Errorf("settled state = %v, want displaying", snap.State)
	}
	if snap.Query != "rust ownership" {
		t.Errorf("Query = %q", snap.Query)
	}
	if len(snap.Results.Results) != 5 {
		t.Fatalf("len(Results) = %d, want 5", len(snap.Results.Results))
	}
	for i, r := range snap.Results.Results {
		if r.Position != i+1 {
			t.Errorf("Results[%d].Position = %d, want %d", i, r.Position, i+1)
		}
	}
}

func TestController_BlankQueryIsNoop(t *testing.T) {
	searcher := searchmock.New()
	c := newController(searcher, nil, newStubContent())

	c.Submit(context.Background(), "   \t ")
	c.Wait()

	snap := c.Snapshot()
	if snap.State != StateIdle {
		t.Errorf("state = %v, want idle", snap.State)
	}
	if text, image := searcher.Calls(); text != 0 || image != 0 {
		t.Errorf("fetches issued = (%d, %d), want none", text, image)
	}
}

func TestController_FetchErrorIsRenderable(t *testing.T) {
	searcher := searchmock.New().WithError(errors.New("backend down"))
	c := newController(searcher, nil, newStubContent())

	c.Submit(context.Background(), "q")
	c.Wait()

	snap := c.Snapshot()
	if snap.State != StateDisplaying {
		t.Errorf("state = %v, want displaying even on failure", snap.State)
	}
	if snap.Results.Error == "" {
		t.Error("Results.Error should carry the failure message")
	}
}

func TestController_EmptyResultsIsNotError(t *testing.T) {
	searcher := searchmock.New().WithResults(nil)
	c := newController(searcher, nil, newStubContent())

	c.Submit(context.Background(), "obscure query")
	c.Wait()

	snap := c.Snapshot()
	if snap.Results.Error != "" {
		t.Errorf("Error = %q, want empty", snap.Results.Error)
	}
	if len(snap.Results.Results) != 0 || snap.Results.TotalResults != 0 {
		t.Errorf("unexpected results state: %+v", snap.Results)
	}
}

func TestController_ModeSwitchDiscardsAndFetchesOnce(t *testing.T) {
	searcher := searchmock.New().
		WithResults(textResults(3)).
		WithImageResults([]domain.ImageResult{{ID: "i1", Position: 1}})
	c := newController(searcher, nil, newStubContent())

	c.Submit(context.Background(), "cats")
	c.Wait()

	c.SetMode(context.Background(), domain.ModeImage)
	c.Wait()

	snap := c.Snapshot()
	if len(snap.Results.Results) != 0 {
		t.Error("text results must be discarded after switching to image mode")
	}
	if len(snap.Results.ImageResults) != 1 {
		t.Errorf("len(ImageResults) = %d, want 1", len(snap.Results.ImageResults))
	}
	if _, image := searcher.Calls(); image != 1 {
		t.Errorf("image fetches = %d, want exactly 1", image)
	}
}

func TestController_SameModeIsNoop(t *testing.T) {
	searcher := searchmock.New().WithResults(textResults(1))
	c := newController(searcher, nil, newStubContent())

	c.Submit(context.Background(), "q")
	c.Wait()
	text1, _ := searcher.Calls()

	c.SetMode(context.Background(), domain.ModeText)
	c.Wait()
	text2, _ := searcher.Calls()

	if text2 != text1 {
		t.Errorf("re-selecting the active mode issued a fetch: %d -> %d", text1, text2)
	}
}

func TestController_EngineSwitchRefetches(t *testing.T) {
	searcher := searchmock.New().WithResults(textResults(2))
	c := newController(searcher, nil, newStubContent())

	c.Submit(context.Background(), "q")
	c.Wait()

	c.SetEngine(context.Background(), domain.EngineBing)
	c.Wait()

	text, _ := searcher.Calls()
	if text != 2 {
		t.Errorf("text fetches = %d, want 2", text)
	}
	if got := searcher.LastRequest.Engine; got != domain.EngineBing {
		t.Errorf("LastRequest.Engine = %v, want bing", got)
	}
}

func TestController_SummaryCommitsIntoOwnSlice(t *testing.T) {
	searcher := searchmock.New().WithResults(textResults(2))
	summarizer := &stubSummarizer{
		outcome: &summary.Outcome{Status: summary.StatusReady, Text: "<strong>Lead.</strong>", CredentialIndex: 1},
	}
	c := newController(searcher, summarizer, newStubContent())

	c.Submit(context.Background(), "q")
	c.Wait()

	snap := c.Snapshot()
	if snap.Summary.Status != summary.StatusReady {
		t.Errorf("Summary.Status = %v, want ready", snap.Summary.Status)
	}
	if snap.Summary.CredentialIndex != 1 {
		t.Errorf("CredentialIndex = %d, want 1", snap.Summary.CredentialIndex)
	}
	if len(snap.Results.Results) != 2 {
		t.Errorf("results slice disturbed: %+v", snap.Results)
	}
}

func TestController_SummaryFailureDoesNotBlockResults(t *testing.T) {
	searcher := searchmock.New().WithResults(textResults(2))
	summarizer := &stubSummarizer{err: summary.ErrCredentialsExhausted}
	c := newController(searcher, summarizer, newStubContent())

	c.Submit(context.Background(), "q")
	c.Wait()

	snap := c.Snapshot()
	if snap.Summary.Status != summary.StatusFailed || snap.Summary.Error == "" {
		t.Errorf("Summary = %+v, want failed with message", snap.Summary)
	}
	if len(snap.Results.Results) != 2 || snap.Results.Error != "" {
		t.Errorf("results should be unaffected: %+v", snap.Results)
	}
}

func TestController_NewSubmitSupersedesSlowFetch(t *testing.T) {
	// First fetch is slow; second lands first. The slow settlement must be
	// discarded by token comparison, not rendered.
	searcher := searchmock.New().WithResults(textResults(1)).WithDelay(150 * time.Millisecond)
	c := newController(searcher, nil, newStubContent())

	c.Submit(context.Background(), "first")

	time.Sleep(20 * time.Millisecond)
	searcher.SetDelay(0)
	c.Submit(context.Background(), "second")

	c.Wait()

	snap := c.Snapshot()
	if snap.Query != "second" {
		t.Errorf("Query = %q, want second", snap.Query)
	}
	if snap.State != StateDisplaying {
		t.Errorf("state = %v, want displaying", snap.State)
	}
}

func TestController_ContentSupersession(t *testing.T) {
	content := newStubContent()
	content.pages["https://x.test/a"] = &domain.PageContent{URL: "https://x.test/a", Content: "A"}
	content.pages["https://x.test/b"] = &domain.PageContent{URL: "https://x.test/b", Content: "B"}
	content.delay["https://x.test/a"] = 100 * time.Millisecond

	c := newController(searchmock.New(), nil, content)

	c.OpenContent(context.Background(), "https://x.test/a")
	c.OpenContent(context.Background(), "https://x.test/b")
	c.Wait()

	snap := c.Snapshot()
	if !snap.Overlay.Open {
		t.Fatal("overlay should be open")
	}
	if snap.Overlay.URL != "https://x.test/b" {
		t.Errorf("Overlay.URL = %q, want the latest requested URL", snap.Overlay.URL)
	}
	if snap.Overlay.Page == nil || snap.Overlay.Page.Content != "B" {
		t.Errorf("Overlay.Page = %+v, want content B", snap.Overlay.Page)
	}
}

func TestController_CloseContentDropsLateSettlement(t *testing.T) {
	content := newStubContent()
	content.pages["https://x.test/a"] = &domain.PageContent{URL: "https://x.test/a", Content: "A"}
	content.delay["https://x.test/a"] = 80 * time.Millisecond

	c := newController(searchmock.New(), nil, content)

	c.OpenContent(context.Background(), "https://x.test/a")
	c.CloseContent()
	c.Wait()

	if snap := c.Snapshot(); snap.Overlay.Open {
		t.Errorf("overlay should stay closed, got %+v", snap.Overlay)
	}
}

func TestController_NotifyFires(t *testing.T) {
	searcher := searchmock.New().WithResults(textResults(1))
	c := newController(searcher, nil, newStubContent())

	var mu sync.Mutex
	count := 0
	c.SetNotify(func() {
		mu.Lock()
		count++
		mu.Unlock()
	})

	c.Submit(context.Background(), "q")
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count < 2 {
		t.Errorf("notify fired %d times, want at least submit+settle", count)
	}
}

func TestController_SubmitTruncatesOverlongQuery(t *testing.T) {
	searcher := searchmock.New().WithResults(textResults(1))
	c := newController(searcher, nil, newStubContent())

	// The two-byte rune straddles the length cap; truncation must not
	// split it.
	long := strings.Repeat("g", domain.MaxQueryLength-1) + "é"
	c.Submit(context.Background(), long)
	c.Wait()

	got := searcher.LastRequest.Query
	if got == "" {
		t.Fatal("overlong query was dropped instead of truncated")
	}
	if len(got) > domain.MaxQueryLength {
		t.Errorf("query length = %d, want at most %d", len(got), domain.MaxQueryLength)
	}
	if !utf8.ValidString(got) {
		t.Error("truncated query is not valid UTF-8")
	}
	if snap := c.Snapshot(); snap.Query != got {
		t.Errorf("view query = %q, want the fetched query", snap.Query)
	}
}
