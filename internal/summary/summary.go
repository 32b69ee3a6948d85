package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saiisback/search-engine/internal/llm"
)

var (
	ErrCredentialsExhausted = errors.New("credential pool exhausted")
	ErrNoCredentials        = errors.New("no credentials configured")
)

type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Outcome is the settled result of one summary request. CredentialIndex
// records which pool entry produced the text.
type Outcome struct {
	Status          Status
	Text            string
	CredentialIndex int
}

type Config struct {
	Keys       []string
	RetryDelay time.Duration
}

// Fetcher produces an AI summary for a query, rotating through an ordered
// credential pool. The index only moves forward; at most len(Keys) attempts
// are made per call.
type Fetcher struct {
	keys      []string
	newClient llm.Factory
	delay     time.Duration
	logger    *zap.Logger
}

func New(cfg Config, factory llm.Factory, logger *zap.Logger) *Fetcher {
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 800 * time.Millisecond
	}

	return &Fetcher{
		keys:      cfg.Keys,
		newClient: factory,
		delay:     cfg.RetryDelay,
		logger:    logger,
	}
}

const systemPrompt = `You are a precise research assistant writing a factual summary for a search results page.

Rules:
1. Begin with a single lead sentence wrapped in **bold** that states the core answer.
2. Follow with exactly eight supporting factual sentences.
3. Formal, encyclopedic tone.
4. No lists, no headings, no hedging language.
5. Plain sentences only; markdown is limited to the bold lead.`

// Summarize issues one completion request, advancing to the next credential
// on rate-limit, auth, or invalid-request failures. A blank query is a no-op
// and yields (nil, nil): nothing to fetch, nothing to render.
func (f *Fetcher) Summarize(ctx context.Context, query string) (*Outcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if len(f.keys) == 0 {
		return nil, ErrNoCredentials
	}

	prompt := fmt.Sprintf("Summarize the topic: %s", query)

	var lastErr error
	for idx := range f.keys {
		if idx > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.delay):
			}
		}

		client := f.newClient(f.keys[idx])
		text, err := client.CompleteWithSystem(ctx, systemPrompt, prompt)
		if err == nil {
			f.logger.Debug("summary ready",
				zap.Int("credential_index", idx),
				zap.Int("length", len(text)),
			)
			return &Outcome{
				Status:          StatusReady,
				Text:            Render(text),
				CredentialIndex: idx,
			}, nil
		}

		kind := llm.KindOf(err)
		if !kind.Retryable() {
			return nil, err
		}

		f.logger.Warn("summary attempt failed, rotating credential",
			zap.Error(err),
			zap.Int("credential_index", idx),
		)
		lastErr = err
	}

	return nil, fmt.Errorf("%w: %v", ErrCredentialsExhausted, lastErr)
}

func (f *Fetcher) PoolSize() int {
	return len(f.keys)
}
