package llm

import (
	"context"
	"errors"
)

var (
	ErrAuthFailed    = errors.New("authentication failed")
	ErrRateLimit     = errors.New("rate limit exceeded")
	ErrInvalid       = errors.New("invalid request")
	ErrRequestFailed = errors.New("request failed")
	ErrEmptyResponse = errors.New("empty response")
)

// ErrorKind classifies a completion failure so that retry policy never has to
// inspect error message text.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindRateLimit
	KindAuth
	KindInvalid
	KindTransport
	KindDecode
	KindEmpty
)

// Retryable reports whether a failure of this kind warrants rotating to the
// next credential. Transport failures and timeouts are deliberately not
// retried, matching the product's historical behavior.
func (k ErrorKind) Retryable() bool {
	switch k {
	case KindRateLimit, KindAuth, KindInvalid:
		return true
	default:
		return false
	}
}

// KindOf maps an error returned by a Client onto its kind.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrRateLimit):
		return KindRateLimit
	case errors.Is(err, ErrAuthFailed):
		return KindAuth
	case errors.Is(err, ErrInvalid):
		return KindInvalid
	case errors.Is(err, ErrEmptyResponse):
		return KindEmpty
	default:
		return KindTransport
	}
}

type Client interface {
	CompleteWithSystem(ctx context.Context, system, prompt string) (string, error)
}

// Factory builds a Client bound to one credential from the pool.
type Factory func(apiKey string) Client
