package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxQueryLength = 1000

	DefaultResultCount = 10
	MaxResultCount     = 20
)

type SearchMode string

const (
	ModeText  SearchMode = "text"
	ModeImage SearchMode = "image"
)

func (m SearchMode) IsValid() bool {
	return m == ModeText || m == ModeImage
}

// Engine is one of the backend search providers.
type Engine string

const (
	EngineGoogle Engine = "google"
	EngineBing   Engine = "bing"
)

func (e Engine) IsValid() bool {
	return e == EngineGoogle || e == EngineBing
}

// Query is a submitted search: the text plus the mode/engine it was issued
// under. The triple scopes which in-flight fetch may update visible state.
type Query struct {
	Text       string
	Mode       SearchMode
	Engine     Engine
	MaxResults int
}

func (q *Query) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrEmptyQuery
	}
	if len(q.Text) > MaxQueryLength {
		return ErrQueryTooLong
	}
	if !q.Mode.IsValid() {
		return ErrInvalidMode
	}
	if !q.Engine.IsValid() {
		return ErrInvalidEngine
	}
	return nil
}

func (q *Query) Sanitize() {
	q.Text = strings.TrimSpace(q.Text)
	if len(q.Text) > MaxQueryLength {
		// Back off to a rune boundary so truncation never splits a
		// multi-byte character.
		cut := MaxQueryLength
		for cut > 0 && !utf8.RuneStart(q.Text[cut]) {
			cut--
		}
		q.Text = q.Text[:cut]
	}
	if q.MaxResults <= 0 {
		q.MaxResults = DefaultResultCount
	}
	if q.MaxResults > MaxResultCount {
		q.MaxResults = MaxResultCount
	}
}
