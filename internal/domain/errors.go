package domain

import "errors"

var (
	ErrEmptyQuery    = errors.New("empty query")
	ErrQueryTooLong  = errors.New("query too long")
	ErrInvalidMode   = errors.New("invalid search mode")
	ErrInvalidEngine = errors.New("invalid search engine")
)

var (
	ErrEmptyURL   = errors.New("empty url")
	ErrInvalidURL = errors.New("invalid url")
)

var ErrPageNotFound = errors.New("page not found")
