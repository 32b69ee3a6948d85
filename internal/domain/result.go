package domain

import (
	"net/url"
	"strings"
	"time"
)

// SearchResult is one organic (or featured) hit from the backend. Field names
// follow the wire contract of the search API.
type SearchResult struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Snippet  string            `json:"snippet"`
	URL      string            `json:"url"`
	Source   string            `json:"source"`
	Domain   string            `json:"domain"`
	Position int               `json:"position"`
	Features map[string]string `json:"features,omitempty"`
}

type ImageResult struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Title        string `json:"title"`
	AltText      string `json:"alt_text"`
	SourceURL    string `json:"source_url"`
	SourceDomain string `json:"source_domain"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Position     int    `json:"position"`
}

// PageContent is the extracted content of a single page, held only while a
// content overlay is open.
type PageContent struct {
	URL        string            `json:"url"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	MetaTags   map[string]string `json:"meta_tags,omitempty"`
	Links      []PageLink        `json:"links,omitempty"`
	Images     []PageImage       `json:"images,omitempty"`
	TextBlocks []string          `json:"text_blocks,omitempty"`
}

type PageLink struct {
	Href  string `json:"href"`
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
}

type PageImage struct {
	Src   string `json:"src"`
	Alt   string `json:"alt"`
	Title string `json:"title,omitempty"`
}

// SearchLog is one archived search request.
type SearchLog struct {
	ID            int64
	Query         string
	Engine        Engine
	Mode          SearchMode
	ResultCount   int
	ExecutionTime float64
	CreatedAt     time.Time
}

// ExtractDomain returns the host part of a URL, without the www prefix.
// Unparseable input yields an empty string.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
