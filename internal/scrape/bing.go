package scrape

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/saiisback/search-engine/internal/domain"
)

func parseBing(doc *goquery.Document, numResults int) []domain.SearchResult {
	var results []domain.SearchResult

	doc.Find("#b_results > li.b_algo").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		a := li.Find("h2 a").First()
		title := strings.TrimSpace(a.Text())
		link, _ := a.Attr("href")

		if title == "" || link == "" || strings.Contains(link, "bing.com/search") {
			return true
		}

		snippet := strings.TrimSpace(li.Find(".b_caption p").First().Text())
		if snippet == "" {
			snippet = "No description available"
		}

		var features map[string]string
		if attribution := strings.TrimSpace(li.Find(".b_attribution cite").First().Text()); attribution != "" {
			features = map[string]string{"attribution": attribution}
		}

		results = append(results, domain.SearchResult{
			ID:       uuid.NewString(),
			Title:    title,
			Snippet:  snippet,
			URL:      link,
			Source:   "bing",
			Domain:   domain.ExtractDomain(link),
			Position: len(results) + 1,
			Features: features,
		})

		return len(results) < numResults
	})

	return results
}

// iuscMeta is the metadata blob Bing Images embeds on each tile.
type iuscMeta struct {
	MediaURL  string `json:"murl"`
	ThumbURL  string `json:"turl"`
	Title     string `json:"t"`
	SourceURL string `json:"purl"`
}

// SearchImages scrapes Bing Images. Bing serves a static tile grid with
// per-tile JSON metadata, which is the only engine here that works without
// script execution, so both engine selections are served from it.
func (s *Scraper) SearchImages(ctx context.Context, query string, numResults int) ([]domain.ImageResult, error) {
	if numResults <= 0 {
		numResults = domain.DefaultResultCount
	}

	doc, err := s.fetchDoc(ctx, s.bingBase+"/images/search?q="+queryEscape(query))
	if err != nil {
		return nil, err
	}

	var results []domain.ImageResult
	doc.Find("a.iusc").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		raw, ok := a.Attr("m")
		if !ok {
			return true
		}

		var meta iuscMeta
		if err := json.Unmarshal([]byte(raw), &meta); err != nil || meta.MediaURL == "" {
			return true
		}

		img := a.Find("img").First()
		alt := meta.Title
		if v, ok := img.Attr("alt"); ok && v != "" {
			alt = v
		}

		result := domain.ImageResult{
			ID:           uuid.NewString(),
			URL:          meta.MediaURL,
			ThumbnailURL: meta.ThumbURL,
			Title:        meta.Title,
			AltText:      alt,
			SourceURL:    meta.SourceURL,
			SourceDomain: domain.ExtractDomain(meta.SourceURL),
			Position:     len(results) + 1,
		}
		if w, ok := intAttr(img, "width"); ok {
			result.Width = w
		}
		if h, ok := intAttr(img, "height"); ok {
			result.Height = h
		}

		results = append(results, result)
		return len(results) < numResults
	})

	return results, nil
}

func intAttr(sel *goquery.Selection, name string) (int, bool) {
	raw, ok := sel.Attr(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
