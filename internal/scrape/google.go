package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/saiisback/search-engine/internal/domain"
)

var dateRe = regexp.MustCompile(`\d{1,2}\s+\w+\s+\d{4}|\d{1,2}/\d{1,2}/\d{2,4}`)

func queryEscape(q string) string {
	return url.QueryEscape(q)
}

func parseGoogle(doc *goquery.Document, query string, numResults int, includeFeatured bool) []domain.SearchResult {
	var results []domain.SearchResult

	if includeFeatured {
		results = append(results, parseGoogleFeatured(doc, query)...)
	}

	sel := doc.Find("#search .g")
	if sel.Length() == 0 {
		sel = doc.Find("#rso [data-hveid]")
	}

	position := 0
	sel.EachWithBreak(func(_ int, g *goquery.Selection) bool {
		title := strings.TrimSpace(g.Find("h3").First().Text())

		var link string
		g.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if a.Find("h3").Length() > 0 {
				link, _ = a.Attr("href")
				return false
			}
			return true
		})
		if link == "" {
			link, _ = g.Find("a[href]").First().Attr("href")
		}

		if title == "" || link == "" || strings.Contains(link, "google.com/search") {
			return true
		}

		snippet := strings.TrimSpace(g.Find(".VwiC3b, .IsZvec").First().Text())
		if snippet == "" {
			g.Find("div").EachWithBreak(func(_ int, d *goquery.Selection) bool {
				text := strings.TrimSpace(d.Text())
				if len(text) > 10 && text != title {
					snippet = text
					return false
				}
				return true
			})
		}
		if snippet == "" {
			snippet = "No description available"
		}

		features := map[string]string{}
		if stars, ok := g.Find(`[role="img"]`).First().Attr("aria-label"); ok && strings.Contains(stars, "star") {
			features["stars"] = stars
		}
		g.Find("span").EachWithBreak(func(_ int, sp *goquery.Selection) bool {
			if date := dateRe.FindString(sp.Text()); date != "" {
				features["date"] = date
				return false
			}
			return true
		})
		if len(features) == 0 {
			features = nil
		}

		position++
		results = append(results, domain.SearchResult{
			ID:       uuid.NewString(),
			Title:    title,
			Snippet:  snippet,
			URL:      link,
			Source:   "google",
			Domain:   domain.ExtractDomain(link),
			Position: position,
			Features: features,
		})

		return countOrganic(results) < numResults
	})

	return results
}

// parseGoogleFeatured extracts featured snippets and knowledge panels.
// Featured items get negative positions so they sort ahead of organics.
func parseGoogleFeatured(doc *goquery.Document, query string) []domain.SearchResult {
	var results []domain.SearchResult

	doc.Find("#search .kp-wholepage, #search .ULSxyf, #search .V3FYCf").Each(func(i int, f *goquery.Selection) {
		title := strings.TrimSpace(f.Find(`h2, h3, [role="heading"]`).First().Text())
		if title == "" {
			title = "Featured Result"
		}

		content := strings.TrimSpace(f.Text())
		content = strings.TrimSpace(strings.Replace(content, title, "", 1))

		link, _ := f.Find("a[href]").First().Attr("href")
		if link == "" {
			link = "https://www.google.com/search?q=" + queryEscape(query)
		}

		results = append(results, domain.SearchResult{
			ID:       uuid.NewString(),
			Title:    title,
			Snippet:  content,
			URL:      link,
			Source:   "google_featured",
			Domain:   domain.ExtractDomain(link),
			Position: -i - 1,
			Features: map[string]string{"type": "featured_snippet"},
		})
	})

	return results
}

func countOrganic(results []domain.SearchResult) int {
	n := 0
	for _, r := range results {
		if r.Position > 0 {
			n++
		}
	}
	return n
}
