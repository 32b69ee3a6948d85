package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/saiisback/search-engine/internal/domain"
)

const (
	maxPageLinks  = 100
	maxPageImages = 50
	minBlockLen   = 10
)

var blankLinesRe = regexp.MustCompile(`\n\s*\n+`)

// FetchPage retrieves a page and extracts its readable content: title, meta
// tags, links, images and the substantial text blocks.
func (s *Scraper) FetchPage(ctx context.Context, rawURL string) (*domain.PageContent, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, domain.ErrInvalidURL
	}

	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, domain.ErrInvalidURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrPageFetch, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageFetch, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "No title found"
	}

	metaTags := map[string]string{}
	doc.Find("meta").Each(func(_ int, m *goquery.Selection) {
		content := m.AttrOr("content", "")
		if name, ok := m.Attr("name"); ok {
			metaTags[name] = content
		} else if property, ok := m.Attr("property"); ok {
			metaTags[property] = content
		}
	})

	var links []domain.PageLink
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		links = append(links, domain.PageLink{
			Href:  absolutize(base, href),
			Text:  strings.TrimSpace(a.Text()),
			Title: a.AttrOr("title", ""),
		})
		return len(links) < maxPageLinks
	})

	var images []domain.PageImage
	doc.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		images = append(images, domain.PageImage{
			Src:   absolutize(base, src),
			Alt:   img.AttrOr("alt", ""),
			Title: img.AttrOr("title", ""),
		})
		return len(images) < maxPageImages
	})

	doc.Find("script, style, noscript").Remove()

	var textBlocks []string
	doc.Find("p, h1, h2, h3, h4, h5, h6, li").Each(func(_ int, el *goquery.Selection) {
		if text := strings.TrimSpace(el.Text()); len(text) > minBlockLen {
			textBlocks = append(textBlocks, text)
		}
	})

	content := strings.Join(textBlocks, "\n\n")
	if content == "" {
		content = strings.TrimSpace(blankLinesRe.ReplaceAllString(doc.Find("body").Text(), "\n\n"))
	}

	return &domain.PageContent{
		URL:        rawURL,
		Title:      title,
		Content:    content,
		MetaTags:   metaTags,
		Links:      links,
		Images:     images,
		TextBlocks: textBlocks,
	}, nil
}

func absolutize(base *url.URL, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
