package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/saiisback/search-engine/internal/config"
	"github.com/saiisback/search-engine/internal/content"
	"github.com/saiisback/search-engine/internal/domain"
	"github.com/saiisback/search-engine/internal/llm"
	"github.com/saiisback/search-engine/internal/llm/openrouter"
	"github.com/saiisback/search-engine/internal/search/webapi"
	"github.com/saiisback/search-engine/internal/session"
	"github.com/saiisback/search-engine/internal/summary"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "searchcli: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	query := flag.String("query", "", "search query")
	mode := flag.String("mode", "text", "search mode: text or image")
	engine := flag.String("engine", "google", "search engine: google or bing")
	num := flag.Int("num", domain.DefaultResultCount, "number of results (1-20)")
	open := flag.String("open", "", "also fetch page content for this result URL")
	flag.Parse()

	if strings.TrimSpace(*query) == "" {
		flag.Usage()
		return fmt.Errorf("query is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	searcher := webapi.New(webapi.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, logger)

	fetcher := content.New(content.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, logger)

	var summarizer session.Summarizer
	if len(cfg.Summary.Keys) > 0 {
		factory := llm.Factory(func(apiKey string) llm.Client {
			return openrouter.New(openrouter.Config{
				APIKey:  apiKey,
				Model:   cfg.Summary.Model,
				BaseURL: cfg.Summary.BaseURL,
				Timeout: cfg.Summary.Timeout,
			}, logger)
		})
		summarizer = summary.New(summary.Config{
			Keys:       cfg.Summary.Keys,
			RetryDelay: cfg.Summary.RetryDelay,
		}, factory, logger)
	}

	ctrl := session.New(session.Config{MaxResults: *num}, searcher, summarizer, fetcher, logger)

	ctx := context.Background()
	ctrl.SetEngine(ctx, domain.Engine(*engine))
	ctrl.SetMode(ctx, domain.SearchMode(*mode))
	ctrl.Submit(ctx, *query)
	ctrl.Wait()

	if *open != "" {
		ctrl.OpenContent(ctx, *open)
		ctrl.Wait()
	}

	printView(ctrl.Snapshot())
	return nil
}

func printView(v session.View) {
	fmt.Printf("query: %s (engine=%s mode=%s)\n\n", v.Query, v.Engine, v.Mode)

	if v.Results.Error != "" {
		fmt.Printf("search failed: %s\n", v.Results.Error)
	}

	for _, r := range v.Results.Results {
		fmt.Printf("%3d. %s\n     %s\n     %s\n", r.Position, r.Title, r.URL, r.Snippet)
	}
	for _, img := range v.Results.ImageResults {
		fmt.Printf("%3d. %s\n     %s\n", img.Position, img.Title, img.URL)
	}
	if v.Results.TotalResults > 0 {
		fmt.Printf("\n%d results in %.2fs\n", v.Results.TotalResults, v.Results.ExecutionTime)
	}

	switch v.Summary.Status {
	case summary.StatusReady:
		fmt.Printf("\nsummary (credential %d):\n%s\n", v.Summary.CredentialIndex, v.Summary.Text)
	case summary.StatusFailed:
		fmt.Printf("\nsummary unavailable: %s\n", v.Summary.Error)
	}

	if v.Overlay.Open {
		if v.Overlay.Error != "" {
			fmt.Printf("\ncontent for %s unavailable: %s\n", v.Overlay.URL, v.Overlay.Error)
		} else if v.Overlay.Page != nil {
			fmt.Printf("\n--- %s ---\n%s\n", v.Overlay.Page.Title, v.Overlay.Page.Content)
		}
	}
}
