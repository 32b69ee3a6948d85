package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/saiisback/search-engine/internal/domain"
)

type ArchiveRepo struct {
	db *DB
}

func NewArchiveRepo(db *DB) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

func (r *ArchiveRepo) SaveSearchLog(ctx context.Context, log *domain.SearchLog) error {
	query := `
        INSERT INTO search_logs (query, engine, mode, result_count, execution_time)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `

	err := r.db.Pool.QueryRow(ctx, query,
		log.Query,
		string(log.Engine),
		string(log.Mode),
		log.ResultCount,
		log.ExecutionTime,
	).Scan(&log.ID, &log.CreatedAt)

	if err != nil {
		return fmt.Errorf("save search log: %w", err)
	}

	return nil
}

func (r *ArchiveRepo) RecentSearches(ctx context.Context, limit int) ([]domain.SearchLog, error) {
	query := `
        SELECT id, query, engine, mode, result_count, execution_time, created_at
        FROM search_logs
        ORDER BY created_at DESC
        LIMIT $1
    `

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	defer rows.Close()

	var logs []domain.SearchLog
	for rows.Next() {
		var l domain.SearchLog
		var engine, mode string
		err := rows.Scan(
			&l.ID,
			&l.Query,
			&engine,
			&mode,
			&l.ResultCount,
			&l.ExecutionTime,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan search log: %w", err)
		}
		l.Engine = domain.Engine(engine)
		l.Mode = domain.SearchMode(mode)
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return logs, nil
}

func (r *ArchiveRepo) SavePageContent(ctx context.Context, page *domain.PageContent) error {
	metaTags, err := json.Marshal(page.MetaTags)
	if err != nil {
		return fmt.Errorf("marshal meta tags: %w", err)
	}
	links, err := json.Marshal(page.Links)
	if err != nil {
		return fmt.Errorf("marshal links: %w", err)
	}
	images, err := json.Marshal(page.Images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	textBlocks, err := json.Marshal(page.TextBlocks)
	if err != nil {
		return fmt.Errorf("marshal text blocks: %w", err)
	}

	query := `
        INSERT INTO page_snapshots (url, title, content, meta_tags, links, images, text_blocks, fetched_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
        ON CONFLICT (url) DO UPDATE SET
            title = EXCLUDED.title,
            content = EXCLUDED.content,
            meta_tags = EXCLUDED.meta_tags,
            links = EXCLUDED.links,
            images = EXCLUDED.images,
            text_blocks = EXCLUDED.text_blocks,
            fetched_at = NOW()
    `

	_, err = r.db.Pool.Exec(ctx, query,
		page.URL,
		page.Title,
		page.Content,
		metaTags,
		links,
		images,
		textBlocks,
	)
	if err != nil {
		return fmt.Errorf("save page snapshot: %w", err)
	}

	return nil
}

func (r *ArchiveRepo) GetPageContent(ctx context.Context, url string) (*domain.PageContent, error) {
	query := `
        SELECT url, title, content, meta_tags, links, images, text_blocks
        FROM page_snapshots
        WHERE url = $1
    `

	var page domain.PageContent
	var metaTags, links, images, textBlocks []byte
	err := r.db.Pool.QueryRow(ctx, query, url).Scan(
		&page.URL,
		&page.Title,
		&page.Content,
		&metaTags,
		&links,
		&images,
		&textBlocks,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPageNotFound
		}
		return nil, fmt.Errorf("get page snapshot: %w", err)
	}

	if err := json.Unmarshal(metaTags, &page.MetaTags); err != nil {
		return nil, fmt.Errorf("unmarshal meta tags: %w", err)
	}
	if err := json.Unmarshal(links, &page.Links); err != nil {
		return nil, fmt.Errorf("unmarshal links: %w", err)
	}
	if err := json.Unmarshal(images, &page.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	if err := json.Unmarshal(textBlocks, &page.TextBlocks); err != nil {
		return nil, fmt.Errorf("unmarshal text blocks: %w", err)
	}

	return &page, nil
}
