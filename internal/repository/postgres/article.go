package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"counselpost/internal/domain"
	"counselpost/internal/domain/models"
	"counselpost/internal/domain/repositories"
)

// ArticleRepository implements repositories.ArticleRepository over postgres.
// Rows are scanned into the typed Article record at this boundary; nothing
// downstream ever sees a raw row shape.
type ArticleRepository struct {
	db     DBTX
	tables *TableNames
	logger *slog.Logger
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(config *RepositoryConfig) repositories.ArticleRepository {
	return &ArticleRepository{
		db:     config.DB,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// ListActive returns active catalog entries, newest first.
func (r *ArticleRepository) ListActive(ctx context.Context) ([]models.Article, error) {
	query := fmt.Sprintf(`
		SELECT id, title, description, filename, status, created_at
		FROM %s
		WHERE is_active = true AND status = 'active'
		ORDER BY created_at DESC
	`, r.tables.Articles)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Filename, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return articles, nil
}

// GetByFilename returns the catalog entry for one article.
func (r *ArticleRepository) GetByFilename(ctx context.Context, filename string) (*models.Article, error) {
	query := fmt.Sprintf(`
		SELECT id, title, description, filename, status, created_at
		FROM %s
		WHERE filename = $1 AND is_active = true AND status = 'active'
	`, r.tables.Articles)

	var a models.Article
	err := r.db.QueryRow(ctx, query, filename).Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.Filename,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("article %s: %w", filename, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get article: %w", err)
	}

	return &a, nil
}
