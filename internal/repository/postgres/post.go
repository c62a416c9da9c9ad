package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"counselpost/internal/domain"
	"counselpost/internal/domain/models"
	"counselpost/internal/domain/repositories"
)

// PostRepository implements repositories.PostRepository over postgres.
type PostRepository struct {
	db     DBTX
	tables *TableNames
	logger *slog.Logger
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(config *RepositoryConfig) repositories.PostRepository {
	return &PostRepository{
		db:     config.DB,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Save upserts a post by filename so a review session can be re-entered.
func (r *PostRepository) Save(ctx context.Context, post *models.Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, session_id, source_article, filename, content, tone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (filename) DO UPDATE
		SET content = EXCLUDED.content,
		    session_id = EXCLUDED.session_id,
		    updated_at = EXCLUDED.updated_at
	`, r.tables.Posts)

	_, err := r.db.Exec(ctx, query,
		post.ID,
		post.SessionID,
		post.SourceArticle,
		post.Filename,
		post.Content,
		post.Tone,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	return nil
}

// GetByFilename loads a previously generated post.
func (r *PostRepository) GetByFilename(ctx context.Context, filename string) (*models.Post, error) {
	query := fmt.Sprintf(`
		SELECT id, session_id, source_article, filename, content, tone, created_at, updated_at
		FROM %s
		WHERE filename = $1
	`, r.tables.Posts)

	var p models.Post
	err := r.db.QueryRow(ctx, query, filename).Scan(
		&p.ID,
		&p.SessionID,
		&p.SourceArticle,
		&p.Filename,
		&p.Content,
		&p.Tone,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("post %s: %w", filename, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &p, nil
}
