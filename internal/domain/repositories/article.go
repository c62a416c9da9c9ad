package repositories

import (
	"context"

	"counselpost/internal/domain/models"
)

// ArticleRepository reads the source-article catalog. The core only reads
// articles; uploads are owned by the admin tooling.
type ArticleRepository interface {
	// ListActive returns active catalog entries, newest first.
	ListActive(ctx context.Context) ([]models.Article, error)

	// GetByFilename returns the catalog entry for one article.
	// Returns domain.ErrNotFound if no active row matches.
	GetByFilename(ctx context.Context, filename string) (*models.Article, error)
}

// PostRepository persists generated posts so a review session can be
// re-entered by filename.
type PostRepository interface {
	// Save upserts a post by filename.
	Save(ctx context.Context, post *models.Post) error

	// GetByFilename loads a previously generated post.
	// Returns domain.ErrNotFound if none exists.
	GetByFilename(ctx context.Context, filename string) (*models.Post, error)
}
