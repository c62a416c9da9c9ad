// Package catalog serves the source-article catalog, merged from the
// articles table and the markdown directory on disk. The catalog is
// read-only to this service; uploads are owned by the admin tooling.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"counselpost/internal/domain"
	"counselpost/internal/domain/models"
	"counselpost/internal/domain/repositories"
)

// Service lists and reads source articles.
type Service struct {
	articles    repositories.ArticleRepository
	articlesDir string
	logger      *slog.Logger
}

// NewService creates a catalog service. articles may be nil when no database
// is configured; the catalog then serves the filesystem alone.
func NewService(articles repositories.ArticleRepository, articlesDir string, logger *slog.Logger) *Service {
	return &Service{
		articles:    articles,
		articlesDir: articlesDir,
		logger:      logger,
	}
}

// List returns the union of database and filesystem articles, database
// metadata winning for files present in both. A failing database degrades to
// the filesystem listing; article selection must keep working.
func (s *Service) List(ctx context.Context) ([]models.Article, error) {
	byFilename := make(map[string]models.Article)

	if s.articles != nil {
		dbArticles, err := s.articles.ListActive(ctx)
		if err != nil {
			s.logger.Warn("article catalog query failed, serving filesystem only", "error", err)
		} else {
			for _, a := range dbArticles {
				byFilename[a.Filename] = a
			}
		}
	}

	entries, err := os.ReadDir(s.articlesDir)
	if err != nil {
		s.logger.Warn("articles directory unreadable", "dir", s.articlesDir, "error", err)
	} else {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".md") {
				continue
			}
			if _, ok := byFilename[name]; ok {
				continue
			}
			byFilename[name] = models.Article{
				Filename: name,
				Title:    titleFromFilename(name),
				Status:   "active",
			}
		}
	}

	out := make([]models.Article, 0, len(byFilename))
	for _, a := range byFilename {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out, nil
}

// Read returns the raw markdown content of one article.
func (s *Service) Read(_ context.Context, filename string) (string, error) {
	path, err := s.safePath(filename)
	if err != nil {
		return "", err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("article %s: %w", filename, domain.ErrNotFound)
		}
		return "", fmt.Errorf("read article: %w", err)
	}
	return string(raw), nil
}

// safePath rejects filenames that would escape the articles directory.
func (s *Service) safePath(filename string) (string, error) {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return "", fmt.Errorf("%w: invalid filename", domain.ErrValidation)
	}
	return filepath.Join(s.articlesDir, filename), nil
}

func titleFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ReplaceAll(strings.ReplaceAll(base, "_", " "), "-", " ")
}
