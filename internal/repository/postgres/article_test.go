package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counselpost/internal/domain"
)

func newArticleRepoWithMock(t *testing.T) (*ArticleRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo := NewArticleRepository(&RepositoryConfig{
		DB:     mock,
		Tables: NewTableNames("test_"),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}).(*ArticleRepository)
	return repo, mock
}

func TestArticleRepositoryListActive(t *testing.T) {
	repo, mock := newArticleRepoWithMock(t)

	created := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "title", "description", "filename", "status", "created_at"}).
		AddRow("a-1", "Wills for Parents", "why wills matter", "wills.md", "active", &created).
		AddRow("a-2", "Trust Basics", "trusts explained", "trusts.md", "active", &created)

	mock.ExpectQuery(regexp.QuoteMeta("FROM test_articles")).WillReturnRows(rows)

	articles, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "wills.md", articles[0].Filename)
	assert.Equal(t, "Trust Basics", articles[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepositoryListActiveQueryError(t *testing.T) {
	repo, mock := newArticleRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM test_articles")).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.ListActive(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepositoryGetByFilename(t *testing.T) {
	repo, mock := newArticleRepoWithMock(t)

	created := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"id", "title", "description", "filename", "status", "created_at"}).
		AddRow("a-1", "Wills for Parents", "why wills matter", "wills.md", "active", &created)

	mock.ExpectQuery(regexp.QuoteMeta("FROM test_articles")).
		WithArgs("wills.md").
		WillReturnRows(rows)

	article, err := repo.GetByFilename(context.Background(), "wills.md")
	require.NoError(t, err)
	assert.Equal(t, "a-1", article.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepositoryGetByFilenameNotFound(t *testing.T) {
	repo, mock := newArticleRepoWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM test_articles")).
		WithArgs("missing.md").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByFilename(context.Background(), "missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
