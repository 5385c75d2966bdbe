package cli

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appcatalog "github.com/xiebiao/bookcatalog/internal/application/catalog"
	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "catalog", Mode: "release"},
		Database: config.DatabaseConfig{
			Driver:          config.DriverSQLite,
			Path:            ":memory:",
			AutoMigrate:     true,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
		},
	}
}

// newSeededRepository 内存SQLite,预置两本书、两位作者
//
//	0-13-0 Core Java           ← 1 Cay Horstmann
//	0-596-00 Learning Go       ← 1 Cay Horstmann, 2 Jon Bodner
func newSeededRepository(t *testing.T) catalog.Repository {
	t.Helper()
	ctx := context.Background()
	db, cleanup, err := gormstore.NewDB(testConfig(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	repo := gormstore.NewCatalogRepository(db)
	require.NoError(t, repo.CreateBook(ctx, catalog.BookRecord{ISBN: "0-13-0", Title: "Core Java", EditionNumber: 2, Copyright: "2024"}))
	require.NoError(t, repo.CreateBook(ctx, catalog.BookRecord{ISBN: "0-596-00", Title: "Learning Go", EditionNumber: 1, Copyright: "2021"}))
	cay, err := repo.CreateAuthor(ctx, "Cay", "Horstmann")
	require.NoError(t, err)
	jon, err := repo.CreateAuthor(ctx, "Jon", "Bodner")
	require.NoError(t, err)
	for _, rel := range []catalog.Authorship{
		{AuthorID: cay, ISBN: "0-13-0"},
		{AuthorID: cay, ISBN: "0-596-00"},
		{AuthorID: jon, ISBN: "0-596-00"},
	} {
		require.NoError(t, repo.CreateAuthorship(ctx, rel))
	}
	return repo
}

func newLoadedCatalog(t *testing.T, repo catalog.Repository) *appcatalog.Catalog {
	t.Helper()
	c := appcatalog.NewCatalog(repo, discardLogger(), metrics.New(nil))
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	return c
}

func newEmptyRepository(t *testing.T) catalog.Repository {
	t.Helper()
	db, cleanup, err := gormstore.NewDB(testConfig(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return gormstore.NewCatalogRepository(db)
}
