package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/instrumented"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// 以下场景走真实的GORM仓储(内存SQLite),重新Load验证持久化结果

func newSQLiteRepository(t *testing.T) catalog.Repository {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Mode: "release"},
		Database: config.DatabaseConfig{
			Driver:          config.DriverSQLite,
			Path:            ":memory:",
			AutoMigrate:     true,
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
		},
	}
	db, cleanup, err := gormstore.NewDB(cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	seed(t, db)
	return gormstore.NewCatalogRepository(db)
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&gormstore.TitleModel{
		ISBN: "0-596-00", Title: "Existing Book", EditionNumber: 1, Copyright: "2010",
	}).Error)
}

func TestScenario_CoreJava(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepository(t)

	c := newTestCatalog(repo)
	_, err := c.Load(ctx)
	require.NoError(t, err)

	b := catalog.NewBook("0-13-0", "Core Java", 2, "2024")
	require.NoError(t, c.AddBook(ctx, b))

	found, ok := c.FindBookByISBN("0-13-0")
	require.True(t, ok)
	assert.Same(t, b, found)

	found.UpdateInfo("Core Java 2E", nil, "")
	require.NoError(t, c.UpdateBook(ctx, found))

	fresh := newTestCatalog(repo)
	report, err := fresh.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Books)

	reloaded, ok := fresh.FindBookByISBN("0-13-0")
	require.True(t, ok)
	assert.Equal(t, "Core Java 2E", reloaded.Title)
	assert.Equal(t, 2, reloaded.EditionNumber)
	assert.Equal(t, "2024", reloaded.Copyright)
	assert.Empty(t, reloaded.Authors())

	assert.ErrorIs(t, fresh.AddBook(ctx, catalog.NewBook("0-13-0", "Dup", 1, "")), catalog.ErrISBNDuplicate)
}

func TestScenario_GraceHopper(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(prometheus.NewRegistry())
	repo := instrumented.NewRepository(newSQLiteRepository(t), m)

	c := NewCatalog(repo, discardLogger(), m)
	_, err := c.Load(ctx)
	require.NoError(t, err)

	grace := catalog.NewAuthor(catalog.PlaceholderAuthorID, "Grace", "Hopper")
	require.NoError(t, c.InsertAuthor(ctx, grace))
	require.Positive(t, grace.ID)
	id := grace.ID

	existing, ok := c.FindBookByISBN("0-596-00")
	require.True(t, ok)
	grace.AddBook(existing)
	require.NoError(t, c.InsertAuthorship(ctx, grace, existing))

	grace.Rename("", "Murray")
	require.NoError(t, c.UpdateAuthor(ctx, grace))

	fresh := NewCatalog(repo, discardLogger(), m)
	_, err = fresh.Load(ctx)
	require.NoError(t, err)

	reloaded, ok := fresh.FindAuthorByID(id)
	require.True(t, ok)
	assert.Equal(t, "Grace", reloaded.FirstName)
	assert.Equal(t, "Murray", reloaded.LastName)
	require.Len(t, reloaded.Books(), 1)
	assert.Equal(t, "0-596-00", reloaded.Books()[0].ISBN)

	book, _ := fresh.FindBookByISBN("0-596-00")
	assert.True(t, book.HasAuthor(reloaded))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues(instrumented.OpCreateAuthor, metrics.ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StoreOperations.WithLabelValues(instrumented.OpListAuthorships, metrics.ResultSuccess)))
}
