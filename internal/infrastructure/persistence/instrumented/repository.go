// Package instrumented 为任意catalog.Repository附加Prometheus指标
package instrumented

import (
	"context"
	"time"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// 操作名，作为operation标签值
const (
	OpListBooks        = "list_books"
	OpListAuthors      = "list_authors"
	OpListAuthorships  = "list_authorships"
	OpCreateBook       = "create_book"
	OpCreateAuthor     = "create_author"
	OpCreateAuthorship = "create_authorship"
	OpUpdateBook       = "update_book"
	OpUpdateAuthor     = "update_author"
)

// Repository 装饰器模式：转发调用并记录次数与耗时
type Repository struct {
	next    catalog.Repository
	metrics *metrics.Metrics
}

// NewRepository 包装next
func NewRepository(next catalog.Repository, m *metrics.Metrics) *Repository {
	return &Repository{next: next, metrics: m}
}

func (r *Repository) ListBooks(ctx context.Context) (rows []catalog.BookRecord, err error) {
	defer r.observe(OpListBooks, time.Now(), &err)
	return r.next.ListBooks(ctx)
}

func (r *Repository) ListAuthors(ctx context.Context) (rows []catalog.AuthorRecord, err error) {
	defer r.observe(OpListAuthors, time.Now(), &err)
	return r.next.ListAuthors(ctx)
}

func (r *Repository) ListAuthorships(ctx context.Context) (rows []catalog.Authorship, err error) {
	defer r.observe(OpListAuthorships, time.Now(), &err)
	return r.next.ListAuthorships(ctx)
}

func (r *Repository) CreateBook(ctx context.Context, rec catalog.BookRecord) (err error) {
	defer r.observe(OpCreateBook, time.Now(), &err)
	return r.next.CreateBook(ctx, rec)
}

func (r *Repository) CreateAuthor(ctx context.Context, firstName, lastName string) (id int, err error) {
	defer r.observe(OpCreateAuthor, time.Now(), &err)
	return r.next.CreateAuthor(ctx, firstName, lastName)
}

func (r *Repository) CreateAuthorship(ctx context.Context, rel catalog.Authorship) (err error) {
	defer r.observe(OpCreateAuthorship, time.Now(), &err)
	return r.next.CreateAuthorship(ctx, rel)
}

func (r *Repository) UpdateBook(ctx context.Context, rec catalog.BookRecord) (n int64, err error) {
	defer r.observe(OpUpdateBook, time.Now(), &err)
	return r.next.UpdateBook(ctx, rec)
}

func (r *Repository) UpdateAuthor(ctx context.Context, rec catalog.AuthorRecord) (n int64, err error) {
	defer r.observe(OpUpdateAuthor, time.Now(), &err)
	return r.next.UpdateAuthor(ctx, rec)
}

// observe 在defer中执行，err指向命名返回值
func (r *Repository) observe(op string, start time.Time, err *error) {
	r.metrics.ObserveOperation(op, start, *err)
}

var _ catalog.Repository = (*Repository)(nil)
