package catalog

import (
	"context"
	"errors"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
)

var errStoreDown = errors.New("store down")

// fakeRepository 内存仓储,可按操作注入失败
type fakeRepository struct {
	books   []catalog.BookRecord
	authors []catalog.AuthorRecord
	rels    []catalog.Authorship
	nextID  int

	fail             map[string]error // 操作名 → 返回的错误
	failAuthorshipOf map[int]bool     // 这些authorID的关系行写入失败
	zeroKey          bool             // CreateAuthor写入成功但返回0
	calls            map[string]int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		nextID:           1,
		fail:             map[string]error{},
		failAuthorshipOf: map[int]bool{},
		calls:            map[string]int{},
	}
}

func (f *fakeRepository) call(op string) error {
	f.calls[op]++
	return f.fail[op]
}

func (f *fakeRepository) ListBooks(context.Context) ([]catalog.BookRecord, error) {
	if err := f.call("ListBooks"); err != nil {
		return nil, err
	}
	return append([]catalog.BookRecord(nil), f.books...), nil
}

func (f *fakeRepository) ListAuthors(context.Context) ([]catalog.AuthorRecord, error) {
	if err := f.call("ListAuthors"); err != nil {
		return nil, err
	}
	return append([]catalog.AuthorRecord(nil), f.authors...), nil
}

func (f *fakeRepository) ListAuthorships(context.Context) ([]catalog.Authorship, error) {
	if err := f.call("ListAuthorships"); err != nil {
		return nil, err
	}
	return append([]catalog.Authorship(nil), f.rels...), nil
}

func (f *fakeRepository) CreateBook(_ context.Context, rec catalog.BookRecord) error {
	if err := f.call("CreateBook"); err != nil {
		return err
	}
	for _, b := range f.books {
		if b.ISBN == rec.ISBN {
			return catalog.ErrISBNDuplicate
		}
	}
	f.books = append(f.books, rec)
	return nil
}

func (f *fakeRepository) CreateAuthor(_ context.Context, firstName, lastName string) (int, error) {
	if err := f.call("CreateAuthor"); err != nil {
		return 0, err
	}
	id := f.nextID
	f.nextID++
	f.authors = append(f.authors, catalog.AuthorRecord{ID: id, FirstName: firstName, LastName: lastName})
	if f.zeroKey {
		return 0, nil
	}
	return id, nil
}

func (f *fakeRepository) CreateAuthorship(_ context.Context, rel catalog.Authorship) error {
	if err := f.call("CreateAuthorship"); err != nil {
		return err
	}
	if f.failAuthorshipOf[rel.AuthorID] {
		return errStoreDown
	}
	f.rels = append(f.rels, rel)
	return nil
}

func (f *fakeRepository) UpdateBook(_ context.Context, rec catalog.BookRecord) (int64, error) {
	if err := f.call("UpdateBook"); err != nil {
		return 0, err
	}
	for i := range f.books {
		if f.books[i].ISBN == rec.ISBN {
			f.books[i] = rec
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeRepository) UpdateAuthor(_ context.Context, rec catalog.AuthorRecord) (int64, error) {
	if err := f.call("UpdateAuthor"); err != nil {
		return 0, err
	}
	for i := range f.authors {
		if f.authors[i].ID == rec.ID {
			f.authors[i] = rec
			return 1, nil
		}
	}
	return 0, nil
}
