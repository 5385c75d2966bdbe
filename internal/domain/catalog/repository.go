package catalog

import (
	"context"
)

// BookRecord titles表的一行
type BookRecord struct {
	ISBN          string
	Title         string
	EditionNumber int
	Copyright     string
}

// AuthorRecord authors表的一行
type AuthorRecord struct {
	ID        int
	FirstName string
	LastName  string
}

// Authorship authorISBN表的一行（一条作者-图书关系）
type Authorship struct {
	AuthorID int
	ISBN     string
}

// Repository 图书目录仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(MySQL/PostgreSQL/SQLite或Redis)
// 2. 只处理行数据,不感知内存中的实体图
// 3. 不要求事务、联表或删除
type Repository interface {
	// ListBooks 读取titles全部行
	ListBooks(ctx context.Context) ([]BookRecord, error)

	// ListAuthors 读取authors全部行
	ListAuthors(ctx context.Context) ([]AuthorRecord, error)

	// ListAuthorships 读取authorISBN全部行
	ListAuthorships(ctx context.Context) ([]Authorship, error)

	// CreateBook 插入titles行
	CreateBook(ctx context.Context, rec BookRecord) error

	// CreateAuthor 插入authors行(不带ID),返回存储分配的ID
	CreateAuthor(ctx context.Context, firstName, lastName string) (int, error)

	// CreateAuthorship 插入authorISBN行
	CreateAuthorship(ctx context.Context, rel Authorship) error

	// UpdateBook 按ISBN覆盖属性列,返回受影响行数
	UpdateBook(ctx context.Context, rec BookRecord) (int64, error)

	// UpdateAuthor 按authorID覆盖属性列,返回受影响行数
	UpdateAuthor(ctx context.Context, rec AuthorRecord) (int64, error)
}

// Record 实体 → 行数据
func (b *Book) Record() BookRecord {
	return BookRecord{
		ISBN:          b.ISBN,
		Title:         b.Title,
		EditionNumber: b.EditionNumber,
		Copyright:     b.Copyright,
	}
}

// Record 实体 → 行数据
func (a *Author) Record() AuthorRecord {
	return AuthorRecord{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

// ToBook 行数据 → 实体（不含关系）
func (r BookRecord) ToBook() *Book {
	return NewBook(r.ISBN, r.Title, r.EditionNumber, r.Copyright)
}

// ToAuthor 行数据 → 实体（不含关系）
func (r AuthorRecord) ToAuthor() *Author {
	return NewAuthor(r.ID, r.FirstName, r.LastName)
}
