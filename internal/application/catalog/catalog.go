package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// Catalog 图书目录
// 设计说明:
// 1. 内存中的图书/作者集合只归Catalog所有,实体之间的引用都指向这两个集合里的实例
// 2. 所有写操作先写存储,成功后再改内存(写穿)
// 3. 单线程使用,不加锁
// 4. 生命周期: NewCatalog → Load → 查询/写入;存储连接由基础设施层的cleanup释放
type Catalog struct {
	repo    catalog.Repository
	log     *slog.Logger
	metrics *metrics.Metrics

	books   []*catalog.Book
	authors []*catalog.Author
}

// NewCatalog 创建空目录,调用Load后才有数据
func NewCatalog(repo catalog.Repository, log *slog.Logger, m *metrics.Metrics) *Catalog {
	return &Catalog{
		repo:    repo,
		log:     log,
		metrics: m,
	}
}

// LoadReport 一次加载的统计
type LoadReport struct {
	Books       int // 图书行数
	Authors     int // 作者行数
	Authorships int // 成功关联的关系行数
	Skipped     int // 找不到图书或作者而丢弃的关系行数
}

// Load 从存储加载全部数据,替换当前内存集合
// 学习要点:
// 1. 顺序固定: 图书 → 作者 → 关系,关系阶段依赖前两阶段的结果
// 2. 关系行引用了未知的ISBN或authorID时直接丢弃,不算错误
// 3. 任一阶段失败都不改动已加载的集合
func (c *Catalog) Load(ctx context.Context) (LoadReport, error) {
	var report LoadReport

	bookRows, err := c.repo.ListBooks(ctx)
	if err != nil {
		c.log.Error("加载图书失败", slog.Any("error", err))
		return report, err
	}
	books := make([]*catalog.Book, 0, len(bookRows))
	for _, row := range bookRows {
		books = append(books, row.ToBook())
	}

	authorRows, err := c.repo.ListAuthors(ctx)
	if err != nil {
		c.log.Error("加载作者失败", slog.Any("error", err))
		return report, err
	}
	authors := make([]*catalog.Author, 0, len(authorRows))
	for _, row := range authorRows {
		authors = append(authors, row.ToAuthor())
	}

	rels, err := c.repo.ListAuthorships(ctx)
	if err != nil {
		c.log.Error("加载作者图书关系失败", slog.Any("error", err))
		return report, err
	}
	for _, rel := range rels {
		b := findBook(books, rel.ISBN)
		a := findAuthor(authors, rel.AuthorID)
		if b == nil || a == nil {
			c.log.Debug("丢弃无法解析的关系行",
				slog.Int("author_id", rel.AuthorID),
				slog.String("isbn", rel.ISBN))
			report.Skipped++
			continue
		}
		if b.HasAuthor(a) {
			continue // 重复行只关联一次
		}
		b.AddAuthor(a)
		report.Authorships++
	}

	c.books = books
	c.authors = authors
	report.Books = len(books)
	report.Authors = len(authors)

	if c.metrics != nil {
		c.metrics.RecordLoad(report.Books, report.Authors, report.Skipped)
	}
	c.log.Info("目录加载完成",
		slog.Int("books", report.Books),
		slog.Int("authors", report.Authors),
		slog.Int("authorships", report.Authorships),
		slog.Int("skipped", report.Skipped))
	return report, nil
}

// Books 全部图书(按加载/插入顺序的副本)
func (c *Catalog) Books() []*catalog.Book {
	out := make([]*catalog.Book, len(c.books))
	copy(out, c.books)
	return out
}

// Authors 全部作者(按加载/插入顺序的副本)
func (c *Catalog) Authors() []*catalog.Author {
	out := make([]*catalog.Author, len(c.authors))
	copy(out, c.authors)
	return out
}

// FindBookByISBN 按ISBN查找,找不到返回false
func (c *Catalog) FindBookByISBN(isbn string) (*catalog.Book, bool) {
	b := findBook(c.books, isbn)
	return b, b != nil
}

// FindAuthorByID 按authorID查找,找不到返回false
// 占位ID永远查不到,未持久化的作者不在集合里
func (c *Catalog) FindAuthorByID(id int) (*catalog.Author, bool) {
	if id <= catalog.PlaceholderAuthorID {
		return nil, false
	}
	a := findAuthor(c.authors, id)
	return a, a != nil
}

// InsertBook 写入图书及其作者关系
// 注意:
// 1. 图书行写入失败时内存不变
// 2. 图书行写入成功后立即进入内存,随后逐条写关系行
// 3. 关系行失败不回滚,返回*PartialInsertError,列出失败的authorID
func (c *Catalog) InsertBook(ctx context.Context, b *catalog.Book) error {
	if b == nil {
		return apperrors.ErrInvalidParams
	}
	if b.ISBN == "" {
		return catalog.ErrInvalidISBN
	}

	if err := c.repo.CreateBook(ctx, b.Record()); err != nil {
		c.log.Error("写入图书失败", slog.String("isbn", b.ISBN), slog.Any("error", err))
		return err
	}
	c.books = append(c.books, b)

	var (
		failed []int
		errs   []error
	)
	for _, a := range b.Authors() {
		if err := c.InsertAuthorship(ctx, a, b); err != nil {
			failed = append(failed, a.ID)
			errs = append(errs, err)
		}
	}
	if len(failed) > 0 {
		return &PartialInsertError{
			ISBN:            b.ISBN,
			FailedAuthorIDs: failed,
			Err:             errors.Join(errs...),
		}
	}
	return nil
}

// InsertAuthor 写入作者,由存储分配authorID后回填到实例上
func (c *Catalog) InsertAuthor(ctx context.Context, a *catalog.Author) error {
	if a == nil {
		return apperrors.ErrInvalidParams
	}
	if a.IsPersisted() {
		return catalog.ErrAuthorAlreadyPersisted
	}

	id, err := c.repo.CreateAuthor(ctx, a.FirstName, a.LastName)
	if err != nil {
		c.log.Error("写入作者失败",
			slog.String("first_name", a.FirstName),
			slog.String("last_name", a.LastName),
			slog.Any("error", err))
		return err
	}
	// 行已写入但拿不到主键时按失败处理,作者不进入内存
	if id <= catalog.PlaceholderAuthorID {
		c.log.Error("存储未返回作者ID", slog.Int("id", id))
		return catalog.ErrKeyNotAssigned
	}
	if findAuthor(c.authors, id) != nil {
		c.log.Error("存储返回的作者ID已存在", slog.Int("id", id))
		return catalog.ErrAuthorIDDuplicate
	}

	if err := a.AssignID(id); err != nil {
		return err
	}
	c.authors = append(c.authors, a)
	return nil
}

// InsertAuthorship 写入一条关系行,不改动内存中的关系
func (c *Catalog) InsertAuthorship(ctx context.Context, a *catalog.Author, b *catalog.Book) error {
	if a == nil || b == nil {
		return apperrors.ErrInvalidParams
	}
	if !a.IsPersisted() {
		return catalog.ErrAuthorNotPersisted
	}
	if b.ISBN == "" {
		return catalog.ErrInvalidISBN
	}

	rel := catalog.Authorship{AuthorID: a.ID, ISBN: b.ISBN}
	if err := c.repo.CreateAuthorship(ctx, rel); err != nil {
		c.log.Error("写入作者图书关系失败",
			slog.Int("author_id", rel.AuthorID),
			slog.String("isbn", rel.ISBN),
			slog.Any("error", err))
		return err
	}
	return nil
}

// UpdateBook 按ISBN覆盖书名/版次/版权,不改关系行
func (c *Catalog) UpdateBook(ctx context.Context, b *catalog.Book) error {
	if b == nil {
		return apperrors.ErrInvalidParams
	}

	n, err := c.repo.UpdateBook(ctx, b.Record())
	if err != nil {
		c.log.Error("更新图书失败", slog.String("isbn", b.ISBN), slog.Any("error", err))
		return err
	}
	if n == 0 {
		return catalog.ErrBookNotFound
	}
	return nil
}

// UpdateAuthor 按authorID覆盖姓名,不改关系行
func (c *Catalog) UpdateAuthor(ctx context.Context, a *catalog.Author) error {
	if a == nil {
		return apperrors.ErrInvalidParams
	}
	if !a.IsPersisted() {
		return catalog.ErrAuthorNotPersisted
	}

	n, err := c.repo.UpdateAuthor(ctx, a.Record())
	if err != nil {
		c.log.Error("更新作者失败", slog.Int("author_id", a.ID), slog.Any("error", err))
		return err
	}
	if n == 0 {
		return catalog.ErrAuthorNotFound
	}
	return nil
}

// AddBook 新增图书: 先查重再写入
// 存储层不负责发现重复ISBN,重复检查放在这里
func (c *Catalog) AddBook(ctx context.Context, b *catalog.Book) error {
	if b == nil {
		return apperrors.ErrInvalidParams
	}
	if _, exists := c.FindBookByISBN(b.ISBN); exists {
		return catalog.ErrISBNDuplicate
	}
	return c.InsertBook(ctx, b)
}

// AddNewAuthor 新建作者并写入存储,成功后在内存中与b关联
// b为nil时只新建作者
func (c *Catalog) AddNewAuthor(ctx context.Context, b *catalog.Book, firstName, lastName string) (*catalog.Author, error) {
	a := catalog.NewAuthor(catalog.PlaceholderAuthorID, firstName, lastName)
	if err := c.InsertAuthor(ctx, a); err != nil {
		return nil, err
	}
	if b != nil {
		b.AddAuthor(a)
	}
	return a, nil
}

func findBook(books []*catalog.Book, isbn string) *catalog.Book {
	for _, b := range books {
		if b.ISBN == isbn {
			return b
		}
	}
	return nil
}

func findAuthor(authors []*catalog.Author, id int) *catalog.Author {
	for _, a := range authors {
		if a.ID == id {
			return a
		}
	}
	return nil
}
