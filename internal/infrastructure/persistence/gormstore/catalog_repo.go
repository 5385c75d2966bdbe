package gormstore

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// catalogRepository 图书目录仓储实现(GORM)
// 设计说明:
// 1. 实现domain/catalog/repository.go定义的接口
// 2. 负责行数据与GORM模型之间的转换
// 3. 驱动错误统一包装为ErrCodeDatabaseError,ISBN重复转换为业务错误
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建图书目录仓储
func NewCatalogRepository(db *gorm.DB) catalog.Repository {
	return &catalogRepository{db: db}
}

// ListBooks 读取titles全部行
func (r *catalogRepository) ListBooks(ctx context.Context) ([]catalog.BookRecord, error) {
	var models []TitleModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, dbError(err, "查询图书失败")
	}

	out := make([]catalog.BookRecord, len(models))
	for i, m := range models {
		out[i] = toBookRecord(&m)
	}
	return out, nil
}

// ListAuthors 读取authors全部行(按authorID升序,即插入顺序)
func (r *catalogRepository) ListAuthors(ctx context.Context) ([]catalog.AuthorRecord, error) {
	var models []AuthorModel
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "authorID"}}).
		Find(&models).Error
	if err != nil {
		return nil, dbError(err, "查询作者失败")
	}

	out := make([]catalog.AuthorRecord, len(models))
	for i, m := range models {
		out[i] = toAuthorRecord(&m)
	}
	return out, nil
}

// ListAuthorships 读取authorISBN全部行
func (r *catalogRepository) ListAuthorships(ctx context.Context) ([]catalog.Authorship, error) {
	var models []AuthorISBNModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, dbError(err, "查询作者图书关系失败")
	}

	out := make([]catalog.Authorship, len(models))
	for i, m := range models {
		out[i] = catalog.Authorship{AuthorID: m.AuthorID, ISBN: m.ISBN}
	}
	return out, nil
}

// CreateBook 插入titles行
func (r *catalogRepository) CreateBook(ctx context.Context, rec catalog.BookRecord) error {
	model := &TitleModel{
		ISBN:          rec.ISBN,
		Title:         rec.Title,
		EditionNumber: rec.EditionNumber,
		Copyright:     rec.Copyright,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return catalog.ErrISBNDuplicate
		}
		return dbError(err, "创建图书失败")
	}
	return nil
}

// CreateAuthor 插入authors行,返回自增ID
func (r *catalogRepository) CreateAuthor(ctx context.Context, firstName, lastName string) (int, error) {
	model := &AuthorModel{
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return 0, dbError(err, "创建作者失败")
	}

	// GORM会回填自增主键,取不到说明驱动不支持返回生成的ID
	if model.AuthorID <= 0 {
		return 0, catalog.ErrKeyNotAssigned
	}
	return model.AuthorID, nil
}

// CreateAuthorship 插入authorISBN行
func (r *catalogRepository) CreateAuthorship(ctx context.Context, rel catalog.Authorship) error {
	model := &AuthorISBNModel{
		AuthorID: rel.AuthorID,
		ISBN:     rel.ISBN,
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return dbError(err, "创建作者图书关系失败")
	}
	return nil
}

// UpdateBook 按ISBN覆盖title、editionNumber、copyright
func (r *catalogRepository) UpdateBook(ctx context.Context, rec catalog.BookRecord) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&TitleModel{}).
		Where(clause.Eq{Column: clause.Column{Name: "isbn"}, Value: rec.ISBN}).
		Updates(map[string]interface{}{
			"title":         rec.Title,
			"editionNumber": rec.EditionNumber,
			"copyright":     rec.Copyright,
		})

	if result.Error != nil {
		return 0, dbError(result.Error, "更新图书失败")
	}
	return result.RowsAffected, nil
}

// UpdateAuthor 按authorID覆盖firstName、lastName
func (r *catalogRepository) UpdateAuthor(ctx context.Context, rec catalog.AuthorRecord) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&AuthorModel{}).
		Where(clause.Eq{Column: clause.Column{Name: "authorID"}, Value: rec.ID}).
		Updates(map[string]interface{}{
			"firstName": rec.FirstName,
			"lastName":  rec.LastName,
		})

	if result.Error != nil {
		return 0, dbError(result.Error, "更新作者失败")
	}
	return result.RowsAffected, nil
}

// =========================================
// 辅助函数
// =========================================

func toBookRecord(m *TitleModel) catalog.BookRecord {
	return catalog.BookRecord{
		ISBN:          m.ISBN,
		Title:         m.Title,
		EditionNumber: m.EditionNumber,
		Copyright:     m.Copyright,
	}
}

func toAuthorRecord(m *AuthorModel) catalog.AuthorRecord {
	return catalog.AuthorRecord{
		ID:        m.AuthorID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
	}
}

func dbError(err error, message string) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, message)
}

// isDuplicateError 判断是否为唯一索引冲突
// - MySQL 1062: Duplicate entry 'xxx' for key 'PRIMARY'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
