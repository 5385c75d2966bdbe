package catalog

import (
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 图书目录领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrInvalidISBN ISBN为空
	ErrInvalidISBN = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN不能为空")

	// ErrInvalidAuthorID 作者ID必须为正数
	ErrInvalidAuthorID = apperrors.New(apperrors.ErrCodeInvalidParams, "作者ID必须大于0")

	// ErrAuthorAlreadyPersisted 作者已有存储分配的ID
	ErrAuthorAlreadyPersisted = apperrors.New(apperrors.ErrCodeBusinessError, "作者已持久化，不能重复分配ID")

	// ErrAuthorNotPersisted 作者尚未写入存储（仍是占位ID）
	ErrAuthorNotPersisted = apperrors.New(apperrors.ErrCodeNotPersisted, "作者尚未保存")

	// ErrAuthorIDDuplicate 存储分配的ID与内存中已有作者冲突
	ErrAuthorIDDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "作者ID已存在")

	// ErrKeyNotAssigned 写入成功但未能取回自增ID
	ErrKeyNotAssigned = apperrors.New(apperrors.ErrCodeKeyNotAssigned, "未能获取作者ID")
)
