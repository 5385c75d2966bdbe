package catalog

import (
	"fmt"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// ErrPartialAuthorship 图书已写入,但部分作者关系写入失败
var ErrPartialAuthorship = apperrors.New(apperrors.ErrCodePartialWrite, "部分作者关系写入失败")

// PartialInsertError InsertBook的部分失败结果
// 图书行已持久化且在内存中,FailedAuthorIDs对应的关系行没有写入,也不会回滚
type PartialInsertError struct {
	ISBN            string
	FailedAuthorIDs []int
	Err             error
}

func (e *PartialInsertError) Error() string {
	return fmt.Sprintf("图书%s已保存,作者%v的关系写入失败: %v", e.ISBN, e.FailedAuthorIDs, e.Err)
}

// Unwrap 暴露各条关系的失败原因
func (e *PartialInsertError) Unwrap() error {
	return e.Err
}

// Is 使errors.Is(err, ErrPartialAuthorship)成立
func (e *PartialInsertError) Is(target error) bool {
	return target == ErrPartialAuthorship
}
