package catalog

import (
	"fmt"
	"strings"
)

// PlaceholderAuthorID 新建作者在写入存储前使用的占位ID
const PlaceholderAuthorID = 0

// Author 作者实体（对应authors表的一行）
// 状态机：Unpersisted(占位ID) → Persisted(存储分配的ID)，只能单向转换
type Author struct {
	ID        int
	FirstName string
	LastName  string

	books []*Book
}

// NewAuthor 创建作者
// 新作者传入PlaceholderAuthorID，由InsertAuthor回填真实ID
func NewAuthor(id int, firstName, lastName string) *Author {
	return &Author{
		ID:        id,
		FirstName: firstName,
		LastName:  lastName,
	}
}

// IsPersisted 是否已拿到存储分配的ID
func (a *Author) IsPersisted() bool {
	return a.ID > PlaceholderAuthorID
}

// AssignID 回填存储分配的ID
func (a *Author) AssignID(id int) error {
	if id <= PlaceholderAuthorID {
		return ErrInvalidAuthorID
	}
	if a.IsPersisted() {
		return ErrAuthorAlreadyPersisted
	}
	a.ID = id
	return nil
}

// Books 返回图书列表的副本（按加入顺序）
func (a *Author) Books() []*Book {
	out := make([]*Book, len(a.books))
	copy(out, a.books)
	return out
}

// HasBook 判断图书是否已关联（按实例判断）
func (a *Author) HasBook(b *Book) bool {
	for _, existing := range a.books {
		if existing == b {
			return true
		}
	}
	return false
}

// AddBook 关联图书，并保证图书一侧也能看到该作者
func (a *Author) AddBook(b *Book) {
	if b == nil || a.HasBook(b) {
		return
	}
	a.books = append(a.books, b)
	if !b.HasAuthor(a) {
		b.AddAuthor(a)
	}
}

// Rename 修改姓名，空字符串表示保留原值
func (a *Author) Rename(firstName, lastName string) {
	if strings.TrimSpace(firstName) != "" {
		a.FirstName = firstName
	}
	if strings.TrimSpace(lastName) != "" {
		a.LastName = lastName
	}
}

func (a *Author) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Author ID: %d, Name: %s %s", a.ID, a.FirstName, a.LastName)
	if len(a.books) > 0 {
		titles := make([]string, len(a.books))
		for i, b := range a.books {
			titles[i] = fmt.Sprintf("%s (%s)", b.Title, b.ISBN)
		}
		sb.WriteString("\nBooks: ")
		sb.WriteString(strings.Join(titles, ", "))
	}
	return sb.String()
}
