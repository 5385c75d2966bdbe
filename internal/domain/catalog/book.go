package catalog

import (
	"fmt"
	"strings"
)

// Book 图书实体（对应titles表的一行）
// 设计说明:
// 1. ISBN由调用方指定，写入后不再修改（业务唯一标识）
// 2. authors是指向作者实体的反向引用，按加入顺序保存且不重复
// 3. 实体由Catalog统一持有，Book与Author之间只是互相引用，不拥有对方
type Book struct {
	ISBN          string
	Title         string
	EditionNumber int
	Copyright     string

	authors []*Author
}

// NewBook 创建图书（工厂方法）
func NewBook(isbn, title string, editionNumber int, copyright string) *Book {
	return &Book{
		ISBN:          isbn,
		Title:         title,
		EditionNumber: editionNumber,
		Copyright:     copyright,
	}
}

// Authors 返回作者列表的副本（按加入顺序）
func (b *Book) Authors() []*Author {
	out := make([]*Author, len(b.authors))
	copy(out, b.authors)
	return out
}

// HasAuthor 判断作者是否已关联（按实例判断，不按ID）
// 未持久化的作者ID都是占位值，按ID比较会把它们误判为同一人
func (b *Book) HasAuthor(a *Author) bool {
	for _, existing := range b.authors {
		if existing == a {
			return true
		}
	}
	return false
}

// AddAuthor 关联作者，并保证作者一侧也能看到这本书
// 先检查本侧是否已存在，再检查对侧是否缺失，两次检查避免相互递归
func (b *Book) AddAuthor(a *Author) {
	if a == nil || b.HasAuthor(a) {
		return
	}
	b.authors = append(b.authors, a)
	if !a.HasBook(b) {
		a.AddBook(b)
	}
}

// UpdateInfo 更新图书属性
// 空字符串或nil表示保留原值
func (b *Book) UpdateInfo(title string, editionNumber *int, copyright string) {
	if strings.TrimSpace(title) != "" {
		b.Title = title
	}
	if editionNumber != nil {
		b.EditionNumber = *editionNumber
	}
	if strings.TrimSpace(copyright) != "" {
		b.Copyright = copyright
	}
}

func (b *Book) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ISBN: %s, Title: %s, Edition: %d, Copyright: %s",
		b.ISBN, b.Title, b.EditionNumber, b.Copyright)
	if len(b.authors) > 0 {
		names := make([]string, len(b.authors))
		for i, a := range b.authors {
			names[i] = a.FirstName + " " + a.LastName
		}
		sb.WriteString("\nAuthors: ")
		sb.WriteString(strings.Join(names, ", "))
	}
	return sb.String()
}
