package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
)

// SearchBooks 按书名模糊查找
// query的字符按顺序出现在书名中即命中(忽略大小写),结果按编辑距离升序
func (c *Catalog) SearchBooks(query string) []*catalog.Book {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	titles := make([]string, len(c.books))
	for i, b := range c.books {
		titles[i] = b.Title
	}

	ranks := fuzzy.RankFindFold(query, titles)
	sort.Stable(ranks)

	out := make([]*catalog.Book, len(ranks))
	for i, r := range ranks {
		out[i] = c.books[r.OriginalIndex]
	}
	return out
}
