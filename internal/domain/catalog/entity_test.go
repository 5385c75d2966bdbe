package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertSymmetric 检查 a ∈ b.authors ⟺ b ∈ a.books
func assertSymmetric(t *testing.T, books []*Book, authors []*Author) {
	t.Helper()
	for _, b := range books {
		for _, a := range authors {
			assert.Equal(t, b.HasAuthor(a), a.HasBook(b),
				"关系不对称: book=%s author=%s %s", b.ISBN, a.FirstName, a.LastName)
		}
	}
}

func TestBook_AddAuthor_Symmetric(t *testing.T) {
	b := NewBook("0-13-0", "Core Java", 2, "2024")
	a := NewAuthor(1, "Cay", "Horstmann")

	b.AddAuthor(a)

	assert.Equal(t, []*Author{a}, b.Authors())
	assert.Equal(t, []*Book{b}, a.Books())
}

func TestAuthor_AddBook_Symmetric(t *testing.T) {
	b := NewBook("0-13-0", "Core Java", 2, "2024")
	a := NewAuthor(1, "Cay", "Horstmann")

	a.AddBook(b)

	assert.Equal(t, []*Author{a}, b.Authors())
	assert.Equal(t, []*Book{b}, a.Books())
}

func TestAddAuthor_Idempotent(t *testing.T) {
	b := NewBook("0-13-0", "Core Java", 2, "2024")
	a := NewAuthor(1, "Cay", "Horstmann")

	b.AddAuthor(a)
	b.AddAuthor(a)
	a.AddBook(b)

	assert.Len(t, b.Authors(), 1)
	assert.Len(t, a.Books(), 1)
}

func TestAddAuthor_MixedSidesKeepInsertionOrder(t *testing.T) {
	b1 := NewBook("isbn-1", "B1", 1, "2001")
	b2 := NewBook("isbn-2", "B2", 1, "2002")
	a1 := NewAuthor(1, "A", "One")
	a2 := NewAuthor(2, "A", "Two")
	a3 := NewAuthor(3, "A", "Three")

	b1.AddAuthor(a2)
	a1.AddBook(b1)
	a3.AddBook(b1)
	b2.AddAuthor(a1)
	a1.AddBook(b2)

	assert.Equal(t, []*Author{a2, a1, a3}, b1.Authors())
	assert.Equal(t, []*Author{a1}, b2.Authors())
	assert.Equal(t, []*Book{b1, b2}, a1.Books())
	assertSymmetric(t, []*Book{b1, b2}, []*Author{a1, a2, a3})
}

func TestAddAuthor_NilIgnored(t *testing.T) {
	b := NewBook("isbn-1", "B1", 1, "2001")
	a := NewAuthor(1, "A", "One")

	b.AddAuthor(nil)
	a.AddBook(nil)

	assert.Empty(t, b.Authors())
	assert.Empty(t, a.Books())
}

func TestAddAuthor_PlaceholderAuthorsAreDistinct(t *testing.T) {
	b := NewBook("isbn-1", "B1", 1, "2001")
	ada := NewAuthor(PlaceholderAuthorID, "Ada", "Lovelace")
	grace := NewAuthor(PlaceholderAuthorID, "Grace", "Hopper")

	b.AddAuthor(ada)
	b.AddAuthor(grace)

	// 两个占位ID相同的新作者不能被当作同一人
	assert.Equal(t, []*Author{ada, grace}, b.Authors())
}

func TestAuthors_ReturnsCopy(t *testing.T) {
	b := NewBook("isbn-1", "B1", 1, "2001")
	a := NewAuthor(1, "A", "One")
	b.AddAuthor(a)

	got := b.Authors()
	got[0] = nil

	assert.Equal(t, []*Author{a}, b.Authors())
}

func TestAuthor_AssignID(t *testing.T) {
	a := NewAuthor(PlaceholderAuthorID, "Ada", "Lovelace")
	assert.False(t, a.IsPersisted())

	assert.ErrorIs(t, a.AssignID(0), ErrInvalidAuthorID)
	assert.ErrorIs(t, a.AssignID(-3), ErrInvalidAuthorID)

	require.NoError(t, a.AssignID(7))
	assert.True(t, a.IsPersisted())
	assert.Equal(t, 7, a.ID)

	// 不允许回到未持久化或改成其它ID
	assert.ErrorIs(t, a.AssignID(8), ErrAuthorAlreadyPersisted)
	assert.Equal(t, 7, a.ID)
}

func TestBook_UpdateInfo_KeepsValuesOnEmptyInput(t *testing.T) {
	b := NewBook("0-13-0", "Core Java", 2, "2024")

	b.UpdateInfo("  ", nil, "")
	assert.Equal(t, "Core Java", b.Title)
	assert.Equal(t, 2, b.EditionNumber)
	assert.Equal(t, "2024", b.Copyright)

	edition := 3
	b.UpdateInfo("Core Java 2E", &edition, "2025")
	assert.Equal(t, "Core Java 2E", b.Title)
	assert.Equal(t, 3, b.EditionNumber)
	assert.Equal(t, "2025", b.Copyright)
}

func TestAuthor_Rename(t *testing.T) {
	a := NewAuthor(7, "Grace", "Hopper")

	a.Rename("", "Murray")

	assert.Equal(t, "Grace", a.FirstName)
	assert.Equal(t, "Murray", a.LastName)
}

func TestString(t *testing.T) {
	b := NewBook("0-13-0", "Core Java", 2, "2024")
	assert.Equal(t, "ISBN: 0-13-0, Title: Core Java, Edition: 2, Copyright: 2024", b.String())

	a1 := NewAuthor(1, "Cay", "Horstmann")
	a2 := NewAuthor(2, "Gary", "Cornell")
	b.AddAuthor(a1)
	b.AddAuthor(a2)

	assert.Equal(t,
		"ISBN: 0-13-0, Title: Core Java, Edition: 2, Copyright: 2024\nAuthors: Cay Horstmann, Gary Cornell",
		b.String())
	assert.Equal(t,
		"Author ID: 1, Name: Cay Horstmann\nBooks: Core Java (0-13-0)",
		a1.String())
	assert.Equal(t, "Author ID: 9, Name: No Books", NewAuthor(9, "No", "Books").String())
}

func TestRecordRoundTrip(t *testing.T) {
	b := NewBook("0-13-0", "Core Java", 2, "2024")
	b.AddAuthor(NewAuthor(1, "Cay", "Horstmann"))

	rebuilt := b.Record().ToBook()

	assert.Equal(t, b.Record(), rebuilt.Record())
	assert.Empty(t, rebuilt.Authors(), "行数据不携带关系")
}
