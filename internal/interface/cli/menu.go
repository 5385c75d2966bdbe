package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	appcatalog "github.com/xiebiao/bookcatalog/internal/application/catalog"
	"github.com/xiebiao/bookcatalog/internal/domain/catalog"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

const separator = "------------------------------"

// Menu 交互式文本菜单
// 设计说明:
// 1. 只做输入解析和输出,业务全部交给Catalog
// 2. 输入输出都是接口,测试时用字符串驱动
// 3. 输入结束(EOF)等同于退出
type Menu struct {
	catalog *appcatalog.Catalog
	in      *bufio.Scanner
	out     io.Writer
}

// NewMenu 创建菜单
func NewMenu(cat *appcatalog.Catalog, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		catalog: cat,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run 循环处理菜单选项,直到选择退出或输入结束
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.println("\nPlease select an option:")
		m.println("1. Print all books (with authors)")
		m.println("2. Print all authors (with books)")
		m.println("3. Edit a book's attributes")
		m.println("4. Edit an author's attributes")
		m.println("5. Add a book")
		m.println("6. Quit")

		choice, err := m.prompt("Your choice: ")
		if err != nil {
			return m.finish(err)
		}

		switch choice {
		case "1":
			PrintBooks(m.out, m.catalog.Books())
		case "2":
			PrintAuthors(m.out, m.catalog.Authors())
		case "3":
			err = m.editBook(ctx)
		case "4":
			err = m.editAuthor(ctx)
		case "5":
			err = m.addBook(ctx)
		case "6":
			return m.finish(nil)
		default:
			m.println("Invalid choice. Please try again.")
		}
		if err != nil {
			return m.finish(err)
		}
	}
}

// finish EOF视为正常退出,其余是读取输入的错误
func (m *Menu) finish(err error) error {
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	m.println("\nExiting application.")
	return nil
}

func (m *Menu) editBook(ctx context.Context) error {
	isbn, err := m.prompt("Enter the ISBN of the book to edit: ")
	if err != nil {
		return err
	}
	b, ok := m.catalog.FindBookByISBN(isbn)
	if !ok {
		m.println("Book not found.")
		return nil
	}
	m.printf("Editing book: %s\n", b.Title)

	title, err := m.prompt(fmt.Sprintf("Enter new title (or press Enter to keep [%s]): ", b.Title))
	if err != nil {
		return err
	}
	editionInput, err := m.prompt(fmt.Sprintf("Enter new edition number (or press Enter to keep [%d]): ", b.EditionNumber))
	if err != nil {
		return err
	}
	var edition *int
	if editionInput != "" {
		if n, convErr := strconv.Atoi(editionInput); convErr == nil {
			edition = &n
		} else {
			m.println("Invalid number. Keeping current edition number.")
		}
	}
	copyright, err := m.prompt(fmt.Sprintf("Enter new copyright (or press Enter to keep [%s]): ", b.Copyright))
	if err != nil {
		return err
	}

	before := b.Record()
	b.UpdateInfo(title, edition, copyright)
	if err := m.catalog.UpdateBook(ctx, b); err != nil {
		// 存储失败时恢复内存中的旧值
		b.Title, b.EditionNumber, b.Copyright = before.Title, before.EditionNumber, before.Copyright
		m.printf("Error updating book: %s\n", describe(err))
		return nil
	}
	m.println("Book updated successfully.")
	return nil
}

func (m *Menu) editAuthor(ctx context.Context) error {
	idInput, err := m.prompt("Enter the author ID to edit: ")
	if err != nil {
		return err
	}
	id, convErr := strconv.Atoi(idInput)
	if convErr != nil {
		m.println("Invalid author ID.")
		return nil
	}
	a, ok := m.catalog.FindAuthorByID(id)
	if !ok {
		m.println("Author not found.")
		return nil
	}
	m.printf("Editing author: %s %s\n", a.FirstName, a.LastName)

	first, err := m.prompt(fmt.Sprintf("Enter new first name (or press Enter to keep [%s]): ", a.FirstName))
	if err != nil {
		return err
	}
	last, err := m.prompt(fmt.Sprintf("Enter new last name (or press Enter to keep [%s]): ", a.LastName))
	if err != nil {
		return err
	}

	before := a.Record()
	a.Rename(first, last)
	if err := m.catalog.UpdateAuthor(ctx, a); err != nil {
		a.FirstName, a.LastName = before.FirstName, before.LastName
		m.printf("Error updating author: %s\n", describe(err))
		return nil
	}
	m.println("Author updated successfully.")
	return nil
}

func (m *Menu) addBook(ctx context.Context) error {
	isbn, err := m.prompt("Enter ISBN: ")
	if err != nil {
		return err
	}
	if isbn == "" {
		m.println("ISBN cannot be empty.")
		return nil
	}
	if _, exists := m.catalog.FindBookByISBN(isbn); exists {
		m.println("A book with this ISBN already exists.")
		return nil
	}

	title, err := m.prompt("Enter title: ")
	if err != nil {
		return err
	}
	editionInput, err := m.prompt("Enter edition number: ")
	if err != nil {
		return err
	}
	edition, convErr := strconv.Atoi(editionInput)
	if convErr != nil {
		m.println("Invalid edition number.")
		return nil
	}
	copyright, err := m.prompt("Enter copyright: ")
	if err != nil {
		return err
	}

	b := catalog.NewBook(isbn, title, edition, copyright)
	if err := m.chooseAuthors(ctx, b); err != nil {
		return err
	}

	err = m.catalog.AddBook(ctx, b)
	var partial *appcatalog.PartialInsertError
	switch {
	case err == nil:
		m.println("Book added successfully.")
	case errors.As(err, &partial):
		m.printf("Book added, but saving authorship for author IDs %v failed.\n", partial.FailedAuthorIDs)
	default:
		m.printf("Error adding book: %s\n", describe(err))
	}
	return nil
}

// chooseAuthors 子菜单: 已有作者 / 新作者 / 完成
func (m *Menu) chooseAuthors(ctx context.Context, b *catalog.Book) error {
	for {
		m.println("\nSelect an option to add an author for this book:")
		m.println("1. Existing author")
		m.println("2. New author")
		m.println("3. Done adding authors")
		choice, err := m.prompt("Your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			idInput, err := m.prompt("Enter author ID: ")
			if err != nil {
				return err
			}
			id, convErr := strconv.Atoi(idInput)
			if convErr != nil {
				m.println("Invalid author ID.")
				continue
			}
			a, ok := m.catalog.FindAuthorByID(id)
			if !ok {
				m.println("Author not found.")
				continue
			}
			b.AddAuthor(a)
			m.println("Author added.")
		case "2":
			first, err := m.prompt("Enter first name: ")
			if err != nil {
				return err
			}
			last, err := m.prompt("Enter last name: ")
			if err != nil {
				return err
			}
			a, addErr := m.catalog.AddNewAuthor(ctx, b, first, last)
			if addErr != nil {
				m.printf("Error creating new author: %s\n", describe(addErr))
				continue
			}
			m.printf("New author created and added (ID %d).\n", a.ID)
		case "3":
			return nil
		default:
			m.println("Invalid choice.")
		}
	}
}

// prompt 输出提示并读取一行(去掉首尾空白)
func (m *Menu) prompt(text string) (string, error) {
	fmt.Fprint(m.out, text)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

func (m *Menu) println(text string) {
	fmt.Fprintln(m.out, text)
}

func (m *Menu) printf(format string, args ...interface{}) {
	fmt.Fprintf(m.out, format, args...)
}

// PrintBooks 逐本输出图书及其作者
func PrintBooks(w io.Writer, books []*catalog.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books found.")
		return
	}
	for _, b := range books {
		fmt.Fprintln(w, b)
		fmt.Fprintln(w, separator)
	}
}

// PrintAuthors 逐个输出作者及其图书
func PrintAuthors(w io.Writer, authors []*catalog.Author) {
	if len(authors) == 0 {
		fmt.Fprintln(w, "No authors found.")
		return
	}
	for _, a := range authors {
		fmt.Fprintln(w, a)
		fmt.Fprintln(w, separator)
	}
}

// describe 面向用户的错误描述,AppError只取Message,底层错误已由Catalog写日志
func describe(err error) string {
	if apperrors.IsAppError(err) {
		return apperrors.GetAppError(err).Message
	}
	return err.Error()
}
