package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/service"
)

// choicePageSize bounds the author and genre lists offered by the book form.
const choicePageSize = 100

// AuthorList lists every author.
func AuthorList(c *service.Catalog) ListSource[model.Author] {
	return ListSource[model.Author]{
		Kind:   model.KindAuthor,
		Fetch:  c.Authors.ListPage,
		Delete: c.Authors.Delete,
	}
}

// GenreList lists every genre.
func GenreList(c *service.Catalog) ListSource[model.Genre] {
	return ListSource[model.Genre]{
		Kind:   model.KindGenre,
		Fetch:  c.Genres.ListPage,
		Delete: c.Genres.Delete,
	}
}

// BookFilter narrows a book listing. At most one field is honoured, in the
// order Term, AuthorID, GenreID.
type BookFilter struct {
	Term     string
	AuthorID int
	GenreID  int
}

// Scope returns the cache scope for the filter.
func (f BookFilter) Scope() string {
	switch {
	case strings.TrimSpace(f.Term) != "":
		return "search:" + strings.ToLower(strings.TrimSpace(f.Term))
	case f.AuthorID > 0:
		return fmt.Sprintf("author:%d", f.AuthorID)
	case f.GenreID > 0:
		return fmt.Sprintf("genre:%d", f.GenreID)
	default:
		return ""
	}
}

// BookList lists books, optionally filtered.
func BookList(c *service.Catalog, f BookFilter) ListSource[model.Book] {
	fetch := c.Books.ListPage
	switch {
	case strings.TrimSpace(f.Term) != "":
		fetch = func(ctx context.Context, page, size int) (model.Page[model.Book], error) {
			return c.Books.Search(ctx, f.Term, page, size)
		}
	case f.AuthorID > 0:
		fetch = func(ctx context.Context, page, size int) (model.Page[model.Book], error) {
			return c.Books.ListByAuthor(ctx, f.AuthorID, page, size)
		}
	case f.GenreID > 0:
		fetch = func(ctx context.Context, page, size int) (model.Page[model.Book], error) {
			return c.Books.ListByGenre(ctx, f.GenreID, page, size)
		}
	}
	return ListSource[model.Book]{
		Kind:   model.KindBook,
		Scope:  f.Scope(),
		Fetch:  fetch,
		Delete: c.Books.Delete,
	}
}

// AuthorDetail shows an author with their books.
func AuthorDetail(c *service.Catalog) DetailSource[model.AuthorDetail] {
	return DetailSource[model.AuthorDetail]{Kind: model.KindAuthor, Fetch: c.Authors.Detail, Delete: c.Authors.Delete}
}

// GenreDetail shows a genre with its books.
func GenreDetail(c *service.Catalog) DetailSource[model.GenreDetail] {
	return DetailSource[model.GenreDetail]{Kind: model.KindGenre, Fetch: c.Genres.Detail, Delete: c.Genres.Delete}
}

// BookDetail shows a book with its author and genres.
func BookDetail(c *service.Catalog) DetailSource[model.BookDetail] {
	return DetailSource[model.BookDetail]{Kind: model.KindBook, Fetch: c.Books.Detail, Delete: c.Books.Delete}
}

// AuthorForm creates and edits authors.
func AuthorForm(c *service.Catalog) FormSource[model.AuthorRequest] {
	return FormSource[model.AuthorRequest]{
		Kind: model.KindAuthor,
		Load: func(ctx context.Context, id int) (FormData[model.AuthorRequest], error) {
			var data FormData[model.AuthorRequest]
			if id == 0 {
				return data, nil
			}
			a, err := c.Authors.Get(ctx, id)
			if err != nil {
				return data, err
			}
			data.Request = a.Request()
			return data, nil
		},
		Create: func(ctx context.Context, req model.AuthorRequest) error {
			_, err := c.Authors.Create(ctx, req)
			return err
		},
		Update: c.Authors.Update,
	}
}

// GenreForm creates and edits genres.
func GenreForm(c *service.Catalog) FormSource[model.GenreRequest] {
	return FormSource[model.GenreRequest]{
		Kind: model.KindGenre,
		Load: func(ctx context.Context, id int) (FormData[model.GenreRequest], error) {
			var data FormData[model.GenreRequest]
			if id == 0 {
				return data, nil
			}
			g, err := c.Genres.Get(ctx, id)
			if err != nil {
				return data, err
			}
			data.Request = g.Request()
			return data, nil
		},
		Create: func(ctx context.Context, req model.GenreRequest) error {
			_, err := c.Genres.Create(ctx, req)
			return err
		},
		Update: c.Genres.Update,
	}
}

// BookForm creates and edits books. The author and genre choices are fetched
// before the book itself, one request at a time.
func BookForm(c *service.Catalog) FormSource[model.BookRequest] {
	return FormSource[model.BookRequest]{
		Kind: model.KindBook,
		Blank: func() model.BookRequest {
			return model.BookRequest{Year: time.Now().Year()}
		},
		Load: func(ctx context.Context, id int) (FormData[model.BookRequest], error) {
			var data FormData[model.BookRequest]
			authors, err := c.Authors.ListPage(ctx, 1, choicePageSize)
			if err != nil {
				return data, err
			}
			genres, err := c.Genres.ListPage(ctx, 1, choicePageSize)
			if err != nil {
				return data, err
			}
			data.Choices = Choices{Authors: authors.Items, Genres: genres.Items}
			if id == 0 {
				return data, nil
			}
			b, err := c.Books.Detail(ctx, id)
			if err != nil {
				return data, err
			}
			data.Request = b.Request()
			return data, nil
		},
		Create: func(ctx context.Context, req model.BookRequest) error {
			_, err := c.Books.Create(ctx, req)
			return err
		},
		Update: c.Books.Update,
	}
}

// Counts returns the dashboard count sources: each asks for a one-row page
// and reads its total.
func Counts(c *service.Catalog) map[model.Kind]CountFunc {
	return map[model.Kind]CountFunc{
		model.KindAuthor: func(ctx context.Context) (int, error) {
			p, err := c.Authors.ListPage(ctx, 1, 1)
			return p.TotalCount, err
		},
		model.KindGenre: func(ctx context.Context) (int, error) {
			p, err := c.Genres.ListPage(ctx, 1, 1)
			return p.TotalCount, err
		},
		model.KindBook: func(ctx context.Context) (int, error) {
			p, err := c.Books.ListPage(ctx, 1, 1)
			return p.TotalCount, err
		},
	}
}
