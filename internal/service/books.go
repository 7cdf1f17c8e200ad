package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/blackwell-systems/catalogctl/internal/api"
	"github.com/blackwell-systems/catalogctl/internal/model"
)

// BookService adds search and filtered listings to the book CRUD service.
type BookService struct {
	*Service[model.Book, model.BookDetail, model.BookRequest]
}

// Search lists books whose title contains term (matched server-side).
// An empty term lists every book.
func (b *BookService) Search(ctx context.Context, term string, page, size int) (model.Page[model.Book], error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return b.ListPage(ctx, page, size)
	}
	return b.listAt(ctx, b.ep.Path+"/search", url.Values{"term": {term}}, page, size)
}

// ListByAuthor lists the books written by authorID.
func (b *BookService) ListByAuthor(ctx context.Context, authorID, page, size int) (model.Page[model.Book], error) {
	return b.listAt(ctx, b.ep.Path+"/byAuthor/"+strconv.Itoa(authorID), nil, page, size)
}

// ListByGenre lists the books tagged with genreID.
func (b *BookService) ListByGenre(ctx context.Context, genreID, page, size int) (model.Page[model.Book], error) {
	return b.listAt(ctx, b.ep.Path+"/byGenre/"+strconv.Itoa(genreID), nil, page, size)
}

// BookGenreService manages the book/genre association directly.
type BookGenreService struct {
	t    Transport
	path string
}

// Assign adds genreIDs to the book's genres.
func (s *BookGenreService) Assign(ctx context.Context, bookID int, genreIDs []int) error {
	if len(genreIDs) == 0 {
		return &ValidationError{Err: errSelectGenre}
	}
	body := struct {
		GenreIDs []int `json:"genreIds"`
	}{genreIDs}
	return s.t.Do(ctx, http.MethodPost, s.bookPath(bookID), nil, body, nil)
}

// Clear removes every genre from the book. Callers normally follow with Assign
// since a book must keep at least one genre.
func (s *BookGenreService) Clear(ctx context.Context, bookID int) error {
	return s.t.Do(ctx, http.MethodDelete, s.bookPath(bookID), nil, nil, nil)
}

func (s *BookGenreService) bookPath(bookID int) string {
	return s.path + "/book/" + strconv.Itoa(bookID) + "/genres"
}

func isBadRequest(err error) bool {
	return api.KindOf(err) == api.KindClient && api.StatusOf(err) == http.StatusBadRequest
}
