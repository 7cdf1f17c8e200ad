package service

import (
	"errors"

	"github.com/blackwell-systems/catalogctl/internal/model"
)

var errSelectGenre = errors.New(model.MsgSelectGenre)

type (
	// AuthorService is the author CRUD service.
	AuthorService = Service[model.Author, model.AuthorDetail, model.AuthorRequest]
	// GenreService is the genre CRUD service.
	GenreService = Service[model.Genre, model.GenreDetail, model.GenreRequest]
)

// Catalog bundles the services for every entity.
type Catalog struct {
	Authors    *AuthorService
	Genres     *GenreService
	Books      *BookService
	BookGenres *BookGenreService
}

// NewCatalog wires the three entity services over one transport.
func NewCatalog(t Transport, opts ...Option) *Catalog {
	return &Catalog{
		Authors: New[model.Author, model.AuthorDetail, model.AuthorRequest](t,
			Endpoint{Kind: model.KindAuthor, Path: "/Authors", ConflictOnDelete: true}, opts...),
		Genres: New[model.Genre, model.GenreDetail, model.GenreRequest](t,
			Endpoint{Kind: model.KindGenre, Path: "/Genres", ConflictOnDelete: true}, opts...),
		Books: &BookService{New[model.Book, model.BookDetail, model.BookRequest](t,
			Endpoint{Kind: model.KindBook, Path: "/Books"}, opts...)},
		BookGenres: &BookGenreService{t: t, path: "/BookGenres"},
	}
}
