package model

import (
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// GenreRef is the abbreviated genre embedded in book payloads.
type GenreRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// BookSummary is the abbreviated book embedded in author and genre details.
type BookSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// Book is a list row from /Books. Every book has exactly one author and at
// least one genre.
type Book struct {
	ID     int        `json:"id"`
	Title  string     `json:"title"`
	Year   int        `json:"year"`
	Author Author     `json:"author"`
	Genres []GenreRef `json:"genres"`
}

func (b Book) EntityID() int { return b.ID }
func (b Book) Label() string { return b.Title }

// AuthorID returns the ID of the book's author.
func (b Book) AuthorID() int { return b.Author.ID }

// GenreIDs returns the book's genre IDs in ascending order.
func (b Book) GenreIDs() []int {
	ids := make([]int, len(b.Genres))
	for i, g := range b.Genres {
		ids[i] = g.ID
	}
	sort.Ints(ids)
	return ids
}

// BookDetail is the /Books/{id}/details payload. ISBN, Synopsis and Cover are
// optional: older backends omit them entirely.
type BookDetail struct {
	Book
	ISBN     *string `json:"isbn,omitempty"`
	Synopsis *string `json:"synopsis,omitempty"`
	Cover    *string `json:"cover,omitempty"`
}

// BookRequest is the create/update body.
type BookRequest struct {
	Title    string  `json:"title"`
	Year     int     `json:"year"`
	AuthorID int     `json:"authorId"`
	GenreIDs []int   `json:"genreIds"`
	ISBN     *string `json:"isbn,omitempty"`
	Synopsis *string `json:"synopsis,omitempty"`
	Cover    *string `json:"cover,omitempty"`
}

// Messages for the relational checks run before a book is submitted.
const (
	MsgSelectAuthor = "select an author"
	MsgSelectGenre  = "select at least one genre"
)

func (r BookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 300),
		),
		validation.Field(&r.Year,
			validation.Required.Error("year is required"),
			validation.Min(1000),
			validation.Max(time.Now().Year()+5),
		),
		validation.Field(&r.AuthorID,
			validation.Required.Error(MsgSelectAuthor),
			validation.Min(1).Error(MsgSelectAuthor),
		),
		validation.Field(&r.GenreIDs,
			validation.Required.Error(MsgSelectGenre),
			validation.Each(validation.Required, validation.Min(1)),
		),
	)
}

// Request converts a fetched book detail back into an update body.
func (d BookDetail) Request() BookRequest {
	return BookRequest{
		Title:    d.Title,
		Year:     d.Year,
		AuthorID: d.AuthorID(),
		GenreIDs: d.GenreIDs(),
		ISBN:     d.ISBN,
		Synopsis: d.Synopsis,
		Cover:    d.Cover,
	}
}
