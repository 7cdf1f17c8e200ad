// Package mockapi is an in-memory implementation of the catalog REST API for
// development and tests. State lives only as long as the Backend value.
package mockapi

import (
	"sort"
	"strings"
	"sync"

	"github.com/blackwell-systems/catalogctl/internal/model"
)

type bookRecord struct {
	ID       int
	Title    string
	Year     int
	AuthorID int
	GenreIDs []int
	ISBN     *string
	Synopsis *string
	Cover    *string
}

type failure struct {
	status  int
	message string
}

// Backend holds the catalog state served by Handler.
type Backend struct {
	mu       sync.Mutex
	authors  map[int]model.Author
	genres   map[int]model.Genre
	books    map[int]bookRecord
	nextID   map[model.Kind]int
	failures []failure
	requests int
}

// New creates an empty backend.
func New() *Backend {
	return &Backend{
		authors: make(map[int]model.Author),
		genres:  make(map[int]model.Genre),
		books:   make(map[int]bookRecord),
		nextID:  map[model.Kind]int{model.KindAuthor: 1, model.KindGenre: 1, model.KindBook: 1},
	}
}

// Requests returns the number of requests served so far.
func (b *Backend) Requests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

// FailNext makes the next n requests fail with status.
func (b *Backend) FailNext(n, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := 0; i < n; i++ {
		b.failures = append(b.failures, failure{status: status, message: "injected failure"})
	}
}

// AddAuthor stores a and returns it with its assigned ID.
func (b *Backend) AddAuthor(req model.AuthorRequest) model.Author {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addAuthor(req)
}

// AddGenre stores g and returns it with its assigned ID.
func (b *Backend) AddGenre(req model.GenreRequest) model.Genre {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addGenre(req)
}

// AddBook stores a book without validating its references.
func (b *Backend) AddBook(req model.BookRequest) model.Book {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bookRow(b.addBook(req))
}

func (b *Backend) addAuthor(req model.AuthorRequest) model.Author {
	a := model.Author{ID: b.take(model.KindAuthor), Name: req.Name, Biography: req.Biography, BirthDate: req.BirthDate}
	b.authors[a.ID] = a
	return a
}

func (b *Backend) addGenre(req model.GenreRequest) model.Genre {
	g := model.Genre{ID: b.take(model.KindGenre), Name: req.Name, Description: req.Description}
	b.genres[g.ID] = g
	return g
}

func (b *Backend) addBook(req model.BookRequest) bookRecord {
	rec := recordFrom(b.take(model.KindBook), req)
	b.books[rec.ID] = rec
	return rec
}

func (b *Backend) take(kind model.Kind) int {
	id := b.nextID[kind]
	b.nextID[kind] = id + 1
	return id
}

func recordFrom(id int, req model.BookRequest) bookRecord {
	return bookRecord{
		ID:       id,
		Title:    req.Title,
		Year:     req.Year,
		AuthorID: req.AuthorID,
		GenreIDs: dedupe(req.GenreIDs),
		ISBN:     req.ISBN,
		Synopsis: req.Synopsis,
		Cover:    req.Cover,
	}
}

func (b *Backend) bookRow(rec bookRecord) model.Book {
	row := model.Book{ID: rec.ID, Title: rec.Title, Year: rec.Year, Author: b.authors[rec.AuthorID]}
	for _, gid := range rec.GenreIDs {
		row.Genres = append(row.Genres, model.GenreRef{ID: gid, Name: b.genres[gid].Name})
	}
	return row
}

func (b *Backend) bookDetail(rec bookRecord) model.BookDetail {
	return model.BookDetail{Book: b.bookRow(rec), ISBN: rec.ISBN, Synopsis: rec.Synopsis, Cover: rec.Cover}
}

// booksWhere returns matching book rows ordered by ID.
func (b *Backend) booksWhere(keep func(bookRecord) bool) []model.Book {
	var out []model.Book
	for _, id := range sortedKeys(b.books) {
		if rec := b.books[id]; keep(rec) {
			out = append(out, b.bookRow(rec))
		}
	}
	return out
}

func (b *Backend) summaries(keep func(bookRecord) bool) []model.BookSummary {
	out := []model.BookSummary{}
	for _, id := range sortedKeys(b.books) {
		if rec := b.books[id]; keep(rec) {
			out = append(out, model.BookSummary{ID: rec.ID, Title: rec.Title, Year: rec.Year})
		}
	}
	return out
}

func titleContains(term string) func(bookRecord) bool {
	term = strings.ToLower(term)
	return func(r bookRecord) bool { return strings.Contains(strings.ToLower(r.Title), term) }
}

func byAuthor(id int) func(bookRecord) bool {
	return func(r bookRecord) bool { return r.AuthorID == id }
}

func byGenre(id int) func(bookRecord) bool {
	return func(r bookRecord) bool { return containsInt(r.GenreIDs, id) }
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedValues[V any](m map[int]V) []V {
	out := make([]V, 0, len(m))
	for _, k := range sortedKeys(m) {
		out = append(out, m[k])
	}
	return out
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
