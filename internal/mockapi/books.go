package mockapi

import (
	"fmt"
	"net/http"

	"github.com/blackwell-systems/catalogctl/internal/model"
)

func (b *Backend) listBooks(w http.ResponseWriter, r *http.Request) {
	b.pageOfBooks(w, r, func(bookRecord) bool { return true })
}

func (b *Backend) searchBooks(w http.ResponseWriter, r *http.Request) {
	b.pageOfBooks(w, r, titleContains(r.URL.Query().Get("term")))
}

func (b *Backend) booksByAuthor(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.pageOfBooks(w, r, byAuthor(id))
}

func (b *Backend) booksByGenre(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.pageOfBooks(w, r, byGenre(id))
}

func (b *Backend) pageOfBooks(w http.ResponseWriter, r *http.Request, keep func(bookRecord) bool) {
	page, size, err := paging(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, slice(b.booksWhere(keep), page, size))
}

func (b *Backend) getBook(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.books[id]
	if !ok {
		notFound(w, model.KindBook, id)
		return
	}
	writeJSON(w, http.StatusOK, b.bookRow(rec))
}

func (b *Backend) bookDetails(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.books[id]
	if !ok {
		notFound(w, model.KindBook, id)
		return
	}
	writeJSON(w, http.StatusOK, b.bookDetail(rec))
}

func (b *Backend) createBook(w http.ResponseWriter, r *http.Request) {
	var req model.BookRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg := b.checkRefs(req.AuthorID, req.GenreIDs); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusCreated, b.bookRow(b.addBook(req)))
}

func (b *Backend) updateBook(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var req model.BookRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.books[id]; !ok {
		notFound(w, model.KindBook, id)
		return
	}
	if msg := b.checkRefs(req.AuthorID, req.GenreIDs); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	b.books[id] = recordFrom(id, req)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.books[id]; !ok {
		notFound(w, model.KindBook, id)
		return
	}
	delete(b.books, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) assignGenres(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var body struct {
		GenreIDs []int `json:"genreIds"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.books[id]
	if !ok {
		notFound(w, model.KindBook, id)
		return
	}
	if msg := b.checkRefs(rec.AuthorID, body.GenreIDs); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	rec.GenreIDs = dedupe(append(rec.GenreIDs, body.GenreIDs...))
	b.books[id] = rec
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) clearGenres(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	rec, ok := b.books[id]
	if !ok {
		notFound(w, model.KindBook, id)
		return
	}
	rec.GenreIDs = nil
	b.books[id] = rec
	w.WriteHeader(http.StatusNoContent)
}

// checkRefs reports the first dangling author or genre reference.
func (b *Backend) checkRefs(authorID int, genreIDs []int) string {
	if _, ok := b.authors[authorID]; !ok {
		return fmt.Sprintf("author %d does not exist", authorID)
	}
	for _, gid := range genreIDs {
		if _, ok := b.genres[gid]; !ok {
			return fmt.Sprintf("genre %d does not exist", gid)
		}
	}
	return ""
}
