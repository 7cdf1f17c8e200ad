package mockapi

import (
	"fmt"
	"net/http"

	"github.com/blackwell-systems/catalogctl/internal/model"
)

func (b *Backend) listAuthors(w http.ResponseWriter, r *http.Request) {
	page, size, err := paging(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, slice(sortedValues(b.authors), page, size))
}

func (b *Backend) getAuthor(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.authors[id]
	if !ok {
		notFound(w, model.KindAuthor, id)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (b *Backend) authorDetails(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.authors[id]
	if !ok {
		notFound(w, model.KindAuthor, id)
		return
	}
	writeJSON(w, http.StatusOK, model.AuthorDetail{Author: a, Books: b.summaries(byAuthor(id))})
}

func (b *Backend) createAuthor(w http.ResponseWriter, r *http.Request) {
	var req model.AuthorRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusCreated, b.addAuthor(req))
}

func (b *Backend) updateAuthor(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var req model.AuthorRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.authors[id]; !ok {
		notFound(w, model.KindAuthor, id)
		return
	}
	b.authors[id] = model.Author{ID: id, Name: req.Name, Biography: req.Biography, BirthDate: req.BirthDate}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) deleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.authors[id]; !ok {
		notFound(w, model.KindAuthor, id)
		return
	}
	if n := len(b.summaries(byAuthor(id))); n > 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("author %d is referenced by %d book(s)", id, n))
		return
	}
	delete(b.authors, id)
	w.WriteHeader(http.StatusNoContent)
}
