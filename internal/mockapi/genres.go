package mockapi

import (
	"fmt"
	"net/http"

	"github.com/blackwell-systems/catalogctl/internal/model"
)

func (b *Backend) listGenres(w http.ResponseWriter, r *http.Request) {
	page, size, err := paging(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, slice(sortedValues(b.genres), page, size))
}

func (b *Backend) getGenre(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.genres[id]
	if !ok {
		notFound(w, model.KindGenre, id)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (b *Backend) genreDetails(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	g, ok := b.genres[id]
	if !ok {
		notFound(w, model.KindGenre, id)
		return
	}
	writeJSON(w, http.StatusOK, model.GenreDetail{Genre: g, Books: b.summaries(byGenre(id))})
}

func (b *Backend) createGenre(w http.ResponseWriter, r *http.Request) {
	var req model.GenreRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusCreated, b.addGenre(req))
}

func (b *Backend) updateGenre(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var req model.GenreRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.genres[id]; !ok {
		notFound(w, model.KindGenre, id)
		return
	}
	b.genres[id] = model.Genre{ID: id, Name: req.Name, Description: req.Description}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) deleteGenre(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.genres[id]; !ok {
		notFound(w, model.KindGenre, id)
		return
	}
	if n := len(b.summaries(byGenre(id))); n > 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("genre %d is referenced by %d book(s)", id, n))
		return
	}
	delete(b.genres, id)
	w.WriteHeader(http.StatusNoContent)
}
