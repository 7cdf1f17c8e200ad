package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/blackwell-systems/catalogctl/internal/model"
)

// Prefix is the mount point of the API, matching the real backend.
const Prefix = "/api/v1"

const defaultPageSize = 10

var errBadPaging = errors.New("pageNumber and pageSize must be positive integers")

// Handler returns the HTTP handler serving the API under Prefix.
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(b.countAndFail)

	r.Route(Prefix, func(r chi.Router) {
		r.Route("/Authors", func(r chi.Router) {
			r.Get("/", b.listAuthors)
			r.Post("/", b.createAuthor)
			r.Get("/{id}", b.getAuthor)
			r.Get("/{id}/details", b.authorDetails)
			r.Put("/{id}", b.updateAuthor)
			r.Delete("/{id}", b.deleteAuthor)
		})
		r.Route("/Genres", func(r chi.Router) {
			r.Get("/", b.listGenres)
			r.Post("/", b.createGenre)
			r.Get("/{id}", b.getGenre)
			r.Get("/{id}/details", b.genreDetails)
			r.Put("/{id}", b.updateGenre)
			r.Delete("/{id}", b.deleteGenre)
		})
		r.Route("/Books", func(r chi.Router) {
			r.Get("/", b.listBooks)
			r.Post("/", b.createBook)
			r.Get("/search", b.searchBooks)
			r.Get("/byAuthor/{id}", b.booksByAuthor)
			r.Get("/byGenre/{id}", b.booksByGenre)
			r.Get("/{id}", b.getBook)
			r.Get("/{id}/details", b.bookDetails)
			r.Put("/{id}", b.updateBook)
			r.Delete("/{id}", b.deleteBook)
		})
		r.Post("/BookGenres/book/{id}/genres", b.assignGenres)
		r.Delete("/BookGenres/book/{id}/genres", b.clearGenres)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("component", "mockapi").
			Str("method", r.Method).
			Str("path", r.URL.RequestURI()).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("served")
	})
}

// countAndFail counts requests and serves any injected failures.
func (b *Backend) countAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests++
		var f *failure
		if len(b.failures) > 0 {
			f = &b.failures[0]
			b.failures = b.failures[1:]
		}
		b.mu.Unlock()
		if f != nil {
			writeError(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

func paging(r *http.Request) (page, size int, err error) {
	page, size = 1, defaultPageSize
	q := r.URL.Query()
	if v := q.Get("pageNumber"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 1 {
			return 0, 0, errBadPaging
		}
	}
	if v := q.Get("pageSize"); v != "" {
		if size, err = strconv.Atoi(v); err != nil || size < 1 {
			return 0, 0, errBadPaging
		}
	}
	return page, size, nil
}

// slice cuts one page out of all. Pages past the end are empty.
func slice[T any](all []T, page, size int) model.Page[T] {
	start := (page - 1) * size
	items := []T{}
	if start < len(all) {
		end := start + size
		if end > len(all) {
			end = len(all)
		}
		items = append(items, all[start:end]...)
	}
	return model.NewPage(items, page, size, len(all))
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// decode reads a request body and applies the same rules the client does.
func decode(r *http.Request, v interface{ Validate() error }) error {
	if err := decodeJSON(r, v); err != nil {
		return err
	}
	return v.Validate()
}

func notFound(w http.ResponseWriter, kind model.Kind, id int) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("%s with id %d not found", kind.Singular(), id))
}
