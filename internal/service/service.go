// Package service translates catalog operations into backend requests.
package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/blackwell-systems/catalogctl/internal/model"
)

// Transport is the subset of *api.Client the services need.
type Transport interface {
	Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error
}

// Request is implemented by create/update bodies.
type Request interface {
	Validate() error
}

// Endpoint configures one entity service.
type Endpoint struct {
	Kind model.Kind
	Path string // collection path, e.g. "/Authors"
	// ConflictOnDelete maps a 400 on delete to ErrReferentialConflict.
	ConflictOnDelete bool
}

// Option configures services built by New and NewCatalog.
type Option func(*options)

type options struct {
	retryDelay time.Duration
}

// WithRetryDelay sets the pause before the single read retry.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.retryDelay = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{retryDelay: DefaultRetryDelay}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Service is the CRUD service for one entity: T is the list row, D the detail
// payload and R the create/update body.
type Service[T model.Entity, D any, R Request] struct {
	t          Transport
	ep         Endpoint
	retryDelay time.Duration
}

// New creates a service for ep.
func New[T model.Entity, D any, R Request](t Transport, ep Endpoint, opts ...Option) *Service[T, D, R] {
	o := buildOptions(opts)
	return &Service[T, D, R]{t: t, ep: ep, retryDelay: o.retryDelay}
}

// Kind returns the entity kind served.
func (s *Service[T, D, R]) Kind() model.Kind { return s.ep.Kind }

// ListPage fetches one page of the collection.
func (s *Service[T, D, R]) ListPage(ctx context.Context, page, size int) (model.Page[T], error) {
	return s.listAt(ctx, s.ep.Path, nil, page, size)
}

// Get fetches one entity.
func (s *Service[T, D, R]) Get(ctx context.Context, id int) (T, error) {
	var out T
	err := s.read(ctx, s.itemPath(id), nil, func() interface{} {
		out = *new(T)
		return &out
	})
	return out, err
}

// Detail fetches one entity with its associations.
func (s *Service[T, D, R]) Detail(ctx context.Context, id int) (D, error) {
	var out D
	err := s.read(ctx, s.itemPath(id)+"/details", nil, func() interface{} {
		out = *new(D)
		return &out
	})
	return out, err
}

// Create validates req locally and posts it. The backend assigns the ID.
func (s *Service[T, D, R]) Create(ctx context.Context, req R) (T, error) {
	var out T
	if err := req.Validate(); err != nil {
		return out, &ValidationError{Err: err}
	}
	if err := s.t.Do(ctx, http.MethodPost, s.ep.Path, nil, req, &out); err != nil {
		return out, fmt.Errorf("create %s: %w", s.ep.Kind.Singular(), err)
	}
	return out, nil
}

// Update validates req locally and replaces the entity.
func (s *Service[T, D, R]) Update(ctx context.Context, id int, req R) error {
	if err := req.Validate(); err != nil {
		return &ValidationError{Err: err}
	}
	if err := s.t.Do(ctx, http.MethodPut, s.itemPath(id), nil, req, nil); err != nil {
		return fmt.Errorf("update %s %d: %w", s.ep.Kind.Singular(), id, err)
	}
	return nil
}

// Delete removes the entity. For kinds that books reference, a 400 means the
// entity is still in use and is reported as ErrReferentialConflict.
func (s *Service[T, D, R]) Delete(ctx context.Context, id int) error {
	err := s.t.Do(ctx, http.MethodDelete, s.itemPath(id), nil, nil, nil)
	if err == nil {
		return nil
	}
	if s.ep.ConflictOnDelete && isBadRequest(err) {
		return &ConflictError{Kind: s.ep.Kind, ID: id, Err: err}
	}
	return fmt.Errorf("delete %s %d: %w", s.ep.Kind.Singular(), id, err)
}

func (s *Service[T, D, R]) listAt(ctx context.Context, path string, extra url.Values, page, size int) (model.Page[T], error) {
	var out model.Page[T]
	if err := checkPaging(page, size); err != nil {
		return out, err
	}
	q := pageQuery(page, size)
	for k, v := range extra {
		q[k] = v
	}
	err := s.read(ctx, path, q, func() interface{} {
		out = model.Page[T]{}
		return &out
	})
	return out, err
}

// read GETs path into the value returned by reset, which is called before
// each attempt so a failed first decode never leaks into the retry.
func (s *Service[T, D, R]) read(ctx context.Context, path string, q url.Values, reset func() interface{}) error {
	return readOnce(ctx, s.retryDelay, func() error {
		return s.t.Do(ctx, http.MethodGet, path, q, nil, reset())
	})
}

func (s *Service[T, D, R]) itemPath(id int) string {
	return s.ep.Path + "/" + strconv.Itoa(id)
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("pageNumber", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(size))
	return q
}

func checkPaging(page, size int) error {
	if page < 1 {
		return &ValidationError{Err: fmt.Errorf("page number must be >= 1, got %d", page)}
	}
	if size < 1 {
		return &ValidationError{Err: fmt.Errorf("page size must be >= 1, got %d", size)}
	}
	return nil
}
