package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed request by where it failed.
type Kind int

const (
	// KindNetwork means no response reached the client (includes timeouts).
	KindNetwork Kind = iota + 1
	// KindClient is a 4xx response.
	KindClient
	// KindServer is a 5xx response.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Error is returned for every failed request.
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int    // zero for network errors
	Message string // backend "message" field, when present
	Body    string
	Timeout bool
	Err     error // underlying transport error for network failures
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		if e.Timeout {
			return fmt.Sprintf("%s %s: request timed out", e.Method, e.Path)
		}
		return fmt.Sprintf("%s %s: no response from server: %v", e.Method, e.Path, e.Err)
	default:
		detail := e.Message
		if detail == "" {
			detail = e.Body
		}
		if detail == "" {
			detail = http.StatusText(e.Status)
		}
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, detail)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// KindOf returns the classification carried by err, or 0 when err did not
// come from the client.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// MessageOf returns the backend message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
