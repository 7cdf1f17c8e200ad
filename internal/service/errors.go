package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/blackwell-systems/catalogctl/internal/api"
	"github.com/blackwell-systems/catalogctl/internal/model"
)

var (
	// ErrValidation marks a request rejected before or by the backend as invalid.
	ErrValidation = errors.New("validation failed")
	// ErrReferentialConflict marks a delete blocked because books still reference the entity.
	ErrReferentialConflict = errors.New("entity is referenced by existing books")
)

// ValidationError wraps a local pre-submit validation failure.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ConflictError is returned when the backend refuses to delete an entity that
// books still reference.
type ConflictError struct {
	Kind model.Kind
	ID   int
	Err  error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d is referenced by existing books: %v", e.Kind.Singular(), e.ID, e.Err)
}
func (e *ConflictError) Unwrap() error { return e.Err }
func (e *ConflictError) Is(target error) bool {
	return target == ErrReferentialConflict
}

// Kind is the user-facing error taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindValidation
	KindReferentialConflict
	KindNotFound
	KindServerFault
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindReferentialConflict:
		return "referential-conflict"
	case KindNotFound:
		return "not-found"
	case KindServerFault:
		return "server-fault"
	default:
		return "unknown"
	}
}

// Classify maps any error returned by a service into exactly one Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrReferentialConflict):
		return KindReferentialConflict
	case errors.Is(err, ErrValidation):
		return KindValidation
	}
	switch api.KindOf(err) {
	case api.KindNetwork:
		return KindNetwork
	case api.KindServer:
		return KindServerFault
	case api.KindClient:
		switch api.StatusOf(err) {
		case http.StatusNotFound:
			return KindNotFound
		case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
			return KindValidation
		}
	}
	return KindUnknown
}

// Op names the operation that failed, for message selection.
type Op int

const (
	OpList Op = iota
	OpLoad
	OpSave
	OpDelete
)

// UserMessage returns the single alert text shown for err.
func UserMessage(kind model.Kind, op Op, err error) string {
	noun := kind.Singular()
	switch Classify(err) {
	case KindReferentialConflict:
		return fmt.Sprintf("Cannot delete this %s: there are books associated with it.", noun)
	case KindValidation:
		if msg := api.MessageOf(err); msg != "" {
			return "Error: " + msg
		}
		var ve *ValidationError
		if errors.As(err, &ve) {
			return capitalize(ve.Error())
		}
		return fmt.Sprintf("The %s was rejected by the server as invalid.", noun)
	case KindNotFound:
		return capitalize(noun) + " not found."
	case KindNetwork:
		return "Could not reach the server. Please check the connection and try again."
	case KindServerFault:
		return "The server failed to process the request. Please try again later."
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled."
	}
	switch op {
	case OpList:
		return fmt.Sprintf("Could not load the %s list. Please try again later.", kind.Plural())
	case OpLoad:
		return fmt.Sprintf("Could not load the %s. Please try again.", noun)
	case OpSave:
		return fmt.Sprintf("An error occurred while saving the %s. Please try again.", noun)
	default:
		return fmt.Sprintf("Error deleting the %s. Please try again.", noun)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
