// Package model holds the catalog entities exchanged with the backend.
package model

// Kind identifies one of the catalog entity types.
type Kind string

const (
	KindAuthor Kind = "authors"
	KindGenre  Kind = "genres"
	KindBook   Kind = "books"
)

// Kinds lists every entity kind in display order.
var Kinds = []Kind{KindAuthor, KindGenre, KindBook}

// Singular returns the lower-case singular noun for the kind ("author").
func (k Kind) Singular() string {
	switch k {
	case KindAuthor:
		return "author"
	case KindGenre:
		return "genre"
	case KindBook:
		return "book"
	default:
		return string(k)
	}
}

// Plural returns the lower-case plural noun for the kind ("authors").
func (k Kind) Plural() string {
	return string(k)
}

// Entity is implemented by every list row type.
type Entity interface {
	EntityID() int
	Label() string
}
