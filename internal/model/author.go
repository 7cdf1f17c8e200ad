package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Author is a list row from /Authors.
type Author struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Biography *string `json:"biography"`
	BirthDate Date    `json:"birthDate"`
}

func (a Author) EntityID() int { return a.ID }
func (a Author) Label() string { return a.Name }

// AuthorDetail is the /Authors/{id}/details payload.
type AuthorDetail struct {
	Author
	Books []BookSummary `json:"books"`
}

// AuthorRequest is the create/update body; the backend assigns the ID.
type AuthorRequest struct {
	Name      string  `json:"name"`
	Biography *string `json:"biography,omitempty"`
	BirthDate Date    `json:"birthDate"`
}

func (r AuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.BirthDate, validation.By(requireDate("birth date is required"))),
	)
}

// Request converts a fetched author back into an update body.
func (a Author) Request() AuthorRequest {
	return AuthorRequest{Name: a.Name, Biography: a.Biography, BirthDate: a.BirthDate}
}

func requireDate(msg string) validation.RuleFunc {
	return func(value interface{}) error {
		if d, ok := value.(Date); !ok || d.IsZero() {
			return errors.New(msg)
		}
		return nil
	}
}
