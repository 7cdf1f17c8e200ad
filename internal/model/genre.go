package model

import validation "github.com/go-ozzo/ozzo-validation/v4"

// Genre is a list row from /Genres.
type Genre struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (g Genre) EntityID() int { return g.ID }
func (g Genre) Label() string { return g.Name }

// GenreDetail is the /Genres/{id}/details payload.
type GenreDetail struct {
	Genre
	Books []BookSummary `json:"books"`
}

// GenreRequest is the create/update body.
type GenreRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (r GenreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.Length(1, 100),
		),
	)
}

// Request converts a fetched genre back into an update body.
func (g Genre) Request() GenreRequest {
	return GenreRequest{Name: g.Name, Description: g.Description}
}
