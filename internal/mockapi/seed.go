package mockapi

import (
	"time"

	"github.com/blackwell-systems/catalogctl/internal/model"
)

func ptr(s string) *string { return &s }

// Seed loads a small sample catalog.
func (b *Backend) Seed() {
	b.mu.Lock()
	defer b.mu.Unlock()

	tolkien := b.addAuthor(model.AuthorRequest{
		Name:      "J. R. R. Tolkien",
		Biography: ptr("English writer and philologist."),
		BirthDate: model.NewDate(1892, time.January, 3),
	})
	leguin := b.addAuthor(model.AuthorRequest{
		Name:      "Ursula K. Le Guin",
		BirthDate: model.NewDate(1929, time.October, 21),
	})
	machado := b.addAuthor(model.AuthorRequest{
		Name:      "Machado de Assis",
		Biography: ptr("Brazilian novelist, poet and playwright."),
		BirthDate: model.NewDate(1839, time.June, 21),
	})
	b.addAuthor(model.AuthorRequest{
		Name:      "Clarice Lispector",
		BirthDate: model.NewDate(1920, time.December, 10),
	})

	fantasy := b.addGenre(model.GenreRequest{Name: "Fantasy", Description: ptr("Imaginary worlds and magic.")})
	scifi := b.addGenre(model.GenreRequest{Name: "Science Fiction"})
	classic := b.addGenre(model.GenreRequest{Name: "Classic"})
	b.addGenre(model.GenreRequest{Name: "Poetry"})

	b.addBook(model.BookRequest{Title: "The Hobbit", Year: 1937, AuthorID: tolkien.ID, GenreIDs: []int{fantasy.ID, classic.ID}, ISBN: ptr("978-0547928227")})
	b.addBook(model.BookRequest{Title: "The Fellowship of the Ring", Year: 1954, AuthorID: tolkien.ID, GenreIDs: []int{fantasy.ID}})
	b.addBook(model.BookRequest{Title: "A Wizard of Earthsea", Year: 1968, AuthorID: leguin.ID, GenreIDs: []int{fantasy.ID}})
	b.addBook(model.BookRequest{Title: "The Left Hand of Darkness", Year: 1969, AuthorID: leguin.ID, GenreIDs: []int{scifi.ID}})
	b.addBook(model.BookRequest{
		Title: "Dom Casmurro", Year: 1899, AuthorID: machado.ID, GenreIDs: []int{classic.ID},
		Synopsis: ptr("Bentinho recalls his life and his jealousy of Capitu."),
	})
}
