package mockapi

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/util"
)

// snapshot is the on-disk form of a Backend, so a development server can keep
// its data between runs.
type snapshot struct {
	Authors []authorEntry `yaml:"authors"`
	Genres  []genreEntry  `yaml:"genres"`
	Books   []bookEntry   `yaml:"books"`
}

type authorEntry struct {
	ID        int    `yaml:"id"`
	Name      string `yaml:"name"`
	Biography string `yaml:"biography,omitempty"`
	BirthDate string `yaml:"birth_date"`
}

type genreEntry struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

type bookEntry struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title"`
	Year     int    `yaml:"year"`
	AuthorID int    `yaml:"author"`
	GenreIDs []int  `yaml:"genres,flow"`
	ISBN     string `yaml:"isbn,omitempty"`
	Synopsis string `yaml:"synopsis,omitempty"`
	Cover    string `yaml:"cover,omitempty"`
}

// LoadFile reads a backend snapshot. A missing file returns an error
// satisfying errors.Is(err, os.ErrNotExist).
func LoadFile(path string) (*Backend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML snapshot. IDs are kept, and new entities continue
// after the highest ID of each kind.
func Parse(data []byte) (*Backend, error) {
	var snap snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot YAML: %w", err)
	}

	b := New()
	for _, e := range snap.Authors {
		birth, err := model.ParseDate(e.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("author %d: %w", e.ID, err)
		}
		b.authors[e.ID] = model.Author{ID: e.ID, Name: e.Name, Biography: nonEmpty(e.Biography), BirthDate: birth}
		b.bump(model.KindAuthor, e.ID)
	}
	for _, e := range snap.Genres {
		b.genres[e.ID] = model.Genre{ID: e.ID, Name: e.Name, Description: nonEmpty(e.Description)}
		b.bump(model.KindGenre, e.ID)
	}
	for _, e := range snap.Books {
		if _, ok := b.authors[e.AuthorID]; !ok {
			return nil, fmt.Errorf("book %d: author %d does not exist", e.ID, e.AuthorID)
		}
		for _, gid := range e.GenreIDs {
			if _, ok := b.genres[gid]; !ok {
				return nil, fmt.Errorf("book %d: genre %d does not exist", e.ID, gid)
			}
		}
		b.books[e.ID] = recordFrom(e.ID, model.BookRequest{
			Title:    e.Title,
			Year:     e.Year,
			AuthorID: e.AuthorID,
			GenreIDs: e.GenreIDs,
			ISBN:     nonEmpty(e.ISBN),
			Synopsis: nonEmpty(e.Synopsis),
			Cover:    nonEmpty(e.Cover),
		})
		b.bump(model.KindBook, e.ID)
	}
	return b, nil
}

// Marshal encodes the backend state as YAML.
func (b *Backend) Marshal() ([]byte, error) {
	b.mu.Lock()
	var snap snapshot
	for _, a := range sortedValues(b.authors) {
		snap.Authors = append(snap.Authors, authorEntry{ID: a.ID, Name: a.Name, Biography: deref(a.Biography), BirthDate: a.BirthDate.String()})
	}
	for _, g := range sortedValues(b.genres) {
		snap.Genres = append(snap.Genres, genreEntry{ID: g.ID, Name: g.Name, Description: deref(g.Description)})
	}
	for _, r := range sortedValues(b.books) {
		snap.Books = append(snap.Books, bookEntry{
			ID: r.ID, Title: r.Title, Year: r.Year, AuthorID: r.AuthorID, GenreIDs: r.GenreIDs,
			ISBN: deref(r.ISBN), Synopsis: deref(r.Synopsis), Cover: deref(r.Cover),
		})
	}
	b.mu.Unlock()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveFile writes the backend state to path.
func (b *Backend) SaveFile(path string) error {
	data, err := b.Marshal()
	if err != nil {
		return err
	}
	if err := util.EnsureParent(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func (b *Backend) bump(kind model.Kind, id int) {
	if id >= b.nextID[kind] {
		b.nextID[kind] = id + 1
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
