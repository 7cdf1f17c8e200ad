package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/view"
)

var authorColumns = []column[model.Author]{
	{title: "ID", width: 4, value: func(a model.Author) string { return strconv.Itoa(a.ID) }},
	{title: "Name", width: 28, value: func(a model.Author) string { return a.Name }},
	{title: "Born", width: 10, value: func(a model.Author) string { return a.BirthDate.String() }},
	{title: "Biography", width: 36, value: func(a model.Author) string { return deref(a.Biography) }},
}

var genreColumns = []column[model.Genre]{
	{title: "ID", width: 4, value: func(g model.Genre) string { return strconv.Itoa(g.ID) }},
	{title: "Name", width: 24, value: func(g model.Genre) string { return g.Name }},
	{title: "Description", width: 50, value: func(g model.Genre) string { return deref(g.Description) }},
}

var bookColumns = []column[model.Book]{
	{title: "ID", width: 4, value: func(b model.Book) string { return strconv.Itoa(b.ID) }},
	{title: "Title", width: 32, value: func(b model.Book) string { return b.Title }},
	{title: "Year", width: 4, value: func(b model.Book) string { return strconv.Itoa(b.Year) }},
	{title: "Author", width: 20, value: func(b model.Book) string { return b.Author.Name }},
	{title: "Genres", width: 22, value: func(b model.Book) string { return genreNames(b.Genres) }},
}

func bookListTitle(f view.BookFilter) string {
	switch {
	case f.Term != "":
		return fmt.Sprintf("Books matching %q", f.Term)
	case f.AuthorID > 0:
		return fmt.Sprintf("Books by author #%d", f.AuthorID)
	case f.GenreID > 0:
		return fmt.Sprintf("Books in genre #%d", f.GenreID)
	}
	return ""
}

func authorSections(a model.AuthorDetail) sections {
	return sections{
		title: a.Name,
		fields: []field{
			{label: "Born", value: a.BirthDate.String()},
			{label: "Biography", value: deref(a.Biography)},
		},
		linksTitle: fmt.Sprintf("Books (%d)", len(a.Books)),
		links:      append(bookLinks(a.Books), link{label: "Browse as list →", route: booksByRoute("author", a.ID)}),
	}
}

func genreSections(g model.GenreDetail) sections {
	return sections{
		title: g.Name,
		fields: []field{
			{label: "Description", value: deref(g.Description)},
		},
		linksTitle: fmt.Sprintf("Books (%d)", len(g.Books)),
		links:      append(bookLinks(g.Books), link{label: "Browse as list →", route: booksByRoute("genre", g.ID)}),
	}
}

func bookSections(b model.BookDetail) sections {
	links := []link{{label: "Author: " + b.Author.Name, route: detailRoute(model.KindAuthor, b.Author.ID)}}
	for _, g := range b.Genres {
		links = append(links, link{label: "Genre: " + g.Name, route: detailRoute(model.KindGenre, g.ID)})
	}
	return sections{
		title: b.Title,
		fields: []field{
			{label: "Year", value: strconv.Itoa(b.Year)},
			{label: "Author", value: b.Author.Name},
			{label: "Genres", value: genreNames(b.Genres)},
			{label: "ISBN", value: deref(b.ISBN)},
			{label: "Synopsis", value: deref(b.Synopsis)},
			{label: "Cover", value: deref(b.Cover)},
		},
		linksTitle: "Related",
		links:      links,
	}
}

var authorFormSpec = formSpec[model.AuthorRequest]{
	build: func(r model.AuthorRequest, _ view.Choices) fieldSet {
		return fieldSet{
			newTextField("name", "Name", r.Name, "", 200),
			newTextField("birthDate", "Born", r.BirthDate.String(), "YYYY-MM-DD", 10),
			newTextField("biography", "Biography", deref(r.Biography), "optional", 2000),
		}
	},
	read: func(fs fieldSet) (model.AuthorRequest, error) {
		req := model.AuthorRequest{Name: fs.text("name"), Biography: fs.optional("biography")}
		if s := fs.text("birthDate"); s != "" {
			d, err := model.ParseDate(s)
			if err != nil {
				return req, errors.New("birth date must be YYYY-MM-DD")
			}
			req.BirthDate = d
		}
		return req, nil
	},
}

var genreFormSpec = formSpec[model.GenreRequest]{
	build: func(r model.GenreRequest, _ view.Choices) fieldSet {
		return fieldSet{
			newTextField("name", "Name", r.Name, "", 100),
			newTextField("description", "Description", deref(r.Description), "optional", 1000),
		}
	},
	read: func(fs fieldSet) (model.GenreRequest, error) {
		return model.GenreRequest{Name: fs.text("name"), Description: fs.optional("description")}, nil
	},
}

var bookFormSpec = formSpec[model.BookRequest]{
	build: func(r model.BookRequest, ch view.Choices) fieldSet {
		authors := make([]option, len(ch.Authors))
		for i, a := range ch.Authors {
			authors[i] = option{id: a.ID, label: a.Name}
		}
		genres := make([]option, len(ch.Genres))
		for i, g := range ch.Genres {
			genres[i] = option{id: g.ID, label: g.Name}
		}
		year := ""
		if r.Year > 0 {
			year = strconv.Itoa(r.Year)
		}
		return fieldSet{
			newTextField("title", "Title", r.Title, "", 300),
			newTextField("year", "Year", year, "YYYY", 4),
			newPickField("author", "Author", authors, r.AuthorID),
			newMultiField("genres", "Genres", genres, r.GenreIDs),
			newTextField("isbn", "ISBN", deref(r.ISBN), "optional", 20),
			newTextField("synopsis", "Synopsis", deref(r.Synopsis), "optional", 2000),
			newTextField("cover", "Cover URL", deref(r.Cover), "optional", 500),
		}
	},
	read: func(fs fieldSet) (model.BookRequest, error) {
		req := model.BookRequest{
			Title:    fs.text("title"),
			AuthorID: fs.pick("author"),
			GenreIDs: fs.multi("genres"),
			ISBN:     fs.optional("isbn"),
			Synopsis: fs.optional("synopsis"),
			Cover:    fs.optional("cover"),
		}
		if s := fs.text("year"); s != "" {
			y, err := strconv.Atoi(s)
			if err != nil {
				return req, errors.New("year must be a number")
			}
			req.Year = y
		}
		return req, nil
	},
}

func genreNames(gs []model.GenreRef) string {
	names := make([]string, len(gs))
	for i, g := range gs {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
