package tui

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/view"
)

// Page identifies the screen a route resolves to.
type Page int

const (
	PageNotFound Page = iota
	PageHome
	PageList
	PageNew
	PageDetail
	PageEdit
)

// Route is a parsed navigation target such as "/authors/edit/3".
type Route struct {
	Path   string
	Page   Page
	Kind   model.Kind
	ID     int
	Filter view.BookFilter // book lists only
}

// ParseRoute resolves path. Unknown paths yield PageNotFound.
func ParseRoute(path string) Route {
	r := Route{Path: path, Page: PageNotFound}
	u, err := url.Parse(path)
	if err != nil {
		return r
	}
	parts := strings.FieldsFunc(u.Path, func(c rune) bool { return c == '/' })
	if len(parts) == 0 {
		r.Page = PageHome
		return r
	}

	kind, ok := kindOf(parts[0])
	if !ok {
		return r
	}
	r.Kind = kind

	switch {
	case len(parts) == 1:
		r.Page = PageList
		if kind == model.KindBook {
			r.Filter = bookFilter(u.Query())
		}
	case len(parts) == 2 && parts[1] == "new":
		r.Page = PageNew
	case len(parts) == 2:
		if r.ID = positive(parts[1]); r.ID > 0 {
			r.Page = PageDetail
		}
	case len(parts) == 3 && parts[1] == "edit":
		if r.ID = positive(parts[2]); r.ID > 0 {
			r.Page = PageEdit
		}
	}
	return r
}

func kindOf(s string) (model.Kind, bool) {
	for _, k := range model.Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

func bookFilter(q url.Values) view.BookFilter {
	return view.BookFilter{
		Term:     q.Get("q"),
		AuthorID: positive(q.Get("author")),
		GenreID:  positive(q.Get("genre")),
	}
}

func positive(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// route helpers
func detailRoute(kind model.Kind, id int) string { return view.ListRoute(kind) + "/" + strconv.Itoa(id) }
func editRoute(kind model.Kind, id int) string   { return view.ListRoute(kind) + "/edit/" + strconv.Itoa(id) }
func newRoute(kind model.Kind) string            { return view.ListRoute(kind) + "/new" }

func searchRoute(term string) string {
	return view.ListRoute(model.KindBook) + "?" + url.Values{"q": {term}}.Encode()
}

func booksByRoute(param string, id int) string {
	return view.ListRoute(model.KindBook) + "?" + param + "=" + strconv.Itoa(id)
}
