package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/tui"
	"github.com/blackwell-systems/catalogctl/internal/view"
)

func TestParseRoute(t *testing.T) {
	tests := []struct {
		path string
		page tui.Page
		kind model.Kind
		id   int
	}{
		{"/", tui.PageHome, "", 0},
		{"", tui.PageHome, "", 0},
		{"/authors", tui.PageList, model.KindAuthor, 0},
		{"/genres/new", tui.PageNew, model.KindGenre, 0},
		{"/books/12", tui.PageDetail, model.KindBook, 12},
		{"/authors/edit/3", tui.PageEdit, model.KindAuthor, 3},
		{"/publishers", tui.PageNotFound, "", 0},
		{"/books/0", tui.PageNotFound, model.KindBook, 0},
		{"/books/abc", tui.PageNotFound, model.KindBook, 0},
		{"/genres/edit", tui.PageNotFound, model.KindGenre, 0},
		{"/authors/1/extra", tui.PageNotFound, model.KindAuthor, 0},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r := tui.ParseRoute(tt.path)
			assert.Equal(t, tt.page, r.Page)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.id, r.ID)
			assert.Equal(t, tt.path, r.Path)
		})
	}
}

func TestParseRoute_BookFilters(t *testing.T) {
	r := tui.ParseRoute("/books?q=ring&author=2&genre=x")
	assert.Equal(t, tui.PageList, r.Page)
	assert.Equal(t, view.BookFilter{Term: "ring", AuthorID: 2}, r.Filter)

	// Filters only apply to books.
	r = tui.ParseRoute("/authors?q=ring")
	assert.Equal(t, view.BookFilter{}, r.Filter)
}
