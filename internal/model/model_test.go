package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/catalogctl/internal/model"
)

func TestTotalPages(t *testing.T) {
	cases := []struct{ count, size, want int }{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, model.TotalPages(c.count, c.size), "TotalPages(%d, %d)", c.count, c.size)
	}
}

func TestNewPage_Flags(t *testing.T) {
	p := model.NewPage([]model.Genre{{ID: 21}}, 3, 10, 21)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPreviousPage)
	assert.False(t, p.HasNextPage)
	assert.NoError(t, p.Check())

	empty := model.NewPage[model.Genre](nil, 1, 10, 0)
	assert.NotNil(t, empty.Items, "empty pages encode as []")
	assert.False(t, empty.HasNextPage)
	assert.NoError(t, empty.Check())
}

func TestPageCheck_Violations(t *testing.T) {
	p := model.NewPage([]model.Genre{{ID: 1}, {ID: 2}}, 1, 2, 5)
	p.TotalPages = 2
	assert.Error(t, p.Check(), "ceil(5/2) is 3")

	p = model.NewPage([]model.Genre{{ID: 1}, {ID: 2}, {ID: 3}}, 1, 2, 5)
	assert.Error(t, p.Check(), "more items than the page size")

	p = model.Page[model.Genre]{}
	assert.Error(t, p.Check())
}

func TestPage_DecodesBackendEnvelope(t *testing.T) {
	raw := `{"items":[{"id":1,"name":"Le Guin","biography":null,"birthDate":"1929-10-21T00:00:00"}],
		"pageNumber":1,"pageSize":10,"totalCount":1,"totalPages":1,"hasPreviousPage":false,"hasNextPage":false}`
	var p model.Page[model.Author]
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	require.Len(t, p.Items, 1)
	assert.Nil(t, p.Items[0].Biography)
	assert.Equal(t, "1929-10-21", p.Items[0].BirthDate.String())
	assert.Equal(t, []int{1}, model.IDs(p.Items))
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(model.NewDate(1892, time.January, 3))
	require.NoError(t, err)
	assert.Equal(t, `"1892-01-03T00:00:00"`, string(b))

	b, err = json.Marshal(model.Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	for _, in := range []string{`"1892-01-03"`, `"1892-01-03T00:00:00"`, `"1892-01-03T10:30:00Z"`} {
		var d model.Date
		require.NoError(t, json.Unmarshal([]byte(in), &d), in)
		assert.Equal(t, "1892-01-03", d.String(), in)
	}

	var d model.Date
	assert.Error(t, json.Unmarshal([]byte(`"03/01/1892"`), &d))
}

func TestParseDate_Empty(t *testing.T) {
	_, err := model.ParseDate("  ")
	assert.Error(t, err)
}

func TestAuthorRequest_Validate(t *testing.T) {
	ok := model.AuthorRequest{Name: "Clarice", BirthDate: model.NewDate(1920, time.December, 10)}
	assert.NoError(t, ok.Validate())

	err := model.AuthorRequest{BirthDate: ok.BirthDate}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	err = model.AuthorRequest{Name: "Clarice"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "birth date is required")
}

func TestGenreRequest_Validate(t *testing.T) {
	assert.NoError(t, model.GenreRequest{Name: "Poetry"}.Validate())
	assert.Error(t, model.GenreRequest{}.Validate())
}

func TestBookRequest_Validate(t *testing.T) {
	valid := model.BookRequest{Title: "Dom Casmurro", Year: 1899, AuthorID: 3, GenreIDs: []int{3}}
	require.NoError(t, valid.Validate())

	noAuthor := valid
	noAuthor.AuthorID = 0
	err := noAuthor.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.MsgSelectAuthor)

	noGenre := valid
	noGenre.GenreIDs = nil
	err = noGenre.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.MsgSelectGenre)

	badYear := valid
	badYear.Year = time.Now().Year() + 6
	assert.Error(t, badYear.Validate())

	badGenre := valid
	badGenre.GenreIDs = []int{1, 0}
	assert.Error(t, badGenre.Validate())
}

func TestBookDetail_Request(t *testing.T) {
	isbn := "978-0547928227"
	d := model.BookDetail{
		Book: model.Book{
			ID: 1, Title: "The Hobbit", Year: 1937,
			Author: model.Author{ID: 1, Name: "Tolkien"},
			Genres: []model.GenreRef{{ID: 3, Name: "Classic"}, {ID: 1, Name: "Fantasy"}},
		},
		ISBN: &isbn,
	}
	req := d.Request()
	assert.Equal(t, 1, req.AuthorID)
	assert.Equal(t, []int{1, 3}, req.GenreIDs)
	assert.Equal(t, &isbn, req.ISBN)
	assert.Nil(t, req.Synopsis)
	assert.NoError(t, req.Validate())
}

func TestBookDetail_OptionalFieldsOmitted(t *testing.T) {
	var d model.BookDetail
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"title":"T","year":2000,"author":{"id":1,"name":"A"},"genres":[]}`), &d))
	assert.Nil(t, d.ISBN)
	assert.Nil(t, d.Cover)
	assert.Equal(t, "A", d.Author.Name)
}

func TestKind_Nouns(t *testing.T) {
	assert.Equal(t, "author", model.KindAuthor.Singular())
	assert.Equal(t, "genres", model.KindGenre.Plural())
	assert.Equal(t, []model.Kind{model.KindAuthor, model.KindGenre, model.KindBook}, model.Kinds)
}
