package app

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/catalogctl/internal/mockapi"
	"github.com/blackwell-systems/catalogctl/internal/model"
)

type cliFixture struct {
	t       *testing.T
	backend *mockapi.Backend
	config  string
	stderr  bytes.Buffer
}

func newCLI(t *testing.T) *cliFixture {
	t.Helper()
	b := mockapi.New()
	b.Seed()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)

	t.Setenv("CATALOGCTL_API_BASE_URL", srv.URL+mockapi.Prefix)
	t.Setenv("CATALOGCTL_API_RETRY_DELAY", "1ms")
	t.Setenv("CATALOGCTL_LOG_LEVEL", "error")
	return &cliFixture{
		t:       t,
		backend: b,
		config:  filepath.Join(t.TempDir(), "config.yml"),
	}
}

// run executes one command line and returns what it printed on stdout.
func (f *cliFixture) run(args ...string) (string, error) {
	f.t.Helper()
	var stdout bytes.Buffer
	f.stderr.Reset()
	out, errOut = &stdout, &f.stderr
	defer func() {
		out, errOut, in = os.Stdout, os.Stderr, os.Stdin
	}()

	root := newRootCmd()
	root.SetArgs(append([]string{"--config", f.config, "--no-color", "--no-interactive"}, args...))
	err := root.Execute()
	teardown()
	return stdout.String(), err
}

func TestAuthorsList(t *testing.T) {
	f := newCLI(t)
	got, err := f.run("authors", "list")
	require.NoError(t, err)
	assert.Contains(t, got, "J. R. R. Tolkien")
	assert.Contains(t, got, "Clarice Lispector")
	assert.Contains(t, got, "page 1 of 1 · 4 total")
}

func TestAuthorsList_PageSize(t *testing.T) {
	f := newCLI(t)
	got, err := f.run("authors", "list", "--page", "2", "--size", "3")
	require.NoError(t, err)
	assert.Contains(t, got, "Clarice Lispector")
	assert.NotContains(t, got, "Tolkien")
	assert.Contains(t, got, "page 2 of 2")
}

func TestBooksSearch_JSON(t *testing.T) {
	f := newCLI(t)
	got, err := f.run("books", "search", "ring", "--format", "json")
	require.NoError(t, err)

	var page model.Page[model.Book]
	require.NoError(t, json.Unmarshal([]byte(got), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "The Fellowship of the Ring", page.Items[0].Title)
	assert.Equal(t, 1, page.TotalCount)
}

func TestBooksByGenre(t *testing.T) {
	f := newCLI(t)
	got, err := f.run("books", "by-genre", "3")
	require.NoError(t, err)
	assert.Contains(t, got, "The Hobbit")
	assert.Contains(t, got, "Dom Casmurro")
	assert.NotContains(t, got, "Earthsea")
}

func TestAuthorsGet(t *testing.T) {
	f := newCLI(t)
	got, err := f.run("authors", "get", "2")
	require.NoError(t, err)
	assert.Contains(t, got, "Author #2: Ursula K. Le Guin")
	assert.Contains(t, got, "Books (2)")
	assert.Contains(t, got, "A Wizard of Earthsea")
}

func TestGet_NotFound(t *testing.T) {
	f := newCLI(t)
	_, err := f.run("books", "get", "99")
	require.Error(t, err)
	assert.Equal(t, "Book not found.", err.Error())
}

func TestGet_InvalidID(t *testing.T) {
	f := newCLI(t)
	_, err := f.run("genres", "get", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive integer")
}

func TestAuthorsCreate(t *testing.T) {
	f := newCLI(t)
	got, err := f.run("authors", "create", "--name", "Jorge Luis Borges", "--birth-date", "1899-08-24")
	require.NoError(t, err)
	assert.Contains(t, got, "Author created successfully! (id 5)")

	got, err = f.run("authors", "get", "5")
	require.NoError(t, err)
	assert.Contains(t, got, "1899-08-24")
}

func TestCreate_LocalValidation(t *testing.T) {
	f := newCLI(t)
	before := f.backend.Requests()
	_, err := f.run("authors", "create", "--birth-date", "1899-08-24")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Equal(t, before, f.backend.Requests(), "rejected before any request")
}

func TestCreate_BadDateFlag(t *testing.T) {
	f := newCLI(t)
	_, err := f.run("authors", "create", "--name", "X", "--birth-date", "someday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--birth-date")
}

func TestBooksUpdate_KeepsUnsetFields(t *testing.T) {
	f := newCLI(t)
	_, err := f.run("books", "update", "5", "--year", "1900")
	require.NoError(t, err)

	got, err := f.run("books", "get", "5", "--format", "json")
	require.NoError(t, err)
	var d model.BookDetail
	require.NoError(t, json.Unmarshal([]byte(got), &d))
	assert.Equal(t, 1900, d.Year)
	assert.Equal(t, "Dom Casmurro", d.Title)
	require.NotNil(t, d.Synopsis)
	assert.Equal(t, []int{3}, d.GenreIDs())
}

func TestGenresDelete_ReferencedGenre(t *testing.T) {
	f := newCLI(t)
	_, err := f.run("genres", "delete", "1", "--yes")
	require.Error(t, err)
	assert.Equal(t, "Cannot delete this genre: there are books associated with it.", err.Error())
}

func TestGenresDelete_Unreferenced(t *testing.T) {
	f := newCLI(t)
	got, err := f.run("genres", "delete", "4", "--yes")
	require.NoError(t, err)
	assert.Contains(t, got, "Genre deleted successfully!")

	_, err = f.run("genres", "get", "4")
	assert.Error(t, err)
}

func TestDelete_PromptDeclined(t *testing.T) {
	f := newCLI(t)
	in = strings.NewReader("n\n")
	got, err := f.run("books", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, got, "Delete book #1? (y/n)")
	assert.Contains(t, f.stderr.String(), "Cancelled.")

	_, err = f.run("books", "get", "1")
	assert.NoError(t, err, "book still exists")
}

func TestBooksSetGenres(t *testing.T) {
	f := newCLI(t)
	_, err := f.run("books", "set-genres", "4", "--genre", "1, 2")
	require.NoError(t, err)

	got, err := f.run("books", "get", "4", "--format", "json")
	require.NoError(t, err)
	var d model.BookDetail
	require.NoError(t, json.Unmarshal([]byte(got), &d))
	assert.Equal(t, []int{1, 2}, d.GenreIDs())
}

func TestBooksSetGenres_RequiresOne(t *testing.T) {
	f := newCLI(t)
	before := f.backend.Requests()
	_, err := f.run("books", "set-genres", "4")
	require.Error(t, err)
	assert.Equal(t, before, f.backend.Requests(), "genres never cleared")
}

func TestStats(t *testing.T) {
	f := newCLI(t)
	got, err := f.run("stats", "--format", "json")
	require.NoError(t, err)

	var totals map[string]int
	require.NoError(t, json.Unmarshal([]byte(got), &totals))
	assert.Equal(t, map[string]int{"authors": 4, "genres": 4, "books": 5}, totals)
}

func TestStats_FailedCountIsDash(t *testing.T) {
	f := newCLI(t)
	f.backend.FailNext(6, 500) // every count fails, retry included
	got, err := f.run("stats")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(got, "—"))
	assert.Contains(t, f.stderr.String(), "Could not count books")
}

func TestUnknownFormat(t *testing.T) {
	f := newCLI(t)
	_, err := f.run("authors", "list", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown --format")
}

func TestConfigInitAndShow(t *testing.T) {
	f := newCLI(t)
	got, err := f.run("config", "init")
	require.NoError(t, err)
	assert.Contains(t, got, f.config)

	_, err = f.run("config", "init")
	require.Error(t, err, "refuses to overwrite")

	got, err = f.run("config", "show")
	require.NoError(t, err)
	assert.Contains(t, got, "page_size: 10")
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("3, 1,,2")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, ids)

	_, err = parseIDs("1,x")
	assert.Error(t, err)

	ids, err = parseIDs("")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestOpenBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.yml")

	b, err := openBackend(path, true)
	require.NoError(t, err, "missing file falls back to the sample data")
	b.AddAuthor(model.AuthorRequest{Name: "Extra", BirthDate: model.NewDate(1950, 1, 1)})
	require.NoError(t, b.SaveFile(path))

	restored, err := openBackend(path, false)
	require.NoError(t, err)
	assert.Equal(t, 6, restored.AddAuthor(model.AuthorRequest{Name: "Next", BirthDate: model.NewDate(1960, 1, 1)}).ID)
}
