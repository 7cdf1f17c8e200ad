package view_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/catalogctl/internal/api"
	"github.com/blackwell-systems/catalogctl/internal/mockapi"
	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/service"
	"github.com/blackwell-systems/catalogctl/internal/store"
	"github.com/blackwell-systems/catalogctl/internal/view"
)

type fixture struct {
	env     view.Env
	catalog *service.Catalog
	backend *mockapi.Backend
}

func newFixture(t *testing.T, seed bool) *fixture {
	t.Helper()
	b := mockapi.New()
	if seed {
		b.Seed()
	}
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)

	s := store.New(store.Options{AlertDuration: time.Hour})
	t.Cleanup(s.Close)
	return &fixture{
		env:     view.Env{Store: s, PageSize: 10, RedirectDelay: 10 * time.Millisecond},
		catalog: service.NewCatalog(api.New(srv.URL+mockapi.Prefix), service.WithRetryDelay(0)),
		backend: b,
	}
}

func (f *fixture) addAuthors(n int) {
	for i := 0; i < n; i++ {
		f.backend.AddAuthor(model.AuthorRequest{Name: "Author", BirthDate: model.NewDate(1900, time.January, 1)})
	}
}

// run executes cmd synchronously, the way the event loop would off-thread.
func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	return cmd()
}

// settle feeds cmd's message back into update until no command remains.
func settle(t *testing.T, update func(tea.Msg) tea.Cmd, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 10, "update loop did not settle")
		cmd = update(cmd())
	}
}

func ids[T model.Entity](items []T) []int { return model.IDs(items) }

func TestList_PaginatesTwentyFiveAuthors(t *testing.T) {
	f := newFixture(t, false)
	f.addAuthors(25)
	l := view.NewList(f.env, view.AuthorList(f.catalog))

	cmd := l.Mount()
	assert.Equal(t, view.ListLoading, l.State())
	settle(t, l.Update, cmd)

	assert.Equal(t, view.ListLoaded, l.State())
	assert.Equal(t, 3, l.TotalPages())
	assert.Equal(t, 25, l.TotalCount())
	assert.Len(t, l.Items(), 10)

	settle(t, l.Update, l.SetPage(3))
	assert.Equal(t, 3, l.Page())
	assert.Equal(t, []int{21, 22, 23, 24, 25}, ids(l.Items()))
	assert.False(t, f.env.Store.Loading())
}

func TestList_SetPageClamps(t *testing.T) {
	f := newFixture(t, false)
	f.addAuthors(15)
	l := view.NewList(f.env, view.AuthorList(f.catalog))
	settle(t, l.Update, l.Mount())

	assert.Nil(t, l.PrevPage(), "already on page 1")
	settle(t, l.Update, l.SetPage(99))
	assert.Equal(t, 2, l.Page())
	assert.Nil(t, l.NextPage())
}

func TestList_CacheHitSkipsNetwork(t *testing.T) {
	f := newFixture(t, false)
	f.addAuthors(15)
	l := view.NewList(f.env, view.AuthorList(f.catalog))
	settle(t, l.Update, l.Mount())
	settle(t, l.Update, l.NextPage())
	before := f.backend.Requests()

	cmd := l.PrevPage()
	assert.Nil(t, cmd, "cached page is applied without a fetch")
	assert.Equal(t, view.ListLoaded, l.State())
	assert.Equal(t, 1, l.Page())
	assert.Len(t, l.Items(), 10)
	assert.Equal(t, before, f.backend.Requests())
}

func TestList_StaleResponseDiscarded(t *testing.T) {
	f := newFixture(t, false)
	f.addAuthors(25)
	l := view.NewList(f.env, view.AuthorList(f.catalog))
	settle(t, l.Update, l.Mount())

	slow := l.SetPage(2)
	fast := l.SetPage(3)
	assert.Nil(t, l.Update(run(t, fast)))
	assert.Nil(t, l.Update(run(t, slow)), "older request arrives last")

	assert.Equal(t, 3, l.Page())
	assert.Equal(t, []int{21, 22, 23, 24, 25}, ids(l.Items()))
}

func TestList_UnmountDropsLateResult(t *testing.T) {
	f := newFixture(t, true)
	l := view.NewList(f.env, view.GenreList(f.catalog))

	cmd := l.Mount()
	l.Unmount()
	assert.Nil(t, l.Update(run(t, cmd)))
	assert.Equal(t, view.ListIdle, l.State())
	assert.Empty(t, l.Items())
}

func TestList_UnmountedPeerDoesNotFailSharedFetch(t *testing.T) {
	f := newFixture(t, true)
	release := make(chan struct{})
	src := view.GenreList(f.catalog)
	fetch := src.Fetch
	src.Fetch = func(ctx context.Context, page, size int) (model.Page[model.Genre], error) {
		select {
		case <-release:
			return fetch(ctx, page, size)
		case <-ctx.Done():
			return model.Page[model.Genre]{}, ctx.Err()
		}
	}

	a := view.NewList(f.env, src)
	b := view.NewList(f.env, src)
	aMsgs := make(chan tea.Msg, 1)
	aCmd := a.Mount()
	go func() { aMsgs <- aCmd() }()
	require.Eventually(t, f.env.Store.Loading, time.Second, time.Millisecond)

	bMsgs := make(chan tea.Msg, 1)
	bCmd := b.Mount()
	go func() { bMsgs <- bCmd() }()
	time.Sleep(20 * time.Millisecond)

	a.Unmount()
	assert.Nil(t, a.Update(<-aMsgs))
	close(release)
	assert.Nil(t, b.Update(<-bMsgs))

	assert.Equal(t, view.ListLoaded, b.State(), b.Err())
	assert.Len(t, b.Items(), 4)
	assert.False(t, f.env.Store.Alert().Visible)
}

func TestList_EmptyIsNotFailure(t *testing.T) {
	f := newFixture(t, false)
	l := view.NewList(f.env, view.GenreList(f.catalog))
	settle(t, l.Update, l.Mount())

	assert.Equal(t, view.ListLoaded, l.State())
	assert.Empty(t, l.Items())
	assert.Zero(t, l.TotalCount())
	assert.Empty(t, l.Err())
	assert.False(t, f.env.Store.Alert().Visible)
}

func TestList_FailureShowsError(t *testing.T) {
	f := newFixture(t, true)
	f.backend.FailNext(2, http.StatusInternalServerError)
	l := view.NewList(f.env, view.GenreList(f.catalog))
	settle(t, l.Update, l.Mount())

	assert.Equal(t, view.ListFailed, l.State())
	assert.Empty(t, l.Items())
	assert.Contains(t, l.Err(), "server failed")

	alert := f.env.Store.Alert()
	assert.True(t, alert.Visible)
	assert.Equal(t, store.SeverityError, alert.Severity)

	settle(t, l.Update, l.Reload())
	assert.Equal(t, view.ListLoaded, l.State(), "reload recovers")
	assert.Len(t, l.Items(), 4)
}

func TestList_DeleteConflictKeepsCache(t *testing.T) {
	f := newFixture(t, true)
	l := view.NewList(f.env, view.AuthorList(f.catalog))
	settle(t, l.Update, l.Mount())
	before := l.Items()

	require.True(t, l.RequestDelete(1))
	assert.Equal(t, view.ListConfirmPending, l.State())
	assert.Equal(t, 1, l.PendingDelete())

	cmd := l.ConfirmDelete()
	assert.True(t, l.Deleting())
	assert.Nil(t, l.Update(run(t, cmd)))

	assert.Equal(t, view.ListLoaded, l.State())
	assert.False(t, l.Deleting())
	assert.Equal(t, before, l.Items())
	assert.Equal(t, "Cannot delete this author: there are books associated with it.", f.env.Store.Alert().Message)
	_, cached := f.env.Store.GetPage(store.Key{Kind: model.KindAuthor, Page: 1, Size: 10})
	assert.True(t, cached, "a refused delete leaves the cache alone")
}

func TestList_CancelDelete(t *testing.T) {
	f := newFixture(t, true)
	l := view.NewList(f.env, view.BookList(f.catalog, view.BookFilter{}))
	settle(t, l.Update, l.Mount())

	require.True(t, l.RequestDelete(2))
	l.CancelDelete()
	assert.Equal(t, view.ListLoaded, l.State())
	assert.Zero(t, l.PendingDelete())
	assert.Nil(t, l.ConfirmDelete())
}

func TestList_DeleteStepsBackFromEmptyTrailingPage(t *testing.T) {
	f := newFixture(t, false)
	for i := 0; i < 11; i++ {
		f.backend.AddGenre(model.GenreRequest{Name: "Genre"})
	}
	l := view.NewList(f.env, view.GenreList(f.catalog))
	settle(t, l.Update, l.Mount())
	settle(t, l.Update, l.SetPage(2))
	require.Equal(t, []int{11}, ids(l.Items()))

	require.True(t, l.RequestDelete(11))
	settle(t, l.Update, l.ConfirmDelete())

	assert.Equal(t, view.ListLoaded, l.State())
	assert.Equal(t, 1, l.Page())
	assert.Equal(t, 1, l.TotalPages())
	assert.Len(t, l.Items(), 10)
	assert.Equal(t, "Genre deleted successfully!", f.env.Store.Alert().Message)
}

func TestList_DeleteRefetchesCurrentPage(t *testing.T) {
	f := newFixture(t, true)
	l := view.NewList(f.env, view.BookList(f.catalog, view.BookFilter{}))
	settle(t, l.Update, l.Mount())

	require.True(t, l.RequestDelete(5))
	settle(t, l.Update, l.ConfirmDelete())
	assert.Equal(t, []int{1, 2, 3, 4}, ids(l.Items()))
	assert.Equal(t, 4, l.TotalCount())
}

func TestList_BookFilters(t *testing.T) {
	f := newFixture(t, true)

	search := view.NewList(f.env, view.BookList(f.catalog, view.BookFilter{Term: "Earthsea"}))
	settle(t, search.Update, search.Mount())
	assert.Equal(t, []int{3}, ids(search.Items()))

	byGenre := view.NewList(f.env, view.BookList(f.catalog, view.BookFilter{GenreID: 1}))
	settle(t, byGenre.Update, byGenre.Mount())
	assert.Equal(t, []int{1, 2, 3}, ids(byGenre.Items()))

	all := view.NewList(f.env, view.BookList(f.catalog, view.BookFilter{}))
	settle(t, all.Update, all.Mount())
	assert.Len(t, all.Items(), 5, "filtered pages are cached under their own scope")
}

func TestBookFilter_Scope(t *testing.T) {
	assert.Equal(t, "", view.BookFilter{}.Scope())
	assert.Equal(t, "search:hobbit", view.BookFilter{Term: " Hobbit ", AuthorID: 2}.Scope())
	assert.Equal(t, "author:2", view.BookFilter{AuthorID: 2}.Scope())
	assert.Equal(t, "genre:7", view.BookFilter{GenreID: 7}.Scope())
}

func TestForm_InvalidSubmitWarnsWithoutNetwork(t *testing.T) {
	f := newFixture(t, true)
	form := view.NewForm(f.env, view.BookForm(f.catalog), 0)
	settle(t, form.Update, form.Mount())
	require.Equal(t, view.FormReady, form.State())
	assert.Len(t, form.Choices().Authors, 4)
	assert.Len(t, form.Choices().Genres, 4)
	assert.Equal(t, time.Now().Year(), form.Request().Year)
	before := f.backend.Requests()

	cmd := form.Submit(model.BookRequest{Title: "Untagged", Year: 2001, AuthorID: 1})
	assert.Nil(t, cmd)
	assert.Equal(t, view.FormReady, form.State())
	alert := f.env.Store.Alert()
	assert.Equal(t, store.SeverityWarning, alert.Severity)
	assert.Contains(t, alert.Message, model.MsgSelectGenre)
	assert.Equal(t, before, f.backend.Requests())
}

func TestForm_CreateRedirectsToList(t *testing.T) {
	f := newFixture(t, true)
	form := view.NewForm(f.env, view.AuthorForm(f.catalog), 0)
	settle(t, form.Update, form.Mount())
	assert.False(t, form.Editing())

	saved := run(t, form.Submit(model.AuthorRequest{Name: "Lygia Fagundes Telles", BirthDate: model.NewDate(1918, time.April, 19)}))
	assert.Equal(t, view.FormSaving, form.State())

	tick := form.Update(saved)
	assert.Equal(t, view.FormRedirecting, form.State())
	assert.Equal(t, "Author created successfully!", f.env.Store.Alert().Message)

	nav := form.Update(run(t, tick))
	assert.Equal(t, view.NavigateMsg{Route: "/authors"}, run(t, nav))
}

func TestForm_EditPrefills(t *testing.T) {
	f := newFixture(t, true)
	form := view.NewForm(f.env, view.GenreForm(f.catalog), 1)
	settle(t, form.Update, form.Mount())

	require.Equal(t, view.FormReady, form.State())
	req := form.Request()
	assert.Equal(t, "Fantasy", req.Name)

	req.Name = "High Fantasy"
	tick := form.Update(run(t, form.Submit(req)))
	require.NotNil(t, tick)
	assert.Equal(t, "Genre updated successfully!", f.env.Store.Alert().Message)

	g, err := f.catalog.Genres.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "High Fantasy", g.Name)
}

func TestForm_BookEditPrefillsRelations(t *testing.T) {
	f := newFixture(t, true)
	form := view.NewForm(f.env, view.BookForm(f.catalog), 1)
	settle(t, form.Update, form.Mount())

	req := form.Request()
	assert.Equal(t, "The Hobbit", req.Title)
	assert.Equal(t, 1, req.AuthorID)
	assert.Equal(t, []int{1, 3}, req.GenreIDs)
	require.NotNil(t, req.ISBN)
	assert.Nil(t, req.Cover)
	assert.Equal(t, 3, f.backend.Requests(), "authors, genres, then the book")
}

func TestForm_UnmountCancelsRedirect(t *testing.T) {
	f := newFixture(t, true)
	form := view.NewForm(f.env, view.GenreForm(f.catalog), 0)
	settle(t, form.Update, form.Mount())

	tick := form.Update(run(t, form.Submit(model.GenreRequest{Name: "Horror"})))
	require.NotNil(t, tick)
	form.Unmount()
	assert.Nil(t, form.Update(run(t, tick)), "no navigation after leaving the form")
}

func TestForm_SaveFailureReturnsToReady(t *testing.T) {
	f := newFixture(t, true)
	form := view.NewForm(f.env, view.GenreForm(f.catalog), 0)
	settle(t, form.Update, form.Mount())
	f.backend.FailNext(1, http.StatusInternalServerError)

	assert.Nil(t, form.Update(run(t, form.Submit(model.GenreRequest{Name: "Horror"}))))
	assert.Equal(t, view.FormReady, form.State())
	assert.Equal(t, store.SeverityError, f.env.Store.Alert().Severity)
}

func TestForm_LoadFailure(t *testing.T) {
	f := newFixture(t, true)
	form := view.NewForm(f.env, view.AuthorForm(f.catalog), 42)
	settle(t, form.Update, form.Mount())

	assert.Equal(t, view.FormFailed, form.State())
	assert.Equal(t, "Author not found.", form.Err())
	assert.Nil(t, form.Submit(model.AuthorRequest{Name: "x"}), "a failed form cannot submit")
}

func TestForm_AuthorSaveInvalidatesBooks(t *testing.T) {
	f := newFixture(t, true)
	books := view.NewList(f.env, view.BookList(f.catalog, view.BookFilter{}))
	settle(t, books.Update, books.Mount())
	booksKey := store.Key{Kind: model.KindBook, Page: 1, Size: 10}
	_, ok := f.env.Store.GetPage(booksKey)
	require.True(t, ok)

	form := view.NewForm(f.env, view.AuthorForm(f.catalog), 1)
	settle(t, form.Update, form.Mount())
	req := form.Request()
	req.Name = "John Ronald Reuel Tolkien"
	form.Update(run(t, form.Submit(req)))

	_, ok = f.env.Store.GetPage(booksKey)
	assert.False(t, ok, "book rows embed the author name")

	settle(t, books.Update, books.Reload())
	assert.Equal(t, "John Ronald Reuel Tolkien", books.Items()[0].Author.Name)
}

func TestDetail_LoadsAndDeletes(t *testing.T) {
	f := newFixture(t, true)
	d := view.NewDetail(f.env, view.GenreDetail(f.catalog), 4)
	settle(t, d.Update, d.Mount())

	require.Equal(t, view.DetailLoaded, d.State())
	assert.Equal(t, "Poetry", d.Data().Name)
	assert.Empty(t, d.Data().Books)

	require.True(t, d.RequestDelete())
	tick := d.Update(run(t, d.ConfirmDelete()))
	assert.Equal(t, view.DetailRedirecting, d.State())
	assert.Equal(t, "Genre deleted successfully!", f.env.Store.Alert().Message)
	assert.Equal(t, view.NavigateMsg{Route: "/genres"}, run(t, d.Update(run(t, tick))))
}

func TestDetail_DeleteConflictStays(t *testing.T) {
	f := newFixture(t, true)
	d := view.NewDetail(f.env, view.AuthorDetail(f.catalog), 2)
	settle(t, d.Update, d.Mount())
	assert.Len(t, d.Data().Books, 2)

	require.True(t, d.RequestDelete())
	assert.Nil(t, d.Update(run(t, d.ConfirmDelete())))
	assert.Equal(t, view.DetailLoaded, d.State())
	assert.Contains(t, f.env.Store.Alert().Message, "books associated")
}

func TestDetail_NotFound(t *testing.T) {
	f := newFixture(t, true)
	d := view.NewDetail(f.env, view.BookDetail(f.catalog), 99)
	settle(t, d.Update, d.Mount())
	assert.Equal(t, view.DetailNotFound, d.State())
	assert.False(t, d.RequestDelete())
}

func TestHome_Counts(t *testing.T) {
	f := newFixture(t, true)
	h := view.NewHome(f.env, view.Counts(f.catalog))
	settle(t, h.Update, h.Mount())

	require.True(t, h.Loaded())
	assert.Equal(t, 4, h.Count(model.KindAuthor))
	assert.Equal(t, 4, h.Count(model.KindGenre))
	assert.Equal(t, 5, h.Count(model.KindBook))
}

func TestHome_FailedCountIsUnknown(t *testing.T) {
	f := newFixture(t, true)
	sources := view.Counts(f.catalog)
	sources[model.KindGenre] = func(context.Context) (int, error) { return 0, errors.New("down") }
	delete(sources, model.KindBook)

	h := view.NewHome(f.env, sources)
	settle(t, h.Update, h.Mount())
	assert.Equal(t, 4, h.Count(model.KindAuthor))
	assert.Equal(t, view.Unknown, h.Count(model.KindGenre))
	assert.Equal(t, view.Unknown, h.Count(model.KindBook))
}

func TestHome_UnmountDropsCounts(t *testing.T) {
	f := newFixture(t, true)
	sources := view.Counts(f.catalog)
	sources[model.KindBook] = func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}

	h := view.NewHome(f.env, sources)
	cmd := h.Mount()
	h.Unmount()
	assert.Nil(t, run(t, cmd))
	assert.False(t, h.Loaded())
	assert.False(t, f.env.Store.Loading())
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		current, total int
		want           []int
	}{
		{1, 1, nil},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, view.Ellipsis, 10}},
		{5, 10, []int{1, view.Ellipsis, 3, 4, 5, view.Ellipsis, 10}},
		{10, 10, []int{1, view.Ellipsis, 7, 8, 9, 10}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, view.PageWindow(c.current, c.total), "PageWindow(%d, %d)", c.current, c.total)
	}
}
