package tui_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/catalogctl/internal/api"
	"github.com/blackwell-systems/catalogctl/internal/mockapi"
	"github.com/blackwell-systems/catalogctl/internal/service"
	"github.com/blackwell-systems/catalogctl/internal/store"
	"github.com/blackwell-systems/catalogctl/internal/tui"
	"github.com/blackwell-systems/catalogctl/internal/view"
)

// shell drives a tui.Model without a terminal: commands run inline and
// their messages are fed back until nothing is left.
type shell struct {
	t       *testing.T
	m       tui.Model
	store   *store.Store
	backend *mockapi.Backend
	quit    bool
}

func newShell(t *testing.T, start string) *shell {
	t.Helper()
	b := mockapi.New()
	b.Seed()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)

	s := store.New(store.Options{AlertDuration: time.Hour})
	t.Cleanup(s.Close)
	deps := tui.Deps{
		Env:     view.Env{Store: s, PageSize: 10, RedirectDelay: 10 * time.Millisecond},
		Catalog: service.NewCatalog(api.New(srv.URL+mockapi.Prefix), service.WithRetryDelay(0)),
	}
	sh := &shell{t: t, m: tui.New(deps, start), store: s, backend: b}
	sh.drain(sh.m.Init())
	sh.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return sh
}

func (sh *shell) send(msg tea.Msg) {
	next, cmd := sh.m.Update(msg)
	sh.m = next.(tui.Model)
	sh.drain(cmd)
}

func (sh *shell) drain(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(sh.t, steps, 200, "event loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil, spinner.TickMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			sh.quit = true
		default:
			next, cmd := sh.m.Update(msg)
			sh.m = next.(tui.Model)
			queue = append(queue, cmd)
		}
	}
}

func (sh *shell) typeText(s string) {
	sh.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (sh *shell) press(k tea.KeyType) { sh.send(tea.KeyMsg{Type: k}) }

func TestShell_HomeShowsCounts(t *testing.T) {
	sh := newShell(t, "/")
	out := sh.m.View()
	assert.Contains(t, out, "Browse authors (4)")
	assert.Contains(t, out, "Browse and search books (5)")

	sh.typeText("q")
	assert.True(t, sh.quit)
}

func TestShell_ListToDetailAndBack(t *testing.T) {
	sh := newShell(t, "/authors")
	assert.Contains(t, sh.m.View(), "Le Guin")

	sh.press(tea.KeyDown)
	sh.press(tea.KeyEnter)
	assert.Equal(t, "/authors/2", sh.m.Route().Path)
	out := sh.m.View()
	assert.Contains(t, out, "A Wizard of Earthsea")
	assert.Contains(t, out, "The Left Hand of Darkness")

	sh.press(tea.KeyEsc)
	assert.Equal(t, "/authors", sh.m.Route().Path)
}

func TestShell_DetailFollowsRelatedLinks(t *testing.T) {
	sh := newShell(t, "/books/1")
	assert.Contains(t, sh.m.View(), "The Hobbit")

	// The first related link is the author.
	sh.press(tea.KeyEnter)
	assert.Equal(t, "/authors/1", sh.m.Route().Path)
}

func TestShell_UnknownRoute(t *testing.T) {
	sh := newShell(t, "/publishers/7")
	assert.Contains(t, sh.m.View(), "Page not found")

	sh.press(tea.KeyEnter)
	assert.Equal(t, "/", sh.m.Route().Path)
}

func TestShell_CreateBook(t *testing.T) {
	sh := newShell(t, "/books/new")
	before := sh.backend.Requests()

	sh.typeText("Dune")
	sh.press(tea.KeyTab) // year keeps its default
	sh.press(tea.KeyTab)
	sh.press(tea.KeyRight) // first author
	sh.press(tea.KeyTab)
	sh.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}) // first genre
	sh.press(tea.KeyEnter)

	assert.Greater(t, sh.backend.Requests(), before)
	assert.Equal(t, "/books", sh.m.Route().Path, "redirected after save")
	a := sh.store.Alert()
	assert.True(t, a.Visible)
	assert.Equal(t, store.SeveritySuccess, a.Severity)
	assert.Contains(t, sh.m.View(), "Dune")
}

func TestShell_FormRejectsUnparsableInput(t *testing.T) {
	sh := newShell(t, "/authors/new")
	before := sh.backend.Requests()

	sh.typeText("Borges")
	sh.press(tea.KeyTab)
	sh.typeText("someday")
	sh.press(tea.KeyEnter)

	assert.Equal(t, before, sh.backend.Requests(), "nothing sent")
	assert.Equal(t, "/authors/new", sh.m.Route().Path)
	a := sh.store.Alert()
	assert.Equal(t, store.SeverityWarning, a.Severity)
	assert.Contains(t, a.Message, "YYYY-MM-DD")
}

func TestShell_DeleteReferencedGenreFails(t *testing.T) {
	sh := newShell(t, "/genres")

	sh.typeText("d")
	assert.Contains(t, sh.m.View(), "Delete genre #1?")
	sh.typeText("y")

	a := sh.store.Alert()
	assert.Equal(t, store.SeverityError, a.Severity)
	assert.Equal(t, "/genres", sh.m.Route().Path)
	assert.Contains(t, sh.m.View(), "Fantasy")
}

func TestShell_HeaderShowsRequestsInFlight(t *testing.T) {
	sh := newShell(t, "/")
	assert.NotContains(t, sh.m.View(), "requests")

	a := sh.store.BeginLoad()
	b := sh.store.BeginLoad()
	assert.Contains(t, sh.m.View(), "2 requests")

	sh.store.EndLoad(a)
	sh.store.EndLoad(b)
	assert.NotContains(t, sh.m.View(), "requests")
}
