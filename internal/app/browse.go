package app

import (
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catalogctl/internal/tui"
	"github.com/blackwell-systems/catalogctl/internal/util"
	"github.com/blackwell-systems/catalogctl/internal/view"
)

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [route]",
		Short: "Open the interactive shell, optionally at a route",
		Long: `Open the interactive shell.

Routes:
  /                      home menu with catalog totals
  /authors               author list (also /genres, /books)
  /books?q=ring          book search; ?author=<id> and ?genre=<id> filter
  /authors/new           create form
  /authors/3             detail page
  /authors/edit/3        edit form`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !util.IsTTY() {
				return errors.New("browse needs a terminal; use the list/get subcommands when scripting")
			}
			start := "/"
			if len(args) == 1 {
				start = args[0]
			}
			return runShell(start)
		},
	}
}

// runShell runs the interactive shell over the session built by bootstrap.
func runShell(start string) error {
	deps := tui.Deps{
		Env: view.Env{
			Store:         cache,
			PageSize:      cfg.Defaults.PageSize,
			RedirectDelay: cfg.UI.RedirectDelay,
		},
		Catalog: catalog,
		Version: appVersion,
	}
	log.Info().Str("route", start).Msg("opening interactive shell")
	return tui.Run(deps, start)
}
