package app

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/service"
	"github.com/blackwell-systems/catalogctl/internal/view"
)

func newGenresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "genres",
		Aliases: []string{"genre"},
		Short:   "Manage genres",
	}
	e := entity[model.Genre, model.GenreDetail, model.GenreRequest]{
		kind: model.KindGenre,
		svc:  func() *service.GenreService { return catalog.Genres },
		list: func() view.ListSource[model.Genre] { return view.GenreList(catalog) },
		columns: []column[model.Genre]{
			{title: "ID", width: 4, value: func(g model.Genre) string { return strconv.Itoa(g.ID) }},
			{title: "NAME", width: 24, value: func(g model.Genre) string { return g.Name }},
			{title: "DESCRIPTION", width: 50, value: func(g model.Genre) string { return deref(g.Description) }},
		},
		show: func(g model.GenreDetail) {
			header("Genre #%d: %s", g.ID, g.Name)
			printField("description", deref(g.Description))
			printBookSummaries(g.Books)
		},
		flags: func() requestFlags[model.GenreRequest] { return &genreFlags{} },
		current: func(ctx context.Context, id int) (model.GenreRequest, error) {
			g, err := catalog.Genres.Get(ctx, id)
			return g.Request(), err
		},
	}
	cmd.AddCommand(e.commands()...)
	return cmd
}

type genreFlags struct {
	name        string
	description string
}

func (f *genreFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Genre name")
	cmd.Flags().StringVar(&f.description, "description", "", "Description (empty clears it)")
}

func (f *genreFlags) apply(cmd *cobra.Command, req *model.GenreRequest) error {
	if cmd.Flags().Changed("name") {
		req.Name = f.name
	}
	if cmd.Flags().Changed("description") {
		req.Description = optional(f.description)
	}
	return nil
}
