package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/service"
	"github.com/blackwell-systems/catalogctl/internal/view"
)

func newAuthorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "authors",
		Aliases: []string{"author"},
		Short:   "Manage authors",
	}
	e := entity[model.Author, model.AuthorDetail, model.AuthorRequest]{
		kind: model.KindAuthor,
		svc:  func() *service.AuthorService { return catalog.Authors },
		list: func() view.ListSource[model.Author] { return view.AuthorList(catalog) },
		columns: []column[model.Author]{
			{title: "ID", width: 4, value: func(a model.Author) string { return strconv.Itoa(a.ID) }},
			{title: "NAME", width: 28, value: func(a model.Author) string { return a.Name }},
			{title: "BORN", width: 10, value: func(a model.Author) string { return a.BirthDate.String() }},
			{title: "BIOGRAPHY", width: 40, value: func(a model.Author) string { return deref(a.Biography) }},
		},
		show:  showAuthor,
		flags: func() requestFlags[model.AuthorRequest] { return &authorFlags{} },
		current: func(ctx context.Context, id int) (model.AuthorRequest, error) {
			a, err := catalog.Authors.Get(ctx, id)
			return a.Request(), err
		},
	}
	cmd.AddCommand(e.commands()...)
	return cmd
}

func showAuthor(a model.AuthorDetail) {
	header("Author #%d: %s", a.ID, a.Name)
	printField("born", a.BirthDate.String())
	printField("biography", deref(a.Biography))
	printBookSummaries(a.Books)
}

type authorFlags struct {
	name      string
	biography string
	birthDate string
}

func (f *authorFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Author name")
	cmd.Flags().StringVar(&f.biography, "biography", "", "Short biography (empty clears it)")
	cmd.Flags().StringVar(&f.birthDate, "birth-date", "", "Birth date, YYYY-MM-DD")
}

func (f *authorFlags) apply(cmd *cobra.Command, req *model.AuthorRequest) error {
	fs := cmd.Flags()
	if fs.Changed("name") {
		req.Name = f.name
	}
	if fs.Changed("biography") {
		req.Biography = optional(f.biography)
	}
	if fs.Changed("birth-date") {
		d, err := model.ParseDate(f.birthDate)
		if err != nil {
			return fmt.Errorf("--birth-date: %w", err)
		}
		req.BirthDate = d
	}
	return nil
}

// optional maps an empty flag value to an absent field.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
