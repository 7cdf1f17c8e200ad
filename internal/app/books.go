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

var bookColumns = []column[model.Book]{
	{title: "ID", width: 4, value: func(b model.Book) string { return strconv.Itoa(b.ID) }},
	{title: "TITLE", width: 34, value: func(b model.Book) string { return b.Title }},
	{title: "YEAR", width: 4, value: func(b model.Book) string { return strconv.Itoa(b.Year) }},
	{title: "AUTHOR", width: 22, value: func(b model.Book) string { return b.Author.Name }},
	{title: "GENRES", width: 30, value: func(b model.Book) string { return genreNames(b.Genres) }},
}

func newBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"book"},
		Short:   "Manage, search and filter books",
	}
	e := entity[model.Book, model.BookDetail, model.BookRequest]{
		kind:    model.KindBook,
		svc:     func() *service.Service[model.Book, model.BookDetail, model.BookRequest] { return catalog.Books.Service },
		list:    func() view.ListSource[model.Book] { return view.BookList(catalog, view.BookFilter{}) },
		columns: bookColumns,
		show:    showBook,
		flags:   func() requestFlags[model.BookRequest] { return &bookFlags{} },
		current: func(ctx context.Context, id int) (model.BookRequest, error) {
			b, err := catalog.Books.Detail(ctx, id)
			return b.Request(), err
		},
	}
	cmd.AddCommand(e.commands()...)
	cmd.AddCommand(
		newBookFilterCmd("search <term>", "List books whose title contains term",
			func(arg string) (view.BookFilter, error) { return view.BookFilter{Term: arg}, nil }),
		newBookFilterCmd("by-author <id>", "List the books of an author",
			func(arg string) (view.BookFilter, error) {
				id, err := parseID(arg)
				return view.BookFilter{AuthorID: id}, err
			}),
		newBookFilterCmd("by-genre <id>", "List the books in a genre",
			func(arg string) (view.BookFilter, error) {
				id, err := parseID(arg)
				return view.BookFilter{GenreID: id}, err
			}),
		newAddGenresCmd(),
		newSetGenresCmd(),
	)
	return cmd
}

func newBookFilterCmd(use, short string, filter func(arg string) (view.BookFilter, error)) *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filter(args[0])
			if err != nil {
				return err
			}
			return listPage(cmd.Context(), view.BookList(catalog, f), page, size, bookColumns)
		},
	}
	addPagingFlags(cmd, &page, &size)
	return cmd
}

func newAddGenresCmd() *cobra.Command {
	var genres string
	cmd := &cobra.Command{
		Use:   "add-genres <book-id>",
		Short: "Tag a book with more genres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ids, err := bookAndGenres(args[0], genres)
			if err != nil {
				return err
			}
			if err := catalog.BookGenres.Assign(cmd.Context(), id, ids); err != nil {
				return userError(model.KindBook, service.OpSave, err)
			}
			cache.Invalidate(model.KindBook)
			ok("Genres added to book #%d", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&genres, "genre", "", "Comma separated genre ids")
	return cmd
}

func newSetGenresCmd() *cobra.Command {
	var genres string
	cmd := &cobra.Command{
		Use:   "set-genres <book-id>",
		Short: "Replace the genres of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ids, err := bookAndGenres(args[0], genres)
			if err != nil {
				return err
			}
			// Checked before clearing: a book must never end up without genres.
			if len(ids) == 0 {
				return fmt.Errorf("--genre: %s", model.MsgSelectGenre)
			}
			if err := catalog.BookGenres.Clear(cmd.Context(), id); err != nil {
				return userError(model.KindBook, service.OpSave, err)
			}
			if err := catalog.BookGenres.Assign(cmd.Context(), id, ids); err != nil {
				return userError(model.KindBook, service.OpSave, err)
			}
			cache.Invalidate(model.KindBook)
			ok("Genres of book #%d replaced", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&genres, "genre", "", "Comma separated genre ids")
	return cmd
}

func bookAndGenres(idArg, genres string) (int, []int, error) {
	id, err := parseID(idArg)
	if err != nil {
		return 0, nil, err
	}
	ids, err := parseIDs(genres)
	if err != nil {
		return 0, nil, fmt.Errorf("--genre: %w", err)
	}
	return id, ids, nil
}

func showBook(b model.BookDetail) {
	header("Book #%d: %s", b.ID, b.Title)
	printField("year", strconv.Itoa(b.Year))
	printField("author", fmt.Sprintf("%s (%d)", b.Author.Name, b.Author.ID))
	printField("genres", genreNames(b.Genres))
	printField("isbn", deref(b.ISBN))
	printField("synopsis", deref(b.Synopsis))
	printField("cover", deref(b.Cover))
}

type bookFlags struct {
	title    string
	year     int
	author   int
	genres   string
	isbn     string
	synopsis string
	cover    string
}

func (f *bookFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.title, "title", "", "Book title")
	fs.IntVar(&f.year, "year", 0, "Publication year")
	fs.IntVar(&f.author, "author", 0, "Author id")
	fs.StringVar(&f.genres, "genre", "", "Comma separated genre ids, e.g. 1,3")
	fs.StringVar(&f.isbn, "isbn", "", "ISBN (empty clears it)")
	fs.StringVar(&f.synopsis, "synopsis", "", "Synopsis (empty clears it)")
	fs.StringVar(&f.cover, "cover", "", "Cover image URL (empty clears it)")
}

func (f *bookFlags) apply(cmd *cobra.Command, req *model.BookRequest) error {
	fs := cmd.Flags()
	if fs.Changed("title") {
		req.Title = f.title
	}
	if fs.Changed("year") {
		req.Year = f.year
	}
	if fs.Changed("author") {
		req.AuthorID = f.author
	}
	if fs.Changed("genre") {
		ids, err := parseIDs(f.genres)
		if err != nil {
			return fmt.Errorf("--genre: %w", err)
		}
		req.GenreIDs = ids
	}
	if fs.Changed("isbn") {
		req.ISBN = optional(f.isbn)
	}
	if fs.Changed("synopsis") {
		req.Synopsis = optional(f.synopsis)
	}
	if fs.Changed("cover") {
		req.Cover = optional(f.cover)
	}
	return nil
}
