package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/catalogctl/internal/model"
)

// column is one table column of a list command.
type column[T any] struct {
	title string
	width int
	value func(T) string
}

// structured reports whether --format asks for machine-readable output.
func structured() bool {
	return flagFormat == "json" || flagFormat == "yaml"
}

// emit writes v as JSON or YAML according to --format.
func emit(v interface{}) error {
	return emitAs(flagFormat, v)
}

func emitAs(format string, v interface{}) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPage renders one page of rows as a table with a pagination footer.
func printPage[T any](p model.Page[T], cols []column[T]) {
	if len(p.Items) == 0 {
		fmt.Fprintln(out, color.HiBlackString("No results."))
		return
	}

	var head strings.Builder
	for _, c := range cols {
		head.WriteString(pad(c.title, c.width))
	}
	fmt.Fprintln(out, color.CyanString(strings.TrimRight(head.String(), " ")))

	for _, it := range p.Items {
		var row strings.Builder
		for _, c := range cols {
			row.WriteString(pad(c.value(it), c.width))
		}
		fmt.Fprintln(out, strings.TrimRight(row.String(), " "))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, color.HiBlackString("page %d of %d · %d total", p.PageNumber, max(p.TotalPages, 1), p.TotalCount))
}

// pad truncates s to width display columns and pads it, plus a gap.
func pad(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if n := width - ansi.StringWidth(s); n > 0 {
		s += strings.Repeat(" ", n)
	}
	return s + "  "
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func genreNames(gs []model.GenreRef) string {
	names := make([]string, len(gs))
	for i, g := range gs {
		names[i] = fmt.Sprintf("%s (%d)", g.Name, g.ID)
	}
	return strings.Join(names, ", ")
}

func printBookSummaries(books []model.BookSummary) {
	fmt.Fprintln(out)
	header("Books (%d)", len(books))
	if len(books) == 0 {
		fmt.Fprintln(out, color.HiBlackString("  none"))
		return
	}
	for _, b := range books {
		fmt.Fprintf(out, "  %s %s %s\n", color.HiBlackString("%4d", b.ID), b.Title, color.HiBlackString("(%d)", b.Year))
	}
}
