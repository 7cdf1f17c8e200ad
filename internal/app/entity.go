package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catalogctl/internal/model"
	"github.com/blackwell-systems/catalogctl/internal/service"
	"github.com/blackwell-systems/catalogctl/internal/store"
	"github.com/blackwell-systems/catalogctl/internal/util"
	"github.com/blackwell-systems/catalogctl/internal/view"
)

// requestFlags binds the create/update flags of one entity kind.
type requestFlags[R any] interface {
	bind(cmd *cobra.Command)
	// apply copies every flag the user set onto req.
	apply(cmd *cobra.Command, req *R) error
}

// entity describes the generic subcommands of one resource. The service and
// list source are resolved lazily since they only exist after bootstrap.
type entity[T model.Entity, D any, R service.Request] struct {
	kind    model.Kind
	svc     func() *service.Service[T, D, R]
	list    func() view.ListSource[T]
	columns []column[T]
	show    func(D)
	flags   func() requestFlags[R]
	// current is the update base: the stored entity as a request.
	current func(ctx context.Context, id int) (R, error)
}

func (e entity[T, D, R]) commands() []*cobra.Command {
	return []*cobra.Command{
		e.listCmd(),
		e.getCmd(),
		e.createCmd(),
		e.updateCmd(),
		e.deleteCmd(),
	}
}

func (e entity[T, D, R]) listCmd() *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s one page at a time", e.kind.Plural()),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPage(cmd.Context(), e.list(), page, size, e.columns)
		},
	}
	addPagingFlags(cmd, &page, &size)
	return cmd
}

func (e entity[T, D, R]) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one %s with its associations", e.kind.Singular()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := e.svc().Detail(cmd.Context(), id)
			if err != nil {
				return userError(e.kind, service.OpLoad, err)
			}
			if structured() {
				return emit(d)
			}
			e.show(d)
			return nil
		},
	}
}

func (e entity[T, D, R]) createCmd() *cobra.Command {
	flags := e.flags()
	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", e.kind.Singular()),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req R
			if err := flags.apply(cmd, &req); err != nil {
				return err
			}
			created, err := e.svc().Create(cmd.Context(), req)
			if err != nil {
				return userError(e.kind, service.OpSave, err)
			}
			if structured() {
				return emit(created)
			}
			ok("%s created successfully! (id %d)", capitalize(e.kind.Singular()), created.EntityID())
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func (e entity[T, D, R]) updateCmd() *cobra.Command {
	flags := e.flags()
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s; unset flags keep their current value", e.kind.Singular()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req, err := e.current(cmd.Context(), id)
			if err != nil {
				return userError(e.kind, service.OpLoad, err)
			}
			if err := flags.apply(cmd, &req); err != nil {
				return err
			}
			if err := e.svc().Update(cmd.Context(), id, req); err != nil {
				return userError(e.kind, service.OpSave, err)
			}
			ok("%s updated successfully!", capitalize(e.kind.Singular()))
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func (e entity[T, D, R]) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", e.kind.Singular()),
		Long: fmt.Sprintf(`Delete a %s by id.

Authors and genres that still have books cannot be deleted; remove or
reassign their books first.`, e.kind.Singular()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				confirmed, err := confirm(fmt.Sprintf("Delete %s #%d?", e.kind.Singular(), id))
				if err != nil {
					return err
				}
				if !confirmed {
					warn("Cancelled.")
					return nil
				}
			}
			if err := e.svc().Delete(cmd.Context(), id); err != nil {
				return userError(e.kind, service.OpDelete, err)
			}
			cache.Invalidate(e.kind)
			ok("%s deleted successfully!", capitalize(e.kind.Singular()))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")
	return cmd
}

// listPage fetches one page through the session store and prints it.
func listPage[T model.Entity](ctx context.Context, src view.ListSource[T], page, size int, cols []column[T]) error {
	if size <= 0 {
		size = cfg.Defaults.PageSize
	}
	key := store.Key{Kind: src.Kind, Scope: src.Scope, Page: page, Size: size}
	p, _, err := store.Load(ctx, cache, key, func(ctx context.Context) (model.Page[T], error) {
		return src.Fetch(ctx, page, size)
	})
	if err != nil {
		return userError(src.Kind, service.OpList, err)
	}
	if structured() {
		return emit(p)
	}
	printPage(p, cols)
	return nil
}

func addPagingFlags(cmd *cobra.Command, page, size *int) {
	cmd.Flags().IntVar(page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(size, "size", 0, "Page size (default from config)")
}

// confirm asks a yes/no question. Without a terminal the answer must come
// from --yes.
func confirm(question string) (bool, error) {
	if in == io.Reader(os.Stdin) && !util.IsTTY() {
		return false, errors.New("refusing to delete without --yes when not running in a terminal")
	}
	fmt.Fprintf(out, "%s (y/n): ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// userError turns a service failure into the one-line message users see.
func userError(kind model.Kind, op service.Op, err error) error {
	return errors.New(service.UserMessage(kind, op, err))
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

// parseIDs parses a comma separated id list such as "1,3".
func parseIDs(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := parseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
