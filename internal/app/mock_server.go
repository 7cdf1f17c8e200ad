package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catalogctl/internal/config"
	"github.com/blackwell-systems/catalogctl/internal/mockapi"
)

func newMockServerCmd() *cobra.Command {
	var (
		addr string
		seed bool
		data string
	)
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve an in-memory catalog API for development",
		Long: `Serve an in-memory implementation of the catalog API. Data lives only as
long as the process unless --data names a file to keep it in. Point the
client at it with:

  export CATALOGCTL_API_BASE_URL=http://127.0.0.1:7115/api/v1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.Mock.Addr
			}
			data = config.ExpandHome(data)
			backend, err := openBackend(data, seed)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := serveMock(ctx, addr, backend); err != nil {
				return err
			}
			if data == "" {
				return nil
			}
			if err := backend.SaveFile(data); err != nil {
				return fmt.Errorf("saving %s: %w", data, err)
			}
			ok("Saved %s", data)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config mock.addr)")
	cmd.Flags().BoolVar(&seed, "seed", true, "Load sample authors, genres and books")
	cmd.Flags().StringVar(&data, "data", "", "YAML file to load at start and save on exit")
	return cmd
}

// openBackend restores the snapshot at path, falling back to a new backend
// when there is none yet.
func openBackend(path string, seed bool) (*mockapi.Backend, error) {
	if path != "" {
		b, err := mockapi.LoadFile(path)
		if err == nil {
			log.Info().Str("path", path).Msg("mock data restored")
			return b, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	b := mockapi.New()
	if seed {
		b.Seed()
	}
	return b, nil
}

func serveMock(ctx context.Context, addr string, backend *mockapi.Backend) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	fmt.Fprintf(out, "Serving mock API on %s\n", color.CyanString("http://%s%s", addr, mockapi.Prefix))
	log.Info().Str("addr", addr).Msg("mock server listening")

	select {
	case err := <-errc:
		return fmt.Errorf("mock server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stopping mock server: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("mock server stopped")
	return nil
}
