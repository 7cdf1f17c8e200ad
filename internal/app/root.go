package app

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/catalogctl/internal/api"
	"github.com/blackwell-systems/catalogctl/internal/config"
	"github.com/blackwell-systems/catalogctl/internal/logging"
	"github.com/blackwell-systems/catalogctl/internal/service"
	"github.com/blackwell-systems/catalogctl/internal/store"
	"github.com/blackwell-systems/catalogctl/internal/tui"
	"github.com/blackwell-systems/catalogctl/internal/util"
)

var (
	cfg     *config.Config
	catalog *service.Catalog
	cache   *store.Store
	logFile *os.File

	appVersion = "dev"

	in     io.Reader = os.Stdin
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
	flagFormat        string
)

// SetVersion records the build version for the version command and TUI.
func SetVersion(v string) { appVersion = v }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Browse and manage a book catalog backend",
		Long: `catalogctl is a client for a book catalog REST API of authors, genres and
books.

Run 'catalogctl' with no arguments in a terminal to open the interactive
shell. Every operation is also available as a scriptable subcommand.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tui.ShouldUseTUI(cmd) {
				return runShell("/")
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/catalogctl/config.yml)")
	root.PersistentFlags().StringVar(&flagFormat, "format", "", "Output format: table, json or yaml")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return bootstrap(cmd)
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		teardown()
	}

	root.AddCommand(
		newAuthorsCmd(),
		newGenresCmd(),
		newBooksCmd(),
		newStatsCmd(),
		newBrowseCmd(),
		newConfigCmd(),
		newMockServerCmd(),
		newCompletionCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		teardown()
		fmt.Fprintln(errOut, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// bootstrap loads config, configures logging and builds the session: one
// transport, the entity services over it and an empty store.
func bootstrap(cmd *cobra.Command) error {
	util.InitColor(flagNoColor)

	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(config.ExpandHome(flagConfig))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	switch flagFormat {
	case "", "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown --format %q (want table, json or yaml)", flagFormat)
	}

	if err := setupLogging(interactive(cmd)); err != nil {
		return err
	}

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithRateLimit(cfg.API.RateLimit),
	)
	catalog = service.NewCatalog(client, service.WithRetryDelay(cfg.API.RetryDelay))
	cache = store.New(store.Options{AlertDuration: cfg.UI.AlertDuration})
	log.Debug().Str("base_url", client.BaseURL()).Str("command", cmd.CommandPath()).Msg("session started")
	return nil
}

// interactive reports whether cmd is going to take over the terminal.
func interactive(cmd *cobra.Command) bool {
	if cmd.Name() == "browse" {
		return true
	}
	return !cmd.HasParent() && tui.ShouldUseTUI(cmd)
}

// setupLogging sends logs to stderr, or to the configured file when the
// shell owns the terminal. Without a file, shell sessions do not log.
func setupLogging(shell bool) error {
	if !shell {
		return logging.Init(cfg.Log.Level, cfg.Log.Format, errOut)
	}
	if cfg.Log.File == "" {
		logging.Discard()
		return nil
	}
	f, err := logging.OpenFile(cfg.Log.File)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	logFile = f
	return logging.Init(cfg.Log.Level, "json", f)
}

func teardown() {
	if cache != nil {
		log.Debug().Interface("cached_pages", cache.Stats()).Msg("session ended")
		cache.Close()
		cache = nil
	}
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Fprintln(out, color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(errOut, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Fprintln(out, color.CyanString(fmt.Sprintf(format, a...)))
}

func printField(label, value string) {
	if value == "" {
		value = color.HiBlackString("—")
	}
	fmt.Fprintf(out, "  %-14s %s\n", color.CyanString(label+":"), value)
}
