package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lazylist/internal/config"
	"github.com/charmbracelet/lazylist/internal/db"
	"github.com/charmbracelet/lazylist/internal/log"
	"github.com/charmbracelet/lazylist/internal/metrics"
	"github.com/charmbracelet/lazylist/internal/tui"
	"github.com/charmbracelet/lazylist/internal/version"
	"github.com/charmbracelet/x/exp/charmtone"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().StringP("data-dir", "D", "", "Custom lazylist data directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().IntP("items", "n", 0, "Items to create when the store is empty (default from config)")

	rootCmd.AddCommand(
		planCmd,
		simulateCmd,
		configCmd,
		dirsCmd,
		logsCmd,
		schemaCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "lazylist",
	Short: "Browse and reorder a virtualized list in the terminal",
	Long: heredoc.Doc(`
		lazylist lays out long lists lazily: only the items in and around the
		viewport are measured and placed. Items animate to their new slots when
		they move, and can be dragged to reorder them.

		Without a subcommand it opens an interactive browser over the item store
		in the data directory.
	`),
	Example: heredoc.Doc(`
		# Browse the item store of the current directory
		lazylist

		# Seed an empty store with 500 items
		lazylist -n 500

		# Run with debug logging in a specific directory
		lazylist -d -c /path/to/project

		# Lay out three items in a 20x12 viewport
		lazylist plan --sizes 5,5,5 --viewport 20x12
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		conn, err := db.Connect(ctx, cfg.Options.DataDirectory)
		if err != nil {
			return err
		}
		defer conn.Close()
		store, err := db.NewStore(ctx, conn)
		if err != nil {
			return err
		}
		defer store.Close()

		seed, _ := cmd.Flags().GetInt("items")
		if seed <= 0 {
			seed = cfg.TUI.SeedItems
		}
		if n, err := store.Seed(ctx, seed); err != nil {
			return err
		} else if n > 0 {
			slog.Info("Seeded item store", "items", n)
		}

		opts, err := cfg.Layout.ListOptions()
		if err != nil {
			return err
		}
		ui, err := tui.New(ctx, store, opts, cfg.TUI.FrameInterval(), metrics.NewMetrics())
		if err != nil {
			return err
		}

		program := tea.NewProgram(
			ui,
			tea.WithContext(ctx),
			tea.WithFilter(tui.MouseEventFilter))

		reloader, err := config.ForWorkingDir(cfg.WorkingDir(), cfg.Options.DataDirectory, cfg.Options.Debug)
		if err != nil {
			return err
		}
		reloader.SetConfig(cfg)
		reloader.AddCallback(func(c *config.Config) error {
			opts, err := c.Layout.ListOptions()
			if err != nil {
				return err
			}
			config.Set(c)
			program.Send(tui.ConfigReloadedMsg{Options: opts})
			return nil
		})
		if err := reloader.Start(); err != nil {
			slog.Warn("Config hot reload disabled", "error", err)
		}
		defer reloader.Stop()

		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("lazylist crashed: %w", err)
		}
		return nil
	},
}

var logo = lipgloss.NewStyle().Foreground(charmtone.Charple).SetString(`
 ┃ ▔▔▔▔▔
 ┃ ▔▔▔
 ┃ ▔▔▔▔▔▔▔
 ┃ ▔▔▔▔
`)

// copied from cobra:
const defaultVersionTemplate = `{{with .DisplayName}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`

func Execute() {
	// cobra prints the version before any hook runs, so the colored logo
	// is rendered up front into the version template.
	if term.IsTerminal(os.Stdout.Fd()) {
		var b bytes.Buffer
		w := colorprofile.NewWriter(os.Stdout, os.Environ())
		w.Forward = &b
		_, _ = w.WriteString(logo.String())
		rootCmd.SetVersionTemplate(b.String() + "\n" + defaultVersionTemplate)
	}
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the working directory and loads its configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}
	return config.Init(cwd, dataDir, debug)
}

// setup loads the configuration, creates the data directory and starts
// logging into it.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := createDataDir(cfg.Options.DataDirectory); err != nil {
		return nil, err
	}
	log.Setup(logFile(cfg), cfg.Options.Debug)
	slog.Debug("Configuration loaded", "data_dir", cfg.Options.DataDirectory, "version", version.Version)
	return cfg, nil
}

func logFile(cfg *config.Config) string {
	return filepath.Join(cfg.Options.DataDirectory, "logs", "lazylist.log")
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}

func createDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %q %w", dir, err)
	}

	gitIgnorePath := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitIgnorePath); os.IsNotExist(err) {
		if err := os.WriteFile(gitIgnorePath, []byte("*\n"), 0o644); err != nil {
			return fmt.Errorf("failed to create .gitignore file: %q %w", gitIgnorePath, err)
		}
	}

	return nil
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
