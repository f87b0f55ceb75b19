package cmd

import (
	"path/filepath"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lazylist/internal/config"
	"github.com/spf13/cobra"
)

var dirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Print directories used by lazylist",
	Long: `Print the directories where lazylist stores its configuration and data files.
This includes the global configuration directory and data directory.`,
	Example: heredoc.Doc(`
		# Print all directories
		lazylist dirs

		# Print only the config directory
		lazylist dirs config

		# Print only the data directory
		lazylist dirs data

		# Print where this project keeps its item store and logs
		lazylist dirs project --data-dir /tmp/lists
	`),
	Run: func(cmd *cobra.Command, args []string) {
		if isTerminal(cmd.OutOrStdout()) {
			// We're in a TTY: make it fancy.
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				StyleFunc(func(row, col int) lipgloss.Style {
					return lipgloss.NewStyle().Padding(0, 2)
				}).
				Row("Config", filepath.Dir(config.GlobalConfig())).
				Row("Data", filepath.Dir(config.GlobalConfigData()))
			lipgloss.Fprintln(cmd.OutOrStdout(), t)
			return
		}
		// Not a TTY.
		cmd.Println(filepath.Dir(config.GlobalConfig()))
		cmd.Println(filepath.Dir(config.GlobalConfigData()))
	},
}

var configDirCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the configuration directory used by lazylist",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(filepath.Dir(config.GlobalConfig()))
	},
}

var dataDirCmd = &cobra.Command{
	Use:   "data",
	Short: "Print the data directory used by lazylist",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(filepath.Dir(config.GlobalConfigData()))
	},
}

var projectDirCmd = &cobra.Command{
	Use:   "project",
	Short: "Print the project data directory holding the item store and logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.Println(cfg.Options.DataDirectory)
		return nil
	},
}

func init() {
	dirsCmd.AddCommand(configDirCmd, dataDirCmd, projectDirCmd)
}
