package cmd

import (
	"encoding/json"
	"strconv"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the lazylist configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist one configuration field",
	Long: heredoc.Doc(`
		Write one dotted configuration field into the writable configuration
		file in the data directory. Values are stored as booleans or numbers
		when they parse as one, as JSON when they are an object or an array,
		and as strings otherwise.
	`),
	Example: heredoc.Doc(`
		# Put a gap between items
		lazylist config set layout.spacing 1

		# Slow animations down
		lazylist config set layout.animation.duration 400ms
	`),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.SetConfigField(args[0], parseValue(args[1])); err != nil {
			return err
		}
		cmd.Printf("%s = %s (%s)\n", args[0], args[1], cfg.ConfigPath())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the writable configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cmd.Println(cfg.ConfigPath())
		return nil
	},
}

func parseValue(s string) any {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if len(s) > 0 && (s[0] == '{' || s[0] == '[') && json.Valid([]byte(s)) {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}

func init() {
	configCmd.AddCommand(configSetCmd, configPathCmd)
}
