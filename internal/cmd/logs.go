package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/log/v2"
	"github.com/nxadm/tail"
	"github.com/spf13/cobra"
)

const defaultTailLines = 1000

func init() {
	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsCmd.Flags().IntP("tail", "t", defaultTailLines, "Show only the last N lines")
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View lazylist logs",
	Long: heredoc.Doc(`
		Pretty-print the JSON log of the data directory. With --follow new lines
		are printed as they are written.
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		tailLines, _ := cmd.Flags().GetInt("tail")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logsFile := logFile(cfg)
		if _, err := os.Stat(logsFile); errors.Is(err, os.ErrNotExist) {
			cmd.Println("No logs found at", logsFile)
			return nil
		}

		logger := log.New(cmd.OutOrStdout())
		logger.SetLevel(log.DebugLevel)
		logger.SetReportTimestamp(true)

		lines, err := lastLines(logsFile, tailLines)
		if err != nil {
			return err
		}
		for _, line := range lines {
			printLogLine(logger, line)
		}
		if !follow {
			return nil
		}

		t, err := tail.TailFile(logsFile, tail.Config{
			Follow:   true,
			ReOpen:   true,
			Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
			Logger:   tail.DiscardingLogger,
		})
		if err != nil {
			return fmt.Errorf("failed to tail log file: %w", err)
		}
		defer t.Cleanup()
		for {
			select {
			case <-cmd.Context().Done():
				return t.Stop()
			case line, ok := <-t.Lines:
				if !ok {
					return t.Err()
				}
				if line.Err != nil {
					return line.Err
				}
				printLogLine(logger, line.Text)
			}
		}
	},
}

// lastLines returns the last n lines of path.
func lastLines(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return lines, nil
}

func printLogLine(logger *log.Logger, lineText string) {
	var data map[string]any
	if err := json.Unmarshal([]byte(lineText), &data); err != nil {
		return
	}
	msg, _ := data["msg"].(string)
	level, _ := data["level"].(string)

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var fields []any
	for _, k := range keys {
		switch k {
		case "msg", "level", "time":
			continue
		case "source":
			if source, ok := data[k].(map[string]any); ok {
				fields = append(fields, "source", fmt.Sprintf("%v:%v", source["file"], source["line"]))
			}
			continue
		}
		fields = append(fields, k, data[k])
	}

	logger.SetTimeFunction(func(time.Time) time.Time {
		if ts, ok := data["time"].(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
				return t
			}
		}
		return time.Now()
	})

	switch level {
	case "DEBUG":
		logger.Debug(msg, fields...)
	case "WARN":
		logger.Warn(msg, fields...)
	case "ERROR":
		logger.Error(msg, fields...)
	default:
		logger.Info(msg, fields...)
	}
}
