package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it printed.
// Flags are reset first since the command tree is shared.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var b bytes.Buffer
	rootCmd.SetOut(&b)
	rootCmd.SetErr(&b)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return b.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestPlan(t *testing.T) {
	out, err := execute(t, "plan", "--sizes", "10,10,10", "--viewport", "20x25", "--spacing", "2")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "anchor 0+0 extent 34 estimated 34"), out)
	require.Contains(t, out, "count 3 window 0..2 visible 0..2")
	for _, key := range []string{"item-0", "item-1", "item-2"} {
		require.Contains(t, out, key)
	}
}

func TestPlanDraw(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "top",
			args: []string{"--sizes", "1,1,1", "--viewport", "8x2"},
			want: "item-0\nitem-1\n",
		},
		{
			name: "scrolled",
			args: []string{"--sizes", "1,1,1", "--viewport", "8x2", "--scroll", "1"},
			want: "item-1\nitem-2\n",
		},
		{
			name: "reversed",
			args: []string{"--sizes", "1,1", "--viewport", "8x3", "--reverse"},
			want: "\nitem-1\nitem-0\n",
		},
		{
			name: "spacing",
			args: []string{"--sizes", "1,1", "--viewport", "8x3", "--spacing", "1"},
			want: "item-0\n\nitem-1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"plan", "--draw"}, tt.args...)...)
			require.NoError(t, err)
			require.Equal(t, tt.want, out)
		})
	}
}

func TestPlanPNG(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plan.png")
	_, err := execute(t, "plan", "--sizes", "2,2", "--viewport", "10x5", "--png", file, "--scale", "0.5")
	require.NoError(t, err)

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, (10*8+32)/2, img.Bounds().Dx())
}

func TestPlanInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "viewport without height", args: []string{"--viewport", "20"}},
		{name: "negative size", args: []string{"--sizes", "1,-1"}},
		{name: "size is not a number", args: []string{"--sizes", "a"}},
		{name: "alignment", args: []string{"--alignment", "diagonal"}},
		{name: "negative spacing", args: []string{"--spacing", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"plan"}, tt.args...)...)
			require.Error(t, err)
		})
	}
}

func TestSimulate(t *testing.T) {
	out, err := execute(t, "simulate",
		"--items", "50", "--viewport", "20x10", "--scrollers", "0",
		"--drags", "3", "--frame", "1ms", "--timeout", "5s", "--stats")
	require.NoError(t, err)
	require.Contains(t, out, "moved item-0 from 0 to 3 in 3 moves")
	require.Contains(t, out, "policy_hits")
}

func TestSimulateConcurrentScrolling(t *testing.T) {
	out, err := execute(t, "simulate",
		"--items", "500", "--viewport", "20x10", "--scrollers", "4",
		"--drags", "2", "--frame", "1ms", "--timeout", "5s", "--dump")
	require.NoError(t, err)
	require.Contains(t, out, "passes")
	require.Contains(t, out, "count 500")
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	require.Contains(t, out, "lazylist configuration")
	require.Contains(t, out, "beyond_bounds_item_count")
}

func TestConfigSet(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	_, err := execute(t, "config", "set", "layout.spacing", "2")
	require.NoError(t, err)
	_, err = execute(t, "config", "set", "layout.animation.easing", "linear")
	require.NoError(t, err)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	data, err := os.ReadFile(strings.TrimSpace(out))
	require.NoError(t, err)
	require.JSONEq(t, `{"layout":{"spacing":2,"animation":{"easing":"linear"}}}`, string(data))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{name: "bool", in: "true", want: true},
		{name: "int", in: "3", want: int64(3)},
		{name: "float", in: "0.25", want: 0.25},
		{name: "object", in: `{"top":1}`, want: map[string]any{"top": float64(1)}},
		{name: "string", in: "300ms", want: "300ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parseValue(tt.in))
		})
	}
}

func TestLogs(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "logs"), 0o700))
	lines := strings.Join([]string{
		`{"time":"2026-03-01T12:00:00Z","level":"INFO","msg":"first pass","passes":1}`,
		`not json`,
		`{"time":"2026-03-01T12:00:01Z","level":"WARN","msg":"second pass","source":{"file":"state.go","line":98}}`,
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "logs", "lazylist.log"), []byte(lines+"\n"), 0o600))

	out, err := execute(t, "logs", "--data-dir", dataDir)
	require.NoError(t, err)
	require.Contains(t, out, "first pass")
	require.Contains(t, out, "second pass")
	require.Contains(t, out, "state.go:98")

	out, err = execute(t, "logs", "--data-dir", dataDir, "--tail", "1")
	require.NoError(t, err)
	require.NotContains(t, out, "first pass")
	require.Contains(t, out, "second pass")
}

func TestLogsMissing(t *testing.T) {
	out, err := execute(t, "logs", "--data-dir", t.TempDir())
	require.NoError(t, err)
	require.Contains(t, out, "No logs found")
}
