package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lazylist/internal/anim"
	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/lazylist/internal/lazylist"
	"github.com/invopop/jsonschema"
	"github.com/tidwall/sjson"
)

const (
	appName              = "lazylist"
	defaultDataDirectory = ".lazylist"
	defaultFrameRate     = 60
	defaultSeedItems     = 64
)

// Padding is the content padding of the list, in cells.
type Padding struct {
	Top    int `json:"top,omitempty" jsonschema:"description=Padding above the content,minimum=0,default=0"`
	Bottom int `json:"bottom,omitempty" jsonschema:"description=Padding below the content,minimum=0,default=0"`
	Start  int `json:"start,omitempty" jsonschema:"description=Padding before the content on the horizontal axis,minimum=0,default=0"`
	End    int `json:"end,omitempty" jsonschema:"description=Padding after the content on the horizontal axis,minimum=0,default=0"`
}

type Animation struct {
	Duration    string   `json:"duration,omitempty" jsonschema:"description=Time one placement animation takes,default=150ms,example=300ms"`
	MaxDuration string   `json:"max_duration,omitempty" jsonschema:"description=Longest time an item may keep animating when it is retargeted repeatedly,default=600ms,example=1s"`
	Tolerance   *float64 `json:"tolerance,omitempty" jsonschema:"description=Distance in cells at which an animating item snaps to its slot,minimum=0,default=0.5"`
	Easing      string   `json:"easing,omitempty" jsonschema:"description=Easing curve of placement animations,enum=linear,enum=ease-out-cubic,default=ease-out-cubic"`
}

type Layout struct {
	Orientation           string    `json:"orientation,omitempty" jsonschema:"description=Main axis of the list,enum=vertical,enum=horizontal,default=vertical"`
	ReverseLayout         bool      `json:"reverse_layout,omitempty" jsonschema:"description=Lay out the first item at the end of the main axis,default=false"`
	Padding               Padding   `json:"padding,omitzero" jsonschema:"description=Content padding"`
	Spacing               int       `json:"spacing,omitempty" jsonschema:"description=Gap between two consecutive items,minimum=0,default=0,example=1"`
	Alignment             string    `json:"alignment,omitempty" jsonschema:"description=Cross-axis alignment of item children,enum=start,enum=center,enum=end,enum=stretch,enum=none,default=start"`
	BeyondBoundsItemCount int       `json:"beyond_bounds_item_count,omitempty" jsonschema:"description=Items laid out past each edge of the viewport,minimum=0,default=0,example=2"`
	CorrectionRetries     *int      `json:"correction_retries,omitempty" jsonschema:"description=How many times a pass scrolls back to fill a viewport left empty at the end,minimum=0,default=1"`
	Animation             Animation `json:"animation,omitzero" jsonschema:"description=Placement animation options"`
}

type Options struct {
	Debug         bool   `json:"debug,omitempty" jsonschema:"description=Enable debug logging,default=false"`
	DataDirectory string `json:"data_directory,omitempty" jsonschema:"description=Directory for storing application data (relative to working directory),default=.lazylist,example=.lazylist"` // Relative to the cwd
}

type TUIOptions struct {
	FrameRate int `json:"frame_rate,omitempty" jsonschema:"description=Animation frames per second,minimum=1,maximum=240,default=60"`
	SeedItems int `json:"seed_items,omitempty" jsonschema:"description=Items created when the item store is empty,minimum=0,default=64"`
}

// Config holds the configuration for lazylist.
type Config struct {
	Schema string `json:"$schema,omitempty"`

	Layout *Layout `json:"layout,omitempty" jsonschema:"description=List layout options"`

	Options *Options `json:"options,omitempty" jsonschema:"description=General application options"`

	TUI *TUIOptions `json:"tui,omitempty" jsonschema:"description=Terminal user interface options"`

	// Internal
	workingDir string `json:"-"`
	// writable config file
	dataConfigDir string `json:"-"`
}

func (Config) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Title = "lazylist configuration"
}

func (c *Config) WorkingDir() string {
	return c.workingDir
}

// ConfigPath returns the file [Config.SetConfigField] writes to.
func (c *Config) ConfigPath() string {
	return c.dataConfigDir
}

func (c *Config) setDefaults(workingDir, dataDir string) {
	c.workingDir = workingDir
	if c.Layout == nil {
		c.Layout = &Layout{}
	}
	if c.Options == nil {
		c.Options = &Options{}
	}
	if c.TUI == nil {
		c.TUI = &TUIOptions{}
	}
	if dataDir != "" {
		c.Options.DataDirectory = dataDir
	} else if c.Options.DataDirectory == "" {
		c.Options.DataDirectory = filepath.Join(workingDir, defaultDataDirectory)
	}
	if c.TUI.FrameRate == 0 {
		c.TUI.FrameRate = defaultFrameRate
	}
	if c.TUI.SeedItems == 0 {
		c.TUI.SeedItems = defaultSeedItems
	}
}

// FrameInterval returns the time between two animation frames.
func (t *TUIOptions) FrameInterval() time.Duration {
	rate := t.FrameRate
	if rate <= 0 {
		rate = defaultFrameRate
	}
	return time.Second / time.Duration(rate)
}

// ListOptions converts the layout section into planner options.
func (l *Layout) ListOptions() (lazylist.Options, error) {
	opts := lazylist.DefaultOptions()
	if l == nil {
		return opts, nil
	}
	var errs []error
	if l.Orientation != "" {
		o, err := geom.ParseOrientation(l.Orientation)
		errs = append(errs, err)
		opts.Orientation = o
	}
	if l.Alignment != "" {
		a, err := geom.ParseAlignment(l.Alignment)
		errs = append(errs, err)
		opts.Alignment = a
	}
	opts.ReverseLayout = l.ReverseLayout
	opts.Padding = geom.Padding{
		Start:  l.Padding.Start,
		End:    l.Padding.End,
		Top:    l.Padding.Top,
		Bottom: l.Padding.Bottom,
	}
	opts.Spacing = l.Spacing
	opts.BeyondBoundsItemCount = l.BeyondBoundsItemCount
	opts.CorrectionRetries = ptrValOr(l.CorrectionRetries, opts.CorrectionRetries)

	a, err := l.Animation.options()
	errs = append(errs, err)
	opts.Animation = a

	if err := errors.Join(errs...); err != nil {
		return opts, fmt.Errorf("invalid layout config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid layout config: %w", err)
	}
	return opts, nil
}

func (a Animation) options() (anim.Options, error) {
	opts := anim.DefaultOptions()
	var errs []error
	if a.Duration != "" {
		d, err := time.ParseDuration(a.Duration)
		errs = append(errs, err)
		opts.Duration = d
	}
	if a.MaxDuration != "" {
		d, err := time.ParseDuration(a.MaxDuration)
		errs = append(errs, err)
		opts.MaxDuration = d
	}
	opts.Tolerance = ptrValOr(a.Tolerance, opts.Tolerance)
	switch a.Easing {
	case "", "ease-out-cubic":
	case "linear":
		opts.Easing = anim.Linear
	default:
		errs = append(errs, fmt.Errorf("unknown easing %q", a.Easing))
	}
	return opts, errors.Join(errs...)
}

// SetConfigField persists one dotted field, e.g. "layout.spacing", in the
// writable config file.
func (c *Config) SetConfigField(key string, value any) error {
	// read the data
	data, err := os.ReadFile(c.dataConfigDir)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte("{}")
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	newValue, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("failed to set config field %s: %w", key, err)
	}
	if err := os.MkdirAll(filepath.Dir(c.dataConfigDir), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.dataConfigDir, []byte(newValue), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func ptrValOr[T any](t *T, el T) T {
	if t == nil {
		return el
	}
	return *t
}
