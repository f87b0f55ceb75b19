package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/lazylist/internal/geom"
	"github.com/charmbracelet/lazylist/internal/lazylist"
	"github.com/charmbracelet/lazylist/internal/metrics"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	simulateCmd.Flags().Int("items", 200, "Number of synthetic items")
	simulateCmd.Flags().String("viewport", "40x20", "Viewport as WIDTHxHEIGHT")
	simulateCmd.Flags().Int("scrollers", 2, "Concurrent scroll requesters")
	simulateCmd.Flags().Int("scroll-steps", 20, "Scroll requests per requester")
	simulateCmd.Flags().Int("drags", 5, "Slots the dragged item is moved by")
	simulateCmd.Flags().Duration("frame", 16*time.Millisecond, "Animation frame interval")
	simulateCmd.Flags().Duration("timeout", 5*time.Second, "Upper bound of the session")
	simulateCmd.Flags().Bool("stats", false, "Print layout metrics")
	simulateCmd.Flags().Bool("dump", false, "Print the final layout")
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted drag-reorder session against concurrent scrolling",
	Long: heredoc.Doc(`
		Drive one list from several goroutines: scroll requesters flood the
		layout loop while a dragger moves the first visible item down the list.
		Passes are serialized by the loop and animations advance every frame
		until the dropped item settles.
	`),
	Example: heredoc.Doc(`
		# Run a session and print the metrics
		lazylist simulate --stats

		# Drag across ten slots in a large list
		lazylist simulate --items 10000 --drags 10 --dump
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("items")
		viewportFlag, _ := cmd.Flags().GetString("viewport")
		scrollers, _ := cmd.Flags().GetInt("scrollers")
		steps, _ := cmd.Flags().GetInt("scroll-steps")
		drags, _ := cmd.Flags().GetInt("drags")
		frame, _ := cmd.Flags().GetDuration("frame")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		stats, _ := cmd.Flags().GetBool("stats")
		dump, _ := cmd.Flags().GetBool("dump")

		w, h, err := parseViewport(viewportFlag)
		if err != nil {
			return err
		}
		if frame <= 0 {
			return fmt.Errorf("frame interval must be positive: %s", frame)
		}
		sizes := make([]int, n)
		for i := range sizes {
			sizes[i] = 1 + i%4
		}
		content, err := syntheticItems(geom.Vertical, sizes)
		if err != nil {
			return err
		}
		m := metrics.NewMetrics()
		state, err := lazylist.NewState(content, lazylist.WithMetrics(m))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		s := &session{
			state:   state,
			reorder: lazylist.NewReorder(state, content),
			first:   make(chan struct{}),
		}
		s.loop = state.Loop(geom.Fixed(w, h), s.onResult)
		if err := s.run(ctx, cancel, frame, scrollers, steps, drags); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "moved %s from %d to %d in %d moves\n", s.key, s.from, s.to, m.Moves.Load())
		fmt.Fprintf(out, "passes %d, anchor %d+%d\n", m.Passes.Load(), state.Anchor().Index, state.Anchor().Offset)
		if dump {
			if res := state.Last(); res != nil {
				fmt.Fprint(out, res.Dump())
			}
		}
		if stats {
			printStats(out, m)
		}
		if err := (metrics.LogCollector{Level: slog.LevelDebug}).Collect(ctx, m); err != nil {
			slog.Warn("Failed to collect metrics", "error", err)
		}
		return nil
	},
}

// session is one scripted simulation.
type session struct {
	state   *lazylist.State
	loop    *lazylist.Loop
	reorder *lazylist.Reorder

	once  sync.Once
	first chan struct{}

	key      lazylist.Key
	from, to int
}

func (s *session) onResult(res *lazylist.Result, err error) {
	if err != nil {
		slog.Warn("Layout pass failed", "error", err)
		return
	}
	s.once.Do(func() { close(s.first) })
}

func (s *session) run(ctx context.Context, cancel context.CancelFunc, frame time.Duration, scrollers, steps, drags int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.loop.Run(gctx, frame)
	})
	s.loop.Request()

	for i := range scrollers {
		dir := 1.0
		if i%2 == 1 {
			dir = -1
		}
		g.Go(func() error {
			t := time.NewTicker(frame / 2)
			defer t.Stop()
			for range steps {
				select {
				case <-gctx.Done():
					return nil
				case <-t.C:
					s.loop.ScrollBy(dir * 3)
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		// Ends the session once the dropped item settled.
		defer cancel()
		select {
		case <-gctx.Done():
			return nil
		case <-s.first:
		}
		if err := s.drag(gctx, frame, drags); err != nil {
			return err
		}
		t := time.NewTicker(frame)
		defer t.Stop()
		for s.state.Animating() {
			select {
			case <-gctx.Done():
				return nil
			case <-t.C:
			}
		}
		return nil
	})
	return g.Wait()
}

// drag moves the first visible item down by slots, one neighbour per
// frame, and drops it.
func (s *session) drag(ctx context.Context, frame time.Duration, slots int) error {
	res := s.state.Last()
	i := slices.IndexFunc(res.Items, func(p lazylist.Placement) bool { return !p.Sticky && !p.Extra })
	if i < 0 {
		return nil
	}
	s.key, s.from = res.Items[i].Key, res.Items[i].Index
	if err := s.reorder.Start(s.key); err != nil {
		return err
	}
	defer func() {
		_, s.to = s.reorder.End()
		s.loop.Request()
	}()

	spacing := s.state.Options().Spacing
	t := time.NewTicker(frame)
	defer t.Stop()
	for range slots {
		res := s.state.Last()
		next := s.reorder.Index() + 1
		if next >= res.Count {
			return nil
		}
		p, ok := res.Find(s.state.Content().KeyAt(next))
		if !ok {
			return nil
		}
		if _, err := s.reorder.Drag(res.Orientation.Main(p.Size) + spacing); err != nil {
			return err
		}
		s.loop.Request()
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
	return nil
}

func printStats(w io.Writer, m *metrics.Metrics) {
	snapshot := m.GetSnapshot()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%-24s %v\n", k, snapshot[k])
	}
}
