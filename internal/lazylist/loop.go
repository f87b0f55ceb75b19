package lazylist

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/lazylist/internal/geom"
	"golang.org/x/sync/errgroup"
)

// Loop runs the passes of a [State] on one goroutine. Requests made while
// a pass is running coalesce into a single follow-up pass.
type Loop struct {
	state    *State
	requests chan struct{}
	onResult func(*Result, error)

	mu          sync.Mutex
	constraints geom.Constraints
	elapsed     time.Duration
}

// Loop returns a runner for s. onResult is called after every pass from
// the runner's goroutine.
func (s *State) Loop(c geom.Constraints, onResult func(*Result, error)) *Loop {
	return &Loop{
		state:       s,
		requests:    make(chan struct{}, 1),
		onResult:    onResult,
		constraints: c,
	}
}

// Request schedules a pass. It never blocks.
func (l *Loop) Request() {
	select {
	case l.requests <- struct{}{}:
	default:
	}
}

// ScrollBy queues delta and schedules a pass.
func (l *Loop) ScrollBy(delta float64) {
	l.state.ScrollBy(delta)
	l.Request()
}

// SetConstraints changes the container constraints and schedules a pass.
func (l *Loop) SetConstraints(c geom.Constraints) {
	l.mu.Lock()
	l.constraints = c
	l.mu.Unlock()
	l.Request()
}

func (l *Loop) take() (geom.Constraints, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	elapsed := l.elapsed
	l.elapsed = 0
	return l.constraints, elapsed
}

// Run processes requests until ctx is done. With a positive frame
// interval, running animations are ticked and laid out every frame.
func (l *Loop) Run(ctx context.Context, frame time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.requests:
				c, elapsed := l.take()
				res, err := l.state.Frame(elapsed, c)
				if l.onResult != nil {
					l.onResult(res, err)
				}
			}
		}
	})
	if frame > 0 {
		g.Go(func() error {
			t := time.NewTicker(frame)
			defer t.Stop()
			last := time.Now()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case now := <-t.C:
					l.mu.Lock()
					l.elapsed += now.Sub(last)
					l.mu.Unlock()
					last = now
					if l.state.Animating() {
						l.Request()
					}
				}
			}
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
