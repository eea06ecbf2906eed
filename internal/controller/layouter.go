package controller

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/suxatcode/mindtree/layout"
	"github.com/suxatcode/mindtree/tree"
	"golang.org/x/time/rate"
)

// ErrSuperseded resolves a re-arrangement that was cancelled by a newer
// request for the same tree. Its positions were never committed.
var ErrSuperseded = errors.New("re-arrangement superseded by a newer request")

// Layouter re-arranges trees in the background.
//
//go:generate mockgen -destination layout_mock.go -package controller . Layouter
type Layouter interface {
	// Rearrange snapshots the visible part of the tree and starts a force
	// simulation on it. The returned future resolves once the positions have
	// been committed to the tree, or with the reason they were not.
	Rearrange(context.Context, *tree.Tree) *Future
}

// Future is the pending result of a Rearrange call.
type Future struct {
	done  chan struct{}
	stats layout.Stats
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// NewResolvedFuture returns a future that is already done.
func NewResolvedFuture(stats layout.Stats, err error) *Future {
	f := newFuture()
	f.resolve(stats, err)
	return f
}

func (f *Future) resolve(stats layout.Stats, err error) {
	f.stats, f.err = stats, err
	close(f.done)
}

// Done is closed once the re-arrangement finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the re-arrangement finished or ctx is done.
func (f *Future) Wait(ctx context.Context) (layout.Stats, error) {
	select {
	case <-f.done:
		return f.stats, f.err
	case <-ctx.Done():
		return layout.Stats{}, ctx.Err()
	}
}

// FrameFunc receives intermediate positions of a running re-arrangement.
type FrameFunc func(uuid.UUID, layout.Frame)

// NewLayouter returns an implementation of the Layouter interface.
func NewLayouter(conf layout.Config, onFrame FrameFunc) Layouter {
	return NewForceSimulationLayouter(conf, onFrame)
}

type run struct {
	generation uint64
	cancel     context.CancelFunc
}

// implements Layouter
// Idea:
//   - at most one simulation per tree id is running,
//   - a new request cancels the running one and restarts from the current
//     shape of the tree,
//   - committing and cancelling hold the same lock, so a cancelled run can
//     never write its positions.
type ForceSimulationLayouter struct {
	conf       layout.Config
	onFrame    FrameFunc
	mu         sync.Mutex
	runs       map[uuid.UUID]*run
	generation uint64
	wg         sync.WaitGroup
}

func NewForceSimulationLayouter(conf layout.Config, onFrame FrameFunc) *ForceSimulationLayouter {
	return &ForceSimulationLayouter{
		conf:    layout.ApplyConfig(conf),
		onFrame: onFrame,
		runs:    make(map[uuid.UUID]*run),
	}
}

func (l *ForceSimulationLayouter) Rearrange(ctx context.Context, t *tree.Tree) *Future {
	future := newFuture()
	id := t.ID
	l.mu.Lock()
	if prev, exists := l.runs[id]; exists {
		prev.cancel()
	}
	l.generation++
	// the run outlives the request that triggered it
	runCtx, cancel := context.WithCancel(context.WithoutCancel(CtxNewWithTree(ctx, id)))
	r := &run{generation: l.generation, cancel: cancel}
	l.runs[id] = r
	sim := layout.NewSimulation(l.conf, t)
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		defer cancel()
		frames := rate.Sometimes{First: 1, Interval: l.conf.FrameInterval}
		stats, err := sim.RunWithObserver(runCtx, func(s *layout.Simulation) {
			if l.onFrame != nil {
				frames.Do(func() { l.onFrame(id, s.Frame()) })
			}
		})
		l.mu.Lock()
		current := l.runs[id] == r
		if current {
			delete(l.runs, id)
		}
		switch {
		case !current:
			err = ErrSuperseded
		case err == nil:
			err = sim.Commit(t)
		}
		l.mu.Unlock()
		if err != nil {
			log.Ctx(runCtx).Debug().Msgf("re-arrangement %d of tree '%s' not committed: %v", r.generation, id, err)
			future.resolve(stats, err)
			return
		}
		log.Ctx(runCtx).Info().Msgf(
			"graph layout: {iterations: %d, time: %d ms}",
			stats.Iterations,
			stats.TotalTime.Milliseconds(),
		)
		if stats.Fallback {
			log.Ctx(runCtx).Warn().Msgf(
				"graph layout: simulation left %d overlaps and %d stretched links, kept the arranged positions",
				stats.Overlaps,
				stats.StretchedLinks,
			)
		}
		if l.onFrame != nil {
			l.onFrame(id, sim.Frame())
		}
		future.resolve(stats, nil)
	}()
	return future
}

// Running reports whether a re-arrangement of the tree is in flight.
func (l *ForceSimulationLayouter) Running(id uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, exists := l.runs[id]
	return exists
}

// Close cancels all runs and waits for their goroutines to exit.
func (l *ForceSimulationLayouter) Close() {
	l.mu.Lock()
	for _, r := range l.runs {
		r.cancel()
	}
	l.mu.Unlock()
	l.wg.Wait()
}
