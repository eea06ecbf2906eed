package controller

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/quartercastle/vector"
	"github.com/stretchr/testify/assert"
	"github.com/suxatcode/mindtree/geometry"
	"github.com/suxatcode/mindtree/layout"
	"github.com/suxatcode/mindtree/tree"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testConfig = func() layout.Config {
	conf := layout.DefaultConfig
	conf.Parallelization = 2
	return conf
}()

// never converges on its own
var endlessConfig = func() layout.Config {
	conf := testConfig
	conf.AlphaDecay = 1e-12
	conf.MaxIterations = 1 << 30
	return conf
}()

func rootWithLeaves(t *testing.T, leaves int) *tree.Tree {
	tr := tree.New(tree.Geometry{X: 0, Y: 0, R: 30}, tree.DefaultStyle)
	for i := 0; i < leaves; i++ {
		pos, err := layout.SeedChild(tr, tr.Root, 20, testConfig.EdgeLength)
		assert.NoError(t, err)
		_, err = tr.AddChild(tr.Root, tree.Geometry{X: pos.X(), Y: pos.Y(), R: 20})
		assert.NoError(t, err)
	}
	return tr
}

func assertLeavesAt(t *testing.T, tr *tree.Tree, dist float64) {
	for _, n := range tr.Children(tr.Root) {
		assert.InDelta(t, dist, geometry.DistanceP(vector.Vector{0, 0}, n.Pos), 1e-6, "node %d", n.ID)
	}
}

func TestFuture(t *testing.T) {
	assert := assert.New(t)
	f := NewResolvedFuture(layout.Stats{Iterations: 7}, nil)
	select {
	case <-f.Done():
	default:
		t.Fatal("resolved future is not done")
	}
	stats, err := f.Wait(context.Background())
	assert.NoError(err)
	assert.Equal(7, stats.Iterations)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = newFuture().Wait(ctx)
	assert.ErrorIs(err, context.Canceled)
}

func TestForceSimulationLayouter_Rearrange(t *testing.T) {
	assert := assert.New(t)
	mu := sync.Mutex{}
	frames := []layout.Frame{}
	tr := rootWithLeaves(t, 6)
	l := NewForceSimulationLayouter(testConfig, func(id uuid.UUID, f layout.Frame) {
		assert.Equal(tr.ID, id)
		mu.Lock()
		frames = append(frames, f)
		mu.Unlock()
	})
	defer l.Close()

	stats, err := l.Rearrange(context.Background(), tr).Wait(context.Background())
	assert.NoError(err)
	assert.Greater(stats.Iterations, 0)
	assert.Equal(1, stats.Clusters)
	assert.False(l.Running(tr.ID))
	assertLeavesAt(t, tr, 90)

	mu.Lock()
	defer mu.Unlock()
	if assert.GreaterOrEqual(len(frames), 2) {
		assert.Equal(layout.StateConverged, frames[len(frames)-1].State)
		assert.Len(frames[len(frames)-1].Positions, 7)
	}
}

func TestForceSimulationLayouter_supersede(t *testing.T) {
	assert := assert.New(t)
	tr := rootWithLeaves(t, 6)
	started, release := make(chan struct{}), make(chan struct{})
	block := sync.Once{}
	l := NewForceSimulationLayouter(testConfig, func(uuid.UUID, layout.Frame) {
		block.Do(func() {
			close(started)
			<-release
		})
	})
	defer l.Close()

	first := l.Rearrange(context.Background(), tr)
	<-started
	second := l.Rearrange(context.Background(), tr)
	close(release)

	_, err := first.Wait(context.Background())
	assert.ErrorIs(err, ErrSuperseded)
	stats, err := second.Wait(context.Background())
	assert.NoError(err)
	assert.Greater(stats.Iterations, 0)
	assert.False(l.Running(tr.ID))
	assertLeavesAt(t, tr, 90)
}

func TestForceSimulationLayouter_independentTrees(t *testing.T) {
	assert := assert.New(t)
	l := NewForceSimulationLayouter(testConfig, nil)
	defer l.Close()
	a, b := rootWithLeaves(t, 3), rootWithLeaves(t, 6)
	fa, fb := l.Rearrange(context.Background(), a), l.Rearrange(context.Background(), b)
	_, err := fa.Wait(context.Background())
	assert.NoError(err)
	_, err = fb.Wait(context.Background())
	assert.NoError(err)
	assertLeavesAt(t, b, 90)
}

func TestForceSimulationLayouter_Close(t *testing.T) {
	assert := assert.New(t)
	tr := rootWithLeaves(t, 2)
	before := tr.Nodes()
	l := NewForceSimulationLayouter(endlessConfig, nil)
	future := l.Rearrange(context.Background(), tr)
	assert.True(l.Running(tr.ID))
	l.Close()

	_, err := future.Wait(context.Background())
	assert.ErrorIs(err, context.Canceled)
	assert.Equal(before, tr.Nodes())
}
