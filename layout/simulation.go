// adapted from https://github.com/jwhandley/graphyz/blob/main/g.go and
// https://github.com/d3/d3-force
package layout

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/quartercastle/vector"
	"github.com/suxatcode/mindtree/geometry"
	"github.com/suxatcode/mindtree/tree"
	"golang.org/x/sync/errgroup"
)

var ErrNotConverged = errors.New("simulation has not converged")

// errNaNForce stops a charge computation that met a non-finite position.
var errNaNForce = errors.New("non-finite charge force")

const (
	// settleEpsilon is added to every overlap resolved by Settle.
	settleEpsilon = 1e-6
	// clearanceTolerance is the overlap below which two circles still count
	// as separated.
	clearanceTolerance = 1e-7
	// golden is the golden angle π(3-√5).
	golden = 2.399963229728653
)

type particle struct {
	pos, vel vector.Vector
	radius   float64
	charge   float64
	depth    int
	// links attached to this particle
	degree  int
	members []member
}

type member struct {
	id     tree.NodeID
	offset vector.Vector
	r      float64
}

func (p *particle) strength() float64 {
	return p.charge
}

func (p *particle) position() vector.Vector {
	return p.pos
}

// link is a spring between two members, attached at particle + offset.
type link struct {
	source, target             int
	sourceOffset, targetOffset vector.Vector
	distance                   float64
	strength                   float64
	bias                       float64
	parent, child              tree.NodeID
}

type anchor struct {
	particle int
	offset   vector.Vector
}

// Simulation is a force simulation of the visible part of a tree. Links pull
// parent and child toward their target distance, all particles repel each
// other and overlapping circles are pushed apart. The root never moves.
//
// A Simulation is not safe for concurrent use.
type Simulation struct {
	conf      Config
	alpha     float64
	state     State
	particles []*particle
	links     []*link
	clusters  []*Cluster
	anchors   map[tree.NodeID]anchor
	root      tree.NodeID
	// rootParticle is pinned to rootAnchor
	rootParticle int
	rootAnchor   vector.Vector
	rootPos      vector.Vector
	iterations   int
	stats        Stats
	forces       []vector.Vector
	qt           *QuadTree
	// arranged holds the overlap free starting position of every particle
	arranged []vector.Vector
}

// NewSimulation snapshots the visible nodes of t and arranges them free of
// overlaps, see arrange. Leaf-heavy nodes are clustered and a link is
// created for every visible parent/child pair not inside a cluster. The
// arranged distance of a pair is the target of its link.
func NewSimulation(conf Config, t *tree.Tree) *Simulation {
	s := &Simulation{}
	s.ApplyConfig(conf)
	snap := newSnapshot(t)
	arrange(s.conf, snap)
	s.clusters = clusterize(s.conf, snap)
	s.root = snap.root
	s.rootPos = cloneVector(snap.nodes[snap.root].Pos)
	s.buildParticles(snap)
	s.buildLinks(snap)
	s.arranged = make([]vector.Vector, len(s.particles))
	for i, p := range s.particles {
		s.arranged[i] = cloneVector(p.pos)
	}
	s.forces = make([]vector.Vector, len(s.particles))
	for i := range s.forces {
		s.forces[i] = vector.Vector{0, 0}
	}
	s.qt = NewQuadTree(&QuadTreeConfig{
		CapacityOfEachBlock: QUADTREE_DEFAULT_CONFIG.CapacityOfEachBlock,
		MaxDepth:            QUADTREE_DEFAULT_CONFIG.MaxDepth,
	}, Rect{})
	s.stats.Particles = len(s.particles)
	s.stats.Clusters = len(s.clusters)
	return s
}

func (s *Simulation) ApplyConfig(conf Config) {
	s.conf = ApplyConfig(conf)
	s.alpha = s.conf.AlphaInit
}

func cloneVector(v vector.Vector) vector.Vector {
	return vector.Vector{v.X(), v.Y()}
}

func (s *Simulation) buildParticles(snap *snapshot) {
	owner := make(map[tree.NodeID]*Cluster, len(s.clusters))
	for _, c := range s.clusters {
		for _, id := range c.Members() {
			owner[id] = c
		}
	}
	s.anchors = make(map[tree.NodeID]anchor, len(snap.order))
	for _, id := range snap.order {
		n := snap.nodes[id]
		p := &particle{depth: n.Depth, vel: vector.Vector{0, 0}}
		if c, ok := owner[id]; ok {
			if c.Owner != id {
				continue
			}
			p.pos = cloneVector(c.Circle.Center)
			p.radius = c.Radius
			for _, m := range c.Members() {
				p.members = append(p.members, member{id: m, offset: c.Offsets[m], r: snap.nodes[m].R})
			}
		} else {
			p.pos = cloneVector(n.Pos)
			p.radius = n.R
			p.members = []member{{id: id, offset: vector.Vector{0, 0}, r: n.R}}
		}
		p.charge = s.conf.ChargeStrength * math.Pow(s.conf.ChargeDepthDecay, float64(n.Depth))
		i := len(s.particles)
		s.particles = append(s.particles, p)
		for _, m := range p.members {
			s.anchors[m.id] = anchor{particle: i, offset: m.offset}
			if m.id == snap.root {
				s.rootParticle = i
			}
		}
	}
	s.rootAnchor = cloneVector(s.particles[s.rootParticle].pos)
}

func (s *Simulation) buildLinks(snap *snapshot) {
	for _, id := range snap.order {
		if id == snap.root {
			continue
		}
		n := snap.nodes[id]
		src, dst := s.anchors[n.Parent], s.anchors[id]
		if src.particle == dst.particle {
			continue
		}
		s.links = append(s.links, &link{
			source:       src.particle,
			target:       dst.particle,
			sourceOffset: src.offset,
			targetOffset: dst.offset,
			distance:     geometry.DistanceP(snap.nodes[n.Parent].Pos, n.Pos),
			parent:       n.Parent,
			child:        id,
		})
		s.particles[src.particle].degree++
		s.particles[dst.particle].degree++
	}
	for _, l := range s.links {
		source, target := s.particles[l.source], s.particles[l.target]
		l.strength = 1 / float64(min(source.degree, target.degree))
		l.bias = float64(source.degree) / float64(source.degree+target.degree)
	}
}

func (s *Simulation) State() State {
	return s.state
}

func (s *Simulation) Alpha() float64 {
	return s.alpha
}

func (s *Simulation) Clusters() []*Cluster {
	return s.clusters
}

func (s *Simulation) Stats() Stats {
	return s.stats
}

// LinkTarget returns the target distance of the link between parent and
// child. Pairs inside a cluster report the fixed owner to leaf distance.
func (s *Simulation) LinkTarget(parent, child tree.NodeID) (float64, bool) {
	for _, l := range s.links {
		if l.parent == parent && l.child == child {
			return l.distance, true
		}
	}
	for _, c := range s.clusters {
		if c.Owner != parent {
			continue
		}
		for _, leaf := range c.Leaves {
			if leaf == child {
				return c.LinkLength, true
			}
		}
	}
	return 0, false
}

// Step advances the simulation by one tick. It returns false once the
// simulation has converged; the final tick also runs Settle and verify.
func (s *Simulation) Step() bool {
	if s.state == StateConverged {
		return false
	}
	s.state = StateRunning
	s.applyLinkForce()
	s.applyChargeForce()
	s.applyCollisionForce()
	s.updatePositions()
	s.pinRoot()
	s.alpha *= 1 - s.conf.AlphaDecay
	s.iterations++
	s.stats.Iterations++
	if s.alpha < s.conf.AlphaMin || s.iterations >= s.conf.MaxIterations {
		s.Settle()
		s.verify()
		s.state = StateConverged
		return false
	}
	return true
}

// Restart reheats the simulation, keeping the current positions.
func (s *Simulation) Restart() {
	s.alpha = s.conf.AlphaInit
	s.iterations = 0
	s.state = StateRunning
}

// Run steps the simulation until it converges or ctx is done.
func (s *Simulation) Run(ctx context.Context) (Stats, error) {
	return s.RunWithObserver(ctx, nil)
}

// RunWithObserver is Run, calling observe after every tick.
func (s *Simulation) RunWithObserver(ctx context.Context, observe func(*Simulation)) (Stats, error) {
	startTime := time.Now()
	var err error
simulation:
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break simulation
		default:
			// continue looping
		}
		running := s.Step()
		if observe != nil {
			observe(s)
		}
		if !running {
			break
		}
	}
	s.stats.TotalTime += time.Since(startTime)
	return s.stats, err
}

// Frame is a snapshot of all visible node positions.
type Frame struct {
	Iteration int
	Alpha     float64
	State     State
	Positions map[tree.NodeID]vector.Vector
}

func (s *Simulation) Frame() Frame {
	return Frame{
		Iteration: s.stats.Iterations,
		Alpha:     s.alpha,
		State:     s.state,
		Positions: s.Positions(),
	}
}

// Positions expands every particle into its member node positions.
func (s *Simulation) Positions() map[tree.NodeID]vector.Vector {
	positions := make(map[tree.NodeID]vector.Vector, len(s.anchors))
	for _, p := range s.particles {
		for _, m := range p.members {
			positions[m.id] = p.pos.Add(m.offset)
		}
	}
	positions[s.root] = cloneVector(s.rootPos)
	return positions
}

// Commit writes the converged positions of all visible nodes except the root
// to t. Nodes removed from t in the meantime are ignored.
func (s *Simulation) Commit(t *tree.Tree) error {
	if s.state != StateConverged {
		return errors.Wrapf(ErrNotConverged, "state %s", s.state)
	}
	positions := s.Positions()
	delete(positions, s.root)
	t.SetPositions(positions)
	return nil
}

func (s *Simulation) applyLinkForce() {
	for _, l := range s.links {
		source, target := s.particles[l.source], s.particles[l.target]
		dx := target.pos[0] + l.targetOffset[0] + target.vel[0] - source.pos[0] - l.sourceOffset[0] - source.vel[0]
		dy := target.pos[1] + l.targetOffset[1] + target.vel[1] - source.pos[1] - l.sourceOffset[1] - source.vel[1]
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			continue
		}
		k := (dist - l.distance) / dist * s.alpha * l.strength
		dx, dy = dx*k, dy*k
		target.vel[0] -= dx * l.bias
		target.vel[1] -= dy * l.bias
		source.vel[0] += dx * (1 - l.bias)
		source.vel[1] += dy * (1 - l.bias)
	}
}

func (s *Simulation) applyChargeForce() {
	n := len(s.particles)
	if n < 2 {
		return
	}
	compute := func(i int) {
		force := s.forces[i]
		force[0], force[1] = 0, 0
		p := s.particles[i]
		for j, other := range s.particles {
			if i != j {
				addCharge(force, p.pos, other.pos, other.charge, s.alpha)
			}
		}
	}
	if n >= s.conf.BarnesHutThreshold {
		s.qt.Reset(boundingSquare(s.particles))
		for _, p := range s.particles {
			s.qt.Insert(p)
		}
		s.qt.CalculateCharges()
		compute = func(i int) {
			force := s.forces[i]
			force[0], force[1] = 0, 0
			s.qt.CalculateForce(force, s.particles[i], s.conf.BarnesHutTheta, s.alpha)
		}
	}
	workers := max(1, min(s.conf.Parallelization, n))
	g := errgroup.Group{}
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		lo, hi := w*n/workers, (w+1)*n/workers
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				compute(i)
				if f := s.forces[i]; !finite(f[0]) || !finite(f[1]) {
					return errors.Wrapf(errNaNForce, "particle %d", i)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// the tick goes on without charge, a single non-finite force would
		// reach every particle through the links
		return
	}
	for i, p := range s.particles {
		vector.In(p.vel).Add(s.forces[i])
	}
}

// applyCollisionForce pushes apart the particles of every pair of member
// circles closer than MinClearance.
func (s *Simulation) applyCollisionForce() {
	strength := s.conf.CollisionStrength
	for i, a := range s.particles {
		for j := i + 1; j < len(s.particles); j++ {
			b := s.particles[j]
			dx := b.pos[0] + b.vel[0] - a.pos[0] - a.vel[0]
			dy := b.pos[1] + b.vel[1] - a.pos[1] - a.vel[1]
			if math.Hypot(dx, dy) >= a.radius+b.radius+s.conf.MinClearance {
				continue
			}
			share := b.radius * b.radius / (a.radius*a.radius + b.radius*b.radius)
			if i == s.rootParticle {
				share = 0
			} else if j == s.rootParticle {
				share = 1
			}
			for _, ma := range a.members {
				for _, mb := range b.members {
					mx := dx + mb.offset[0] - ma.offset[0]
					my := dy + mb.offset[1] - ma.offset[1]
					minDist := ma.r + mb.r + s.conf.MinClearance
					dist := math.Hypot(mx, my)
					if dist >= minDist || dist == 0 {
						continue
					}
					k := (minDist - dist) / dist * strength
					mx, my = mx*k, my*k
					a.vel[0] -= mx * share
					a.vel[1] -= my * share
					b.vel[0] += mx * (1 - share)
					b.vel[1] += my * (1 - share)
				}
			}
		}
	}
}

func (s *Simulation) updatePositions() {
	for _, p := range s.particles {
		vector.In(p.vel).Scale(1 - s.conf.VelocityDecay)
		if !finite(p.vel[0]) || !finite(p.vel[1]) {
			p.vel[0], p.vel[1] = 0, 0
		}
		vector.In(p.pos).Add(p.vel)
	}
}

// pinRoot moves the frame of reference back onto the root: the displacement
// and velocity of the root particle are subtracted from every particle.
func (s *Simulation) pinRoot() {
	root := s.particles[s.rootParticle]
	dx, dy := root.pos[0]-s.rootAnchor[0], root.pos[1]-s.rootAnchor[1]
	vx, vy := root.vel[0], root.vel[1]
	for _, p := range s.particles {
		p.pos[0] -= dx
		p.pos[1] -= dy
		p.vel[0] -= vx
		p.vel[1] -= vy
	}
	root.pos = cloneVector(s.rootAnchor)
	root.vel = vector.Vector{0, 0}
}

// Settle resolves every remaining overlap between member circles of
// different particles by moving the particles apart. The root particle
// never moves. Passes are repeated until no overlap is left or
// conf.SettleIterations is reached, whatever is left is counted by verify.
func (s *Simulation) Settle() {
	clearance := s.conf.MinClearance
	for pass := 0; pass < s.conf.SettleIterations; pass++ {
		moved := false
		for i, a := range s.particles {
			for j := i + 1; j < len(s.particles); j++ {
				b := s.particles[j]
				if math.Hypot(b.pos[0]-a.pos[0], b.pos[1]-a.pos[1]) >= a.radius+b.radius+clearance {
					continue
				}
				for _, ma := range a.members {
					for _, mb := range b.members {
						if s.separate(i, j, ma, mb, clearance) {
							moved = true
						}
					}
				}
			}
		}
		if !moved {
			return
		}
	}
}

// separate pushes the particles i and j apart, if their members ma and mb
// overlap.
func (s *Simulation) separate(i, j int, ma, mb member, clearance float64) bool {
	a, b := s.particles[i], s.particles[j]
	dx := b.pos[0] + mb.offset[0] - a.pos[0] - ma.offset[0]
	dy := b.pos[1] + mb.offset[1] - a.pos[1] - ma.offset[1]
	minDist := ma.r + mb.r + clearance
	dist := math.Hypot(dx, dy)
	if dist >= minDist {
		return false
	}
	push := minDist - dist + settleEpsilon
	if dist == 0 {
		a := float64(i+j) * golden
		dx, dy = math.Cos(a), math.Sin(a)
	} else {
		dx, dy = dx/dist, dy/dist
	}
	share := 0.5
	if i == s.rootParticle {
		share = 0
	} else if j == s.rootParticle {
		share = 1
	}
	a.pos[0] -= dx * push * share
	a.pos[1] -= dy * push * share
	b.pos[0] += dx * push * (1 - share)
	b.pos[1] += dy * push * (1 - share)
	return true
}

// verify counts the member circles closer than MinClearance and the links
// off their target by more than LinkTolerance. If there are any, every
// particle goes back to its arranged position, which has neither.
func (s *Simulation) verify() {
	type circle struct {
		pos vector.Vector
		r   float64
	}
	circles := []circle{}
	for _, p := range s.particles {
		for _, m := range p.members {
			circles = append(circles, circle{pos: p.pos.Add(m.offset), r: m.r})
		}
	}
	overlaps := 0
	for i, a := range circles {
		for _, b := range circles[i+1:] {
			if geometry.DistanceP(a.pos, b.pos) < a.r+b.r+s.conf.MinClearance-clearanceTolerance {
				overlaps++
			}
		}
	}
	stretched := 0
	for _, l := range s.links {
		source, target := s.particles[l.source], s.particles[l.target]
		dist := geometry.DistanceP(source.pos.Add(l.sourceOffset), target.pos.Add(l.targetOffset))
		if math.Abs(dist-l.distance) > s.conf.LinkTolerance*l.distance || math.IsNaN(dist) {
			stretched++
		}
	}
	s.stats.Overlaps, s.stats.StretchedLinks = overlaps, stretched
	s.stats.Fallback = overlaps > 0 || stretched > 0
	if !s.stats.Fallback {
		return
	}
	for i, p := range s.particles {
		p.pos = cloneVector(s.arranged[i])
		p.vel = vector.Vector{0, 0}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
