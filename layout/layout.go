package layout

import (
	"runtime"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/pkg/errors"
)

// Config holds the tunables of the layout engine. Zero values are replaced
// by the corresponding DefaultConfig value, see ApplyConfig.
type Config struct {
	// RootRadius and PlainRadius are the radii assigned to new nodes.
	RootRadius  float64 `env:"LAYOUT_ROOT_RADIUS" envDefault:"30"`
	PlainRadius float64 `env:"LAYOUT_PLAIN_RADIUS" envDefault:"20"`
	// EdgeLength is the gap between two linked circle outlines.
	EdgeLength float64 `env:"LAYOUT_EDGE_LENGTH" envDefault:"40"`
	// MinClearance is the minimal gap between any two visible circles.
	MinClearance float64 `env:"LAYOUT_MIN_CLEARANCE" envDefault:"12"`

	// initial temperature of simulation
	AlphaInit float64 `env:"LAYOUT_ALPHA_INIT" envDefault:"1"`
	// the simulation converges once alpha drops below AlphaMin
	AlphaMin float64 `env:"LAYOUT_ALPHA_MIN" envDefault:"0.001"`
	// decay of temperature per tick: alpha *= 1 - AlphaDecay
	AlphaDecay float64 `env:"LAYOUT_ALPHA_DECAY" envDefault:"0.0228"`
	// VelocityDecay is the friction applied to every particle per tick.
	VelocityDecay float64 `env:"LAYOUT_VELOCITY_DECAY" envDefault:"0.4"`

	// ChargeStrength is the repulsion of a depth 0 particle, every level
	// below is weakened by ChargeDepthDecay.
	ChargeStrength   float64 `env:"LAYOUT_CHARGE_STRENGTH" envDefault:"60"`
	ChargeDepthDecay float64 `env:"LAYOUT_CHARGE_DEPTH_DECAY" envDefault:"0.6"`
	// CollisionStrength in (0,1] is the share of an overlap resolved per tick.
	CollisionStrength float64 `env:"LAYOUT_COLLISION_STRENGTH" envDefault:"0.7"`

	// A node with more than ClusterMinLeaves visible leaf children is turned
	// into a rigid cluster particle.
	ClusterMinLeaves int `env:"LAYOUT_CLUSTER_MIN_LEAVES" envDefault:"2"`

	// BarnesHutTheta defines the accuracy of the quadtree approximation, see
	// https://en.wikipedia.org/wiki/Barnes%E2%80%93Hut_simulation#Calculating_the_force_acting_on_a_body
	BarnesHutTheta float64 `env:"LAYOUT_BARNES_HUT_THETA" envDefault:"0.75"`
	// Below BarnesHutThreshold particles the charge force is computed exactly.
	BarnesHutThreshold int `env:"LAYOUT_BARNES_HUT_THRESHOLD" envDefault:"64"`
	// Parallelization is the number of goroutines computing the charge force.
	Parallelization int `env:"LAYOUT_PARALLELIZATION"`

	// MaxIterations caps the number of ticks of a single run.
	MaxIterations int `env:"LAYOUT_MAX_ITERATIONS" envDefault:"1000"`
	// SettleIterations caps the passes of the final overlap projection.
	SettleIterations int `env:"LAYOUT_SETTLE_ITERATIONS" envDefault:"200"`
	// LinkTolerance is the relative deviation from its target a link may
	// have after convergence.
	LinkTolerance float64 `env:"LAYOUT_LINK_TOLERANCE" envDefault:"0.05"`
	// FrameInterval is the minimal time between two frames handed to a
	// renderer.
	FrameInterval time.Duration `env:"LAYOUT_FRAME_INTERVAL" envDefault:"16ms"`
}

var DefaultConfig = Config{
	RootRadius:         30,
	PlainRadius:        20,
	EdgeLength:         40,
	MinClearance:       12,
	AlphaInit:          1.0,
	AlphaMin:           0.001,
	AlphaDecay:         0.0228,
	VelocityDecay:      0.4,
	ChargeStrength:     60,
	ChargeDepthDecay:   0.6,
	CollisionStrength:  0.7,
	ClusterMinLeaves:   2,
	BarnesHutTheta:     0.75,
	BarnesHutThreshold: 64,
	Parallelization:    runtime.NumCPU(),
	MaxIterations:      1000,
	SettleIterations:   200,
	LinkTolerance:      0.05,
	FrameInterval:      16 * time.Millisecond,
}

// GetEnvConfig reads the LAYOUT_* environment variables.
func GetEnvConfig() (Config, error) {
	conf := Config{}
	if err := env.Parse(&conf); err != nil {
		return DefaultConfig, errors.Wrap(err, "layout config")
	}
	return ApplyConfig(conf), nil
}

// ApplyConfig returns conf with every zero value replaced by its default.
func ApplyConfig(conf Config) Config {
	if conf.RootRadius == 0.0 {
		conf.RootRadius = DefaultConfig.RootRadius
	}
	if conf.PlainRadius == 0.0 {
		conf.PlainRadius = DefaultConfig.PlainRadius
	}
	if conf.EdgeLength == 0.0 {
		conf.EdgeLength = DefaultConfig.EdgeLength
	}
	if conf.MinClearance == 0.0 {
		conf.MinClearance = DefaultConfig.MinClearance
	}
	if conf.AlphaInit == 0.0 {
		conf.AlphaInit = DefaultConfig.AlphaInit
	}
	if conf.AlphaMin == 0.0 {
		conf.AlphaMin = DefaultConfig.AlphaMin
	}
	if conf.AlphaDecay == 0.0 {
		conf.AlphaDecay = DefaultConfig.AlphaDecay
	}
	if conf.VelocityDecay == 0.0 {
		conf.VelocityDecay = DefaultConfig.VelocityDecay
	}
	if conf.ChargeStrength == 0.0 {
		conf.ChargeStrength = DefaultConfig.ChargeStrength
	}
	if conf.ChargeDepthDecay == 0.0 {
		conf.ChargeDepthDecay = DefaultConfig.ChargeDepthDecay
	}
	if conf.CollisionStrength == 0.0 {
		conf.CollisionStrength = DefaultConfig.CollisionStrength
	}
	if conf.ClusterMinLeaves == 0 {
		conf.ClusterMinLeaves = DefaultConfig.ClusterMinLeaves
	}
	if conf.BarnesHutTheta == 0.0 {
		conf.BarnesHutTheta = DefaultConfig.BarnesHutTheta
	}
	if conf.BarnesHutThreshold == 0 {
		conf.BarnesHutThreshold = DefaultConfig.BarnesHutThreshold
	}
	if conf.Parallelization == 0 {
		conf.Parallelization = DefaultConfig.Parallelization
	}
	if conf.MaxIterations == 0 {
		conf.MaxIterations = DefaultConfig.MaxIterations
	}
	if conf.SettleIterations == 0 {
		conf.SettleIterations = DefaultConfig.SettleIterations
	}
	if conf.LinkTolerance == 0.0 {
		conf.LinkTolerance = DefaultConfig.LinkTolerance
	}
	if conf.FrameInterval == 0 {
		conf.FrameInterval = DefaultConfig.FrameInterval
	}
	return conf
}

// RootPlainDistance is the center distance of the root and a plain child.
func (conf Config) RootPlainDistance() float64 {
	return conf.RootRadius + conf.EdgeLength + conf.PlainRadius
}

// PlainDistance is the center distance of two linked plain nodes.
func (conf Config) PlainDistance() float64 {
	return 2*conf.PlainRadius + conf.EdgeLength
}

type Stats struct {
	Iterations int
	TotalTime  time.Duration
	Particles  int
	Clusters   int
	// Overlaps and StretchedLinks count what the last converged run left
	// behind. Fallback is set if either is non-zero: the arranged positions
	// were kept instead.
	Overlaps       int
	StretchedLinks int
	Fallback       bool
}

type State int

const (
	StateIdle State = iota
	StateRunning
	StateConverged
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	}
	return "unknown"
}
