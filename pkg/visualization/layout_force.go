package visualization

import (
	"math"
	"math/rand"

	"github.com/dd0wney/conet/pkg/graph"
)

// ForceDirectedLayout implements a Fruchterman-Reingold layout. Starting
// positions come from LayoutConfig.Seed, so equal inputs give equal output.
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using force-directed algorithm
func (fdl *ForceDirectedLayout) ComputeLayout(nodes []graph.NodeKey, links []Link) map[graph.NodeKey]Position {
	cfg := fdl.config
	if len(nodes) == 0 {
		return make(map[graph.NodeKey]Position)
	}
	if len(nodes) == 1 {
		return map[graph.NodeKey]Position{nodes[0]: {X: cfg.Width / 2, Y: cfg.Height / 2}}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	pos := make([]Position, len(nodes))
	index := make(map[graph.NodeKey]int, len(nodes))
	for i, k := range nodes {
		index[k] = i
		pos[i] = Position{
			X: rng.Float64()*(cfg.Width-2*cfg.Padding) + cfg.Padding,
			Y: rng.Float64()*(cfg.Height-2*cfg.Padding) + cfg.Padding,
		}
	}

	type pair struct{ a, b int }
	var springs []pair
	for _, l := range links {
		a, okA := index[l.A]
		b, okB := index[l.B]
		if okA && okB && a != b {
			springs = append(springs, pair{a, b})
		}
	}

	k := math.Sqrt((cfg.Width * cfg.Height) / float64(len(nodes))) // optimal distance
	temperature := cfg.Width / 10.0
	forces := make([]Position, len(nodes))

	for iter := 0; iter < cfg.Iterations; iter++ {
		for i := range forces {
			forces[i] = Position{}
		}

		// repulsion between all pairs
		for i := range pos {
			for j := i + 1; j < len(pos); j++ {
				dx, dy, dist := delta(pos[i], pos[j])
				f := (k * k) / dist
				fx, fy := dx/dist*f, dy/dist*f
				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// attraction along links
		for _, s := range springs {
			dx, dy, dist := delta(pos[s.a], pos[s.b])
			f := (dist * dist) / k
			fx, fy := dx/dist*f, dy/dist*f
			forces[s.a].X -= fx
			forces[s.a].Y -= fy
			forces[s.b].X += fx
			forces[s.b].Y += fy
		}

		cool := 1.0 - float64(iter)/float64(cfg.Iterations)
		for i, f := range forces {
			mag := math.Sqrt(f.X*f.X + f.Y*f.Y)
			if mag == 0 {
				continue
			}
			step := math.Min(mag, temperature) * cool
			pos[i].X += f.X / mag * step
			pos[i].Y += f.Y / mag * step
		}
		temperature *= 0.95
	}

	positions := make(map[graph.NodeKey]Position, len(nodes))
	for i, key := range nodes {
		positions[key] = pos[i]
	}
	return normalizePositions(positions, cfg.Width, cfg.Height, cfg.Padding)
}

func delta(a, b Position) (dx, dy, dist float64) {
	dx = a.X - b.X
	dy = a.Y - b.Y
	dist = math.Sqrt(dx*dx + dy*dy)
	if dist < 0.01 {
		dist = 0.01
	}
	return dx, dy, dist
}
