// Package visualization lays out an accumulated graph and renders it as SVG.
package visualization

import (
	"math"
	"math/rand/v2"

	"github.com/OFFIS-RIT/newsgraph/pkg/graph"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations
	Padding    float64 // Padding from edges
	Seed       uint64  // Seed for initial positions
}

// DefaultLayoutConfig matches a 12x8 inch figure at 100 dpi.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Width:      1200,
		Height:     800,
		Iterations: 100,
		Padding:    80,
		Seed:       42,
	}
}

// ForceDirectedLayout implements force-directed graph layout
type ForceDirectedLayout struct {
	config LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config LayoutConfig) *ForceDirectedLayout {
	def := DefaultLayoutConfig()
	if config.Width <= 0 {
		config.Width = def.Width
	}
	if config.Height <= 0 {
		config.Height = def.Height
	}
	if config.Iterations == 0 {
		config.Iterations = def.Iterations
	}
	if config.Padding == 0 {
		config.Padding = def.Padding
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout positions every node of g, keyed by entity name. The result
// is deterministic for a given seed and graph.
func (fdl *ForceDirectedLayout) ComputeLayout(g graph.Snapshot) map[string]Position {
	cfg := fdl.config
	names := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		names[i] = n.Name
	}

	if len(names) == 0 {
		return make(map[string]Position)
	}
	if len(names) == 1 {
		return map[string]Position{
			names[0]: {X: cfg.Width / 2, Y: cfg.Height / 2},
		}
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(len(names))))
	positions := make(map[string]Position, len(names))
	for _, name := range names {
		positions[name] = Position{
			X: rng.Float64()*(cfg.Width-2*cfg.Padding) + cfg.Padding,
			Y: rng.Float64()*(cfg.Height-2*cfg.Padding) + cfg.Padding,
		}
	}

	// Neighbour lists are slices so the summation order, and with it the
	// layout, is stable between runs.
	neighbours := make(map[string][]string, len(names))
	linked := make(map[[2]string]bool)
	for _, e := range g.Edges {
		if e.A == e.B || linked[[2]string{e.A, e.B}] {
			continue
		}
		if _, ok := positions[e.A]; !ok {
			continue
		}
		if _, ok := positions[e.B]; !ok {
			continue
		}
		linked[[2]string{e.A, e.B}] = true
		linked[[2]string{e.B, e.A}] = true
		neighbours[e.A] = append(neighbours[e.A], e.B)
		neighbours[e.B] = append(neighbours[e.B], e.A)
	}

	// Optimal distance
	k := math.Sqrt((cfg.Width * cfg.Height) / float64(len(names)))
	temperature := cfg.Width / 10.0

	for iter := 0; iter < cfg.Iterations; iter++ {
		forces := make(map[string]Position, len(names))

		// Repulsion between all nodes
		for i, n1 := range names {
			for j := i + 1; j < len(names); j++ {
				n2 := names[j]
				dx := positions[n1].X - positions[n2].X
				dy := positions[n1].Y - positions[n2].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[n1] = Position{X: forces[n1].X + fx, Y: forces[n1].Y + fy}
				forces[n2] = Position{X: forces[n2].X - fx, Y: forces[n2].Y - fy}
			}
		}

		// Attraction between connected nodes
		for _, n1 := range names {
			for _, n2 := range neighbours[n1] {
				dx := positions[n1].X - positions[n2].X
				dy := positions[n1].Y - positions[n2].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				forces[n1] = Position{
					X: forces[n1].X - (dx/dist)*force,
					Y: forces[n1].Y - (dy/dist)*force,
				}
			}
		}

		cool := 1.0 - float64(iter)/float64(cfg.Iterations)
		for _, name := range names {
			fx, fy := forces[name].X, forces[name].Y
			force := math.Sqrt(fx*fx + fy*fy)
			if force == 0 {
				continue
			}
			step := math.Min(force, temperature) * cool
			positions[name] = Position{
				X: positions[name].X + (fx/force)*step,
				Y: positions[name].Y + (fy/force)*step,
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(positions, cfg.Width, cfg.Height, cfg.Padding)
}

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[string]Position, width, height, padding float64) map[string]Position {
	if len(positions) == 0 {
		return positions
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make(map[string]Position, len(positions))
	for name, pos := range positions {
		normalized[name] = Position{
			X: padding + ((pos.X-minX)/rangeX)*targetWidth,
			Y: padding + ((pos.Y-minY)/rangeY)*targetHeight,
		}
	}
	return normalized
}
