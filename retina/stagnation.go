package retina

import "math"

// GenerationStats summarises the ranked costs of one generation.
type GenerationStats struct {
	Generation   int
	Best         float64
	Mean         float64
	Median       float64
	Stdev        float64
	Worst        float64
	Invalid      int // individuals charged the divergence penalty
	LastImproved int // last generation whose best cost beat every earlier one
}

// StagnantFor is the number of generations since the best cost last improved.
func (gs GenerationStats) StagnantFor() int {
	return gs.Generation - gs.LastImproved
}

// Stagnation tracks the best cost over a run. It only reports; the driver
// always runs the configured number of generations.
type Stagnation struct {
	BestCost     float64
	LastImproved int
	History      []GenerationStats
}

// NewStagnation creates an empty tracker.
func NewStagnation() *Stagnation {
	return &Stagnation{BestCost: math.Inf(1)}
}

// Update records the ranked costs of generation and returns its summary.
func (s *Stagnation) Update(generation int, costs []float64, invalid int) GenerationStats {
	best := MinFloat(costs)
	if best < s.BestCost {
		s.BestCost = best
		s.LastImproved = generation
	}
	stats := GenerationStats{
		Generation:   generation,
		Best:         best,
		Mean:         Mean(costs),
		Median:       Median(costs),
		Stdev:        Stdev(costs),
		Worst:        MaxFloat(costs),
		Invalid:      invalid,
		LastImproved: s.LastImproved,
	}
	s.History = append(s.History, stats)
	return stats
}

// BestHistory returns the best cost of every recorded generation.
func (s *Stagnation) BestHistory() []float64 {
	out := make([]float64, len(s.History))
	for i, h := range s.History {
		out[i] = h.Best
	}
	return out
}
