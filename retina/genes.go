package retina

import (
	"fmt"
	"math/bits"
)

// LayerRole distinguishes the fixed ends of the layer chain from the interneurons between them.
type LayerRole int

const (
	ReceptorLayer LayerRole = iota
	InterneuronLayer
	GanglionLayer
)

// String returns the conventional name of the role.
func (r LayerRole) String() string {
	switch r {
	case ReceptorLayer:
		return "receptor"
	case GanglionLayer:
		return "ganglion"
	default:
		return "interneuron"
	}
}

// --------------------------- LayerGene ---------------------------

// LayerGene describes one layer (cell type) of the retina.
type LayerGene struct {
	Axon     uint32  // outgoing code, matched against other layers' dendrites
	Dendrite uint32  // incoming code
	Polarity float64 // sign and strength of outgoing connections, in [-1, 1]
	Cells    int     // number of cells, in [0, MaxCells]
}

// NewLayerGene creates a randomly initialised layer gene.
func NewLayerGene(s *Stream, config *RetinaConfig) LayerGene {
	return LayerGene{
		Axon:     s.Uint32(),
		Dendrite: s.Uint32(),
		Polarity: s.Uniform(-1, 1),
		Cells:    s.IntRange(1, max(config.MaxCells, 2)),
	}
}

// String returns a string representation of the LayerGene.
func (lg LayerGene) String() string {
	return fmt.Sprintf("LayerGene(Axon: %08x, Dendrite: %08x, Polarity: %.3f, Cells: %d)",
		lg.Axon, lg.Dendrite, lg.Polarity, lg.Cells)
}

// flipCodes toggles n randomly chosen bits, independently, in each of the axon and dendrite codes.
func (lg *LayerGene) flipCodes(s *Stream, n int) {
	for k := 0; k < n; k++ {
		lg.Axon ^= 1 << uint(s.Intn(32))
		lg.Dendrite ^= 1 << uint(s.Intn(32))
	}
}

// mutateInterneuron perturbs the polarity and random-walks the cell count.
// The grow and shrink events occupy disjoint probability bands of a single draw.
func (lg *LayerGene) mutateInterneuron(s *Stream, config *Config) {
	lg.Polarity = clamp(s.Gaussian(lg.Polarity, config.Mutation.PolaritySigma), -1, 1)

	u := s.Float64()
	switch {
	case u < config.Mutation.CellGrowProb:
		lg.Cells = clampInt(lg.Cells+1, 0, config.Retina.MaxCells)
	case u < config.Mutation.CellGrowProb+config.Mutation.CellShrinkProb:
		lg.Cells = clampInt(lg.Cells-1, 0, config.Retina.MaxCells)
	}
}

// codeAffinity is the fraction of the 32 bit positions where the axon and dendrite codes agree.
func codeAffinity(axon, dendrite uint32) float64 {
	return float64(32-bits.OnesCount32(axon^dendrite)) / 32
}
