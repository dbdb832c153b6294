package retina

import (
	"fmt"
	"strings"
)

// Genome is the genotype of one retina. Layer storage is allocated at
// MaxTypes capacity once; only the first NTypes entries are meaningful.
type Genome struct {
	Key    int         // Unique identifier for this genome.
	Decay  float64     // Spatial decay of connection strength, in [0, Width].
	NTypes int         // Number of layers in use, in [2, MaxTypes].
	Layers []LayerGene // Layer 0 is the receptor, layer NTypes-1 the ganglion.
	Cost   float64     // Fitness, lower is better. Recomputed every generation.
}

// NewGenome creates an empty Genome with layer storage sized for config.
func NewGenome(key int, config *RetinaConfig) *Genome {
	return &Genome{
		Key:    key,
		Layers: make([]LayerGene, config.MaxTypes),
	}
}

// ConfigureNew randomises the genome: decay uniform over the width, a
// uniform layer count, random codes and polarities, and between 1 and
// MaxCells-1 cells per layer. The receptor width is pinned to MaxCells.
func (g *Genome) ConfigureNew(s *Stream, config *RetinaConfig) {
	g.Decay = s.Uniform(0, config.Width)
	g.NTypes = s.IntRange(2, config.MaxTypes+1)
	for k := range g.Layers {
		g.Layers[k] = LayerGene{}
	}
	for k := 0; k < g.NTypes; k++ {
		g.Layers[k] = NewLayerGene(s, config)
	}
	g.Layers[0].Cells = config.MaxCells
	g.Cost = 0
}

// Active returns the layers in use.
func (g *Genome) Active() []LayerGene {
	return g.Layers[:g.NTypes]
}

// Role returns the role played by layer k.
func (g *Genome) Role(k int) LayerRole {
	switch k {
	case 0:
		return ReceptorLayer
	case g.NTypes - 1:
		return GanglionLayer
	default:
		return InterneuronLayer
	}
}

// Copy creates a deep copy of the Genome.
func (g *Genome) Copy() *Genome {
	c := *g
	c.Layers = make([]LayerGene, len(g.Layers))
	copy(c.Layers, g.Layers)
	return &c
}

// Affinity is the bit-similarity between the axon code of layer j and the
// dendrite code of layer i. It is not symmetric in i and j.
func (g *Genome) Affinity(i, j int) float64 {
	return codeAffinity(g.Layers[j].Axon, g.Layers[i].Dendrite)
}

// Validate checks the genotype invariants against config.
func (g *Genome) Validate(config *RetinaConfig) error {
	if g.NTypes < 2 || g.NTypes > config.MaxTypes {
		return fmt.Errorf("genome %d: n_types %d outside [2, %d]", g.Key, g.NTypes, config.MaxTypes)
	}
	if len(g.Layers) < g.NTypes {
		return fmt.Errorf("genome %d: %d layers stored for n_types %d", g.Key, len(g.Layers), g.NTypes)
	}
	if g.Decay < 0 || g.Decay > config.Width {
		return fmt.Errorf("genome %d: decay %g outside [0, %g]", g.Key, g.Decay, config.Width)
	}
	if g.Layers[0].Cells != config.MaxCells {
		return fmt.Errorf("genome %d: receptor has %d cells, want %d", g.Key, g.Layers[0].Cells, config.MaxCells)
	}
	for k, layer := range g.Active() {
		if layer.Polarity < -1 || layer.Polarity > 1 {
			return fmt.Errorf("genome %d: layer %d polarity %g outside [-1, 1]", g.Key, k, layer.Polarity)
		}
		if layer.Cells < 0 || layer.Cells > config.MaxCells {
			return fmt.Errorf("genome %d: layer %d has %d cells, outside [0, %d]", g.Key, k, layer.Cells, config.MaxCells)
		}
	}
	return nil
}

// String returns a multi-line description of the genome.
func (g *Genome) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Genome(Key: %d, Cost: %.6f, Decay: %.4f, Types: %d)", g.Key, g.Cost, g.Decay, g.NTypes)
	for k, layer := range g.Active() {
		fmt.Fprintf(&b, "\n  %d %-11s %s", k, g.Role(k), layer)
	}
	return b.String()
}
