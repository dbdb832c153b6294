package retina

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// smallConfig is a fast configuration for tests: ten receptor cells, up to four layers.
func smallConfig(t *testing.T) *Config {
	t.Helper()
	c := DefaultConfig()
	c.Evolution.MaxIterations = 2
	c.Evolution.NumIndividuals = 6
	c.Evolution.NumElites = 2
	c.Evolution.Seed = 42
	c.Evolution.Workers = 2
	c.Retina.Width = 20
	c.Retina.MaxTypes = 4
	c.Retina.MaxCells = 10
	c.Retina.SimTime = 3
	require.NoError(t, c.Validate())
	return c
}

// smallDataset builds n training and n test stimuli of the configured width with alternating labels.
func smallDataset(t *testing.T, c *Config, n int) *Dataset {
	t.Helper()
	s := NewStream(99)
	width := c.Retina.MaxCells
	gen := func() ([]float64, []int) {
		values := make([]float64, n*width)
		labels := make([]int, n)
		for i := range labels {
			labels[i] = i % 2
			for k := 0; k < width; k++ {
				values[i*width+k] = s.Uniform(0, 1) * float64(labels[i]+1)
			}
		}
		return values, labels
	}
	train, trainLabels := gen()
	test, testLabels := gen()
	d, err := NewDataset(width, train, trainLabels, test, testLabels)
	require.NoError(t, err)
	return d
}

// fixedGenome builds a genome by hand from per-layer cells and polarities.
func fixedGenome(c *RetinaConfig, decay float64, cells []int, polarities []float64) *Genome {
	g := NewGenome(1, c)
	g.Decay = decay
	g.NTypes = len(cells)
	for k := range cells {
		g.Layers[k] = LayerGene{
			Axon:     uint32(0x0f0f0f0f) << uint(k),
			Dendrite: uint32(0x00ff00ff) >> uint(k),
			Polarity: polarities[k],
			Cells:    cells[k],
		}
	}
	return g
}
