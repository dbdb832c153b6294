package retina

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomGenomes(t *testing.T, c *Config, n int, seed int64) []*Genome {
	t.Helper()
	s := NewStream(seed)
	out := make([]*Genome, n)
	for i := range out {
		out[i] = NewGenome(i+1, &c.Retina)
		out[i].ConfigureNew(s, &c.Retina)
		out[i].Cost = float64(i)
	}
	return out
}

func TestTournament(t *testing.T) {
	c := smallConfig(t)
	genomes := randomGenomes(t, c, 3, 1)
	r := NewReproduction(c)
	s := NewStream(1)

	c.Evolution.TournamentProb = 1
	assert.Equal(t, 0, r.tournament(s, genomes, 0, 2))
	assert.Equal(t, 0, r.tournament(s, genomes, 2, 0))

	c.Evolution.TournamentProb = 0
	assert.Equal(t, 2, r.tournament(s, genomes, 0, 2))

	genomes[1].Cost = genomes[0].Cost
	c.Evolution.TournamentProb = 1
	assert.Equal(t, 1, r.tournament(s, genomes, 0, 1), "ties go to the second rival")
}

func TestSelectNeverPairsParentWithItself(t *testing.T) {
	c := smallConfig(t)
	c.Evolution.NumIndividuals = 2
	c.Evolution.NumElites = 0
	genomes := randomGenomes(t, c, 2, 1)
	r := NewReproduction(c)
	s := NewStream(3)

	for round := 0; round < 50; round++ {
		r.Select(s, genomes)
		for i := range r.P1 {
			assert.NotEqual(t, r.P1[i], r.P2[i])
		}
	}

	c = smallConfig(t)
	genomes = randomGenomes(t, c, c.Evolution.NumIndividuals, 2)
	r = NewReproduction(c)
	require.Len(t, r.P1, c.Evolution.NumIndividuals-c.Evolution.NumElites)
	for round := 0; round < 50; round++ {
		r.Select(s, genomes)
		for i := range r.P1 {
			assert.NotEqual(t, r.P1[i], r.P2[i])
			assert.GreaterOrEqual(t, r.P1[i], 0)
			assert.Less(t, r.P2[i], len(genomes))
		}
	}
}

func TestCrossoverSourcesLayersFromParents(t *testing.T) {
	c := smallConfig(t)
	s := NewStream(4)
	r := NewReproduction(c)

	for round := 0; round < 50; round++ {
		parents := randomGenomes(t, c, 2, int64(round))
		children := make([]*Genome, len(r.P1))
		for i := range children {
			children[i] = NewGenome(100+i, &c.Retina)
			r.P1[i], r.P2[i] = 0, 1
		}
		r.Crossover(s, parents, children)

		for _, child := range children {
			var src *Genome
			for _, p := range parents {
				if p.Decay == child.Decay {
					src = p
				}
			}
			require.NotNil(t, src, "decay must come from a parent")
			assert.Equal(t, src.NTypes, child.NTypes)

			n := child.NTypes
			receptors := []LayerGene{parents[0].Layers[0], parents[1].Layers[0]}
			ganglia := []LayerGene{parents[0].Layers[parents[0].NTypes-1], parents[1].Layers[parents[1].NTypes-1]}
			assert.Contains(t, receptors, child.Layers[0])
			assert.Contains(t, ganglia, child.Layers[n-1])

			var pool []LayerGene
			pool = append(pool, parents[0].Active()...)
			pool = append(pool, parents[1].Active()...)
			for k := 1; k < n-1; k++ {
				assert.Contains(t, pool, child.Layers[k])
			}
			for k := n; k < len(child.Layers); k++ {
				assert.Equal(t, LayerGene{}, child.Layers[k])
			}
			assert.Equal(t, c.Retina.MaxCells, child.Layers[0].Cells)
		}
	}
}

func TestMutateKeepsGenomeInRange(t *testing.T) {
	c := smallConfig(t)
	c.Mutation.CellGrowProb = 0.4
	c.Mutation.CellShrinkProb = 0.4
	c.Mutation.PolaritySigma = 0.5
	c.Mutation.DecaySigmaFraction = 0.5
	r := NewReproduction(c)
	s := NewStream(8)

	for _, g := range randomGenomes(t, c, 5, 9) {
		receptor := g.Layers[0]
		ganglion := g.Layers[g.NTypes-1]
		for i := 0; i < 500; i++ {
			r.Mutate(s, g)
			require.NoError(t, g.Validate(&c.Retina))
		}
		assert.Equal(t, receptor.Cells, g.Layers[0].Cells)
		assert.Equal(t, receptor.Polarity, g.Layers[0].Polarity)
		assert.Equal(t, ganglion.Cells, g.Layers[g.NTypes-1].Cells)
		assert.Equal(t, ganglion.Polarity, g.Layers[g.NTypes-1].Polarity)
	}
}

func TestMutateFlipsCodes(t *testing.T) {
	c := smallConfig(t)
	c.Mutation.BitFlips = 1
	r := NewReproduction(c)
	g := randomGenomes(t, c, 1, 1)[0]
	before := g.Copy()

	r.Mutate(NewStream(1), g)
	for k := 0; k < g.NTypes; k++ {
		assert.NotEqual(t, before.Layers[k].Axon, g.Layers[k].Axon)
		assert.NotEqual(t, before.Layers[k].Dendrite, g.Layers[k].Dendrite)
	}
}

func TestReproduceKeepsElites(t *testing.T) {
	c := smallConfig(t)
	r := NewReproduction(c)
	ranked := randomGenomes(t, c, c.Evolution.NumIndividuals, 6)

	elites := make([]*Genome, c.Evolution.NumElites)
	for i := range elites {
		elites[i] = ranked[i].Copy()
	}

	r.Reproduce(NewStream(2), ranked)
	for i, e := range elites {
		assert.Equal(t, e, ranked[i])
	}
	for _, g := range ranked[c.Evolution.NumElites:] {
		assert.NoError(t, g.Validate(&c.Retina))
	}
}

func TestReproduceAllElites(t *testing.T) {
	c := smallConfig(t)
	c.Evolution.NumElites = c.Evolution.NumIndividuals
	r := NewReproduction(c)
	ranked := randomGenomes(t, c, c.Evolution.NumIndividuals, 6)
	before := make([]*Genome, len(ranked))
	for i, g := range ranked {
		before[i] = g.Copy()
	}

	r.Reproduce(NewStream(2), ranked)
	assert.Equal(t, before, ranked)
}
