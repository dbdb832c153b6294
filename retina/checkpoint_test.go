package retina

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointResumesIdentically(t *testing.T) {
	c := smallConfig(t)
	d := smallDataset(t, c, 3)
	path := filepath.Join(t.TempDir(), "population.gz")

	reference, refLog := quietPopulation(t, c, d)
	for i := 0; i < 2; i++ {
		_, err := reference.RunGeneration(context.Background())
		require.NoError(t, err)
	}

	p1, log1 := quietPopulation(t, c, d)
	_, err := p1.RunGeneration(context.Background())
	require.NoError(t, err)
	require.NoError(t, p1.SaveCheckpoint(path))

	p2, err := LoadCheckpointWithConfig(path, c, d)
	require.NoError(t, err)
	p2.Logger = p1.Logger
	var log2 bytes.Buffer
	p2.CostLog = &log2

	assert.Equal(t, p1.RunID, p2.RunID)
	assert.Equal(t, p1.Generation, p2.Generation)
	assert.Equal(t, p1.Genomes(), p2.Genomes())
	assert.Equal(t, p1.Stagnation.BestCost, p2.Stagnation.BestCost)
	for i := range p1.Retinas {
		assert.Equal(t, p1.Retinas[i].SaveState(), p2.Retinas[i].SaveState())
	}

	_, err = p2.RunGeneration(context.Background())
	require.NoError(t, err)

	refLines := parseCostLines(t, refLog.String())
	require.Len(t, refLines, 2)
	assert.Equal(t, refLines[:1], parseCostLines(t, log1.String()))
	assert.Equal(t, refLines[1:], parseCostLines(t, log2.String()), "resumed run continues the uninterrupted one")
	assert.Equal(t, reference.Genomes(), p2.Genomes())
}

func TestSaveCheckpointLeavesRunUnchanged(t *testing.T) {
	c := smallConfig(t)
	c.Evolution.MaxIterations = 3
	d := smallDataset(t, c, 3)
	dir := t.TempDir()

	plain, plainLog := quietPopulation(t, c, d)
	saving, savingLog := quietPopulation(t, c, d)
	for gen := 0; gen < c.Evolution.MaxIterations; gen++ {
		_, err := plain.RunGeneration(context.Background())
		require.NoError(t, err)

		_, err = saving.RunGeneration(context.Background())
		require.NoError(t, err)
		require.NoError(t, saving.SaveCheckpoint(filepath.Join(dir, "population.gz")))
	}

	assert.Equal(t, plainLog.String(), savingLog.String())
	assert.Equal(t, plain.Genomes(), saving.Genomes())
	assert.Equal(t, plain.Stream.Seed(), saving.Stream.Seed())
}

func TestLoadCheckpointErrors(t *testing.T) {
	c := smallConfig(t)
	d := smallDataset(t, c, 2)
	dir := t.TempDir()
	path := filepath.Join(dir, "population.gz")

	p, _ := quietPopulation(t, c, d)
	require.NoError(t, p.SaveCheckpoint(path))

	other := smallConfig(t)
	other.Evolution.NumIndividuals = c.Evolution.NumIndividuals + 1
	_, err := LoadCheckpointWithConfig(path, other, d)
	assert.Error(t, err)

	_, err = LoadCheckpointWithConfig(filepath.Join(dir, "missing.gz"), c, d)
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.gz")
	require.NoError(t, os.WriteFile(garbage, []byte("not gzip"), 0o644))
	_, err = LoadCheckpointWithConfig(garbage, c, d)
	assert.Error(t, err)
}
