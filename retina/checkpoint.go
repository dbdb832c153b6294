package retina

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
)

// PopulationSaveData is the part of a Population written to a checkpoint.
// Connectivity is rebuilt on load. The state buffers and the master stream
// state are saved as they are, so a loaded population continues exactly as
// one that was never saved.
type PopulationSaveData struct {
	RunID       string
	Genomes     []*Genome
	States      []SimState // aligned with Genomes
	Generation  int
	NextKey     int
	Stagnation  *Stagnation
	StreamState []byte
}

// SaveCheckpoint saves the current state of the Population to a gzip-compressed gob file.
// The population itself is left untouched.
func (p *Population) SaveCheckpoint(filePath string) error {
	streamState, err := p.Stream.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to capture random stream state: %w", err)
	}
	states := make([]SimState, len(p.Retinas))
	for i, r := range p.Retinas {
		states[i] = r.SaveState()
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", filePath, err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)

	saveData := PopulationSaveData{
		RunID:       p.RunID,
		Genomes:     p.Genomes(),
		States:      states,
		Generation:  p.Generation,
		NextKey:     p.nextKey,
		Stagnation:  p.Stagnation,
		StreamState: streamState,
	}

	if err := gob.NewEncoder(gzWriter).Encode(saveData); err != nil {
		gzWriter.Close()
		return fmt.Errorf("failed to encode population data: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush checkpoint '%s': %w", filePath, err)
	}

	p.Logger.Info("checkpoint saved", "path", filePath, "generation", p.Generation)
	return nil
}

// LoadCheckpoint loads a Population from a checkpoint file, reading the
// configuration from configPath.
func LoadCheckpoint(checkpointPath, configPath string, dataset *Dataset) (*Population, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s' for checkpoint: %w", configPath, err)
	}
	return LoadCheckpointWithConfig(checkpointPath, config, dataset)
}

// LoadCheckpointWithConfig loads a Population from a checkpoint file using an already loaded config.
func LoadCheckpointWithConfig(checkpointPath string, config *Config, dataset *Dataset) (*Population, error) {
	file, err := os.Open(checkpointPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", checkpointPath, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for checkpoint: %w", err)
	}
	defer gzReader.Close()

	saveData := PopulationSaveData{}
	if err := gob.NewDecoder(gzReader).Decode(&saveData); err != nil {
		return nil, fmt.Errorf("failed to decode population data from checkpoint: %w", err)
	}
	if len(saveData.Genomes) != config.Evolution.NumIndividuals {
		return nil, fmt.Errorf("checkpoint holds %d genomes, config wants %d", len(saveData.Genomes), config.Evolution.NumIndividuals)
	}
	if len(saveData.States) != len(saveData.Genomes) {
		return nil, fmt.Errorf("checkpoint holds %d state snapshots for %d genomes", len(saveData.States), len(saveData.Genomes))
	}

	p, err := NewPopulation(config, dataset)
	if err != nil {
		return nil, err
	}
	for i, g := range saveData.Genomes {
		if len(g.Layers) < config.Retina.MaxTypes {
			layers := make([]LayerGene, config.Retina.MaxTypes)
			copy(layers, g.Layers)
			g.Layers = layers
		}
		if err := g.Validate(&config.Retina); err != nil {
			return nil, fmt.Errorf("checkpoint genome %d: %w", i, err)
		}
		r := NewRetina(g, &config.Retina)
		r.BuildConnections()
		if err := r.RestoreState(saveData.States[i]); err != nil {
			return nil, fmt.Errorf("checkpoint genome %d: %w", i, err)
		}
		p.Retinas[i] = r
	}

	p.RunID = saveData.RunID
	p.Generation = saveData.Generation
	p.nextKey = saveData.NextKey
	if saveData.Stagnation != nil {
		p.Stagnation = saveData.Stagnation
	}
	if err := p.Stream.UnmarshalBinary(saveData.StreamState); err != nil {
		return nil, fmt.Errorf("failed to restore random stream state: %w", err)
	}

	p.Logger.Info("checkpoint loaded", "path", checkpointPath, "generation", p.Generation)
	return p, nil
}
