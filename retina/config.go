package retina

import (
	"errors"
	"fmt"
	"runtime"

	"gopkg.in/ini.v1"
)

// ErrInvalidConfig is wrapped by every validation failure returned from LoadConfig and Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config stores the configuration parameters for a retina evolution run.
type Config struct {
	Evolution  EvolutionConfig
	Retina     RetinaConfig
	Perceptron PerceptronConfig
	Mutation   MutationConfig
}

// EvolutionConfig holds population sizing and driver parameters.
type EvolutionConfig struct {
	MaxIterations  int     `ini:"max_iterations"`
	NumIndividuals int     `ini:"num_individuals"`
	NumElites      int     `ini:"num_elites"`
	TournamentProb float64 `ini:"tournament_prob"` // chance the better rival wins a tournament
	Seed           int64   `ini:"seed"`
	Workers        int     `ini:"workers"`         // parallel evaluation goroutines, 0 = GOMAXPROCS
	DegenerateCost float64 `ini:"degenerate_cost"` // cost given to invalid individuals when no valid cost exists
}

// RetinaConfig holds the spatial and structural limits of a retina.
type RetinaConfig struct {
	Width    float64 `ini:"width"`     // spatial extent cells are spread over
	MaxTypes int     `ini:"max_types"` // maximum number of layers
	MaxCells int     `ini:"max_cells"` // maximum cells per layer, also the receptor width
	SimTime  int     `ini:"sim_time"`  // propagation steps per stimulus
}

// PerceptronConfig holds parameters of the readout classifier used for fitness.
type PerceptronConfig struct {
	Eta            float64 `ini:"eta"`
	FeatureDivisor int     `ini:"feature_divisor"` // features = max_cells / feature_divisor
}

// MutationConfig holds the mutation rates and magnitudes.
type MutationConfig struct {
	DecaySigmaFraction float64 `ini:"decay_sigma_fraction"` // decay stddev as a fraction of width
	PolaritySigma      float64 `ini:"polarity_sigma"`
	BitFlips           int     `ini:"bit_flips"`
	CellGrowProb       float64 `ini:"cell_grow_prob"`
	CellShrinkProb     float64 `ini:"cell_shrink_prob"`
}

// DefaultConfig returns the configuration used for every key a config file leaves unset.
func DefaultConfig() *Config {
	return &Config{
		Evolution: EvolutionConfig{
			MaxIterations:  100,
			NumIndividuals: 50,
			NumElites:      5,
			TournamentProb: 0.9,
			Seed:           1,
			DegenerateCost: 1e9,
		},
		Retina: RetinaConfig{
			Width:    100,
			MaxTypes: 6,
			MaxCells: 100,
			SimTime:  5,
		},
		Perceptron: PerceptronConfig{
			Eta:            0.01,
			FeatureDivisor: 5,
		},
		Mutation: MutationConfig{
			DecaySigmaFraction: 1.0 / 20.0,
			PolaritySigma:      0.005,
			BitFlips:           2,
			CellGrowProb:       0.05,
			CellShrinkProb:     0.05,
		},
	}
}

// LoadConfig loads configuration parameters from an INI file.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(filePath string) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return mapConfig(cfg)
}

// ParseConfig loads configuration parameters from in-memory INI data.
func ParseConfig(data []byte) (*Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return mapConfig(cfg)
}

func mapConfig(cfg *ini.File) (*Config, error) {
	config := DefaultConfig()

	// MapTo leaves fields alone when their key is absent, so defaults survive.
	if err := cfg.Section("Evolution").MapTo(&config.Evolution); err != nil {
		return nil, fmt.Errorf("failed to map [Evolution] section: %w", err)
	}
	if err := cfg.Section("Retina").MapTo(&config.Retina); err != nil {
		return nil, fmt.Errorf("failed to map [Retina] section: %w", err)
	}
	if err := cfg.Section("Perceptron").MapTo(&config.Perceptron); err != nil {
		return nil, fmt.Errorf("failed to map [Perceptron] section: %w", err)
	}
	if err := cfg.Section("Mutation").MapTo(&config.Mutation); err != nil {
		return nil, fmt.Errorf("failed to map [Mutation] section: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that every parameter is usable. The worker count is
// resolved against GOMAXPROCS here when left at zero.
func (c *Config) Validate() error {
	e, r, p, m := &c.Evolution, &c.Retina, &c.Perceptron, &c.Mutation

	if e.MaxIterations < 0 {
		return fmt.Errorf("%w: max_iterations cannot be negative", ErrInvalidConfig)
	}
	// Selection forbids a second parent equal to the first, so two individuals is the floor.
	if e.NumIndividuals < 2 {
		return fmt.Errorf("%w: num_individuals must be at least 2", ErrInvalidConfig)
	}
	if e.NumElites < 0 || e.NumElites > e.NumIndividuals {
		return fmt.Errorf("%w: num_elites must be between 0 and num_individuals", ErrInvalidConfig)
	}
	if e.TournamentProb < 0 || e.TournamentProb > 1 {
		return fmt.Errorf("%w: tournament_prob must be between 0 and 1", ErrInvalidConfig)
	}
	if e.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative", ErrInvalidConfig)
	}
	if e.Workers == 0 {
		e.Workers = runtime.GOMAXPROCS(0)
	}

	if r.Width <= 0 {
		return fmt.Errorf("%w: width must be positive", ErrInvalidConfig)
	}
	if r.MaxTypes < 2 {
		return fmt.Errorf("%w: max_types must be at least 2", ErrInvalidConfig)
	}
	if r.MaxCells <= 0 {
		return fmt.Errorf("%w: max_cells must be positive", ErrInvalidConfig)
	}
	if r.SimTime <= 0 {
		return fmt.Errorf("%w: sim_time must be positive", ErrInvalidConfig)
	}

	if p.Eta <= 0 {
		return fmt.Errorf("%w: eta must be positive", ErrInvalidConfig)
	}
	if p.FeatureDivisor <= 0 || r.MaxCells/p.FeatureDivisor == 0 {
		return fmt.Errorf("%w: max_cells / feature_divisor must leave at least one feature", ErrInvalidConfig)
	}

	if m.DecaySigmaFraction < 0 || m.PolaritySigma < 0 {
		return fmt.Errorf("%w: mutation sigmas cannot be negative", ErrInvalidConfig)
	}
	if m.BitFlips < 0 {
		return fmt.Errorf("%w: bit_flips cannot be negative", ErrInvalidConfig)
	}
	if m.CellGrowProb < 0 || m.CellShrinkProb < 0 || m.CellGrowProb+m.CellShrinkProb > 1 {
		return fmt.Errorf("%w: cell_grow_prob + cell_shrink_prob must lie in [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// NumFeatures is the number of ganglion cells read by the perceptron.
func (c *Config) NumFeatures() int {
	return c.Retina.MaxCells / c.Perceptron.FeatureDivisor
}
