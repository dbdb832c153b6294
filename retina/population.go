package retina

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Population holds the state of a retina evolution run: the individuals,
// the operators acting on them and the master random stream. It is the
// evolution context handed to every step; nothing is kept in package state.
type Population struct {
	Config       *Config
	RunID        string
	Retinas      []*Retina // ranked by cost after every evaluation
	Evaluator    *Evaluator
	Reproduction *Reproduction
	Stagnation   *Stagnation
	Generation   int
	Stream       *Stream

	Logger  *slog.Logger
	CostLog io.Writer // receives one line of ranked costs per generation

	nextKey int
}

// NewPopulation creates the first generation: random genomes with their
// connectivity already built.
func NewPopulation(config *Config, dataset *Dataset) (*Population, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	evaluator, err := NewEvaluator(config, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}

	p := &Population{
		Config:       config,
		RunID:        uuid.NewString(),
		Evaluator:    evaluator,
		Reproduction: NewReproduction(config),
		Stagnation:   NewStagnation(),
		Stream:       NewStream(config.Evolution.Seed),
		Logger:       slog.Default(),
		CostLog:      io.Discard,
		nextKey:      1,
	}

	p.Retinas = make([]*Retina, config.Evolution.NumIndividuals)
	for i := range p.Retinas {
		g := NewGenome(p.getNextKey(), &config.Retina)
		g.ConfigureNew(p.Stream, &config.Retina)
		r := NewRetina(g, &config.Retina)
		r.BuildConnections()
		p.Retinas[i] = r
	}
	return p, nil
}

// getNextKey gets the next available genome key and increments the internal counter.
func (p *Population) getNextKey() int {
	key := p.nextKey
	p.nextKey++
	return key
}

// Evaluate scores every retina. Each retina gets its own stream seeded from
// the master stream in population order.
func (p *Population) Evaluate(ctx context.Context) (int, error) {
	seeds := make([]int64, len(p.Retinas))
	for i := range seeds {
		seeds[i] = p.Stream.Seed()
	}
	return p.Evaluator.Evaluate(ctx, p.Retinas, seeds)
}

// Rank sorts the retinas by ascending cost.
func (p *Population) Rank() {
	sort.SliceStable(p.Retinas, func(i, j int) bool {
		return p.Retinas[i].Genome.Cost < p.Retinas[j].Genome.Cost
	})
}

// Genomes returns the genomes in population order.
func (p *Population) Genomes() []*Genome {
	out := make([]*Genome, len(p.Retinas))
	for i, r := range p.Retinas {
		out[i] = r.Genome
	}
	return out
}

// Costs returns the costs in population order.
func (p *Population) Costs() []float64 {
	out := make([]float64, len(p.Retinas))
	for i, r := range p.Retinas {
		out[i] = r.Genome.Cost
	}
	return out
}

// Best returns the first genome, the best one once the population is ranked.
func (p *Population) Best() *Genome {
	return p.Retinas[0].Genome
}

// RunGeneration evaluates and ranks the current generation, logs its costs,
// then breeds the next one in place and rebuilds every retina's connectivity.
func (p *Population) RunGeneration(ctx context.Context) (GenerationStats, error) {
	start := time.Now()

	invalid, err := p.Evaluate(ctx)
	if err != nil {
		return GenerationStats{}, fmt.Errorf("fitness evaluation failed in generation %d: %w", p.Generation, err)
	}
	p.Rank()

	costs := p.Costs()
	if err := WriteCostLine(p.CostLog, costs); err != nil {
		return GenerationStats{}, fmt.Errorf("failed to write cost log in generation %d: %w", p.Generation, err)
	}
	stats := p.Stagnation.Update(p.Generation, costs, invalid)

	genomes := p.Genomes()
	p.Reproduction.Reproduce(p.Stream, genomes)
	for _, g := range genomes[p.Config.Evolution.NumElites:] {
		g.Key = p.getNextKey()
	}
	for _, r := range p.Retinas {
		r.BuildConnections()
	}

	p.Logger.Info("generation complete",
		slog.String("run", p.RunID),
		slog.Int("generation", p.Generation),
		slog.Float64("best", stats.Best),
		slog.Float64("mean", stats.Mean),
		slog.Int("invalid", invalid),
		slog.Int("stagnant_for", stats.StagnantFor()),
		slog.Duration("elapsed", time.Since(start)))

	p.Generation++
	return stats, nil
}

// Finalize performs the closing evaluation and ranking and returns the
// ranked genomes.
func (p *Population) Finalize(ctx context.Context) ([]*Genome, error) {
	invalid, err := p.Evaluate(ctx)
	if err != nil {
		return nil, fmt.Errorf("final evaluation failed: %w", err)
	}
	p.Rank()
	stats := p.Stagnation.Update(p.Generation, p.Costs(), invalid)

	p.Logger.Info("evolution finished",
		slog.String("run", p.RunID),
		slog.Int("generations", p.Generation),
		slog.Float64("best", stats.Best),
		slog.Int("invalid", invalid))
	return p.Genomes(), nil
}

// Run executes the remaining generations up to MaxIterations and finalizes.
func (p *Population) Run(ctx context.Context) ([]*Genome, error) {
	for p.Generation < p.Config.Evolution.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := p.RunGeneration(ctx); err != nil {
			return nil, err
		}
	}
	return p.Finalize(ctx)
}

// WriteCostLine writes costs as one line of single-space separated decimals.
func WriteCostLine(w io.Writer, costs []float64) error {
	parts := make([]string, len(costs))
	for i, c := range costs {
		parts[i] = strconv.FormatFloat(c, 'f', 6, 64)
	}
	_, err := io.WriteString(w, strings.Join(parts, " ")+"\n")
	return err
}
