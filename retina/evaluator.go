package retina

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// Evaluation is the outcome of scoring one retina.
type Evaluation struct {
	Cost  float64
	Valid bool // false when the retina diverged during training or testing
}

// Evaluator scores retinas by how well a freshly trained perceptron
// separates their ganglion output.
type Evaluator struct {
	Config  *Config
	Dataset *Dataset
}

// NewEvaluator creates an evaluator after checking the dataset against config.
func NewEvaluator(config *Config, dataset *Dataset) (*Evaluator, error) {
	if dataset == nil {
		return nil, fmt.Errorf("%w: no dataset", ErrInvalidDataset)
	}
	if err := dataset.Validate(&config.Retina); err != nil {
		return nil, err
	}
	return &Evaluator{Config: config, Dataset: dataset}, nil
}

// EvaluateOne trains a new perceptron on r's response to the training set
// and returns the mean cross-entropy on the test set. Nothing is inherited
// from earlier generations.
func (e *Evaluator) EvaluateOne(r *Retina, s *Stream) Evaluation {
	d := e.Dataset
	p := NewPerceptron(s, e.Config.NumFeatures(), e.Config.Perceptron.Eta)

	for j := 0; j < d.TrainSize(); j++ {
		r.Process(d.TrainStimulus(j))
		if !p.Train(r.GanglionState(), d.TrainLabels[j] == 1) {
			return Evaluation{Valid: false}
		}
	}

	loss := 0.0
	for j := 0; j < d.TestSize(); j++ {
		r.Process(d.TestStimulus(j))
		loss += CrossEntropy(p.Output(r.GanglionState()), d.TestLabels[j] == 1)
	}
	loss /= float64(d.TestSize())
	if !isFinite(loss) {
		return Evaluation{Valid: false}
	}
	return Evaluation{Cost: loss, Valid: true}
}

// Evaluate scores every retina and writes the costs into their genomes.
// seeds supplies one stream seed per retina, so the result does not depend
// on how many workers run. Invalid retinas are then charged the worst valid
// cost plus one, or DegenerateCost when nothing in the batch was valid.
// It returns the number of invalid retinas.
func (e *Evaluator) Evaluate(ctx context.Context, retinas []*Retina, seeds []int64) (int, error) {
	if len(seeds) != len(retinas) {
		return 0, fmt.Errorf("evaluate: %d seeds for %d retinas", len(seeds), len(retinas))
	}

	results := make([]Evaluation, len(retinas))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.Config.Evolution.Workers, 1))
	for i := range retinas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.EvaluateOne(retinas[i], NewStream(seeds[i]))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}

	return applyCosts(retinas, results, e.Config.Evolution.DegenerateCost), nil
}

// applyCosts copies results into the genomes and penalises the invalid ones.
func applyCosts(retinas []*Retina, results []Evaluation, degenerateCost float64) int {
	maxCost := math.Inf(-1)
	for _, res := range results {
		if res.Valid && res.Cost > maxCost {
			maxCost = res.Cost
		}
	}
	penalty := degenerateCost
	if !math.IsInf(maxCost, -1) {
		penalty = maxCost + 1
	}

	invalid := 0
	for i, res := range results {
		if res.Valid {
			retinas[i].Genome.Cost = res.Cost
			continue
		}
		retinas[i].Genome.Cost = penalty
		invalid++
	}
	return invalid
}
