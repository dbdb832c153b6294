package store

import (
	"time"

	"github.com/baldhumanity/retina-go/retina"
)

// Versions written into every new record.
const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

// VersionedRecord tags every persisted payload with the versions it was written with.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

func currentVersion() VersionedRecord {
	return VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

// LayerRecord is the persisted form of a retina.LayerGene.
type LayerRecord struct {
	Axon     uint32  `json:"axon"`
	Dendrite uint32  `json:"dendrite"`
	Polarity float64 `json:"polarity"`
	Cells    int     `json:"cells"`
}

// GenomeRecord is one ranked genome of a finished run.
type GenomeRecord struct {
	Rank   int           `json:"rank"`
	Key    int           `json:"key"`
	Cost   float64       `json:"cost"`
	Decay  float64       `json:"decay"`
	Layers []LayerRecord `json:"layers"`
}

// RunRecord is the final, ranked population of a run.
type RunRecord struct {
	VersionedRecord
	ID          string         `json:"id"`
	Seed        int64          `json:"seed"`
	Generations int            `json:"generations"`
	FinishedAt  time.Time      `json:"finished_at"`
	Genomes     []GenomeRecord `json:"genomes"`
}

// GenerationRecord holds the ranked costs and summary of one generation.
type GenerationRecord struct {
	VersionedRecord
	Generation int       `json:"generation"`
	Costs      []float64 `json:"costs"`
	Best       float64   `json:"best"`
	Mean       float64   `json:"mean"`
	Invalid    int       `json:"invalid"`
}

// NewGenomeRecord converts the active part of g into a record.
func NewGenomeRecord(rank int, g *retina.Genome) GenomeRecord {
	rec := GenomeRecord{
		Rank:   rank,
		Key:    g.Key,
		Cost:   g.Cost,
		Decay:  g.Decay,
		Layers: make([]LayerRecord, g.NTypes),
	}
	for k, l := range g.Active() {
		rec.Layers[k] = LayerRecord{Axon: l.Axon, Dendrite: l.Dendrite, Polarity: l.Polarity, Cells: l.Cells}
	}
	return rec
}

// Genome rebuilds a genome with layer storage sized for config. Layers
// beyond config.MaxTypes are dropped.
func (r GenomeRecord) Genome(config *retina.RetinaConfig) *retina.Genome {
	g := retina.NewGenome(r.Key, config)
	g.Cost = r.Cost
	g.Decay = r.Decay
	g.NTypes = min(len(r.Layers), len(g.Layers))
	for k, l := range r.Layers[:g.NTypes] {
		g.Layers[k] = retina.LayerGene{Axon: l.Axon, Dendrite: l.Dendrite, Polarity: l.Polarity, Cells: l.Cells}
	}
	return g
}

// NewRunRecord captures the ranked genomes of p.
func NewRunRecord(p *retina.Population) RunRecord {
	genomes := p.Genomes()
	rec := RunRecord{
		VersionedRecord: currentVersion(),
		ID:              p.RunID,
		Seed:            p.Config.Evolution.Seed,
		Generations:     p.Generation,
		FinishedAt:      time.Now().UTC(),
		Genomes:         make([]GenomeRecord, len(genomes)),
	}
	for i, g := range genomes {
		rec.Genomes[i] = NewGenomeRecord(i, g)
	}
	return rec
}

// NewGenerationRecord captures one generation's ranked costs.
func NewGenerationRecord(stats retina.GenerationStats, costs []float64) GenerationRecord {
	return GenerationRecord{
		VersionedRecord: currentVersion(),
		Generation:      stats.Generation,
		Costs:           append([]float64(nil), costs...),
		Best:            stats.Best,
		Mean:            stats.Mean,
		Invalid:         stats.Invalid,
	}
}
