package retina

// Retina is one individual: a genome together with the connectivity built
// from it and the state buffers used to simulate it. All buffers are
// allocated once at the configured maxima and reused across generations.
type Retina struct {
	Genome *Genome

	config    *RetinaConfig
	intervals []float64     // cell spacing per layer
	conns     []*Connection // indexed by from*MaxTypes + to

	states [2][]float64 // two MaxTypes*MaxCells buffers
	old    int          // index of the buffer currently playing "old"
}

// NewRetina allocates a retina around genome. Connectivity is not built until BuildConnections is called.
func NewRetina(genome *Genome, config *RetinaConfig) *Retina {
	r := &Retina{
		Genome:    genome,
		config:    config,
		intervals: make([]float64, config.MaxTypes),
		conns:     make([]*Connection, config.MaxTypes*config.MaxTypes),
	}
	for from := 0; from < config.MaxTypes; from++ {
		for to := 0; to < config.MaxTypes; to++ {
			if from == to {
				continue
			}
			r.conns[from*config.MaxTypes+to] = newConnection(from, to, config.MaxCells)
		}
	}
	size := config.MaxTypes * config.MaxCells
	r.states[0] = make([]float64, size)
	r.states[1] = make([]float64, size)
	return r
}

// Connection returns the edge carrying signal from layer from to layer to.
func (r *Retina) Connection(from, to int) *Connection {
	return r.conns[from*r.config.MaxTypes+to]
}

// Interval returns the spacing between neighbouring cells of layer k from the last build.
func (r *Retina) Interval(k int) float64 {
	return r.intervals[k]
}

// layerState returns the MaxCells-wide slice of buffer b belonging to layer k.
func (r *Retina) layerState(b, k int) []float64 {
	n := r.config.MaxCells
	return r.states[b][k*n : (k+1)*n]
}
