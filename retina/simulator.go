package retina

import "fmt"

// Process runs SimTime synchronous propagation steps driven by stimulus,
// which must hold at least MaxCells values.
//
// The two state buffers are never cleared wholesale. At the start of a run
// only the "old" buffer is reset (receptors to the stimulus, every other
// layer to zero); the "new" buffer keeps whatever it held and each step adds
// into it. Swapping roles after a step therefore hands the next step a
// buffer that still carries the sums from two steps earlier, and the role
// index survives between calls. This leaky accumulation is part of the
// model and must not be "fixed".
//
// Activations are not bounded; divergence surfaces as non-finite values
// that the evaluator checks for.
func (r *Retina) Process(stimulus []float64) {
	g := r.Genome
	n := g.NTypes
	maxCells := r.config.MaxCells

	copy(r.layerState(r.old, 0), stimulus[:maxCells])
	clear(r.states[r.old][maxCells : n*maxCells])

	steps := r.config.SimTime
	for t := 0; t < steps; t++ {
		cur := 1 - r.old
		for i := 0; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				a, b := g.Layers[i].Cells, g.Layers[j].Cells
				if a == 0 || b == 0 {
					continue
				}
				// s_i(t) += W(j->i) s_j(t-1)
				GemvAdd(a, b, b, r.Connection(j, i).W, r.layerState(r.old, j), r.layerState(cur, i))
				// s_j(t) += W(i->j) s_i(t-1)
				GemvAdd(b, a, a, r.Connection(i, j).W, r.layerState(r.old, i), r.layerState(cur, j))
			}
		}
		// The final step's results stay in the "new" buffer.
		if t != steps-1 {
			r.old = cur
		}
	}
}

// State returns the MaxCells-wide activation of layer k after the last Process call.
func (r *Retina) State(k int) []float64 {
	return r.layerState(1-r.old, k)
}

// GanglionState returns the output layer's activation after the last Process call.
func (r *Retina) GanglionState() []float64 {
	return r.State(r.Genome.NTypes - 1)
}

// ResetState zeroes both buffers and restores the initial role assignment.
func (r *Retina) ResetState() {
	clear(r.states[0])
	clear(r.states[1])
	r.old = 0
}

// SimState is a copy of a retina's state buffers and buffer role index.
type SimState struct {
	Buffers [2][]float64
	Old     int
}

// SaveState copies the state buffers and role index without changing r.
func (r *Retina) SaveState() SimState {
	return SimState{
		Buffers: [2][]float64{
			append([]float64(nil), r.states[0]...),
			append([]float64(nil), r.states[1]...),
		},
		Old: r.old,
	}
}

// RestoreState overwrites the state buffers and role index with st.
func (r *Retina) RestoreState(st SimState) error {
	for b := range st.Buffers {
		if len(st.Buffers[b]) != len(r.states[b]) {
			return fmt.Errorf("state buffer %d holds %d values, want %d", b, len(st.Buffers[b]), len(r.states[b]))
		}
	}
	if st.Old != 0 && st.Old != 1 {
		return fmt.Errorf("state role index %d, want 0 or 1", st.Old)
	}
	copy(r.states[0], st.Buffers[0])
	copy(r.states[1], st.Buffers[1])
	r.old = st.Old
	return nil
}
