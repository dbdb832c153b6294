package retina

import (
	"fmt"
	"io"
	"math"
)

// minDecayFactor is the distance factor below which a weight is forced to exactly zero.
const minDecayFactor = 1e-4

// Connection is the directed edge between two layers. W is allocated at
// MaxCells*MaxCells and holds a Rows×Cols row-major block with stride Cols,
// where Rows = cells in To and Cols = cells in From.
type Connection struct {
	From, To   int
	Rows, Cols int
	Active     bool // false when either endpoint has no cells
	W          []float64
}

func newConnection(from, to, maxCells int) *Connection {
	return &Connection{From: from, To: to, W: make([]float64, maxCells*maxCells)}
}

// At returns the weight from cell q of From to cell p of To.
func (c *Connection) At(p, q int) float64 {
	return c.W[p*c.Cols+q]
}

// Block returns the active part of the weight storage.
func (c *Connection) Block() []float64 {
	return c.W[:c.Rows*c.Cols]
}

func (c *Connection) reset(rows, cols int) {
	c.Rows, c.Cols = rows, cols
	c.Active = rows > 0 && cols > 0
}

// BuildConnections rebuilds every connection matrix from the genome in place.
// It is a pure function of the genome: building twice yields identical weights.
func (r *Retina) BuildConnections() {
	g := r.Genome
	n := g.NTypes
	width := r.config.Width

	for k := 0; k < n; k++ {
		r.intervals[k] = width / (float64(g.Layers[k].Cells) + 1)
	}
	for _, c := range r.conns {
		if c != nil {
			c.Active = false
		}
	}

	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			ni, nj := g.Layers[i].Cells, g.Layers[j].Cells
			if ni == 0 || nj == 0 {
				continue
			}

			ji := r.Connection(j, i) // j -> i, ni × nj
			ij := r.Connection(i, j) // i -> j, nj × ni
			ji.reset(ni, nj)
			ij.reset(nj, ni)

			affinityIJ := g.Affinity(i, j)
			affinityJI := g.Affinity(j, i)
			polI, polJ := g.Layers[i].Polarity, g.Layers[j].Polarity

			for p := 0; p < ni; p++ {
				posP := r.intervals[i] * float64(p+1)
				for q := 0; q < nj; q++ {
					posQ := r.intervals[j] * float64(q+1)
					d := math.Exp(-g.Decay * math.Abs(posP-posQ) / width)
					// !(d >= min) also zeroes a NaN factor.
					if !(d >= minDecayFactor) {
						ji.W[p*nj+q] = 0
						ij.W[q*ni+p] = 0
						continue
					}
					ji.W[p*nj+q] = d * polJ * affinityIJ
					ij.W[q*ni+p] = d * polI * affinityJI
				}
			}
		}
	}
}

// WriteConnections dumps every active weight matrix as text, one header line
// per edge followed by its rows.
func (r *Retina) WriteConnections(w io.Writer) error {
	n := r.Genome.NTypes
	for from := 0; from < n; from++ {
		for to := 0; to < n; to++ {
			if from == to {
				continue
			}
			c := r.Connection(from, to)
			if !c.Active {
				continue
			}
			if _, err := fmt.Fprintf(w, "%d -> %d (%d * %d)\n", from, to, c.Rows, c.Cols); err != nil {
				return err
			}
			for p := 0; p < c.Rows; p++ {
				for q := 0; q < c.Cols; q++ {
					if _, err := fmt.Fprintf(w, "%.4f ", c.At(p, q)); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "\n------\n\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
