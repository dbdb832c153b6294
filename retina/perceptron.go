package retina

// Perceptron is the single-layer linear readout trained on a retina's
// ganglion activity. The last weight is the bias.
type Perceptron struct {
	W   []float64
	eta float64
}

// NewPerceptron creates a perceptron over nFeatures inputs with weights
// drawn uniformly from [-1, 1].
func NewPerceptron(s *Stream, nFeatures int, eta float64) *Perceptron {
	p := &Perceptron{W: make([]float64, nFeatures+1), eta: eta}
	s.FillUniform(p.W, -1, 1)
	return p
}

// Features returns the number of inputs, excluding the bias.
func (p *Perceptron) Features() int {
	return len(p.W) - 1
}

// Net is the weighted sum of x without the bias.
func (p *Perceptron) Net(x []float64) float64 {
	return Dot(p.W[:p.Features()], x[:p.Features()])
}

// Output squashes the net input of x plus the bias into (0, 1).
func (p *Perceptron) Output(x []float64) float64 {
	return Squash(p.Net(x), p.W[p.Features()])
}

// Train applies one online update for example x. It returns false, without
// touching the weights, when the net input is not finite.
// After the update the whole weight vector, bias included, is min-max normalised to [0, 1].
func (p *Perceptron) Train(x []float64, positive bool) bool {
	f := p.Features()
	net := p.Net(x)
	if !isFinite(net) {
		return false
	}
	o := Squash(net, p.W[f])
	step := updateStep(o, p.eta, positive)

	for k := 0; k < f; k++ {
		p.W[k] += step * x[k]
	}
	p.W[f] += step // bias input is 1
	MinMaxNormalize(p.W)
	return true
}
