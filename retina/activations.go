package retina

import "math"

const (
	outputFloor = 0.001 // smallest squashed output used in a positive-label update
	outputCeil  = 0.999 // largest squashed output used in a negative-label update
	lossFloor   = 1e-4  // smallest probability fed to the log loss
)

// Squash maps a net input plus bias into (0, 1) through a shifted tanh.
func Squash(net, bias float64) float64 {
	return (math.Tanh(net+bias) + 1) / 2
}

// updateStep is the signed step for one perceptron update, attenuated by (1-o²).
// Positive labels get a positive step (output pushed towards 1), negative labels a negative one.
func updateStep(o, eta float64, positive bool) float64 {
	if positive {
		o = math.Max(o, outputFloor)
		return eta * (1 - o*o) / o
	}
	o = math.Min(o, outputCeil)
	return -eta * (1 - o*o) / (1 - o)
}

// CrossEntropy is the log loss of output o for a binary label.
func CrossEntropy(o float64, positive bool) float64 {
	if positive {
		return -math.Log(math.Max(o, lossFloor))
	}
	return -math.Log(math.Max(1-o, lossFloor))
}
