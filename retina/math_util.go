package retina

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

// clampInt restricts an integer to a given range [minVal, maxVal].
func clampInt(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

// Dot returns the inner product of a and b, which must have equal length.
func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// GemvAdd accumulates y += A·x where A is a rows×cols row-major matrix stored
// in a with the given stride. y is not cleared first.
func GemvAdd(rows, cols, stride int, a, x, y []float64) {
	if rows == 0 || cols == 0 {
		return
	}
	A := blas64.General{Rows: rows, Cols: cols, Stride: stride, Data: a[:(rows-1)*stride+cols]}
	blas64.Gemv(blas.NoTrans, 1, A,
		blas64.Vector{N: cols, Inc: 1, Data: x[:cols]},
		1,
		blas64.Vector{N: rows, Inc: 1, Data: y[:rows]})
}

// MinMaxNormalize rescales v in place so its minimum maps to 0 and its maximum to 1.
// A constant vector has no range to rescale and is set to all zeros.
func MinMaxNormalize(v []float64) {
	if len(v) == 0 {
		return
	}
	lo, hi := floats.Min(v), floats.Max(v)
	span := hi - lo
	if span == 0 {
		for i := range v {
			v[i] = 0
		}
		return
	}
	floats.AddConst(-lo, v)
	floats.Scale(1/span, v)
}

// isFinite reports whether x is neither NaN nor infinite.
func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Cost statistics. Empty inputs give the identity of each reduction.

// Mean is the arithmetic mean, or 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Stdev is the sample standard deviation, or 0 for fewer than two values.
func Stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}

// MaxFloat returns the largest value, or -Inf for no values.
func MaxFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(-1)
	}
	return floats.Max(values)
}

// MinFloat returns the smallest value, or +Inf for no values.
func MinFloat(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	return floats.Min(values)
}

// Median averages the two middle values of an even-length input. It does not reorder values.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := slices.Sorted(slices.Values(values))
	hi := len(sorted) / 2
	lo := (len(sorted) - 1) / 2
	return (sorted[lo] + sorted[hi]) / 2
}
