package retina

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGemvAddAccumulates(t *testing.T) {
	// 2x3 block stored with stride 3.
	a := []float64{
		1, 2, 3,
		4, 5, 6,
	}
	x := []float64{1, 0, -1, 99} // trailing entry lies outside the block
	y := []float64{10, 20, 7}

	GemvAdd(2, 3, 3, a, x, y)
	assert.Equal(t, []float64{10 - 2, 20 - 2, 7}, y)

	GemvAdd(2, 3, 3, a, x, y)
	assert.Equal(t, []float64{10 - 4, 20 - 4, 7}, y, "second call adds again")

	GemvAdd(0, 3, 3, a, x, y)
	assert.Equal(t, []float64{6, 16, 7}, y, "empty block is a no-op")
}

func TestMinMaxNormalize(t *testing.T) {
	v := []float64{-2, 0, 2, 6}
	MinMaxNormalize(v)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 1}, v, 1e-12)

	flat := []float64{3, 3, 3}
	MinMaxNormalize(flat)
	assert.Equal(t, []float64{0, 0, 0}, flat)
}

func TestStatFunctions(t *testing.T) {
	values := []float64{4, 1, 3, 2}
	assert.Equal(t, 2.5, Mean(values))
	assert.Equal(t, 2.5, Median(values))
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 1.0, MinFloat(values))
	assert.Equal(t, 4.0, MaxFloat(values))
	assert.InDelta(t, math.Sqrt(5.0/3.0), Stdev(values), 1e-12)
	assert.Equal(t, []float64{4, 1, 3, 2}, values, "median does not reorder its input")

	assert.True(t, math.IsNaN(Median(nil)))
	assert.True(t, math.IsInf(MaxFloat(nil), -1))
	assert.Equal(t, 0.0, Stdev([]float64{1}))
	assert.Equal(t, 14.0, Dot([]float64{1, 2, 3}, []float64{1, 2, 3}))
}

func TestStreamIsDeterministic(t *testing.T) {
	a, b := NewStream(5), NewStream(5)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint32(), b.Uint32())
		assert.Equal(t, a.Gaussian(1, 2), b.Gaussian(1, 2))
	}
	u := a.Uniform(-1, 1)
	assert.GreaterOrEqual(t, u, -1.0)
	assert.Less(t, u, 1.0)

	for i := 0; i < 100; i++ {
		n := a.IntRange(2, 5)
		assert.GreaterOrEqual(t, n, 2)
		assert.Less(t, n, 5)
	}
}

func TestStreamStateRoundTrip(t *testing.T) {
	s := NewStream(9)
	s.Float64()
	state, err := s.MarshalBinary()
	require.NoError(t, err)

	restored := NewStream(1)
	require.NoError(t, restored.UnmarshalBinary(state))
	for i := 0; i < 20; i++ {
		assert.Equal(t, s.Uint32(), restored.Uint32())
		assert.Equal(t, s.Gaussian(0, 1), restored.Gaussian(0, 1))
	}
	assert.Error(t, restored.UnmarshalBinary([]byte("junk")))
}
