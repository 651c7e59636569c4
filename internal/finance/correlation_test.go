package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelation(t *testing.T) {
	a := []float64{0.01, -0.02, 0.03, 0.00, 0.015}
	b := make([]float64, len(a))
	c := make([]float64, len(a))
	for i, r := range a {
		b[i] = 2 * r
		c[i] = -r
	}

	m, err := Correlation(returnTable(a, b, c))
	require.NoError(t, err)

	require.Len(t, m.Values, 3)
	for i := range m.Values {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Values {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
		}
	}
	ab, ok := m.At("A", "B")
	require.True(t, ok)
	assert.InDelta(t, 1.0, ab, 1e-12)
	ac, _ := m.At("A", "C")
	assert.InDelta(t, -1.0, ac, 1e-12)

	_, ok = m.At("A", "Z")
	assert.False(t, ok)
}

func TestCorrelationUsesCompleteRowsOnly(t *testing.T) {
	nan := math.NaN()
	a := []float64{0.01, 0.02, nan, 0.03, -0.01}
	b := []float64{0.02, 0.04, 0.5, 0.06, -0.02}

	m, err := Correlation(returnTable(a, b))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-12)
}

func TestCorrelationInsufficientData(t *testing.T) {
	nan := math.NaN()
	_, err := Correlation(returnTable([]float64{0.01, nan}, []float64{0.02, 0.03}))
	assert.ErrorIs(t, err, ErrInsufficientData)
}
