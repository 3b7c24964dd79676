package evolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregateMean(t *testing.T) {
	require.InDelta(t, 3.0, Aggregate(Mean, []float64{1, 3, 5}), 1e-9)
}

func TestAggregateCVaR50IsWorseOrEqualToMean(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	cvar := Aggregate(CVaR50, samples)
	avg := Aggregate(Mean, samples)
	require.LessOrEqual(t, cvar, avg)
	require.InDelta(t, 1.5, cvar, 1e-9) // mean of {1,2}
}

func TestAggregateEmptyIsZero(t *testing.T) {
	require.Equal(t, 0.0, Aggregate(Mean, nil))
	require.Equal(t, 0.0, Aggregate(CVaR50, nil))
}
