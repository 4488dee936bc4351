package stats

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSummarize(t *testing.T) {
	t.Run("Computes mean and interpolated percentiles", func(t *testing.T) {
		values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		summary, err := Summarize(values, UnitMilliseconds)
		assert.Nil(t, err)
		assert.Equal(t, 10, summary.Samples)
		assert.Equal(t, UnitMilliseconds, summary.Unit)
		assert.InDelta(t, 5.5, summary.Mean, 1e-9)
		assert.InDelta(t, 5.5, summary.Median, 1e-9)
		assert.InDelta(t, 9.1, summary.P90, 1e-9)
		assert.InDelta(t, 9.55, summary.P95, 1e-9)
		assert.InDelta(t, 9.91, summary.P99, 1e-9)
	})

	t.Run("Does not reorder the caller's slice", func(t *testing.T) {
		values := []float64{3, 1, 2}
		_, err := Summarize(values, UnitSeconds)
		assert.Nil(t, err)
		assert.Equal(t, []float64{3, 1, 2}, values)
	})

	t.Run("Returns every statistic equal to the sample for a single value", func(t *testing.T) {
		summary, err := Summarize([]float64{42}, UnitSeconds)
		assert.Nil(t, err)
		assert.Equal(t, 42.0, summary.Mean)
		assert.Equal(t, 42.0, summary.Median)
		assert.Equal(t, 42.0, summary.P99)
	})

	t.Run("Errors on empty input instead of reporting NaN", func(t *testing.T) {
		_, err := Summarize(nil, UnitMilliseconds)
		assert.ErrorIs(t, err, ErrNoSamples)
	})
}

func TestPercentile(t *testing.T) {
	t.Run("Interpolates linearly between ranks", func(t *testing.T) {
		values := []float64{1, 2, 3, 4}
		q1, err := Percentile(values, 25)
		assert.Nil(t, err)
		assert.InDelta(t, 1.75, q1, 1e-9)
		q3, err := Percentile(values, 75)
		assert.Nil(t, err)
		assert.InDelta(t, 3.25, q3, 1e-9)
	})

	t.Run("Returns the extremes at rank boundaries", func(t *testing.T) {
		values := []float64{5, 1, 9}
		low, err := Percentile(values, 0)
		assert.Nil(t, err)
		assert.Equal(t, 1.0, low)
		high, err := Percentile(values, 100)
		assert.Nil(t, err)
		assert.Equal(t, 9.0, high)
	})

	t.Run("Errors on empty input", func(t *testing.T) {
		_, err := Percentile(nil, 50)
		assert.ErrorIs(t, err, ErrNoSamples)
	})
}
