package service

import (
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"testing"
)

var logger, _ = zap.NewDevelopment()

func TestEngine_Reconcile(t *testing.T) {
	t.Run("Accumulates absolute drift against the derived expected state", func(t *testing.T) {
		engine := NewEngine(DefaultInitialValue, logger)
		observed := map[string]int64{"wallet-1": 899_999_990}
		completed := map[string]int{"wallet-1": 3}
		result := engine.Reconcile(observed, completed)
		assert.Equal(t, int64(7), result.Drift)
		assert.Equal(t, 1, result.DivergentEntities)
	})

	t.Run("Reports zero drift for a perfectly consistent table", func(t *testing.T) {
		engine := NewEngine(DefaultInitialValue, logger)
		observed := map[string]int64{
			"wallet-1": 899_999_997,
			"wallet-2": 900_000_000,
		}
		completed := map[string]int{"wallet-1": 3}
		result := engine.Reconcile(observed, completed)
		assert.Equal(t, int64(0), result.Drift)
		assert.Equal(t, 0, result.DivergentEntities)
	})

	t.Run("Counts drift in both directions", func(t *testing.T) {
		engine := NewEngine(100, logger)
		observed := map[string]int64{
			"over":  105,
			"under": 95,
		}
		result := engine.Reconcile(observed, map[string]int{})
		assert.Equal(t, int64(10), result.Drift)
		assert.Equal(t, 2, result.DivergentEntities)
	})

	t.Run("Treats entities without completed orders as untouched", func(t *testing.T) {
		engine := NewEngine(50, logger)
		result := engine.Reconcile(map[string]int64{"idle": 50}, map[string]int{"other": 9})
		assert.Equal(t, int64(0), result.Drift)
	})
}
