package service

import (
	"encoding/json"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/reconciliation/model"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"sort"
)

// Consolidator merges every consistency snapshot of one protocol directory
// into a single snapshot by summing counters key-wise. Benchmark runs append
// one snapshot per reconciliation, so the merged view covers the whole series.
type Consolidator struct {
	logger *zap.Logger
}

func NewConsolidator(logger *zap.Logger) *Consolidator {
	return &Consolidator{logger: logger}
}

// Consolidate returns nil when the directory is missing or holds no
// snapshots. Unreadable files and non-numeric values are skipped so a single
// corrupt snapshot cannot void the series.
func (c *Consolidator) Consolidate(dir string) *model.Snapshot {
	if _, err := os.Stat(dir); err != nil {
		c.logger.Warn("Consistency directory is not readable, skipping", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(files) == 0 {
		c.logger.Warn("No consistency snapshots found", zap.String("dir", dir))
		return nil
	}
	sort.Strings(files)

	consolidated := model.NewSnapshot("")
	merged := 0
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			c.logger.Warn("Unable to read consistency snapshot", zap.String("path", file), zap.Error(err))
			continue
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			c.logger.Warn("Unable to parse consistency snapshot", zap.String("path", file), zap.Error(err))
			continue
		}
		mergeCounters(consolidated.DTMTransactions, doc["dtm_transactions"])
		mergeCounters(consolidated.Orders, doc["orders"])
		consolidated.InventoryInconsistencies += numericValue(doc["inventory_inconsistencies"])
		consolidated.PaymentInconsistencies += numericValue(doc["payment_inconsistencies"])
		merged++
	}
	c.logger.Info("Consolidated consistency snapshots", zap.String("dir", dir), zap.Int("files", merged))
	return consolidated
}

func mergeCounters(dst map[string]int, raw interface{}) {
	counters, ok := raw.(map[string]interface{})
	if !ok {
		return
	}
	for key, value := range counters {
		if n, ok := value.(float64); ok {
			dst[key] += int(n)
		}
	}
}

func numericValue(raw interface{}) int64 {
	if n, ok := raw.(float64); ok {
		return int64(n)
	}
	return 0
}
