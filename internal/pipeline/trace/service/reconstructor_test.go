package service

import (
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"testing"
)

var logger, _ = zap.NewDevelopment()

func TestReconstructor_Reconstruct(t *testing.T) {
	t.Run("Merges every span of a trace into one record with wall clock bounds", func(t *testing.T) {
		input := `{"resourceSpans":[{"scopeSpans":[{"spans":[` +
			`{"traceId":"t1","name":"saga_action_create_order","startTimeUnixNano":"1000000000","endTimeUnixNano":"1400000000"},` +
			`{"traceId":"t1","name":"saga_action_debit_wallet","startTimeUnixNano":"1100000000","endTimeUnixNano":"1500000000"}` +
			`]}]}]}`
		records := NewReconstructor(logger).Reconstruct([]byte(input))
		assert.Len(t, records, 1)
		assert.Equal(t, "t1", records[0].TraceID)
		assert.Equal(t, uint64(1000000000), records[0].StartTimeNs)
		assert.Equal(t, uint64(1500000000), records[0].EndTimeNs)
		assert.Equal(t, 500.0, records[0].DurationMs())
	})

	t.Run("Accepts numeric and string timestamps in the same batch", func(t *testing.T) {
		input := `{"resourceSpans":[{"scopeSpans":[{"spans":[` +
			`{"traceId":"t1","name":"a","startTimeUnixNano":1000000000,"endTimeUnixNano":"2000000000"}` +
			`]}]}]}`
		records := NewReconstructor(logger).Reconstruct([]byte(input))
		assert.Len(t, records, 1)
		assert.Equal(t, uint64(1000000000), records[0].StartTimeNs)
	})

	t.Run("Skips spans with absent or zero timestamps without dropping the trace", func(t *testing.T) {
		input := `{"resourceSpans":[{"scopeSpans":[{"spans":[` +
			`{"traceId":"t1","name":"a","startTimeUnixNano":"0","endTimeUnixNano":"900000000"},` +
			`{"traceId":"t1","name":"b","startTimeUnixNano":"garbage","endTimeUnixNano":"900000000"},` +
			`{"traceId":"t1","name":"c","startTimeUnixNano":"1000000000","endTimeUnixNano":"1250000000"}` +
			`]}]}]}`
		records := NewReconstructor(logger).Reconstruct([]byte(input))
		assert.Len(t, records, 1)
		assert.Equal(t, uint64(1000000000), records[0].StartTimeNs)
		assert.Equal(t, uint64(1250000000), records[0].EndTimeNs)
	})

	t.Run("Drops traces whose end never exceeds their start", func(t *testing.T) {
		input := `{"resourceSpans":[{"scopeSpans":[{"spans":[` +
			`{"traceId":"t1","name":"a","startTimeUnixNano":"2000000000","endTimeUnixNano":"1000000000"}` +
			`]}]}]}`
		records := NewReconstructor(logger).Reconstruct([]byte(input))
		assert.Empty(t, records)
	})

	t.Run("Keeps traces from other batches when one line is malformed", func(t *testing.T) {
		input := `{"resourceSpans":[{"scopeSpans":[{"spans":[{"traceId":"t1","name":"a","startTimeUnixNano":"1000000000","endTimeUnixNano":"2000000000"}]}]}]}` + "\n" +
			`not json at all` + "\n" +
			`{"resourceSpans":[{"scopeSpans":[{"spans":[{"traceId":"t2","name":"b","startTimeUnixNano":"3000000000","endTimeUnixNano":"4000000000"}]}]}]}` + "\n"
		records := NewReconstructor(logger).Reconstruct([]byte(input))
		assert.Len(t, records, 2)
		assert.Equal(t, "t1", records[0].TraceID)
		assert.Equal(t, "t2", records[1].TraceID)
	})

	t.Run("Aggregates spans of the same trace across batches without deduplication", func(t *testing.T) {
		line := `{"resourceSpans":[{"scopeSpans":[{"spans":[{"traceId":"t1","name":"a","startTimeUnixNano":"1000000000","endTimeUnixNano":"2000000000"}]}]}]}`
		records := NewReconstructor(logger).Reconstruct([]byte(line + "\n" + line))
		assert.Len(t, records, 1)
		assert.Equal(t, uint64(1000000000), records[0].StartTimeNs)
		assert.Equal(t, uint64(2000000000), records[0].EndTimeNs)
	})

	t.Run("Returns records sorted by start time", func(t *testing.T) {
		input := `{"resourceSpans":[{"scopeSpans":[{"spans":[` +
			`{"traceId":"late","name":"a","startTimeUnixNano":"5000000000","endTimeUnixNano":"6000000000"},` +
			`{"traceId":"early","name":"b","startTimeUnixNano":"1000000000","endTimeUnixNano":"2000000000"}` +
			`]}]}]}`
		records := NewReconstructor(logger).Reconstruct([]byte(input))
		assert.Len(t, records, 2)
		assert.Equal(t, "early", records[0].TraceID)
		assert.Equal(t, "late", records[1].TraceID)
	})

	t.Run("Returns nothing for empty content", func(t *testing.T) {
		assert.Empty(t, NewReconstructor(logger).Reconstruct(nil))
	})
}

func TestReconstructor_ReconstructFile(t *testing.T) {
	t.Run("Returns nothing for an unreadable file", func(t *testing.T) {
		records := NewReconstructor(logger).ReconstructFile(filepath.Join(t.TempDir(), "missing.json"))
		assert.Empty(t, records)
	})

	t.Run("Reads newline delimited export files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "saga.json")
		content := `{"resourceSpans":[{"scopeSpans":[{"spans":[{"traceId":"t1","name":"a","startTimeUnixNano":"1000000000","endTimeUnixNano":"1500000000"}]}]}]}` + "\n"
		err := os.WriteFile(path, []byte(content), 0o644)
		assert.Nil(t, err)
		records := NewReconstructor(logger).ReconstructFile(path)
		assert.Len(t, records, 1)
		assert.Equal(t, 500.0, records[0].DurationMs())
	})
}
