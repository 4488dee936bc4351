package model

import (
	"bytes"
	"strconv"
)

// ExportBatch mirrors the JSON shape of one OTLP trace export request as the
// collector's file exporter writes it. Only the fields the benchmark pipeline
// reads are mapped; everything else in the document is ignored.
type ExportBatch struct {
	ResourceSpans []ResourceSpans `json:"resourceSpans"`
}

type ResourceSpans struct {
	ScopeSpans []ScopeSpans `json:"scopeSpans"`
}

type ScopeSpans struct {
	Spans []Span `json:"spans"`
}

type Span struct {
	TraceID           string   `json:"traceId"`
	SpanID            string   `json:"spanId,omitempty"`
	Name              string   `json:"name,omitempty"`
	OperationName     string   `json:"operationName,omitempty"`
	StartTimeUnixNano UnixNano `json:"startTimeUnixNano"`
	EndTimeUnixNano   UnixNano `json:"endTimeUnixNano"`
}

// Operation returns the span's operation name regardless of which of the two
// field spellings the producing exporter used.
func (s Span) Operation() string {
	if s.Name != "" {
		return s.Name
	}
	return s.OperationName
}

// UnixNano is a nanosecond unix timestamp that tolerates the two encodings
// seen in OTLP JSON exports: a bare number or a decimal string. Values that
// cannot be read as an unsigned integer decode to zero, which downstream
// treats the same as an absent timestamp.
type UnixNano uint64

func (n *UnixNano) UnmarshalJSON(data []byte) error {
	*n = 0
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	value, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return nil
	}
	*n = UnixNano(value)
	return nil
}

func (n UnixNano) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(n), 10))), nil
}
