package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/model"
	"go.uber.org/zap"
)

// ElasticsearchSource reads the span documents of a Jaeger span index
// directly, for deployments where the query API is not reachable. The
// configured limit bounds span documents rather than traces, so traces at the
// edge of the window may come back with a subset of their spans.
type ElasticsearchSource struct {
	es        *elasticsearch.Client
	spanIndex string
	logger    *zap.Logger
}

func NewElasticsearchSource(es *elasticsearch.Client, spanIndex string, logger *zap.Logger) *ElasticsearchSource {
	return &ElasticsearchSource{
		es:        es,
		spanIndex: spanIndex,
		logger:    logger,
	}
}

// esSpanDocument mirrors the Jaeger span document fields the exporter reads.
// Start times and durations are microseconds.
type esSpanDocument struct {
	TraceID       string `json:"traceID"`
	OperationName string `json:"operationName"`
	StartTime     uint64 `json:"startTime"`
	Duration      uint64 `json:"duration"`
}

type esSpanHit struct {
	Source esSpanDocument `json:"_source"`
}

type esSearchHits struct {
	HitArray []esSpanHit `json:"hits"`
}

type esSearchResponse struct {
	Hits esSearchHits `json:"hits"`
}

func (s *ElasticsearchSource) FetchTraces(
	ctx context.Context,
	service string,
	lookback time.Duration,
	limit int,
) ([]Trace, error) {
	query := spanWindowQueryBuilder(service, time.Now().Add(-lookback))
	queryBody, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal span window query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.spanIndex),
		s.es.Search.WithBody(bytes.NewReader(queryBody)),
		s.es.Search.WithSize(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute span search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("failed to execute span search: %s", res.String())
	}

	var response esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode span search response: %w", err)
	}

	spansByTrace := make(map[string][]model.SpanTiming)
	traceOrder := make([]string, 0)
	for _, hit := range response.Hits.HitArray {
		document := hit.Source
		if document.TraceID == "" {
			continue
		}
		if _, seen := spansByTrace[document.TraceID]; !seen {
			traceOrder = append(traceOrder, document.TraceID)
		}
		startNs := document.StartTime * 1000
		spansByTrace[document.TraceID] = append(spansByTrace[document.TraceID], model.SpanTiming{
			Operation:   document.OperationName,
			StartTimeNs: startNs,
			EndTimeNs:   startNs + document.Duration*1000,
		})
	}

	traces := make([]Trace, 0, len(traceOrder))
	for _, traceID := range traceOrder {
		traces = append(traces, Trace{
			TraceID: traceID,
			Spans:   spansByTrace[traceID],
		})
	}
	s.logger.Debug(
		"Fetched span documents from Elasticsearch",
		zap.String("service", service),
		zap.Int("span_count", len(response.Hits.HitArray)),
		zap.Int("trace_count", len(traces)),
	)
	return traces, nil
}

func spanWindowQueryBuilder(service string, from time.Time) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{
							"process.serviceName": service,
						},
					},
					map[string]interface{}{
						"range": map[string]interface{}{
							"startTimeMillis": map[string]interface{}{
								"gte": from.UnixMilli(),
							},
						},
					},
				},
			},
		},
	}
}
