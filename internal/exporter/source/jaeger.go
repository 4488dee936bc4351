package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/model"
	"go.uber.org/zap"
)

const defaultRequestTimeout = 10 * time.Second

// JaegerSource fetches traces through the Jaeger query API.
type JaegerSource struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewJaegerSource(baseURL string, timeout time.Duration, logger *zap.Logger) *JaegerSource {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &JaegerSource{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// jaegerResponse mirrors the fields of the Jaeger trace search response the
// exporter reads. Span start times and durations are microseconds.
type jaegerResponse struct {
	Data []jaegerTrace `json:"data"`
}

type jaegerTrace struct {
	TraceID string       `json:"traceID"`
	Spans   []jaegerSpan `json:"spans"`
}

type jaegerSpan struct {
	OperationName string `json:"operationName"`
	StartTime     uint64 `json:"startTime"`
	Duration      uint64 `json:"duration"`
}

func (s *JaegerSource) FetchTraces(
	ctx context.Context,
	service string,
	lookback time.Duration,
	limit int,
) ([]Trace, error) {
	params := url.Values{
		"service":  []string{service},
		"lookback": []string{lookback.String()},
		"limit":    []string{strconv.Itoa(limit)},
	}

	body, err := s.doRequest(ctx, "/api/traces", params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch traces from Jaeger: %w", err)
	}

	var response jaegerResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode Jaeger trace response: %w", err)
	}

	traces := make([]Trace, 0, len(response.Data))
	for _, fetched := range response.Data {
		spans := make([]model.SpanTiming, 0, len(fetched.Spans))
		for _, span := range fetched.Spans {
			startNs := span.StartTime * 1000
			spans = append(spans, model.SpanTiming{
				Operation:   span.OperationName,
				StartTimeNs: startNs,
				EndTimeNs:   startNs + span.Duration*1000,
			})
		}
		traces = append(traces, Trace{
			TraceID: fetched.TraceID,
			Spans:   spans,
		})
	}
	s.logger.Debug(
		"Fetched traces from Jaeger",
		zap.String("service", service),
		zap.Int("trace_count", len(traces)),
	)
	return traces, nil
}

func (s *JaegerSource) doRequest(ctx context.Context, apiPath string, params url.Values) ([]byte, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = apiPath
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code from Jaeger: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
