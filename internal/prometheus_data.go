package loadtop

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// PrometheusSource builds the load series from node_exporter data stored in Prometheus.
type PrometheusSource struct {
	client   api.Client
	url      *url.URL
	instance string
	window   time.Duration
	step     time.Duration
	logger   logr.Logger

	// now is replaced in tests
	now func() time.Time
}

func NewPrometheusSource(prometheusURL *url.URL, instance string, window, step time.Duration, logger logr.Logger) (*PrometheusSource, error) {
	client, err := api.NewClient(api.Config{
		Address: prometheusURL.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus client: %w", err)
	}

	if window <= 0 {
		window = DefaultWindow()
	}
	if step <= 0 {
		step = DefaultStep()
	}

	return &PrometheusSource{
		client:   client,
		url:      prometheusURL,
		instance: instance,
		window:   window,
		step:     step,
		logger:   logger.WithName("prometheus"),
		now:      time.Now,
	}, nil
}

func (p *PrometheusSource) Name() string {
	if p.instance != "" {
		return p.instance
	}
	return p.url.Host
}

// Check verifies that the Prometheus API answers queries
func (p *PrometheusSource) Check(ctx context.Context) error {
	v1api := v1.NewAPI(p.client)
	_, warnings, err := v1api.Query(ctx, "up", p.now())
	if err != nil {
		return fmt.Errorf("prometheus API query failed: %w", err)
	}
	if len(warnings) > 0 {
		p.logger.Info("prometheus warnings", "warnings", warnings)
	}
	return nil
}

func (p *PrometheusSource) selector(extra string) string {
	sel := `job="node_exporter"`
	if p.instance != "" {
		sel += ",instance=" + strconv.Quote(p.instance)
	}
	if extra != "" {
		sel += "," + extra
	}
	return "{" + sel + "}"
}

func (p *PrometheusSource) cpuQuery() string {
	return "100 - (avg(rate(node_cpu_seconds_total" + p.selector(`mode="idle"`) + "[" + CPURateIntervalString() + "])) * 100)"
}

func (p *PrometheusSource) memQuery() string {
	return "100 * (1 - sum(node_memory_MemAvailable_bytes" + p.selector("") + ") / sum(node_memory_MemTotal_bytes" + p.selector("") + "))"
}

// FetchLoad runs the CPU and memory range queries over the configured window
// and joins them into one series.
func (p *PrometheusSource) FetchLoad(ctx context.Context) (Series, error) {
	end := p.now().Truncate(p.step)
	r := v1.Range{
		Start: end.Add(-p.window),
		End:   end,
		Step:  p.step,
	}

	cpu, err := p.queryRange(ctx, p.cpuQuery(), r)
	if err != nil {
		return Series{}, err
	}
	mem, err := p.queryRange(ctx, p.memQuery(), r)
	if err != nil {
		return Series{}, err
	}

	if len(cpu) != len(mem) {
		return Series{}, fmt.Errorf("%w: %d cpu samples, %d memory samples", ErrMalformedResponse, len(cpu), len(mem))
	}

	series := Series{
		Time: make([]string, len(cpu)),
		CPU:  make([]float64, len(cpu)),
		Mem:  make([]float64, len(mem)),
	}
	for i := range cpu {
		if !cpu[i].Timestamp.Equal(mem[i].Timestamp) {
			return Series{}, fmt.Errorf("%w: cpu sample at %v has no memory sample", ErrMalformedResponse, cpu[i].Timestamp.Time())
		}
		series.Time[i] = cpu[i].Timestamp.Time().Local().Format("15:04")
		series.CPU[i] = float64(cpu[i].Value)
		series.Mem[i] = float64(mem[i].Value)
	}
	p.logger.V(1).Info("load received", "samples", len(series.Time))
	return series, nil
}

// queryRange returns the samples of the single stream a query yields.
// No stream at all is an empty result.
func (p *PrometheusSource) queryRange(ctx context.Context, query string, r v1.Range) ([]model.SamplePair, error) {
	v1api := v1.NewAPI(p.client)
	result, warnings, err := v1api.QueryRange(ctx, query, r)
	if err != nil {
		return nil, &FetchError{URL: p.url.String(), Err: err}
	}
	if len(warnings) > 0 {
		p.logger.Info("prometheus warnings", "warnings", warnings)
	}

	matrix, ok := result.(model.Matrix)
	if !ok {
		return nil, fmt.Errorf("%w: expected a matrix, got %s", ErrMalformedResponse, result.Type())
	}
	switch len(matrix) {
	case 0:
		return nil, nil
	case 1:
		return matrix[0].Values, nil
	default:
		return nil, fmt.Errorf("%w: query returned %d series, want 1", ErrMalformedResponse, len(matrix))
	}
}
