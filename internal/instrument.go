package loadtop

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// InstrumentedSource counts and times the fetches of the Source it wraps
type InstrumentedSource struct {
	Source
	fetches  *prometheus.CounterVec
	duration prometheus.Histogram
}

// Instrument wraps src and registers its collectors with reg
func Instrument(src Source, reg prometheus.Registerer) *InstrumentedSource {
	factory := promauto.With(reg)
	return &InstrumentedSource{
		Source: src,
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loadtop",
			Name:      "fetches_total",
			Help:      "Load fetches by source and result.",
		}, []string{"source", "result"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "loadtop",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching the load series.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (s *InstrumentedSource) FetchLoad(ctx context.Context) (Series, error) {
	start := time.Now()
	series, err := s.Source.FetchLoad(ctx)
	s.duration.Observe(time.Since(start).Seconds())

	result := "ok"
	if err != nil {
		result = "error"
	}
	s.fetches.WithLabelValues(s.Source.Name(), result).Inc()
	return series, err
}

// WriteMetrics writes everything g gathers in the Prometheus text format and
// returns the names of the families written.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) ([]string, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gathering metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return familyNames(families), nil
}

func familyNames(families []*dto.MetricFamily) []string {
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	return names
}
