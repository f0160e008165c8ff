package loadtop

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-logr/logr"
)

// MetricsFetcher reads the load endpoint of a dashboard host.
type MetricsFetcher struct {
	endpoint *url.URL
	client   *http.Client
	logger   logr.Logger
}

// NewMetricsFetcher returns a fetcher for the load endpoint at the origin of
// base. A nil client means a plain http.Client, which has no timeout.
func NewMetricsFetcher(base *url.URL, client *http.Client, logger logr.Logger) *MetricsFetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &MetricsFetcher{
		endpoint: LoadEndpoint(base),
		client:   client,
		logger:   logger.WithName("fetcher"),
	}
}

func (f *MetricsFetcher) Name() string {
	return f.endpoint.Host
}

// Endpoint returns the URL FetchLoad requests
func (f *MetricsFetcher) Endpoint() string {
	return f.endpoint.String()
}

// FetchLoad issues one GET to the load endpoint and reshapes the payload.
// There is no retry; ctx is the only way to abandon the request.
func (f *MetricsFetcher) FetchLoad(ctx context.Context) (Series, error) {
	endpoint := f.endpoint.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Series{}, &FetchError{URL: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	f.logger.V(1).Info("requesting load", "url", endpoint)
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error(err, "load request failed", "url", endpoint)
		return Series{}, &FetchError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		err := &FetchError{URL: endpoint, StatusCode: resp.StatusCode}
		f.logger.Error(err, "load request rejected", "status", resp.StatusCode)
		return Series{}, err
	}

	if mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mediaType != "application/json" {
		f.logger.V(1).Info("load response is not labelled as JSON", "contentType", resp.Header.Get("Content-Type"))
	}

	raw, err := DecodeRawMetrics(resp.Body)
	if err != nil {
		f.logger.Error(err, "decoding load response", "url", endpoint)
		return Series{}, err
	}

	series := raw.Series()
	f.logger.V(1).Info("load received", "samples", len(series.Time))
	return series, nil
}
