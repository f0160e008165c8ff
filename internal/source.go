package loadtop

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
)

// Source produces one load series per call. Implementations keep no state
// between calls.
type Source interface {
	FetchLoad(ctx context.Context) (Series, error)
	Name() string
}

// SourceConfig selects and configures a Source
type SourceConfig struct {
	Kind          string // "load" or "prometheus"
	BaseURL       string
	PrometheusURL string
	Instance      string
	Window        time.Duration
	Step          time.Duration
}

// NewSource builds the source described by cfg
func NewSource(cfg SourceConfig, client *http.Client, logger logr.Logger) (Source, error) {
	switch cfg.Kind {
	case "", "load":
		base, err := ParseBaseURL(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return NewMetricsFetcher(base, client, logger), nil
	case "prometheus":
		u, err := ParseBaseURL(cfg.PrometheusURL)
		if err != nil {
			return nil, err
		}
		return NewPrometheusSource(u, cfg.Instance, cfg.Window, cfg.Step, logger)
	default:
		return nil, fmt.Errorf("unknown source %q (want load or prometheus)", cfg.Kind)
	}
}

// Checker is implemented by sources that can verify their backend before use
type Checker interface {
	Check(ctx context.Context) error
}

// ConnectSource builds the source described by cfg and, when it is a Checker,
// makes sure the backend answers before returning it.
func ConnectSource(ctx context.Context, cfg SourceConfig, client *http.Client, logger logr.Logger) (Source, error) {
	src, err := NewSource(cfg, client, logger)
	if err != nil {
		return nil, err
	}
	if c, ok := src.(Checker); ok {
		logger.V(1).Info("checking source", "name", src.Name())
		if err := c.Check(ctx); err != nil {
			return nil, fmt.Errorf("connecting to %s: %w", src.Name(), err)
		}
	}
	return src, nil
}

// ParseBaseURL parses a user supplied URL, defaulting the scheme to http
// when only a host is given.
func ParseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q has no host", raw)
	}
	return u, nil
}

// LoadEndpoint returns the load endpoint for base: its origin followed by
// LOAD_ENDPOINT_PATH. Path, query and fragment of base are ignored.
func LoadEndpoint(base *url.URL) *url.URL {
	return &url.URL{
		Scheme: base.Scheme,
		Host:   base.Host,
		Path:   LOAD_ENDPOINT_PATH,
	}
}
