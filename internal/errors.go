package loadtop

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse is returned when a load payload is not valid JSON,
	// omits one of its fields or carries arrays of different lengths.
	ErrMalformedResponse = errors.New("malformed load response")

	// ErrNoSurface is returned when a chart is rendered without a drawing surface.
	ErrNoSurface = errors.New("no drawing surface")

	// ErrSeriesLength is returned when the time, cpu and mem sequences of a
	// series differ in length.
	ErrSeriesLength = errors.New("series lengths differ")

	// ErrSurfaceTooSmall is returned when the surface cannot hold the chart layout.
	ErrSurfaceTooSmall = errors.New("drawing surface too small")

	// ErrInvalidOptions is returned for chart options the renderer cannot honour.
	ErrInvalidOptions = errors.New("invalid chart options")
)

// FetchError reports a load request that did not produce a response body to decode.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
