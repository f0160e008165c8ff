package loadtop

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Label is one tick of the time axis. The endpoint may send strings or
// numbers; numbers keep their literal JSON text.
type Label string

func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("null timestamp label")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("timestamp label %s is neither a string nor a number", data)
	}
	*l = Label(data)
	return nil
}

// RawMetricsResponse is the payload of the load endpoint. Index i of every
// field refers to the same sample.
type RawMetricsResponse struct {
	Timestamp        []Label   `json:"timestamp"`
	CPUPercentage    []float64 `json:"cpu_percentage"`
	MemoryPercentage []float64 `json:"memory_percentage"`
}

// rawMetricsPayload tells a missing or null field apart from an empty one,
// and a null sample apart from a zero.
type rawMetricsPayload struct {
	Timestamp        *[]Label    `json:"timestamp"`
	CPUPercentage    *[]*float64 `json:"cpu_percentage"`
	MemoryPercentage *[]*float64 `json:"memory_percentage"`
}

// DecodeRawMetrics reads one load payload and checks it against the endpoint
// contract. Every failure wraps ErrMalformedResponse.
func DecodeRawMetrics(r io.Reader) (RawMetricsResponse, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return RawMetricsResponse{}, fmt.Errorf("reading load response: %w", err)
	}

	// Unmarshal rejects anything after the object
	var payload rawMetricsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return RawMetricsResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch {
	case payload.Timestamp == nil:
		return RawMetricsResponse{}, fmt.Errorf("%w: missing field %q", ErrMalformedResponse, "timestamp")
	case payload.CPUPercentage == nil:
		return RawMetricsResponse{}, fmt.Errorf("%w: missing field %q", ErrMalformedResponse, "cpu_percentage")
	case payload.MemoryPercentage == nil:
		return RawMetricsResponse{}, fmt.Errorf("%w: missing field %q", ErrMalformedResponse, "memory_percentage")
	}

	cpu, err := percentages("cpu_percentage", *payload.CPUPercentage)
	if err != nil {
		return RawMetricsResponse{}, err
	}
	mem, err := percentages("memory_percentage", *payload.MemoryPercentage)
	if err != nil {
		return RawMetricsResponse{}, err
	}

	raw := RawMetricsResponse{
		Timestamp:        *payload.Timestamp,
		CPUPercentage:    cpu,
		MemoryPercentage: mem,
	}
	if err := raw.Validate(); err != nil {
		return RawMetricsResponse{}, err
	}
	return raw, nil
}

func percentages(field string, values []*float64) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			return nil, fmt.Errorf("%w: %s[%d] is null", ErrMalformedResponse, field, i)
		}
		out[i] = *v
	}
	return out, nil
}

// Validate checks that the three arrays have the same length.
func (r RawMetricsResponse) Validate() error {
	n := len(r.Timestamp)
	if len(r.CPUPercentage) != n || len(r.MemoryPercentage) != n {
		return fmt.Errorf("%w: timestamp has %d samples, cpu_percentage %d, memory_percentage %d",
			ErrMalformedResponse, n, len(r.CPUPercentage), len(r.MemoryPercentage))
	}
	return nil
}

// Series reshapes the payload. The result shares no memory with r.
func (r RawMetricsResponse) Series() Series {
	s := Series{
		Time: make([]string, len(r.Timestamp)),
		CPU:  make([]float64, len(r.CPUPercentage)),
		Mem:  make([]float64, len(r.MemoryPercentage)),
	}
	for i, l := range r.Timestamp {
		s.Time[i] = string(l)
	}
	copy(s.CPU, r.CPUPercentage)
	copy(s.Mem, r.MemoryPercentage)
	return s
}

// Series is the time/CPU/memory triple the chart is drawn from. CPU and Mem
// are percentages; values outside [0,100] are kept as they are.
type Series struct {
	Time []string
	CPU  []float64
	Mem  []float64
}

// Len returns the number of samples, or -1 when the sequences disagree.
func (s Series) Len() int {
	if s.Validate() != nil {
		return -1
	}
	return len(s.Time)
}

// Validate reports ErrSeriesLength when the sequences differ in length.
func (s Series) Validate() error {
	if len(s.CPU) != len(s.Time) || len(s.Mem) != len(s.Time) {
		return fmt.Errorf("%w: time %d, cpu %d, mem %d", ErrSeriesLength, len(s.Time), len(s.CPU), len(s.Mem))
	}
	return nil
}
