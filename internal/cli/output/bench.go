package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/marmos91/smbtrans2/internal/bytesize"
)

// BenchResult summarizes a codec round-trip benchmark.
type BenchResult struct {
	Iterations     int           `json:"iterations" yaml:"iterations"`
	Workers        int           `json:"workers" yaml:"workers"`
	Strictness     string        `json:"strictness" yaml:"strictness"`
	SetupCount     int           `json:"setup_count" yaml:"setup_count"`
	ParameterBytes int           `json:"parameter_bytes" yaml:"parameter_bytes"`
	DataBytes      int           `json:"data_bytes" yaml:"data_bytes"`
	MessageBytes   int           `json:"message_bytes" yaml:"message_bytes"`
	Elapsed        time.Duration `json:"elapsed_ns" yaml:"elapsed"`
}

// RoundTripsPerSecond is the benchmark throughput in encode+decode pairs.
func (r *BenchResult) RoundTripsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Iterations) / r.Elapsed.Seconds()
}

// Headers implements TableRenderer.
func (r *BenchResult) Headers() []string {
	return []string{"Metric", "Value"}
}

// Rows implements TableRenderer.
func (r *BenchResult) Rows() [][]string {
	total := bytesize.ByteSize(r.Iterations * r.MessageBytes)
	return [][]string{
		{"Iterations", strconv.Itoa(r.Iterations)},
		{"Workers", strconv.Itoa(r.Workers)},
		{"Strictness", r.Strictness},
		{"Setup words", strconv.Itoa(r.SetupCount)},
		{"Parameters", bytesize.ByteSize(r.ParameterBytes).String()},
		{"Data", bytesize.ByteSize(r.DataBytes).String()},
		{"Message", bytesize.ByteSize(r.MessageBytes).String()},
		{"Total encoded", total.String()},
		{"Elapsed", r.Elapsed.Round(time.Microsecond).String()},
		{"Round trips/s", fmt.Sprintf("%.0f", r.RoundTripsPerSecond())},
	}
}
