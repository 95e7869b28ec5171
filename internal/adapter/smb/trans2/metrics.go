package trans2

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks TRANSACTION2 codec Prometheus metrics.
//
// All metrics use the smb_trans2_ prefix. A nil *Metrics is a valid no-op
// collector.
type Metrics struct {
	// EncodeTotal counts Encode calls by result
	EncodeTotal *prometheus.CounterVec

	// DecodeTotal counts Decode calls by result
	DecodeTotal *prometheus.CounterVec

	// MisalignedTotal counts offsets accepted despite not being 4-aligned
	MisalignedTotal *prometheus.CounterVec

	// SectionBytes tracks payload sizes of successfully coded requests
	SectionBytes *prometheus.HistogramVec
}

// NewMetrics creates codec metrics and registers them on reg.
// Panics if registration fails (expected during initialization only).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EncodeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smb_trans2_encode_total",
				Help: "Total TRANSACTION2 encode calls by result",
			},
			[]string{"result"},
		),
		DecodeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smb_trans2_decode_total",
				Help: "Total TRANSACTION2 decode calls by result",
			},
			[]string{"result"}, // "ok", "truncated", "misaligned", "malformed", "invalid_setup"
		),
		MisalignedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smb_trans2_misaligned_offsets_total",
				Help: "Misaligned offsets tolerated by lenient decode",
			},
			[]string{"field"},
		),
		SectionBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smb_trans2_section_bytes",
				Help:    "Size of TRANSACTION2 parameter and data sections in bytes",
				Buckets: prometheus.ExponentialBuckets(16, 4, 6),
			},
			[]string{"direction", "section"},
		),
	}

	reg.MustRegister(
		m.EncodeTotal,
		m.DecodeTotal,
		m.MisalignedTotal,
		m.SectionBytes,
	)

	return m
}

// RecordEncode records one Encode call.
func (m *Metrics) RecordEncode(err error, l *Layout) {
	if m == nil {
		return
	}
	m.EncodeTotal.WithLabelValues(errorLabel(err)).Inc()
	if err == nil && l != nil {
		m.observeSections("encode", l)
	}
}

// RecordDecode records one Decode call.
func (m *Metrics) RecordDecode(err error, l *Layout) {
	if m == nil {
		return
	}
	m.DecodeTotal.WithLabelValues(errorLabel(err)).Inc()
	if err == nil && l != nil {
		m.observeSections("decode", l)
	}
}

// RecordMisaligned records a tolerated misaligned offset.
//
// Parameters:
//   - field: "parameter_offset" or "data_offset"
func (m *Metrics) RecordMisaligned(field string) {
	if m == nil {
		return
	}
	m.MisalignedTotal.WithLabelValues(field).Inc()
}

func (m *Metrics) observeSections(direction string, l *Layout) {
	m.SectionBytes.WithLabelValues(direction, "parameters").Observe(float64(l.ParameterCount))
	m.SectionBytes.WithLabelValues(direction, "data").Observe(float64(l.DataCount))
}
