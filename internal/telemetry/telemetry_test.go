package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useRecorder installs an in-memory span recorder for the test.
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	UseProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() {
		_, _ = Init(context.Background(), Config{})
	})
	return rec
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "trans2ctl", cfg.ServiceName)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Init(ctx, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(ctx))
	assert.False(t, IsEnabled())

	ctx, span := StartSpan(ctx, "noop")
	defer span.End()
	assert.Equal(t, "", TraceID(ctx))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestCodecSpan(t *testing.T) {
	rec := useRecorder(t)

	ctx, span := StartCodecSpan(context.Background(), SpanTrans2Decode, Strictness("strict"))
	span.SetAttributes(Sections(1, 68, 12, 80, 0)...)
	RecordError(ctx, errors.New("trans2: truncated buffer"))
	assert.NotEmpty(t, TraceID(ctx))
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, SpanTrans2Decode, s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)

	attrs := map[string]any{}
	for _, kv := range s.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "SMB_COM_TRANSACTION2", attrs[AttrSMBCommand])
	assert.Equal(t, "strict", attrs[AttrStrictness])
	assert.Equal(t, int64(68), attrs[AttrParameterOffset])
	assert.Equal(t, int64(80), attrs[AttrDataOffset])
}

func TestCommandSpanParentsCodecSpan(t *testing.T) {
	rec := useRecorder(t)

	ctx, root := StartCommandSpan(context.Background(), "decode")
	_, child := StartCodecSpan(ctx, SpanTrans2Decode)
	child.End()
	root.End()

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestRecordErrorNil(t *testing.T) {
	require.NotPanics(t, func() {
		RecordError(context.Background(), nil)
	})
}

func TestIdentifiers(t *testing.T) {
	attrs := Identifiers(7, 2, 100)
	require.Len(t, attrs, 3)
	assert.Equal(t, AttrSMBMID, string(attrs[0].Key))
	assert.Equal(t, int64(7), attrs[0].Value.AsInt64())
}

func TestParseProfileType(t *testing.T) {
	pt, err := ParseProfileType("alloc_space")
	require.NoError(t, err)
	assert.Equal(t, pyroscope.ProfileAllocSpace, pt)

	_, err = ParseProfileType("heap")
	assert.Error(t, err)
}

func TestInitProfilingDisabled(t *testing.T) {
	stop, err := InitProfiling(ProfilingConfig{})
	require.NoError(t, err)
	assert.NoError(t, stop())
}

func TestInitProfilingBadType(t *testing.T) {
	_, err := InitProfiling(ProfilingConfig{Enabled: true, ProfileTypes: []string{"bogus"}})
	assert.Error(t, err)
}
