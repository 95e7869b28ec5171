package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for SMB1 TRANSACTION2 spans.
const (
	AttrSMBCommand = "smb.command"
	AttrSMBMID     = "smb.mid"
	AttrSMBTID     = "smb.tid"
	AttrSMBUID     = "smb.uid"

	AttrSubcommand      = "smb.trans2.subcommand"
	AttrStrictness      = "smb.trans2.strictness"
	AttrSetupCount      = "smb.trans2.setup_count"
	AttrParameterOffset = "smb.trans2.parameter_offset"
	AttrParameterCount  = "smb.trans2.parameter_count"
	AttrDataOffset      = "smb.trans2.data_offset"
	AttrDataCount       = "smb.trans2.data_count"
	AttrMessageLength   = "smb.trans2.message_length"
	AttrResult          = "smb.trans2.result"

	AttrCLICommand = "cli.command"
	AttrIterations = "bench.iterations"
	AttrWorkers    = "bench.workers"
)

// Span names.
const (
	SpanTrans2Encode = "smb1.trans2.encode"
	SpanTrans2Decode = "smb1.trans2.decode"
	SpanCLICommand   = "trans2ctl.command"
	SpanBench        = "trans2ctl.bench"
)

// Subcommand returns an attribute for the Setup[0] sub-command name.
func Subcommand(name string) attribute.KeyValue {
	return attribute.String(AttrSubcommand, name)
}

// Strictness returns an attribute for the decode strictness.
func Strictness(name string) attribute.KeyValue {
	return attribute.String(AttrStrictness, name)
}

// Result returns an attribute for the outcome label of a codec call.
func Result(label string) attribute.KeyValue {
	return attribute.String(AttrResult, label)
}

// MessageLength returns an attribute for the size of an SMB1 message.
func MessageLength(n int) attribute.KeyValue {
	return attribute.Int(AttrMessageLength, n)
}

// Identifiers returns the header identifiers of a request.
func Identifiers(mid, tid, uid uint16) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrSMBMID, int(mid)),
		attribute.Int(AttrSMBTID, int(tid)),
		attribute.Int(AttrSMBUID, int(uid)),
	}
}

// Sections returns the placement of the parameter and data sections.
func Sections(setupCount, paramOffset, paramCount, dataOffset, dataCount int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrSetupCount, setupCount),
		attribute.Int(AttrParameterOffset, paramOffset),
		attribute.Int(AttrParameterCount, paramCount),
		attribute.Int(AttrDataOffset, dataOffset),
		attribute.Int(AttrDataCount, dataCount),
	}
}

// StartCodecSpan starts an encode or decode span for SMB_COM_TRANSACTION2.
func StartCodecSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{attribute.String(AttrSMBCommand, "SMB_COM_TRANSACTION2")}, attrs...)
	return StartSpan(ctx, name, trace.WithAttributes(all...), trace.WithSpanKind(trace.SpanKindInternal))
}

// StartCommandSpan starts the root span of one CLI invocation.
func StartCommandSpan(ctx context.Context, command string) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanCLICommand, trace.WithAttributes(attribute.String(AttrCLICommand, command)))
}

// StartBenchSpan starts the span covering a codec round-trip benchmark.
func StartBenchSpan(ctx context.Context, iterations, workers int) (context.Context, trace.Span) {
	return StartSpan(ctx, SpanBench, trace.WithAttributes(
		attribute.Int(AttrIterations, iterations),
		attribute.Int(AttrWorkers, workers),
	))
}
