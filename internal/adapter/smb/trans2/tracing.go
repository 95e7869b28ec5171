package trans2

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/marmos91/smbtrans2/internal/telemetry"
)

func (c *Codec) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, telemetry.Strictness(c.opts.Strictness.String()))
	return telemetry.StartCodecSpan(ctx, name, attrs...)
}

// endSpan annotates span with the outcome of one codec call and ends it.
// req and l are nil when err is set.
func endSpan(span trace.Span, req *Request, l *Layout, err error) {
	defer span.End()

	span.SetAttributes(telemetry.Result(errorLabel(err)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(telemetry.MessageLength(l.Length))
	span.SetAttributes(telemetry.Sections(int(l.SetupCount),
		int(l.ParameterOffset), int(l.ParameterCount),
		int(l.DataOffset), int(l.DataCount))...)
	if req.Header != nil {
		span.SetAttributes(telemetry.Identifiers(req.Header.MID, req.Header.TID, req.Header.UID)...)
	}
	if sub, ok := req.Subcommand(); ok {
		span.SetAttributes(telemetry.Subcommand(sub.String()))
	}
}
