package tracing

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rawline/internal/lineerr"
)

// SpanReadLine is the span recorded around one line read.
const SpanReadLine = "readline.read_line"

// Span attribute keys.
const (
	AttrMode       = "readline.mode"
	AttrBytesRead  = "readline.bytes_read"
	AttrTokens     = "readline.tokens"
	AttrDiscarded  = "readline.discarded"
	AttrResult     = "readline.result"
	AttrLineLength = "readline.line_length"
)

// Values of AttrResult.
const (
	ResultOK          = "ok"
	ResultCancelled   = "cancelled"
	ResultEndOfFile   = "eof"
	ResultUnsupported = "unsupported"
	ResultError       = "error"
)

// StartReadLine opens the span for one line read.
func StartReadLine(ctx context.Context, tracer trace.Tracer, mode string) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanReadLine,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String(AttrMode, mode)),
	)
}

// Classify names the outcome of a line read for AttrResult.
func Classify(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, lineerr.ErrCancelled):
		return ResultCancelled
	case errors.Is(err, lineerr.ErrEndOfFile):
		return ResultEndOfFile
	case errors.Is(err, lineerr.ErrUnsupportedTerminal):
		return ResultUnsupported
	default:
		return ResultError
	}
}

// EndReadLine records the outcome on span. Cancellation and end of file are
// normal ways for a read to end and do not mark the span as failed.
func EndReadLine(span trace.Span, err error, attrs ...attribute.KeyValue) {
	result := Classify(err)
	span.SetAttributes(append(attrs, attribute.String(AttrResult, result))...)

	switch result {
	case ResultOK, ResultCancelled, ResultEndOfFile:
		span.SetStatus(codes.Ok, "")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
