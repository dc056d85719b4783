package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "carpeta/registry"

// OTelTracer starts spans of one kind on an OpenTelemetry tracer.
type OTelTracer struct {
	tracer trace.Tracer
	kind   trace.SpanKind
}

// NewOTel traces through the global provider. Gateway calls are client spans.
func NewOTel() *OTelTracer {
	return NewWithProvider(otel.GetTracerProvider())
}

// NewNoop records nothing; it is the default until WithTracer is used.
func NewNoop() *OTelTracer {
	return NewWithProvider(noop.NewTracerProvider())
}

func NewWithProvider(provider trace.TracerProvider) *OTelTracer {
	return &OTelTracer{
		tracer: provider.Tracer(instrumentationName),
		kind:   trace.SpanKindClient,
	}
}

func (t *OTelTracer) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name,
		trace.WithSpanKind(t.kind),
		trace.WithAttributes(attrs...),
	)
	return ctx, otelSpan{span}
}

type otelSpan struct {
	trace.Span
}

func (s otelSpan) End(err error) {
	if err != nil {
		s.Span.RecordError(err)
		s.Span.SetStatus(codes.Error, err.Error())
	} else {
		s.Span.SetStatus(codes.Ok, "")
	}
	s.Span.End()
}

func (s otelSpan) SetAttributes(attrs ...Attribute) {
	s.Span.SetAttributes(attrs...)
}

func (s otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.Span.AddEvent(name, trace.WithAttributes(attrs...))
}

var _ Tracer = (*OTelTracer)(nil)
