package observability_test

import (
	"context"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"riad/internal/observability"
)

type recordingPublisher struct {
	messages []*message.Message
}

func (p *recordingPublisher) Publish(_ string, messages ...*message.Message) error {
	p.messages = append(p.messages, messages...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func TestTracePropagation(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := tracesdk.NewTracerProvider(tracesdk.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	ctx, parent := tp.Tracer("test").Start(context.Background(), "intake")

	msg := message.NewMessage(watermill.NewUUID(), []byte(`{}`))
	msg.SetContext(ctx)
	msg.Metadata.Set("name", "BookingAccepted_v1")

	pub := &recordingPublisher{}
	require.NoError(t, observability.PublisherWithTracing{Publisher: pub}.Publish("events", msg))
	parent.End()

	require.Len(t, pub.messages, 1)
	assert.NotEmpty(t, pub.messages[0].Metadata.Get("traceparent"))

	received := message.NewMessage(msg.UUID, msg.Payload)
	received.Metadata = pub.messages[0].Metadata

	var handlerTraceID trace.TraceID
	handler := observability.TracingMiddleware(func(m *message.Message) ([]*message.Message, error) {
		handlerTraceID = trace.SpanContextFromContext(m.Context()).TraceID()
		return nil, nil
	})
	_, err := handler(received)
	require.NoError(t, err)

	assert.Equal(t, parent.SpanContext().TraceID(), handlerTraceID)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "Handle BookingAccepted_v1", spans[1].Name)
}
