package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRecordError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, span := provider.Tracer("test").Start(context.Background(), "given error")
	RecordError(errors.New("boom"), span)
	span.End()

	_, span = provider.Tracer("test").Start(context.Background(), "given nil error")
	RecordError(nil, span)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	assert.Len(t, spans[0].Events(), 2)
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}

func TestShutdownOtel(t *testing.T) {
	ok := func(context.Context) error { return nil }
	failing := func(context.Context) error { return errors.New("shutdown failed") }

	err := ShutdownOtel(context.Background(), []ShutdownFunc{ok, ok})
	assert.NoError(t, err)

	err = ShutdownOtel(context.Background(), []ShutdownFunc{ok, failing})
	assert.ErrorContains(t, err, "shutdown failed")
}
