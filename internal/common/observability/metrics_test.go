package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestNew_RecordsIntoRegistry(t *testing.T) {
	reg := promclient.NewRegistry()
	o := New(Options{ServiceName: "test", TracingEnabled: true, Registerer: reg})
	defer o.Shutdown()

	ctx := context.Background()
	o.RecordQuestionProcessed(ctx, "exact", "predefined")
	o.RecordQuestionDuration(ctx, 12*time.Millisecond, "exact")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["questions_processed_total"], "gathered: %v", names)
	assert.True(t, names["questions_duration_milliseconds"], "gathered: %v", names)
}

func TestStartSpan_Tracing(t *testing.T) {
	o := New(Options{ServiceName: "test", TracingEnabled: true, Registerer: promclient.NewRegistry()})
	defer o.Shutdown()

	ctx, span := o.StartSpan(context.Background(), "resolve", attribute.String("method", "exact"))
	defer span.End()

	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.IsRecording())
	assert.NotNil(t, ctx)
}

func TestNoop_IsSafe(t *testing.T) {
	o := NewNoop()
	ctx, span := o.StartSpan(context.Background(), "resolve")
	span.End()

	o.RecordQuestionProcessed(ctx, "none", "fallback")
	o.RecordQuestionDuration(ctx, time.Millisecond, "none")
	o.Shutdown()

	var nilObs *Observability
	_, span = nilObs.StartSpan(context.Background(), "resolve")
	span.End()
	assert.False(t, span.IsRecording())
	assert.NotNil(t, nilObs.TracerProvider())
}
