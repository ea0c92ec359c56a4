// If you are AI: This file tests tracing setup without a collector.

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vodflv/internal/config"
)

func TestInitDisabled(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	shutdown, err := Init(context.Background(), config.TelemetryConfig{ServiceName: "vodflv", SampleRate: 1})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSampleRate(t *testing.T) {
	t.Setenv("OTEL_TRACE_SAMPLE_RATE", "")
	require.Equal(t, 0.5, sampleRate(0.5))

	t.Setenv("OTEL_TRACE_SAMPLE_RATE", "0.2")
	require.Equal(t, 0.2, sampleRate(0.5))

	t.Setenv("OTEL_TRACE_SAMPLE_RATE", "7")
	require.Equal(t, 0.5, sampleRate(0.5))
}
