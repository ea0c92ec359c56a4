// If you are AI: This file tests collector registration.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)

	DegradationsTotal.WithLabelValues("no_keyframe_index").Inc()
	require.Equal(t, 1.0, testutil.ToFloat64(DegradationsTotal.WithLabelValues("no_keyframe_index")))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	require.Panics(t, func() { Register(reg) }, "collectors register once")
}
