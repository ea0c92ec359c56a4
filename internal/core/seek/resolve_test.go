// If you are AI: This file tests keyframe resolution and time-range orchestration.

package seek

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"vodflv/internal/core/protocol/amf0"
	"vodflv/internal/core/protocol/flv/flvtest"
)

// mustIndex builds a file and parses its index.
func mustIndex(t *testing.T, opts flvtest.Options) (*flvtest.File, *Index) {
	t.Helper()
	f := flvtest.Build(opts)
	idx, err := ParseIndex(f.Data)
	require.NoError(t, err)
	return f, idx
}

func TestResolveStartZero(t *testing.T) {
	f, idx := mustIndex(t, flvtest.Options{Keyframes: 500})
	r := idx.ResolveStart(0)
	require.Equal(t, Found, r.Kind)
	require.Equal(t, 0, r.Index)
	require.Equal(t, int64(f.Positions[0]), r.Offset)
}

func TestResolveHalfSecondGrid(t *testing.T) {
	f, idx := mustIndex(t, flvtest.Options{Keyframes: 500})
	require.Equal(t, 998.0, f.Times[499])

	start := idx.ResolveStart(301)
	require.Equal(t, Found, start.Kind)
	require.Equal(t, 150, start.Index)
	require.Equal(t, 300.0, start.Time)
	require.Equal(t, int64(f.Positions[150]), start.Offset)

	end := idx.ResolveEnd(301, start.Index)
	require.Equal(t, Found, end.Kind)
	require.Equal(t, 151, end.Index)
	require.Equal(t, 302.0, end.Time)
	require.Equal(t, int64(f.Positions[151])-1, end.Offset)
}

func TestResolveExactHit(t *testing.T) {
	_, idx := mustIndex(t, flvtest.Options{Keyframes: 500})
	for _, i := range []int{1, 2, 150, 333, 498, 499} {
		r := idx.ResolveStart(float64(i * 2))
		require.Equal(t, i, r.Index, "time %d", i*2)
	}
}

func TestResolveBeyondLastKeyframe(t *testing.T) {
	f, idx := mustIndex(t, flvtest.Options{Keyframes: 500})
	for _, v := range []float64{998.5, 999.9, 5000} {
		r := idx.ResolveStart(v)
		require.Equal(t, Found, r.Kind)
		require.Equal(t, 499, r.Index)
		require.Equal(t, int64(f.Positions[499]), r.Offset)
	}
}

func TestResolveGreatestNotAfter(t *testing.T) {
	f, idx := mustIndex(t, flvtest.Options{Keyframes: 500, Interval: 1.5})
	rng := rand.New(rand.NewSource(7))
	last := f.Times[len(f.Times)-1]
	for n := 0; n < 2000; n++ {
		v := rng.Float64() * (last + 3)
		r := idx.ResolveStart(v)
		require.Equal(t, Found, r.Kind)
		if v >= last {
			require.Equal(t, 499, r.Index)
			continue
		}
		require.LessOrEqual(t, f.Times[r.Index], v)
		require.Greater(t, f.Times[r.Index+1], v, "value %v resolved to %d", v, r.Index)
	}
}

func TestResolveMonotonic(t *testing.T) {
	_, idx := mustIndex(t, flvtest.Options{Keyframes: 300})
	rng := rand.New(rand.NewSource(11))
	values := make([]float64, 500)
	for i := range values {
		values[i] = rng.Float64() * 650
	}
	sort.Float64s(values)

	prev := -1
	for _, v := range values {
		r := idx.ResolveStart(v)
		require.GreaterOrEqual(t, r.Index, prev)
		prev = r.Index
	}
}

func TestResolveSkipsInvalidRecords(t *testing.T) {
	f := flvtest.Build(flvtest.Options{Keyframes: 500})
	f.Data[f.TimeRecord(249)] = amf0.TypeNull
	f.Data[f.TimeRecord(250)] = amf0.TypeUndefined
	idx, err := ParseIndex(f.Data)
	require.NoError(t, err)

	r := idx.ResolveStart(301)
	require.Equal(t, Found, r.Kind)
	require.Equal(t, 150, r.Index)
}

func TestResolveExhaustedAndNoIndex(t *testing.T) {
	_, idx := mustIndex(t, flvtest.Options{Keyframes: 500})
	require.Equal(t, Exhausted, idx.ResolveEnd(998, 499).Kind)
	require.Equal(t, Exhausted, idx.ResolveEnd(5000, 499).Kind)

	var none *Index
	require.Equal(t, NoIndex, none.ResolveStart(1).Kind)
	require.Equal(t, "no_index", NoIndex.String())
	require.Equal(t, "found", Found.String())
	require.Equal(t, "exhausted", Exhausted.String())

	single, idx1 := mustIndex(t, flvtest.Options{Keyframes: 1})
	r := idx1.ResolveStart(5)
	require.Equal(t, Found, r.Kind)
	require.Equal(t, int64(single.Positions[0]), r.Offset)
	require.Equal(t, Exhausted, idx1.ResolveEnd(5, 0).Kind)
}

func TestResolveUnreadablePosition(t *testing.T) {
	f := flvtest.Build(flvtest.Options{Keyframes: 500})
	idx, err := ParseIndex(f.Data[:f.PositionRecord(40)])
	require.NoError(t, err)

	require.Equal(t, Found, idx.ResolveStart(20).Kind)
	require.Equal(t, NoIndex, idx.ResolveStart(300).Kind)
}

func TestOrchestrate(t *testing.T) {
	f, idx := mustIndex(t, flvtest.Options{Keyframes: 500})
	size := int64(len(f.Data))
	pos := func(i int) int64 { return int64(f.Positions[i]) }

	tests := []struct {
		name     string
		req      TimeRequest
		start    int64
		end      int64
		toEOF    bool
		duration float64
	}{
		{"open ended", TimeRequest{Start: 301}, pos(150), size, true, 700},
		{"single gop", TimeRequest{Start: 301, End: 301, HasEnd: true}, pos(150), pos(151) - 1, false, 2},
		{"bounded", TimeRequest{Start: 100, End: 201, HasEnd: true}, pos(50), pos(100) - 1, false, 100},
		{"end past last keyframe", TimeRequest{Start: 100, End: 999, HasEnd: true}, pos(50), pos(499) - 1, false, 898},
		{"end before start", TimeRequest{Start: 100, End: 50, HasEnd: true}, pos(50), size, true, 900},
		{"end beyond total", TimeRequest{Start: 100, End: 2000, HasEnd: true}, pos(50), size, true, 900},
		{"end exhausted", TimeRequest{Start: 998, End: 999, HasEnd: true}, pos(499), size, true, 2},
		{"negative start", TimeRequest{Start: -3}, pos(0), size, true, 1000},
		{"start beyond total", TimeRequest{Start: 5000}, pos(499), size, true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Orchestrate(idx, 1000, tt.req, size)
			require.True(t, ok)
			require.Equal(t, tt.start, r.StartOffset)
			require.Equal(t, tt.end, r.EndOffset)
			require.Equal(t, tt.toEOF, r.ToEOF)
			require.InDelta(t, tt.duration, r.Duration, 1e-9)
			require.Equal(t, 1000.0, r.Total)
		})
	}
}

func TestOrchestrateClampsStart(t *testing.T) {
	f, idx := mustIndex(t, flvtest.Options{Keyframes: 500})
	r, ok := Orchestrate(idx, 1000, TimeRequest{Start: 5000}, int64(len(f.Data)))
	require.True(t, ok)
	require.Equal(t, 1000.0, r.ClampedStart)
	require.Equal(t, 499, r.StartIndex)
	require.Equal(t, 998.0, r.StartTime)
}

func TestOrchestrateOffsetsOutsideFile(t *testing.T) {
	f, idx := mustIndex(t, flvtest.Options{Keyframes: 500})

	// The index points past a truncated file.
	_, ok := Orchestrate(idx, 1000, TimeRequest{Start: 301}, int64(f.Positions[150])-1)
	require.False(t, ok)

	// The end keyframe lies past the file; the range runs to its end.
	size := int64(f.Positions[151]) - 2
	r, ok := Orchestrate(idx, 1000, TimeRequest{Start: 301, End: 301, HasEnd: true}, size)
	require.True(t, ok)
	require.True(t, r.ToEOF)
	require.Equal(t, size, r.EndOffset)
	require.InDelta(t, 700, r.Duration, 1e-9)
}
