// If you are AI: This file tests AMF0 encoding of onMetaData payloads.
package amf0

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEncodeScriptDataLayout verifies the byte layout seekers depend on: a
// strict array marker right after the key, a 4-byte count, 9-byte elements.
func TestEncodeScriptDataLayout(t *testing.T) {
	payload, err := EncodeScriptData("onMetaData", ECMAArray{
		{Key: "keyframes", Value: Properties{
			{Key: "times", Value: []float64{0, 2, 4}},
			{Key: "filepositions", Value: []float64{100, 200, 300}},
		}},
	})
	require.NoError(t, err)

	require.Equal(t, byte(TypeString), payload[0])
	require.Equal(t, "onMetaData", string(payload[3:13]))
	require.Equal(t, byte(TypeECMAArray), payload[13])

	off, ok := Locate(payload, MarkerTimes)
	require.True(t, ok)
	require.Equal(t, byte(TypeStrictArray), payload[off])
	count, _ := Uint32At(payload, off+1)
	require.Equal(t, uint32(3), count)

	first := off + 1 + ArrayCountSize
	for i, want := range []float64{0, 2, 4} {
		rec := first + i*NumberValueSize
		require.Equal(t, byte(TypeNumber), payload[rec])
		got, ok := NumberAt(payload, rec+1)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
}

func TestDecodeScriptDataRoundTrip(t *testing.T) {
	payload, err := EncodeScriptData("onMetaData", ECMAArray{
		{Key: "duration", Value: 30.0},
		{Key: "stereo", Value: true},
		{Key: "encoder", Value: "vodflv"},
		{Key: "keyframes", Value: Properties{
			{Key: "times", Value: []float64{0, 10, 20}},
			{Key: "filepositions", Value: []float64{13, 1000, 2000}},
		}},
	})
	require.NoError(t, err)

	name, val, err := DecodeScriptData(payload)
	require.NoError(t, err)
	require.Equal(t, "onMetaData", name)

	obj, ok := val.(Object)
	require.True(t, ok)
	require.Equal(t, 30.0, obj["duration"])
	require.Equal(t, true, obj["stereo"])
	require.Equal(t, "vodflv", obj["encoder"])

	kf, ok := obj["keyframes"].(Object)
	require.True(t, ok)
	require.Equal(t, Array{0.0, 10.0, 20.0}, kf["times"])
	require.Equal(t, Array{13.0, 1000.0, 2000.0}, kf["filepositions"])
}

func TestEncodeObjectIsDeterministic(t *testing.T) {
	obj := Object{"b": 1.0, "a": "x", "c": nil}
	first, err := EncodeScriptData("onCuePoint", obj)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := EncodeScriptData("onCuePoint", obj)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestDecodeRejectsTruncatedData(t *testing.T) {
	payload, err := EncodeScriptData("onMetaData", ECMAArray{{Key: "duration", Value: 1.0}})
	require.NoError(t, err)

	_, _, err = DecodeScriptData(payload[:len(payload)-5])
	require.Error(t, err)
}
