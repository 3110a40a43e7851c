// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package resampler

import (
	"testing"

	"github.com/rapidaai/audio-engine/engine/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantSource(sampleRate, channels, length int, value audio.Sample) *audio.Source {
	s := audio.Zeros(sampleRate, channels, length)
	for _, channel := range s.Data {
		for i := range channel {
			channel[i] = value
		}
	}
	return s
}

func TestProcessSameRateReturnsCopy(t *testing.T) {
	r := New(441)
	input := constantSource(48000, 2, 1024, 0.25)

	output, err := r.Process(input, 48000)
	require.NoError(t, err)

	assert.Equal(t, input.Data, output.Data)

	// The copy is independent of the input.
	output.Data[0][0] = 0.9
	assert.InDelta(t, 0.25, input.Data[0][0], 1e-9)
}

func TestProcessResamplesConstantSignal(t *testing.T) {
	r := New(441)
	input := constantSource(44100, 1, 44100, 0.5)

	output, err := r.Process(input, 48000)
	require.NoError(t, err)
	require.Equal(t, 1, output.Channels)

	// One second in, one second out, within the primitive's output
	// delay.
	assert.InDelta(t, 48000, output.Samples(), 2048)

	// The steady-state middle holds the constant.
	mid := output.Samples() / 2
	for i := mid - 100; i < mid+100; i++ {
		assert.InDelta(t, 0.5, output.Channel(0)[i], 1e-3)
	}
}

func TestPrepareIsIdempotent(t *testing.T) {
	r := New(480)
	require.NoError(t, r.Prepare(1, 44100, 48000))

	// A second prepare with a different tuple keeps the first
	// configuration.
	require.NoError(t, r.Prepare(2, 96000, 48000))
	assert.Equal(t, 44100, r.inputRate)
	assert.Equal(t, 1, r.channels)
}

func TestNewGuardsChunkSize(t *testing.T) {
	r := New(0)
	assert.Equal(t, 1, r.chunkSize)
}
