// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package mixing

import (
	"testing"

	"github.com/rapidaai/audio-engine/engine/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBufferRegionDurationFromSource(t *testing.T) {
	source := audio.Zeros(48000, 1, 96000)
	r := NewBufferRegion("lead", source, 48000)

	assert.Equal(t, 0.0, r.StartTime())
	assert.InDelta(t, 2.0, r.Duration(), 1e-9)
	assert.InDelta(t, 2.0, r.EndTime(), 1e-9)
}

func TestEmptyRegionHasExpectedDuration(t *testing.T) {
	r := EmptyRegion(3, "gap", 24000, 1.5)

	assert.Equal(t, 3, r.ID())
	assert.Nil(t, r.AudioSource())
	assert.InDelta(t, 1.5, r.Duration(), 1e-9)
}

func TestSetAudioSourceRecomputesDuration(t *testing.T) {
	r := EmptyRegion(0, "fill", 24000, 4.0)
	r.SetAudioSource(audio.Zeros(48000, 1, 48000))

	assert.InDelta(t, 2.0, r.Duration(), 1e-9)

	r.SetAudioSource(nil)
	assert.Equal(t, 0.0, r.Duration())
}

func TestIsActiveAtStrictOverlap(t *testing.T) {
	r := EmptyRegion(0, "r", 24000, 1.0)
	r.SetStartTime(4.0)

	tests := []struct {
		name       string
		start, end float64
		active     bool
	}{
		{"chunk before region", 0.0, 2.0, false},
		{"chunk touching start is exclusive", 2.0, 4.0, false},
		{"chunk overlapping head", 3.5, 4.5, true},
		{"chunk inside region", 4.2, 4.8, true},
		{"chunk containing region", 3.0, 6.0, true},
		{"chunk after region", 5.0, 7.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, r.IsActiveAt(tt.start, tt.end))
		})
	}
}

func TestIsActiveAtLegacyPredicate(t *testing.T) {
	r := EmptyRegion(0, "r", 24000, 1.0)
	r.SetStartTime(4.0)
	r.StrictOverlap = false

	// The legacy predicate only tests the chunk's endpoints, so a
	// chunk strictly containing the region is missed.
	assert.False(t, r.IsActiveAt(3.0, 6.0))
	assert.True(t, r.IsActiveAt(3.5, 4.5))
	// Endpoint touches count as active.
	assert.True(t, r.IsActiveAt(2.0, 4.0))
}

func TestRegionClone(t *testing.T) {
	source := audio.Zeros(48000, 1, 100)
	r := NewBufferRegion("orig", source, 48000)
	clone := r.Clone()

	require.NotNil(t, clone.AudioSource())
	clone.AudioSource().Data[0][0] = 0.5
	assert.Zero(t, r.AudioSource().Data[0][0])
}
