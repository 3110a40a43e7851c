// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNewAndZeros(t *testing.T) {
	s := New(48000, 2)
	assert.Equal(t, 48000, s.SampleRate)
	assert.Equal(t, 2, s.Channels)
	assert.Equal(t, 0, s.Samples())

	z := Zeros(44100, 3, 128)
	assert.Equal(t, 128, z.Samples())
	for c := 0; c < 3; c++ {
		for _, sample := range z.Channel(c) {
			assert.Zero(t, sample)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		data [][]Sample
		peak Sample
	}{
		{"positive peak", [][]Sample{{0.1, 0.5}, {0.2, 0.25}}, 1.0},
		{"negative peak", [][]Sample{{0.1, -0.8}, {0.2, 0.4}}, 1.0},
		{"already normalized", [][]Sample{{1.0, 0.5}}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FromBuffer(tt.data, 48000)
			s.Normalize()
			var max Sample
			for _, channel := range s.Data {
				for _, sample := range channel {
					if sample < 0 {
						sample = -sample
					}
					if sample > max {
						max = sample
					}
				}
			}
			assert.Equal(t, tt.peak, max)
		})
	}
}

func TestNormalizeSilenceIsNoOp(t *testing.T) {
	s := Zeros(48000, 2, 16)
	s.Normalize()
	for _, channel := range s.Data {
		for _, sample := range channel {
			assert.Zero(t, sample)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	s := FromBuffer([][]Sample{{0.25, -0.5, 0.1}}, 48000)
	s.Normalize()
	first := s.Clone()
	s.Normalize()
	assert.Equal(t, first.Data, s.Data)
}

func TestMixAtBasic(t *testing.T) {
	base := Zeros(48000, 1, 6)
	other := FromBuffer([][]Sample{{0.5, 0.5}}, 48000)

	base.MixAt(other, 2)

	assert.Equal(t, []Sample{0, 0, 0.5, 0.5, 0, 0}, base.Channel(0))
}

func TestMixAtGrowsChannel(t *testing.T) {
	base := Zeros(48000, 1, 2)
	other := FromBuffer([][]Sample{{0.1, 0.2, 0.3}}, 48000)

	base.MixAt(other, 1)

	require.Equal(t, 4, base.Samples())
	assert.InDeltaSlice(t, []Sample{0, 0.1, 0.2, 0.3}, base.Channel(0), 1e-7)
}

func TestMixAtAddsMissingChannels(t *testing.T) {
	base := Zeros(48000, 1, 4)
	other := FromBuffer([][]Sample{{0.1, 0.1}, {0.2, 0.2}}, 48000)

	base.MixAt(other, 1)

	require.Equal(t, 2, base.Channels)
	assert.InDeltaSlice(t, []Sample{0, 0.1, 0.1, 0}, base.Channel(0), 1e-7)
	// The appended channel is padded with silence up to the offset.
	assert.InDeltaSlice(t, []Sample{0, 0.2, 0.2}, base.Channel(1), 1e-7)
}

func TestSliceAndPad(t *testing.T) {
	s := FromBuffer([][]Sample{{1, 2, 3, 4}, {5, 6, 7, 8}}, 48000)
	s.Slice(1, 3)
	assert.Equal(t, []Sample{2, 3}, s.Channel(0))
	assert.Equal(t, []Sample{6, 7}, s.Channel(1))

	s.Pad(2)
	assert.Equal(t, []Sample{2, 3, 0, 0}, s.Channel(0))
	assert.Equal(t, 4, s.Samples())
}

func TestSliceOutOfRange(t *testing.T) {
	s := FromBuffer([][]Sample{{1, 2}}, 48000)
	s.Slice(1, 10)
	assert.Equal(t, []Sample{2}, s.Channel(0))

	s.Slice(5, 9)
	assert.Equal(t, 0, s.Samples())
}

// MixAt leaves samples before the offset untouched and adds exactly
// the other buffer's samples over the overlap.
func TestMixAtProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		baseLen := rapid.IntRange(0, 64).Draw(t, "baseLen")
		otherLen := rapid.IntRange(0, 64).Draw(t, "otherLen")
		offset := rapid.IntRange(0, 32).Draw(t, "offset")

		gen := rapid.Float32Range(-1, 1)
		baseData := make([]Sample, baseLen)
		for i := range baseData {
			baseData[i] = gen.Draw(t, "base")
		}
		otherData := make([]Sample, otherLen)
		for i := range otherData {
			otherData[i] = gen.Draw(t, "other")
		}

		base := FromBuffer([][]Sample{append([]Sample(nil), baseData...)}, 48000)
		other := FromBuffer([][]Sample{otherData}, 48000)
		base.MixAt(other, offset)

		for i := 0; i < offset && i < baseLen; i++ {
			if base.Channel(0)[i] != baseData[i] {
				t.Fatalf("sample %d before offset changed", i)
			}
		}
		for i := 0; i < otherLen; i++ {
			var want Sample
			if offset+i < baseLen {
				want = baseData[offset+i]
			}
			want += otherData[i]
			if base.Channel(0)[offset+i] != want {
				t.Fatalf("sample %d in overlap: got %v want %v", offset+i, base.Channel(0)[offset+i], want)
			}
		}
	})
}

// Every channel always has the same sample count.
func TestChannelUniformityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		channels := rapid.IntRange(1, 4).Draw(t, "channels")
		length := rapid.IntRange(0, 64).Draw(t, "length")
		s := Zeros(48000, channels, length)

		s.Pad(rapid.IntRange(0, 16).Draw(t, "pad"))
		other := Zeros(48000, channels, rapid.IntRange(0, 32).Draw(t, "otherLen"))
		s.MixAt(other, rapid.IntRange(0, 16).Draw(t, "offset"))

		for c := 0; c < s.Channels; c++ {
			if len(s.Channel(c)) != s.Samples() {
				t.Fatalf("channel %d has %d samples, want %d", c, len(s.Channel(c)), s.Samples())
			}
		}
	})
}
