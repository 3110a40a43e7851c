// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package audio

// Sample is a single signed audio value, roughly [-1, +1] after
// normalization. Mixing may push sums outside that range; nothing in
// this package clips.
type Sample = float32

// Source is planar multi-channel audio at one sample rate. Every
// channel holds the same number of samples, except that a channel
// appended by MixAt can be shorter (see MixAt). A Source carries no
// musical tempo; beat placement is the mixing layer's concern.
type Source struct {
	// SampleRate of the audio data in Hz.
	SampleRate int
	// Channels in the buffer. Kept alongside Data because MixAt may
	// grow the channel count past the allocation-time value.
	Channels int
	// Data holds one sample slice per channel.
	Data [][]Sample
}

// New creates an empty source with the given channel count.
func New(sampleRate, channels int) *Source {
	data := make([][]Sample, channels)
	for i := range data {
		data[i] = []Sample{}
	}
	return &Source{
		SampleRate: sampleRate,
		Channels:   channels,
		Data:       data,
	}
}

// Zeros creates a source with length silent samples in every channel.
func Zeros(sampleRate, channels, length int) *Source {
	data := make([][]Sample, channels)
	for i := range data {
		data[i] = make([]Sample, length)
	}
	return &Source{
		SampleRate: sampleRate,
		Channels:   channels,
		Data:       data,
	}
}

// FromBuffer wraps existing planar data without copying.
func FromBuffer(data [][]Sample, sampleRate int) *Source {
	return &Source{
		SampleRate: sampleRate,
		Channels:   len(data),
		Data:       data,
	}
}

// Samples returns the per-channel sample count; channel 0 is
// authoritative.
func (s *Source) Samples() int {
	if len(s.Data) == 0 {
		return 0
	}
	return len(s.Data[0])
}

// Channel returns the sample slice for one channel.
func (s *Source) Channel(i int) []Sample {
	return s.Data[i]
}

// Clone deep-copies the source.
func (s *Source) Clone() *Source {
	data := make([][]Sample, len(s.Data))
	for i, channel := range s.Data {
		data[i] = make([]Sample, len(channel))
		copy(data[i], channel)
	}
	return &Source{
		SampleRate: s.SampleRate,
		Channels:   s.Channels,
		Data:       data,
	}
}

// Normalize scales every sample so the peak magnitude becomes exactly
// 1.0. A silent buffer is left untouched.
func (s *Source) Normalize() {
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

	if max > 0 {
		for _, channel := range s.Data {
			for i := range channel {
				channel[i] /= max
			}
		}
	}
}

// MixAt sums other into this source starting at offset samples.
// Channels missing from this source are appended (pre-padded with
// silence up to the offset); existing channels grow as needed. An
// appended channel is offset+len(other channel) long and is not
// padded to the length of the existing channels. Sums are not clipped.
func (s *Source) MixAt(other *Source, offset int) {
	for channelIndex, otherChannel := range other.Data {
		if channelIndex >= s.Channels {
			s.Data = append(s.Data, make([]Sample, offset+len(otherChannel)))
			s.Channels++
		} else if len(s.Data[channelIndex]) < offset+len(otherChannel) {
			grown := make([]Sample, offset+len(otherChannel))
			copy(grown, s.Data[channelIndex])
			s.Data[channelIndex] = grown
		}

		for sampleIndex, otherSample := range otherChannel {
			s.Data[channelIndex][offset+sampleIndex] += otherSample
		}
	}
}

// Slice truncates every channel to [start, end).
func (s *Source) Slice(start, end int) {
	for i, channel := range s.Data {
		if start > len(channel) {
			start = len(channel)
		}
		e := end
		if e > len(channel) {
			e = len(channel)
		}
		if e < start {
			e = start
		}
		s.Data[i] = channel[start:e]
	}
}

// Pad appends n silent samples to every channel.
func (s *Source) Pad(n int) {
	for i, channel := range s.Data {
		s.Data[i] = append(channel, make([]Sample, n)...)
	}
}
