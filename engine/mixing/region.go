// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package mixing

import (
	"github.com/rapidaai/audio-engine/engine/audio"
	"github.com/rapidaai/audio-engine/engine/timing"
)

// Region is a time-positioned piece of material on a track's beat
// timeline. Concrete kinds are closed per track kind; BufferRegion is
// the only one a BufferTrack hosts.
type Region interface {
	ID() int
	SetID(id int)
	Name() string
	SetName(name string)

	StartTime() timing.Beats
	SetStartTime(start timing.Beats)
	EndTime() timing.Beats
	Duration() timing.Beats

	IsActiveAt(start, end timing.Beats) bool
}

// BufferRegion places decoded audio on the timeline. Duration is
// independent of the source length — a shorter duration clips the
// source, a longer one leaves a tail of silence. A region without a
// source is a gap of known duration.
type BufferRegion struct {
	id   int
	name string

	startTime timing.Beats
	duration  timing.Beats

	// SamplesPerBeat relates the source's own sample rate to musical
	// time. It is fixed per region, not derived from the mixer tempo.
	samplesPerBeat float64

	source *audio.Source

	// StrictOverlap selects the activity predicate. The strict form
	// (default) treats a region as active whenever chunk and region
	// overlap at all. The legacy form only tests the chunk's
	// endpoints against the region and misses a chunk that strictly
	// contains the region.
	StrictOverlap bool
}

// NewBufferRegion creates a region at beat 0 whose duration covers
// the full source.
func NewBufferRegion(name string, source *audio.Source, samplesPerBeat float64) *BufferRegion {
	r := &BufferRegion{
		name:           name,
		samplesPerBeat: samplesPerBeat,
		StrictOverlap:  true,
	}
	r.setSource(source)
	return r
}

// EmptyRegion creates a sourceless region spanning expectedDuration.
func EmptyRegion(id int, name string, samplesPerBeat float64, expectedDuration timing.Beats) *BufferRegion {
	return &BufferRegion{
		id:             id,
		name:           name,
		samplesPerBeat: samplesPerBeat,
		duration:       expectedDuration,
		StrictOverlap:  true,
	}
}

func (r *BufferRegion) ID() int            { return r.id }
func (r *BufferRegion) SetID(id int)       { r.id = id }
func (r *BufferRegion) Name() string       { return r.name }
func (r *BufferRegion) SetName(name string) { r.name = name }

func (r *BufferRegion) StartTime() timing.Beats { return r.startTime }

func (r *BufferRegion) SetStartTime(start timing.Beats) { r.startTime = start }

func (r *BufferRegion) EndTime() timing.Beats { return r.startTime + r.duration }

func (r *BufferRegion) Duration() timing.Beats { return r.duration }

// SetDuration clips or extends the region independently of its
// source length.
func (r *BufferRegion) SetDuration(duration timing.Beats) { r.duration = duration }

// SamplesPerBeat returns the region's source-rate-to-beat ratio.
func (r *BufferRegion) SamplesPerBeat() float64 { return r.samplesPerBeat }

// AudioSource returns the region's source, nil for a gap.
func (r *BufferRegion) AudioSource() *audio.Source { return r.source }

// SetAudioSource replaces the source and recomputes the duration from
// the new sample count.
func (r *BufferRegion) SetAudioSource(source *audio.Source) {
	r.setSource(source)
}

func (r *BufferRegion) setSource(source *audio.Source) {
	r.source = source
	if source != nil && r.samplesPerBeat > 0 {
		r.duration = timing.Beats(float64(source.Samples()) / r.samplesPerBeat)
	} else if source == nil {
		r.duration = 0
	}
}

// IsActiveAt reports whether the region contributes to the chunk
// [start, end).
func (r *BufferRegion) IsActiveAt(start, end timing.Beats) bool {
	if r.StrictOverlap {
		return start < r.EndTime() && end > r.StartTime()
	}
	return (start >= r.StartTime() && start <= r.EndTime()) ||
		(end >= r.StartTime() && end <= r.EndTime())
}

// Clone deep-copies the region, including its source.
func (r *BufferRegion) Clone() *BufferRegion {
	clone := *r
	if r.source != nil {
		clone.source = r.source.Clone()
	}
	return &clone
}
