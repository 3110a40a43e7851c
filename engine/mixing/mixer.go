// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package mixing

import (
	"github.com/rapidaai/audio-engine/engine/audio"
	"github.com/rapidaai/audio-engine/engine/timing"
	"github.com/rapidaai/audio-engine/pkg/commons"
)

// ChunkBeats is the transport's rendering granularity. Every track is
// asked for this many beats per step; the final step shrinks to the
// arrangement's remaining length.
const ChunkBeats timing.Beats = 2.0

// SampleCallback receives every rendered sample interleaved by
// channel (sample 0 channel 0, sample 0 channel 1, sample 1 channel
// 0, ...) together with the chunk's playhead position. Returning
// false stops the render; the output assembled so far is returned.
type SampleCallback func(sample audio.Sample, playheadBeats timing.Beats) bool

// Mixer is the transport: it drives all tracks chunk-by-chunk along a
// beat-timed playhead and sums their output. The mixer applies no
// gain of its own — gain staging belongs in the track graphs.
type Mixer struct {
	logger commons.Logger

	tempo      float64
	sampleRate int
	channels   int

	tracks []Track

	playheadBeats timing.Beats
}

// NewMixer creates a mixer with no tracks.
func NewMixer(logger commons.Logger, tempo float64, sampleRate, channels int) *Mixer {
	return &Mixer{
		logger:     logger,
		tempo:      tempo,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

// Tempo returns the mixer tempo in beats per minute.
func (m *Mixer) Tempo() float64 { return m.tempo }

// SampleRate returns the output sample rate.
func (m *Mixer) SampleRate() int { return m.sampleRate }

// Channels returns the output channel count.
func (m *Mixer) Channels() int { return m.channels }

// Playhead returns the current transport position in beats.
func (m *Mixer) Playhead() timing.Beats { return m.playheadBeats }

// SamplesPerBeat converts the mixer's tempo and rate into the ratio
// all transport math runs on.
func (m *Mixer) SamplesPerBeat() float64 {
	return timing.SamplesPerBeat(m.sampleRate, m.tempo)
}

// AddTrack inserts a track under the lowest unused non-negative id
// and returns that id.
func (m *Mixer) AddTrack(track Track) int {
	used := make(map[int]bool, len(m.tracks))
	for _, t := range m.tracks {
		used[t.ID()] = true
	}
	id := 0
	for used[id] {
		id++
	}
	track.SetID(id)
	m.tracks = append(m.tracks, track)
	return id
}

// RemoveTrack deletes the track with the given id.
func (m *Mixer) RemoveTrack(id int) {
	for i, t := range m.tracks {
		if t.ID() == id {
			m.tracks = append(m.tracks[:i], m.tracks[i+1:]...)
			return
		}
	}
}

// TrackByID returns the track with the given id.
func (m *Mixer) TrackByID(id int) (Track, bool) {
	for _, t := range m.tracks {
		if t.ID() == id {
			return t, true
		}
	}
	return nil, false
}

// Tracks returns the tracks in insertion order.
func (m *Mixer) Tracks() []Track {
	return append([]Track(nil), m.tracks...)
}

// Duration is the longest track's end, in beats.
func (m *Mixer) Duration() timing.Beats {
	var max timing.Beats
	for _, t := range m.tracks {
		if d := t.Duration(); d > max {
			max = d
		}
	}
	return max
}

// Prepare readies every track for a render pass.
func (m *Mixer) Prepare() error {
	for _, t := range m.tracks {
		if err := t.Prepare(ChunkBeats, m.sampleRate, m.tempo); err != nil {
			return err
		}
	}
	return nil
}

// Mix renders the arrangement from startBeats to its end, streaming
// every sample through the callback. Per-track errors are logged and
// the track sits the chunk out; the rest of the arrangement still
// renders. The callback returning false cancels the render and Mix
// returns what was assembled so far.
func (m *Mixer) Mix(startBeats timing.Beats, callback SampleCallback) *audio.Source {
	m.playheadBeats = startBeats

	output := audio.New(m.sampleRate, m.channels)
	samplesPerBeat := m.SamplesPerBeat()
	duration := m.Duration()

	for m.playheadBeats < duration {
		// The last chunk shrinks so the output ends at the
		// arrangement's end, not at a chunk boundary past it.
		chunkBeats := ChunkBeats
		if remaining := duration - m.playheadBeats; remaining < chunkBeats {
			chunkBeats = remaining
		}

		playheadSamples := timing.BeatsAsSamples(samplesPerBeat, m.playheadBeats)
		chunkSamples := timing.BeatsAsSamples(samplesPerBeat, chunkBeats)

		for _, track := range m.tracks {
			track.RenderChunkAt(m.playheadBeats, chunkBeats, m.sampleRate, samplesPerBeat)
			rendered, err := track.RenderedData()
			if err != nil {
				m.logger.Errorw("Track failed to render chunk, skipping",
					"track", track.ID(), "playhead", m.playheadBeats, "error", err)
				continue
			}
			output.MixAt(rendered, playheadSamples)
		}

		// Stream only the newly covered samples.
		endSample := playheadSamples + chunkSamples
		if endSample > output.Samples() {
			endSample = output.Samples()
		}
		for s := playheadSamples; s < endSample; s++ {
			for c := 0; c < m.channels; c++ {
				// A track narrower than the mixer leaves short
				// channels; stream silence for those positions.
				var sample audio.Sample
				if c < len(output.Data) && s < len(output.Data[c]) {
					sample = output.Data[c][s]
				}
				if !callback(sample, m.playheadBeats) {
					return output
				}
			}
		}

		m.playheadBeats += chunkBeats
	}

	return output
}
