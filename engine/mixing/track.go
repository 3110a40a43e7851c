// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package mixing

import (
	"fmt"
	"math"

	"github.com/rapidaai/audio-engine/engine/audio"
	"github.com/rapidaai/audio-engine/engine/graph"
	"github.com/rapidaai/audio-engine/engine/resampler"
	"github.com/rapidaai/audio-engine/engine/timing"
	"github.com/rapidaai/audio-engine/pkg/commons"
)

// Track renders its own material chunk-at-a-time for the mixer.
type Track interface {
	ID() int
	SetID(id int)
	Name() string
	SetName(name string)
	// Type is the track-kind tag, e.g. "BufferTrack".
	Type() string

	Channels() int
	Volume() audio.Sample
	SetVolume(volume audio.Sample)
	Graph() *graph.Graph

	AddRegion(region Region, at, duration timing.Beats) error
	Regions() []Region
	RemoveRegion(id int)
	Duration() timing.Beats

	Prepare(chunkBeats timing.Beats, sampleRate int, tempo float64) error
	RenderChunkAt(playhead, chunkBeats timing.Beats, sampleRate int, samplesPerBeat float64)
	RenderedData() (*audio.Source, error)

	Clone() Track
}

// BufferTrack hosts buffer regions and a processing graph. It owns
// one resampler per region, parallel by index, so the primitive's
// internal state survives chunk boundaries.
type BufferTrack struct {
	logger commons.Logger

	id       int
	name     string
	channels int
	volume   audio.Sample

	graph   *graph.Graph
	regions []*BufferRegion

	resamplers []*resampler.Resampler

	// rendered is the last chunk produced; renderErr the graph error
	// that replaced it with silence, if any.
	rendered  *audio.Source
	renderErr error

	// accumulator is the running pre-graph mix aligned on the global
	// timeline; the graph's input sees the whole of it every chunk.
	accumulator *audio.Source

	// residual carries the fractional sample left over by rounding
	// each chunk's length, topping the slice up by one sample when it
	// crosses 1 so long renders do not drift.
	residual float64
}

// NewBufferTrack creates a track with unity volume and a fresh
// passthrough-capable graph.
func NewBufferTrack(logger commons.Logger, name string, channels int) *BufferTrack {
	return &BufferTrack{
		logger:   logger,
		name:     name,
		channels: channels,
		volume:   1.0,
		graph:    graph.New(graph.NewBufferInputNode()),
	}
}

func (t *BufferTrack) ID() int              { return t.id }
func (t *BufferTrack) SetID(id int)         { t.id = id }
func (t *BufferTrack) Name() string         { return t.name }
func (t *BufferTrack) SetName(name string)  { t.name = name }
func (t *BufferTrack) Type() string         { return "BufferTrack" }
func (t *BufferTrack) Channels() int        { return t.channels }
func (t *BufferTrack) Volume() audio.Sample { return t.volume }

// SetVolume stores the track volume. The renderer applies no gain of
// its own; route the graph through a gain node for actual scaling.
func (t *BufferTrack) SetVolume(volume audio.Sample) { t.volume = volume }

func (t *BufferTrack) Graph() *graph.Graph { return t.graph }

// AddRegion places a region on the timeline at the given start beat.
// A non-positive duration keeps the region's own; otherwise the
// region is clipped or extended to the given length. Only buffer
// regions are accepted.
func (t *BufferTrack) AddRegion(region Region, at, duration timing.Beats) error {
	bufferRegion, ok := region.(*BufferRegion)
	if !ok {
		return &InvalidRegionTypeError{
			ExpectedType: "BufferRegion",
			ReceivedType: fmt.Sprintf("%T", region),
		}
	}

	bufferRegion.SetStartTime(at)
	if duration > 0 {
		bufferRegion.SetDuration(duration)
	}
	bufferRegion.SetID(t.nextRegionID())
	t.regions = append(t.regions, bufferRegion)
	return nil
}

func (t *BufferTrack) nextRegionID() int {
	used := make(map[int]bool, len(t.regions))
	for _, r := range t.regions {
		used[r.ID()] = true
	}
	id := 0
	for used[id] {
		id++
	}
	return id
}

// Regions returns the regions in timeline insertion order.
func (t *BufferTrack) Regions() []Region {
	regions := make([]Region, len(t.regions))
	for i, r := range t.regions {
		regions[i] = r
	}
	return regions
}

// RemoveRegion deletes the region with the given id along with its
// resampler, keeping the two slices parallel.
func (t *BufferTrack) RemoveRegion(id int) {
	for i, r := range t.regions {
		if r.ID() == id {
			t.regions = append(t.regions[:i], t.regions[i+1:]...)
			if i < len(t.resamplers) {
				t.resamplers = append(t.resamplers[:i], t.resamplers[i+1:]...)
			}
			return
		}
	}
}

// Duration is the end of the last region; 0 for an empty track.
func (t *BufferTrack) Duration() timing.Beats {
	var max timing.Beats
	for _, r := range t.regions {
		if r.EndTime() > max {
			max = r.EndTime()
		}
	}
	return max
}

// Prepare readies the graph and builds one resampler per region,
// sized to a chunk's worth of that region's source samples.
func (t *BufferTrack) Prepare(chunkBeats timing.Beats, sampleRate int, tempo float64) error {
	if err := t.graph.Prepare(chunkBeats, sampleRate, tempo, t.id); err != nil {
		return err
	}

	t.resamplers = make([]*resampler.Resampler, len(t.regions))
	for i, region := range t.regions {
		t.resamplers[i] = resampler.New(timing.BeatsAsSamples(region.SamplesPerBeat(), chunkBeats))
	}

	t.rendered = nil
	t.renderErr = nil
	t.accumulator = nil
	t.residual = 0
	return nil
}

// RenderChunkAt renders [playhead, playhead+chunkBeats) into the
// track's chunk cache. Region slicing happens in each region's native
// sample rate; the per-region resampler converts to the mixer rate;
// the graph sees the full pre-graph timeline and its output is cut
// back to the chunk window.
func (t *BufferTrack) RenderChunkAt(playhead, chunkBeats timing.Beats, sampleRate int, samplesPerBeat float64) {
	chunkSamples := timing.BeatsAsSamples(samplesPerBeat, chunkBeats)
	playheadSamples := timing.BeatsAsSamples(samplesPerBeat, playhead)

	mixed := audio.Zeros(sampleRate, t.channels, chunkSamples)

	for index, region := range t.regions {
		if !region.IsActiveAt(playhead, playhead+chunkBeats) {
			continue
		}
		source := region.AudioSource()
		if source == nil {
			continue
		}

		slice := t.sliceRegion(region, playhead, chunkBeats)

		// Regions added after Prepare get a resampler on first use.
		for len(t.resamplers) < len(t.regions) {
			t.resamplers = append(t.resamplers, nil)
		}
		if t.resamplers[index] == nil {
			t.resamplers[index] = resampler.New(timing.BeatsAsSamples(region.SamplesPerBeat(), chunkBeats))
		}
		resampled, err := t.resamplers[index].Process(slice, sampleRate)
		if err != nil {
			t.logger.Warnw("Region resample failed, skipping for this chunk",
				"track", t.id, "region", region.ID(), "error", err)
			continue
		}

		mixed.MixAt(resampled, 0)
	}

	if t.accumulator == nil {
		t.accumulator = audio.New(sampleRate, t.channels)
	}
	t.accumulator.MixAt(mixed, playheadSamples)

	t.graph.SetInputBuffer(graph.FromBuffer(t.accumulator))

	processed, err := t.graph.Process(sampleRate, samplesPerBeat, t.channels,
		playheadSamples, playheadSamples+chunkSamples, t.id)
	if err != nil {
		t.renderErr = err
		t.rendered = audio.Zeros(sampleRate, t.channels, chunkSamples)
		return
	}

	// The graph's output lives on the global timeline like its input;
	// cut the chunk window out and make its length exact.
	processed.Slice(playheadSamples, playheadSamples+chunkSamples)
	if short := chunkSamples - processed.Samples(); short > 0 {
		processed.Pad(short)
	}

	t.renderErr = nil
	t.rendered = processed
}

// sliceRegion builds the chunk's slice of a region in the region's
// own sample rate: silence for the gap before the region starts, then
// the clamped source window.
func (t *BufferTrack) sliceRegion(region *BufferRegion, playhead, chunkBeats timing.Beats) *audio.Source {
	source := region.AudioSource()
	spb := region.SamplesPerBeat()

	relStart := playhead - region.StartTime()
	if relStart < 0 {
		relStart = 0
	}
	relEnd := playhead - region.StartTime() + chunkBeats

	gapSamples := 0
	if playhead < region.StartTime() {
		gapSamples = timing.BeatsAsSamples(spb, region.StartTime()-playhead)
	}

	startSample := timing.BeatsAsSamples(spb, relStart)
	endSample := timing.BeatsAsSamples(spb, relEnd)

	// Rounding the chunk length loses a fraction of a sample; pay it
	// back once the debt reaches a whole sample.
	t.residual += spb*chunkBeats - float64(timing.BeatsAsSamples(spb, chunkBeats))
	if t.residual >= 1 {
		whole := math.Floor(t.residual)
		endSample += int(whole)
		t.residual -= whole
	}

	// The region's duration clips the source even when more samples
	// exist.
	clipped := int(math.Round(region.Duration() * spb))
	if endSample > clipped {
		endSample = clipped
	}
	if endSample > source.Samples() {
		endSample = source.Samples()
	}
	if startSample > endSample {
		startSample = endSample
	}

	slice := audio.Zeros(source.SampleRate, t.channels, gapSamples)
	for c := 0; c < t.channels; c++ {
		if c < len(source.Data) {
			slice.Data[c] = append(slice.Data[c], source.Data[c][startSample:endSample]...)
		} else {
			slice.Data[c] = append(slice.Data[c], make([]audio.Sample, endSample-startSample)...)
		}
	}
	return slice
}

// RenderedData returns the last rendered chunk, the graph error that
// silenced it, or UnknownTrackError before the first render.
func (t *BufferTrack) RenderedData() (*audio.Source, error) {
	if t.renderErr != nil {
		return nil, t.renderErr
	}
	if t.rendered == nil {
		return nil, &UnknownTrackError{TrackID: t.id}
	}
	return t.rendered, nil
}

// Clone copies identity, volume, graph, channel count, and regions.
// Render state — chunk cache, resamplers, accumulator, residual — is
// reset; the clone renders from scratch.
func (t *BufferTrack) Clone() Track {
	regions := make([]*BufferRegion, len(t.regions))
	for i, r := range t.regions {
		regions[i] = r.Clone()
	}
	return &BufferTrack{
		logger:   t.logger,
		id:       t.id,
		name:     t.name,
		channels: t.channels,
		volume:   t.volume,
		graph:    t.graph.Clone(),
		regions:  regions,
	}
}
