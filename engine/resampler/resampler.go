// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package resampler

import (
	"fmt"

	goresampler "github.com/tphakala/go-audio-resampler"

	"github.com/rapidaai/audio-engine/engine/audio"
	"github.com/rapidaai/audio-engine/pkg/utils"
)

// InitError reports a failed construction of the resampling
// primitive.
type InitError struct {
	InputRate  int
	OutputRate int
	Channels   int
	Err        error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("resampler init %d->%d Hz (%d ch): %v",
		e.InputRate, e.OutputRate, e.Channels, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// RunError reports a failed processing call on the primitive.
type RunError struct {
	Err error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("resampler run: %v", e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// subChunks is the FFT primitive's internal subdivision of each input
// block.
const subChunks = 2

// Resampler converts audio between sample rates in fixed-size input
// blocks, keeping the primitive's internal state alive between calls
// so chunk boundaries stay continuous. One Resampler serves one
// region.
type Resampler struct {
	primitive *goresampler.FFTFixedIn
	chunkSize int

	inputRate  int
	outputRate int
	channels   int
}

// New creates a resampler that reads chunkSize source samples per
// block. The primitive itself is built lazily on the first Process
// call, when the source rate is known.
func New(chunkSize int) *Resampler {
	if chunkSize <= 0 {
		chunkSize = 1
	}
	return &Resampler{chunkSize: chunkSize}
}

// Prepare builds the FFT primitive for a rate pair. Preparing is
// idempotent: once a primitive exists for the first
// (inputRate, outputRate, channels) tuple seen, later calls keep it.
func (r *Resampler) Prepare(channels, inputRate, outputRate int) error {
	if r.primitive != nil {
		return nil
	}
	primitive, err := goresampler.NewFFTFixedIn(inputRate, outputRate, r.chunkSize, subChunks, channels)
	if err != nil {
		return &InitError{InputRate: inputRate, OutputRate: outputRate, Channels: channels, Err: err}
	}
	r.primitive = primitive
	r.inputRate = inputRate
	r.outputRate = outputRate
	r.channels = channels
	return nil
}

// Process resamples the input to outputRate. A same-rate input is
// returned as a copy. Otherwise the primitive is fed exactly the
// number of frames it asks for per block, and whatever remains at the
// tail goes through the partial-input path so no samples are dropped.
func (r *Resampler) Process(input *audio.Source, outputRate int) (*audio.Source, error) {
	if input.SampleRate == outputRate {
		return input.Clone(), nil
	}

	if err := r.Prepare(input.Channels, input.SampleRate, outputRate); err != nil {
		return nil, err
	}

	total := input.Samples()
	output := make([][]float32, input.Channels)
	frameIndex := 0

	for {
		needed := r.primitive.InputFramesNext()
		if total-frameIndex < needed {
			break
		}

		block := readFrames(input.Data, frameIndex, needed)
		frameIndex += needed

		resampled, err := r.primitive.Process(utils.PlanesToFloat64(block))
		if err != nil {
			return nil, &RunError{Err: err}
		}
		appendPlanes(output, utils.PlanesToFloat32(resampled))
	}

	if frameIndex < total {
		block := readFrames(input.Data, frameIndex, total-frameIndex)
		resampled, err := r.primitive.ProcessPartial(utils.PlanesToFloat64(block))
		if err != nil {
			return nil, &RunError{Err: err}
		}
		appendPlanes(output, utils.PlanesToFloat32(resampled))
	}

	result := audio.FromBuffer(output, outputRate)
	result.Channels = input.Channels
	return result, nil
}

// readFrames copies count frames per channel starting at frameIndex,
// short at the end of the data.
func readFrames(data [][]audio.Sample, frameIndex, count int) [][]audio.Sample {
	block := make([][]audio.Sample, len(data))
	for c, channel := range data {
		end := frameIndex + count
		if end > len(channel) {
			end = len(channel)
		}
		start := frameIndex
		if start > len(channel) {
			start = len(channel)
		}
		block[c] = append([]audio.Sample(nil), channel[start:end]...)
	}
	return block
}

func appendPlanes(dst [][]audio.Sample, src [][]audio.Sample) {
	for c := range src {
		if c < len(dst) {
			dst[c] = append(dst[c], src[c]...)
		}
	}
}
