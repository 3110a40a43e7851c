// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package timing

import "math"

// Beats is a fractional position or length in musical time.
type Beats = float64

// SamplesPerBeat converts a tempo in beats per minute at a sample rate
// into the samples-per-beat ratio the rest of the engine works in.
func SamplesPerBeat(sampleRate int, tempo float64) float64 {
	return float64(sampleRate) / (tempo / 60.0)
}

// BeatsAsSamples converts a beat quantity to a whole sample count.
// Rounding keeps the round-trip through SamplesAsBeats within half a
// sample; chunked callers accumulate the residual themselves.
func BeatsAsSamples(samplesPerBeat float64, beats Beats) int {
	n := math.Round(beats * samplesPerBeat)
	if n < 0 {
		return 0
	}
	return int(n)
}

// SamplesAsBeats converts a sample count back to beats.
func SamplesAsBeats(samplesPerBeat float64, samples int) Beats {
	return float64(samples) / samplesPerBeat
}
