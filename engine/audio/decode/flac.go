// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package decode

import (
	"errors"
	"io"

	"github.com/mewkiz/flac"

	"github.com/rapidaai/audio-engine/engine/audio"
)

func decodeFLAC(path string) (*audio.Source, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Reason: "probe failed", Err: err}
	}
	defer stream.Close()

	info := stream.Info
	if info.SampleRate == 0 {
		return nil, &DecodeError{Path: path, Reason: "stream info missing sample rate"}
	}
	channels := int(info.NChannels)
	if channels == 0 {
		return nil, &DecodeError{Path: path, Reason: "stream info missing channel count"}
	}

	// FLAC frames carry planar signed integers; divide by the sample
	// type's maximum magnitude.
	divisor := audio.Sample(int64(1) << (info.BitsPerSample - 1))

	data := make([][]audio.Sample, channels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DecodeError{Path: path, Reason: "frame decode failed", Err: err}
		}
		for c := 0; c < channels && c < len(frame.Subframes); c++ {
			for _, sample := range frame.Subframes[c].Samples {
				data[c] = append(data[c], audio.Sample(sample)/divisor)
			}
		}
	}

	return audio.FromBuffer(data, int(info.SampleRate)), nil
}

func durationFLAC(path string) (float64, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return 0, &DecodeError{Path: path, Reason: "probe failed", Err: err}
	}
	defer stream.Close()

	if stream.Info.SampleRate == 0 {
		return 0, &DecodeError{Path: path, Reason: "stream info missing sample rate"}
	}
	return float64(stream.Info.NSamples) / float64(stream.Info.SampleRate), nil
}
