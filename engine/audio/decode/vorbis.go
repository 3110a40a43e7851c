// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package decode

import (
	"errors"
	"io"
	"os"

	"github.com/jfreymuth/oggvorbis"

	"github.com/rapidaai/audio-engine/engine/audio"
)

func decodeVorbis(path string) (*audio.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Reason: "open failed", Err: err}
	}
	defer f.Close()

	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Reason: "probe failed", Err: err}
	}

	channels := reader.Channels()
	if channels == 0 {
		return nil, &DecodeError{Path: path, Reason: "stream missing channel count"}
	}
	data := make([][]audio.Sample, channels)

	// Vorbis decodes straight to interleaved float32; de-interleave
	// into planes.
	buf := make([]float32, 4096*channels)
	for {
		n, err := reader.Read(buf)
		for i := 0; i+channels <= n; i += channels {
			for c := 0; c < channels; c++ {
				data[c] = append(data[c], buf[i+c])
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DecodeError{Path: path, Reason: "packet decode failed", Err: err}
		}
	}

	return audio.FromBuffer(data, reader.SampleRate()), nil
}

func durationVorbis(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &DecodeError{Path: path, Reason: "open failed", Err: err}
	}
	defer f.Close()

	length, format, err := oggvorbis.GetLength(f)
	if err != nil {
		return 0, &DecodeError{Path: path, Reason: "probe failed", Err: err}
	}
	if format.SampleRate == 0 {
		return 0, &DecodeError{Path: path, Reason: "stream missing sample rate"}
	}
	return float64(length) / float64(format.SampleRate), nil
}
