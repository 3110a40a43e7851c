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

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/rapidaai/audio-engine/engine/audio"
)

// go-mp3 always emits 16-bit little-endian stereo frames.
const mp3FrameBytes = 4

func decodeMP3(path string) (*audio.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Reason: "open failed", Err: err}
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Reason: "probe failed", Err: err}
	}

	left := []audio.Sample{}
	right := []audio.Sample{}
	buf := make([]byte, 8192)
	for {
		n, err := decoder.Read(buf)
		for i := 0; i+mp3FrameBytes <= n; i += mp3FrameBytes {
			l := int16(uint16(buf[i]) | uint16(buf[i+1])<<8)
			r := int16(uint16(buf[i+2]) | uint16(buf[i+3])<<8)
			left = append(left, audio.Sample(l)/32768.0)
			right = append(right, audio.Sample(r)/32768.0)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DecodeError{Path: path, Reason: "frame decode failed", Err: err}
		}
	}

	return audio.FromBuffer([][]audio.Sample{left, right}, decoder.SampleRate()), nil
}

func durationMP3(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &DecodeError{Path: path, Reason: "open failed", Err: err}
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, &DecodeError{Path: path, Reason: "probe failed", Err: err}
	}
	frames := decoder.Length() / mp3FrameBytes
	return float64(frames) / float64(decoder.SampleRate()), nil
}
