// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

// Package decode turns audio files into planar float sources at their
// native sample rate. Each supported container has its own adapter;
// integer PCM is normalized by the type's maximum magnitude, unsigned
// formats subtract 1 after division, float PCM passes through.
package decode

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rapidaai/audio-engine/engine/audio"
)

// DecodeError reports a failed probe or decode at the file boundary.
type DecodeError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode %s: %s", e.Path, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode reads the file at path and returns its audio at the file's
// own sample rate and channel count. trackIndex selects the audio
// track; every supported container carries exactly one, so only 0 is
// valid.
func Decode(path string, trackIndex int) (*audio.Source, error) {
	if trackIndex != 0 {
		return nil, &DecodeError{Path: path, Reason: fmt.Sprintf("track %d out of range", trackIndex)}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return decodeWAV(path)
	case ".flac":
		return decodeFLAC(path)
	case ".mp3":
		return decodeMP3(path)
	case ".ogg", ".oga":
		return decodeVorbis(path)
	default:
		return nil, &DecodeError{Path: path, Reason: "unsupported format"}
	}
}

// Duration probes the file's length in seconds from headers only; no
// audio is decoded except for MP3, whose layout requires a scan.
func Duration(path string, trackIndex int) (float64, error) {
	if trackIndex != 0 {
		return 0, &DecodeError{Path: path, Reason: fmt.Sprintf("track %d out of range", trackIndex)}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return durationWAV(path)
	case ".flac":
		return durationFLAC(path)
	case ".mp3":
		return durationMP3(path)
	case ".ogg", ".oga":
		return durationVorbis(path)
	default:
		return 0, &DecodeError{Path: path, Reason: "unsupported format"}
	}
}
