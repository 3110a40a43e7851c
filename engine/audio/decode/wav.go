// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package decode

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/rapidaai/audio-engine/engine/audio"
)

const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE
)

type wavFormat struct {
	format        uint16
	channels      int
	sampleRate    int
	blockAlign    int
	bitsPerSample int
	dataOffset    int64
	dataSize      int
}

// parseWAVHeader walks the RIFF chunks up to the data chunk.
func parseWAVHeader(path string, f *os.File) (*wavFormat, error) {
	var riff [12]byte
	if _, err := io.ReadFull(f, riff[:]); err != nil {
		return nil, &DecodeError{Path: path, Reason: "short RIFF header", Err: err}
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, &DecodeError{Path: path, Reason: "not a RIFF/WAVE file"}
	}

	format := &wavFormat{}
	haveFmt := false
	offset := int64(12)

	for {
		var header [8]byte
		if _, err := f.ReadAt(header[:], offset); err != nil {
			return nil, &DecodeError{Path: path, Reason: "missing data chunk", Err: err}
		}
		chunkID := string(header[0:4])
		chunkSize := int(binary.LittleEndian.Uint32(header[4:8]))

		switch chunkID {
		case "fmt ":
			var fmtChunk [16]byte
			if _, err := f.ReadAt(fmtChunk[:], offset+8); err != nil {
				return nil, &DecodeError{Path: path, Reason: "short fmt chunk", Err: err}
			}
			format.format = binary.LittleEndian.Uint16(fmtChunk[0:2])
			format.channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			format.sampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			format.blockAlign = int(binary.LittleEndian.Uint16(fmtChunk[12:14]))
			format.bitsPerSample = int(binary.LittleEndian.Uint16(fmtChunk[14:16]))
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, &DecodeError{Path: path, Reason: "data chunk before fmt chunk"}
			}
			format.dataOffset = offset + 8
			format.dataSize = chunkSize
			if format.channels <= 0 {
				return nil, &DecodeError{Path: path, Reason: "fmt chunk missing channel count"}
			}
			if format.sampleRate <= 0 {
				return nil, &DecodeError{Path: path, Reason: "fmt chunk missing sample rate"}
			}
			return format, nil
		}

		// Chunks are word-aligned.
		offset += 8 + int64(chunkSize)
		if chunkSize%2 == 1 {
			offset++
		}
	}
}

func decodeWAV(path string) (*audio.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Reason: "open failed", Err: err}
	}
	defer f.Close()

	format, err := parseWAVHeader(path, f)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, format.dataSize)
	if _, err := f.ReadAt(raw, format.dataOffset); err != nil && err != io.EOF {
		return nil, &DecodeError{Path: path, Reason: "short data chunk", Err: err}
	}

	bytesPerSample := format.bitsPerSample / 8
	if bytesPerSample == 0 || format.blockAlign == 0 {
		return nil, &DecodeError{Path: path, Reason: "fmt chunk has zero sample width"}
	}
	frames := format.dataSize / format.blockAlign

	data := make([][]audio.Sample, format.channels)
	for c := range data {
		data[c] = make([]audio.Sample, frames)
	}

	effective := format.format
	if effective == wavFormatExtensible {
		// The extension's sub-format matters in general; every
		// extensible file seen in practice wraps PCM or float, and
		// the sample width disambiguates.
		if format.bitsPerSample == 32 {
			effective = wavFormatIEEEFloat
		} else {
			effective = wavFormatPCM
		}
	}

	for frame := 0; frame < frames; frame++ {
		base := frame * format.blockAlign
		for c := 0; c < format.channels; c++ {
			sampleBytes := raw[base+c*bytesPerSample : base+(c+1)*bytesPerSample]
			sample, ok := convertPCMSample(effective, format.bitsPerSample, sampleBytes)
			if !ok {
				return nil, &DecodeError{Path: path, Reason: "unsupported sample format"}
			}
			data[c][frame] = sample
		}
	}

	return audio.FromBuffer(data, format.sampleRate), nil
}

// convertPCMSample maps one little-endian sample to float. Integer
// PCM divides by the type's maximum magnitude; 8-bit WAV is unsigned
// and subtracts 1 after division.
func convertPCMSample(format uint16, bits int, b []byte) (audio.Sample, bool) {
	switch {
	case format == wavFormatPCM && bits == 8:
		return audio.Sample(b[0])/128.0 - 1.0, true
	case format == wavFormatPCM && bits == 16:
		v := int16(binary.LittleEndian.Uint16(b))
		return audio.Sample(v) / 32768.0, true
	case format == wavFormatPCM && bits == 24:
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v |= ^int32(0xFFFFFF)
		}
		return audio.Sample(v) / 8388608.0, true
	case format == wavFormatPCM && bits == 32:
		v := int32(binary.LittleEndian.Uint32(b))
		return audio.Sample(float64(v) / 2147483648.0), true
	case format == wavFormatIEEEFloat && bits == 32:
		return audio.Sample(math.Float32frombits(binary.LittleEndian.Uint32(b))), true
	default:
		return 0, false
	}
}

func durationWAV(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, &DecodeError{Path: path, Reason: "open failed", Err: err}
	}
	defer f.Close()

	format, err := parseWAVHeader(path, f)
	if err != nil {
		return 0, err
	}
	frames := format.dataSize / format.blockAlign
	return float64(frames) / float64(format.sampleRate), nil
}

// EncodeWAV renders a source as a 16-bit PCM WAV file. Samples are
// clamped to [-1, 1] on the way out.
func EncodeWAV(src *audio.Source) ([]byte, error) {
	channels := src.Channels
	if channels == 0 {
		return nil, &DecodeError{Path: "", Reason: "cannot encode a zero-channel source"}
	}
	frames := src.Samples()

	var buf bytes.Buffer
	bytesPerSample := 2
	blockAlign := channels * bytesPerSample
	dataSize := frames * blockAlign
	byteRate := src.SampleRate * blockAlign

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(src.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))

	for frame := 0; frame < frames; frame++ {
		for c := 0; c < channels; c++ {
			var sample audio.Sample
			if c < len(src.Data) && frame < len(src.Data[c]) {
				sample = src.Data[c][frame]
			}
			if sample > 1 {
				sample = 1
			} else if sample < -1 {
				sample = -1
			}
			v := int16(sample * 32767)
			binary.Write(&buf, binary.LittleEndian, v)
		}
	}

	return buf.Bytes(), nil
}
