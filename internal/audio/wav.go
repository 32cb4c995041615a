// Package audio holds the minimal WAV handling the service needs: decoding
// uploaded recordings into PCM floats and re-encoding them for the
// transcription collaborator. Only 16-bit PCM is supported, which is what
// every capture path produces.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
)

// Decode parses a 16-bit PCM WAV file into float64 samples in [-1, 1] and
// the sample rate. Multi-channel audio collapses to the first channel.
func Decode(data []byte) ([]float64, int, error) {
	if len(data) < riffHeaderSize {
		return nil, 0, fmt.Errorf("wav: file too short")
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("wav: not a RIFF/WAVE file")
	}

	var (
		sampleRate int
		channels   int
		bitDepth   int
		pcm        []byte
		haveFmt    bool
	)

	offset := riffHeaderSize
	for offset+chunkHeaderSize <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + chunkHeaderSize
		if body+chunkSize > len(data) {
			chunkSize = len(data) - body
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, 0, fmt.Errorf("wav: truncated fmt chunk")
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return nil, 0, fmt.Errorf("wav: unsupported audio format %d (want PCM)", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitDepth = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcm = data[body : body+chunkSize]
		}

		// Chunks are word-aligned.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !haveFmt || pcm == nil {
		return nil, 0, fmt.Errorf("wav: missing fmt or data chunk")
	}
	if bitDepth != 16 {
		return nil, 0, fmt.Errorf("wav: unsupported bit depth %d (want 16)", bitDepth)
	}
	if channels < 1 {
		return nil, 0, fmt.Errorf("wav: invalid channel count %d", channels)
	}

	frameBytes := channels * 2
	frames := len(pcm) / frameBytes
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		// First channel only.
		v := int16(binary.LittleEndian.Uint16(pcm[i*frameBytes : i*frameBytes+2]))
		samples[i] = float64(v) / 32768
	}
	return samples, sampleRate, nil
}

// Encode writes mono float64 samples as a 16-bit PCM WAV file.
func Encode(samples []float64, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataSize))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))            // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))           // bit depth

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.Write(buf, binary.LittleEndian, int16(s*32767))
	}
	return buf.Bytes()
}
