// Package wavwrite writes 16-bit PCM WAV files, generalized from
// ik5-audpbx's mono-only WriteWAV16 to mono-or-stereo interleaved
// output, as required by the exporter (spec.md §4.8).
package wavwrite

import (
	"encoding/binary"
	"fmt"
	"io"
)

// chunkSize bounds per-write allocation: samples are encoded and
// written 8192 at a time (16 KiB of PCM data per write).
const chunkSize = 8192

// Write emits a 16-bit PCM WAV at sampleRate with the given channel
// count. samples is interleaved per channel (L,R,L,R,... for stereo).
func Write(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels != 1 && channels != 2 {
		return fmt.Errorf("wavwrite: unsupported channel count %d", channels)
	}

	numChannels := uint16(channels)
	bitsPerSample := uint16(16)
	byteRate := uint32(sampleRate) * uint32(numChannels) * uint32(bitsPerSample/8)
	blockAlign := numChannels * (bitsPerSample / 8)
	dataSize := uint32(len(samples) * 2)
	riffSize := 36 + dataSize

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], riffSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("wavwrite: header: %w", err)
	}

	if len(samples) == 0 {
		return nil
	}

	bufSize := min(len(samples), chunkSize)
	buf := make([]byte, bufSize*2)

	for i := 0; i < len(samples); i += chunkSize {
		end := min(i+chunkSize, len(samples))
		chunk := samples[i:end]
		buf = buf[:len(chunk)*2]
		for j, s := range chunk {
			binary.LittleEndian.PutUint16(buf[j*2:j*2+2], uint16(s))
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("wavwrite: data: %w", err)
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
