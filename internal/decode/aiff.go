package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	goaudioaiff "github.com/go-audio/aiff"
)

// aiffDecoder wraps github.com/go-audio/aiff for header validation and
// does its own SSND-chunk offset math for sample-accurate seek, per
// spec.md §4.1's "AIFF, SSND chunk offset math" requirement.
type aiffDecoder struct {
	f          *os.File
	info       Info
	dataOffset int64
	blockAlign int
	pos        uint64
	scratch    []byte
}

func openAIFF(f *os.File, path string) (Decoder, error) {
	dec := goaudioaiff.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, ErrCorruptHeader)
	}
	dec.ReadInfo()

	channels := int(dec.NumChans)
	sampleRate := int(dec.SampleRate)
	bitDepth := int(dec.BitDepth)
	if channels != 1 && channels != 2 {
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, ErrUnsupportedFormat)
	}

	dataOffset, dataSize, err := findSSND(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, ErrCorruptHeader)
	}
	if _, err := f.Seek(dataOffset, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, ErrIoError)
	}

	blockAlign := (bitDepth / 8) * channels
	if blockAlign == 0 {
		blockAlign = channels * 2
	}
	totalFrames := uint64(0)
	if dataSize > 0 {
		totalFrames = uint64(dataSize) / uint64(blockAlign)
	}

	return &aiffDecoder{
		f: f,
		info: Info{
			SampleRate:   sampleRate,
			Channels:     channels,
			TotalFrames:  totalFrames,
			BitDepthHint: bitDepth,
			SourceKind:   KindAIFF,
		},
		dataOffset: dataOffset,
		blockAlign: blockAlign,
	}, nil
}

// findSSND scans top-level AIFF chunks for "SSND" and returns the
// absolute offset of its sample data (after the 8-byte offset/
// blockSize header within the chunk) and the sample data size.
func findSSND(f *os.File) (offset int64, size int64, err error) {
	if _, err = f.Seek(12, io.SeekStart); err != nil {
		return 0, 0, err
	}
	hdr := make([]byte, 8)
	for {
		n, rerr := io.ReadFull(f, hdr)
		if n < 8 {
			return 0, 0, fmt.Errorf("SSND chunk not found")
		}
		id := string(hdr[0:4])
		chunkSize := int64(binary.BigEndian.Uint32(hdr[4:8]))
		if id == "SSND" {
			ssndHdr := make([]byte, 8)
			if _, err := io.ReadFull(f, ssndHdr); err != nil {
				return 0, 0, err
			}
			dataStart, serr := f.Seek(0, io.SeekCurrent)
			if serr != nil {
				return 0, 0, serr
			}
			ssndOffset := int64(binary.BigEndian.Uint32(ssndHdr[0:4]))
			return dataStart + ssndOffset, chunkSize - 8 - ssndOffset, nil
		}
		next := chunkSize
		if next%2 != 0 {
			next++
		}
		if _, err := f.Seek(next, io.SeekCurrent); err != nil {
			return 0, 0, err
		}
		if rerr == io.EOF {
			return 0, 0, fmt.Errorf("SSND chunk not found")
		}
	}
}

func (d *aiffDecoder) Info() Info       { return d.info }
func (d *aiffDecoder) Position() uint64 { return d.pos }
func (d *aiffDecoder) Close() error     { return d.f.Close() }

func (d *aiffDecoder) Seek(frame uint64) error {
	if d.info.TotalFrames > 0 && frame > d.info.TotalFrames {
		return fmt.Errorf("decode: aiff seek %d: %w", frame, ErrSeekOutOfRange)
	}
	off := d.dataOffset + int64(frame)*int64(d.blockAlign)
	if _, err := d.f.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("decode: aiff seek: %w", ErrIoError)
	}
	d.pos = frame
	return nil
}

func (d *aiffDecoder) PullFrames(n int) (Frames, error) {
	if n <= 0 {
		return Frames{Channels: d.info.Channels}, nil
	}
	need := n * d.blockAlign
	if cap(d.scratch) < need {
		d.scratch = make([]byte, need)
	}
	buf := d.scratch[:need]
	read, err := io.ReadFull(d.f, buf)
	if read == 0 {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Frames{Channels: d.info.Channels}, ErrEndOfStream
		}
		return Frames{Channels: d.info.Channels}, fmt.Errorf("decode: aiff read: %w", ErrIoError)
	}

	frames := read / d.blockAlign
	buf = buf[:frames*d.blockAlign]
	samples := make([]float32, frames*d.info.Channels)
	bytesPerSample := d.blockAlign / d.info.Channels

	// AIFF PCM is big-endian, signed.
	for i := 0; i < frames*d.info.Channels; i++ {
		off := i * bytesPerSample
		samples[i] = decodeBESample(buf[off:off+bytesPerSample], d.info.BitDepthHint)
	}
	d.pos += uint64(frames)
	return Frames{Samples: samples, Channels: d.info.Channels}, nil
}

func decodeBESample(b []byte, bitDepth int) float32 {
	switch len(b) {
	case 1:
		// AIFF 8-bit PCM is already signed, unlike WAV's unsigned-offset
		// 8-bit samples, so it doesn't go through Normalize's 8-bit
		// branch (which assumes a 0..255 unsigned range).
		return float32(int8(b[0])) / 128
	case 2:
		return Normalize(int64(int16(binary.BigEndian.Uint16(b))), 16)
	case 3:
		v := int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
		if v&0x800000 != 0 {
			v |= ^0xFFFFFF
		}
		return Normalize(int64(v), 24)
	case 4:
		return Normalize(int64(int32(binary.BigEndian.Uint32(b))), 32)
	default:
		return 0
	}
}
