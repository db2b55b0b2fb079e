package decode

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	goaudiowav "github.com/go-audio/wav"
)

// wavDecoder wraps github.com/go-audio/wav for header parsing and does
// its own raw-byte PCM pulling so that Seek can be exact frame-offset
// math against the data chunk, per spec.md §4.1.
type wavDecoder struct {
	f          *os.File
	info       Info
	dataOffset int64
	blockAlign int
	isFloat    bool
	pos        uint64
	scratch    []byte
}

func openWAV(f *os.File, path string) (Decoder, error) {
	dec := goaudiowav.NewDecoder(f)
	if !dec.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, ErrCorruptHeader)
	}
	dec.ReadInfo()

	bitDepth := int(dec.BitDepth)
	channels := int(dec.NumChans)
	sampleRate := int(dec.SampleRate)
	if channels != 1 && channels != 2 {
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, ErrUnsupportedFormat)
	}

	if err := dec.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, ErrCorruptHeader)
	}
	dataOffset, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, ErrIoError)
	}

	fileSize, _ := f.Seek(0, io.SeekEnd)
	if _, err := f.Seek(dataOffset, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("decode: %s: %w", path, ErrIoError)
	}

	blockAlign := (bitDepth / 8) * channels
	if blockAlign == 0 {
		blockAlign = channels * 2
	}
	totalFrames := uint64(0)
	if fileSize > dataOffset {
		totalFrames = uint64(fileSize-dataOffset) / uint64(blockAlign)
	}

	isFloat := dec.WavAudioFormat == 3 || bitDepth == 32 && dec.WavAudioFormat == 3

	return &wavDecoder{
		f: f,
		info: Info{
			SampleRate:   sampleRate,
			Channels:     channels,
			TotalFrames:  totalFrames,
			BitDepthHint: bitDepth,
			SourceKind:   KindWAV,
		},
		dataOffset: dataOffset,
		blockAlign: blockAlign,
		isFloat:    isFloat,
	}, nil
}

func (d *wavDecoder) Info() Info       { return d.info }
func (d *wavDecoder) Position() uint64 { return d.pos }
func (d *wavDecoder) Close() error     { return d.f.Close() }

func (d *wavDecoder) Seek(frame uint64) error {
	if d.info.TotalFrames > 0 && frame > d.info.TotalFrames {
		return fmt.Errorf("decode: wav seek %d: %w", frame, ErrSeekOutOfRange)
	}
	off := d.dataOffset + int64(frame)*int64(d.blockAlign)
	if _, err := d.f.Seek(off, io.SeekStart); err != nil {
		return fmt.Errorf("decode: wav seek: %w", ErrIoError)
	}
	d.pos = frame
	return nil
}

func (d *wavDecoder) PullFrames(n int) (Frames, error) {
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
		return Frames{Channels: d.info.Channels}, fmt.Errorf("decode: wav read: %w", ErrIoError)
	}

	frames := read / d.blockAlign
	buf = buf[:frames*d.blockAlign]
	samples := make([]float32, frames*d.info.Channels)
	bytesPerSample := d.blockAlign / d.info.Channels

	for i := 0; i < frames*d.info.Channels; i++ {
		off := i * bytesPerSample
		samples[i] = d.decodeSample(buf[off : off+bytesPerSample])
	}
	d.pos += uint64(frames)

	var retErr error
	if err == io.ErrUnexpectedEOF || (err == nil && frames < n) {
		retErr = nil // short pull is allowed; caller checks frame count
	}
	return Frames{Samples: samples, Channels: d.info.Channels}, retErr
}

func (d *wavDecoder) decodeSample(b []byte) float32 {
	switch len(b) {
	case 1:
		return Normalize(int64(b[0]), 8)
	case 2:
		return Normalize(int64(int16(binary.LittleEndian.Uint16(b))), 16)
	case 3:
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v |= ^0xFFFFFF
		}
		return Normalize(int64(v), 24)
	case 4:
		if d.isFloat {
			bits := binary.LittleEndian.Uint32(b)
			return math.Float32frombits(bits)
		}
		return Normalize(int64(int32(binary.LittleEndian.Uint32(b))), 32)
	default:
		return 0
	}
}
