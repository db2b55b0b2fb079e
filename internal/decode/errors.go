package decode

import "errors"

var (
	ErrUnsupportedFormat = errors.New("decode: unsupported format")
	ErrCorruptHeader     = errors.New("decode: corrupt header")
	ErrIoError           = errors.New("decode: io error")
	ErrSeekOutOfRange    = errors.New("decode: seek out of range")
	ErrEndOfStream       = errors.New("decode: end of stream")
)
