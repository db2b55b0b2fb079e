package mix

import "errors"

var (
	ErrNoTracks           = errors.New("mix: no tracks")
	ErrTooManyTracks      = errors.New("mix: more than 3 tracks")
	ErrSampleRateMismatch = errors.New("mix: track sample rate mismatch")
	ErrOddDstSize         = errors.New("mix: dst size must be a multiple of 2")
	ErrTooManyValues      = errors.New("mix: too many comma-separated values")
	ErrInvalidValue       = errors.New("mix: invalid numeric value")
)
