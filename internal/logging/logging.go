// Package logging opens the player's single process-scoped log file,
// following the teacher's pattern of constructing one log destination
// at startup and passing it down rather than building loggers ad hoc.
package logging

import (
	"io"
	"log"
	"os"
)

// DefaultPath is where telemetry is written when enabled, per
// spec.md's ambient logging requirement.
const DefaultPath = "/tmp/zim-player.log"

// Open returns a *log.Logger writing to path when enabled is true, or
// a logger discarding all output when telemetry is off. The returned
// closer must be closed at shutdown; it is a no-op when telemetry is
// off.
func Open(enabled bool, path string) (*log.Logger, io.Closer, error) {
	if !enabled {
		return log.New(io.Discard, "", 0), nopCloser{}, nil
	}
	if path == "" {
		path = DefaultPath
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(f, "zim ", log.LstdFlags|log.Lmicroseconds)
	return logger, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
