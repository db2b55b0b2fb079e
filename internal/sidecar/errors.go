package sidecar

import "fmt"

// ParseError is spec.md §7's SidecarParseError: the browser degrades
// (shows the entry without sidecar content) while the lint tool (out
// of scope here) would report it.
type ParseError struct {
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: sidecar parse error: %s", e.Path, e.Reason)
}

// ValidationError reports a schema violation per spec.md §6.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sidecar validation: %s", e.Reason)
}
