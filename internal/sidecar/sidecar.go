// Package sidecar reads and writes the Markdown+YAML-frontmatter
// files that accompany audio files, per spec.md §6. This is the same
// parser/validator an external lint tool would use; the scaffolder
// and linter commands themselves are out of scope here.
package sidecar

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Art describes one artwork reference in the frontmatter.
type Art struct {
	Path        string `yaml:"path"`
	Description string `yaml:"description,omitempty"`
	Purpose     string `yaml:"purpose,omitempty"` // inspiration | cover_art | other
}

// Frontmatter is the recognized key set from spec.md §6, including
// the provenance fields an export adds.
type Frontmatter struct {
	File        string   `yaml:"file"`
	Path        string   `yaml:"path"`
	Title       string   `yaml:"title,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Duration    any      `yaml:"duration,omitempty"` // number or literal "unknown"
	SampleRate  int      `yaml:"sample_rate,omitempty"`
	Channels    int      `yaml:"channels,omitempty"`
	BitDepth    int      `yaml:"bit_depth,omitempty"`
	FileSize    int64    `yaml:"file_size,omitempty"`
	Modified    string   `yaml:"modified,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Art         []Art    `yaml:"art,omitempty"`

	SourceFile      string `yaml:"source_file,omitempty"`
	SourceTimeStart string `yaml:"source_time_start,omitempty"`
	SourceTimeEnd   string `yaml:"source_time_end,omitempty"`
	SourceDuration  string `yaml:"source_duration,omitempty"`
	ExtractedAt     string `yaml:"extracted_at,omitempty"`
	ExtractionType  string `yaml:"extraction_type,omitempty"`
}

var recognizedKeys = map[string]bool{
	"file": true, "path": true, "title": true, "description": true,
	"duration": true, "sample_rate": true, "channels": true,
	"bit_depth": true, "file_size": true, "modified": true, "tags": true,
	"art": true, "source_file": true, "source_time_start": true,
	"source_time_end": true, "source_duration": true, "extracted_at": true,
	"extraction_type": true,
}

// Sidecar is a parsed file: its structured frontmatter plus the
// free-form Markdown body that follows the closing fence.
type Sidecar struct {
	Frontmatter Frontmatter
	Body        string
}

// Parse splits fenced YAML frontmatter from the trailing body and
// decodes it. A sidecar with no frontmatter fences is treated as a
// body-only document with a zero Frontmatter.
func Parse(path string, content []byte) (*Sidecar, error) {
	text := string(content)
	if !strings.HasPrefix(text, fence+"\n") {
		return &Sidecar{Body: text}, nil
	}
	rest := text[len(fence)+1:]
	end := strings.Index(rest, "\n"+fence)
	if end == -1 {
		return nil, &ParseError{Path: path, Reason: "missing closing frontmatter fence"}
	}
	yamlPart := rest[:end]
	body := strings.TrimPrefix(rest[end+len(fence)+1:], "\n")

	if err := checkUnknownKeys(path, []byte(yamlPart)); err != nil {
		return nil, err
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(yamlPart), &fm); err != nil {
		return nil, &ParseError{Path: path, Reason: err.Error()}
	}
	return &Sidecar{Frontmatter: fm, Body: body}, nil
}

func checkUnknownKeys(path string, raw []byte) error {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return &ParseError{Path: path, Reason: err.Error()}
	}
	if len(node.Content) == 0 {
		return nil
	}
	doc := node.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		if !recognizedKeys[key] {
			return &ParseError{Path: path, Reason: "unknown top-level key: " + key}
		}
	}
	return nil
}

var validArtPurposes = map[string]bool{
	"inspiration": true, "cover_art": true, "other": true,
}

// Validate enforces spec.md §6's schema rules.
func Validate(fm Frontmatter) error {
	if fm.File == "" || fm.Path == "" {
		return &ValidationError{Reason: "file and path are required"}
	}
	if fm.SampleRate < 0 || fm.BitDepth < 0 || fm.FileSize < 0 {
		return &ValidationError{Reason: "numeric fields must be non-negative"}
	}
	if fm.Channels != 0 && fm.Channels != 1 && fm.Channels != 2 {
		return &ValidationError{Reason: "channels must be 1 or 2"}
	}
	switch d := fm.Duration.(type) {
	case string:
		if d != "unknown" {
			return &ValidationError{Reason: "duration must be a number or the literal \"unknown\""}
		}
	case int:
		if d < 0 {
			return &ValidationError{Reason: "duration must be non-negative"}
		}
	case int64:
		if d < 0 {
			return &ValidationError{Reason: "duration must be non-negative"}
		}
	case float64:
		if d < 0 {
			return &ValidationError{Reason: "duration must be non-negative"}
		}
	}
	for _, a := range fm.Art {
		if a.Purpose != "" && !validArtPurposes[a.Purpose] {
			return &ValidationError{Reason: "art purpose must be inspiration, cover_art, or other"}
		}
	}
	return nil
}

// Format serializes a Sidecar back to fenced frontmatter + body.
func Format(s *Sidecar) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s.Frontmatter); err != nil {
		return nil, err
	}
	enc.Close()
	buf.WriteString(fence + "\n")
	buf.WriteString(s.Body)
	return buf.Bytes(), nil
}
