package sidecar

import (
	"strings"
	"testing"
)

const sample = `---
file: kick.wav
path: /music/kick.wav
title: Punchy 808
tags:
  - drums
  - kick
---
This one hits hard. punchy 808 tone.
`

func TestParseRoundTripsFrontmatterAndBody(t *testing.T) {
	t.Parallel()

	sc, err := Parse("kick.wav.md", []byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if sc.Frontmatter.File != "kick.wav" || sc.Frontmatter.Path != "/music/kick.wav" {
		t.Errorf("Frontmatter = %+v", sc.Frontmatter)
	}
	if !strings.Contains(sc.Body, "punchy 808") {
		t.Errorf("Body = %q, want it to contain the sidecar text", sc.Body)
	}
}

func TestParseRejectsUnknownTopLevelKey(t *testing.T) {
	t.Parallel()

	doc := "---\nfile: a.wav\npath: /a.wav\nbogus: 1\n---\nbody\n"
	if _, err := Parse("a.wav.md", []byte(doc)); err == nil {
		t.Error("Parse() with unknown key: want error, got nil")
	}
}

func TestParseWithoutFrontmatterIsBodyOnly(t *testing.T) {
	t.Parallel()

	sc, err := Parse("plain.md", []byte("just some notes\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if sc.Frontmatter.File != "" {
		t.Errorf("Frontmatter.File = %q, want empty", sc.Frontmatter.File)
	}
	if sc.Body != "just some notes\n" {
		t.Errorf("Body = %q", sc.Body)
	}
}

func TestValidateRequiresFileAndPath(t *testing.T) {
	t.Parallel()

	if err := Validate(Frontmatter{}); err == nil {
		t.Error("Validate(empty) want error, got nil")
	}
	if err := Validate(Frontmatter{File: "a.wav", Path: "/a.wav"}); err != nil {
		t.Errorf("Validate(minimal valid) error = %v", err)
	}
}

func TestValidateRejectsBadChannelsAndNegativeFields(t *testing.T) {
	t.Parallel()

	base := Frontmatter{File: "a.wav", Path: "/a.wav"}
	bad := base
	bad.Channels = 3
	if err := Validate(bad); err == nil {
		t.Error("Validate(channels=3) want error, got nil")
	}
	bad = base
	bad.SampleRate = -1
	if err := Validate(bad); err == nil {
		t.Error("Validate(negative sample_rate) want error, got nil")
	}
}

func TestValidateRejectsNegativeDuration(t *testing.T) {
	t.Parallel()

	base := Frontmatter{File: "a.wav", Path: "/a.wav"}

	bad := base
	bad.Duration = -1.5
	if err := Validate(bad); err == nil {
		t.Error("Validate(negative float duration) want error, got nil")
	}

	bad = base
	bad.Duration = -1
	if err := Validate(bad); err == nil {
		t.Error("Validate(negative int duration) want error, got nil")
	}

	ok := base
	ok.Duration = 12.5
	if err := Validate(ok); err != nil {
		t.Errorf("Validate(positive duration) error = %v", err)
	}

	ok = base
	ok.Duration = "unknown"
	if err := Validate(ok); err != nil {
		t.Errorf("Validate(duration=unknown) error = %v", err)
	}
}

func TestValidateRejectsUnknownArtPurpose(t *testing.T) {
	t.Parallel()

	base := Frontmatter{File: "a.wav", Path: "/a.wav"}

	bad := base
	bad.Art = []Art{{Path: "moodboard.png", Purpose: "mood"}}
	if err := Validate(bad); err == nil {
		t.Error("Validate(unknown art purpose) want error, got nil")
	}

	for _, purpose := range []string{"inspiration", "cover_art", "other", ""} {
		ok := base
		ok.Art = []Art{{Path: "moodboard.png", Purpose: purpose}}
		if err := Validate(ok); err != nil {
			t.Errorf("Validate(art purpose=%q) error = %v", purpose, err)
		}
	}
}

func TestFormatProducesParseableOutput(t *testing.T) {
	t.Parallel()

	sc := &Sidecar{
		Frontmatter: Frontmatter{File: "a.wav", Path: "/a.wav", Title: "A"},
		Body:        "notes\n",
	}
	out, err := Format(sc)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	reparsed, err := Parse("a.wav.md", out)
	if err != nil {
		t.Fatalf("Parse(Format()) error = %v", err)
	}
	if reparsed.Frontmatter.Title != "A" {
		t.Errorf("round-tripped Title = %q, want %q", reparsed.Frontmatter.Title, "A")
	}
}
