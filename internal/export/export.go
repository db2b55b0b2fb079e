// Package export implements save-full and save-selection for the
// player's SaveDialog modal, per spec.md §4.8. Both operations write a
// fresh 16-bit PCM WAV; save-selection reopens its own decode.Decoder
// on the source rather than touching the live mixer or sample tap.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/zim-audio/zim/internal/decode"
	"github.com/zim-audio/zim/internal/sidecar"
	"github.com/zim-audio/zim/internal/wavwrite"
)

// Job describes one selection export request.
type Job struct {
	SourcePath           string
	FrameStart, FrameEnd uint64
	TargetPath           string
	CloneSidecar         bool
}

// Result reports what an export actually wrote.
type Result struct {
	TargetPath    string
	FramesWritten uint64
	SidecarError  error // non-nil on best-effort sidecar failure; WAV still written
}

// SaveFull copies a WAV source byte-for-byte (after re-verifying RIFF
// framing) or transcodes a FLAC/AIFF source to 16-bit PCM WAV.
func SaveFull(sourcePath, targetPath string) error {
	info, err := decode.Probe(sourcePath)
	if err != nil {
		return fmt.Errorf("export: probe %s: %w", sourcePath, err)
	}

	if info.SourceKind == decode.KindWAV {
		return copyWAV(sourcePath, targetPath)
	}
	return transcodeFull(sourcePath, targetPath, info)
}

func copyWAV(sourcePath, targetPath string) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("export: open source: %w", err)
	}
	defer src.Close()

	head := make([]byte, 12)
	if _, err := io.ReadFull(src, head); err != nil {
		return fmt.Errorf("export: read RIFF header: %w", err)
	}
	if string(head[0:4]) != "RIFF" || string(head[8:12]) != "WAVE" {
		return fmt.Errorf("export: %s is not a valid WAV container", sourcePath)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("export: rewind source: %w", err)
	}

	dst, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("export: create target: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("export: copy: %w", err)
	}
	return nil
}

func transcodeFull(sourcePath, targetPath string, info decode.Info) error {
	d, err := decode.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("export: open decoder: %w", err)
	}
	defer d.Close()

	f, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("export: create target: %w", err)
	}
	defer f.Close()

	samples, err := pullAllInt16(d)
	if err != nil {
		return fmt.Errorf("export: transcode: %w", err)
	}
	return wavwrite.Write(f, info.SampleRate, info.Channels, samples)
}

// SaveSelection writes job.SourcePath's frames [FrameStart, FrameEnd)
// to job.TargetPath as 16-bit PCM WAV, and best-effort clones the
// source sidecar with provenance fields. A sidecar-write failure is
// reported in Result.SidecarError without rolling back the WAV.
func SaveSelection(job Job) (Result, error) {
	if job.FrameEnd <= job.FrameStart {
		return Result{}, fmt.Errorf("export: empty selection [%d, %d)", job.FrameStart, job.FrameEnd)
	}

	d, err := decode.Open(job.SourcePath)
	if err != nil {
		return Result{}, fmt.Errorf("export: open decoder: %w", err)
	}
	defer d.Close()

	info := d.Info()
	if err := d.Seek(job.FrameStart); err != nil {
		return Result{}, fmt.Errorf("export: seek to start: %w", err)
	}

	want := job.FrameEnd - job.FrameStart
	samples := make([]int16, 0, want*uint64(info.Channels))
	var written uint64
	for written < want {
		remain := want - written
		n := remain
		if n > 4096 {
			n = 4096
		}
		fr, err := d.PullFrames(int(n))
		for _, s := range fr.Samples {
			samples = append(samples, f32ToInt16(s))
		}
		written += uint64(fr.NumFrames())
		if err != nil {
			break
		}
		if fr.NumFrames() == 0 {
			break
		}
	}

	f, err := os.Create(job.TargetPath)
	if err != nil {
		return Result{}, fmt.Errorf("export: create target: %w", err)
	}
	defer f.Close()

	if err := wavwrite.Write(f, info.SampleRate, info.Channels, samples); err != nil {
		return Result{}, fmt.Errorf("export: write wav: %w", err)
	}

	result := Result{TargetPath: job.TargetPath, FramesWritten: written}
	if job.CloneSidecar {
		prov := Provenance{
			SourceFile:      absPath(job.SourcePath),
			SourceTimeStart: fmtMMSS(float64(job.FrameStart) / float64(info.SampleRate)),
			SourceTimeEnd:   fmtMMSS(float64(job.FrameEnd) / float64(info.SampleRate)),
			SourceDuration:  fmtMMSS(float64(info.TotalFrames) / float64(info.SampleRate)),
			ExtractedAt:     extractedAtISO8601(),
			ExtractionType:  "selection",
			Duration:        float64(written) / float64(info.SampleRate),
		}
		_, sidecarErr := CloneSidecar(job.SourcePath, job.TargetPath, prov)
		result.SidecarError = sidecarErr
	}
	return result, nil
}

func pullAllInt16(d decode.Decoder) ([]int16, error) {
	var out []int16
	for {
		fr, err := d.PullFrames(4096)
		for _, s := range fr.Samples {
			out = append(out, f32ToInt16(s))
		}
		if err != nil {
			return out, nil
		}
		if fr.NumFrames() == 0 {
			return out, nil
		}
	}
}

func f32ToInt16(s float32) int16 {
	v := float64(s) * 32768
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return int16(math.Round(v))
}

// SuggestFilename implements the S_edit.wav, S_edit_2.wav, ... search
// of spec.md §4.8: the smallest unused numeric suffix.
func SuggestFilename(sourceStem, dir string) string {
	base := sourceStem + "_edit.wav"
	if _, err := os.Stat(filepath.Join(dir, base)); err != nil {
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_edit_%d.wav", sourceStem, n)
		if _, err := os.Stat(filepath.Join(dir, candidate)); err != nil {
			return candidate
		}
	}
}

// Provenance is the set of fields SaveSelection writes or overwrites
// in the cloned sidecar.
type Provenance struct {
	SourceFile      string
	SourceTimeStart string
	SourceTimeEnd   string
	SourceDuration  string
	ExtractedAt     string
	ExtractionType  string
	Duration        float64
}

// CloneSidecar copies sourcePath+".md" frontmatter (when present) to
// targetPath+".md", overwriting/inserting the provenance fields, or
// writes a minimal sidecar carrying just provenance when no source
// sidecar exists.
func CloneSidecar(sourcePath, targetPath string, prov Provenance) (bool, error) {
	sourceSidecarPath := sourcePath + ".md"
	targetSidecarPath := targetPath + ".md"

	var sc *sidecar.Sidecar
	if content, err := os.ReadFile(sourceSidecarPath); err == nil {
		parsed, err := sidecar.Parse(sourceSidecarPath, content)
		if err != nil {
			sc = &sidecar.Sidecar{}
		} else {
			sc = parsed
		}
	} else {
		sc = &sidecar.Sidecar{}
	}

	sc.Frontmatter.File = filepath.Base(targetPath)
	sc.Frontmatter.Path = targetPath
	sc.Frontmatter.Duration = prov.Duration
	sc.Frontmatter.SourceFile = prov.SourceFile
	sc.Frontmatter.SourceTimeStart = prov.SourceTimeStart
	sc.Frontmatter.SourceTimeEnd = prov.SourceTimeEnd
	sc.Frontmatter.SourceDuration = prov.SourceDuration
	sc.Frontmatter.ExtractedAt = prov.ExtractedAt
	sc.Frontmatter.ExtractionType = prov.ExtractionType

	out, err := sidecar.Format(sc)
	if err != nil {
		return false, fmt.Errorf("export: format sidecar: %w", err)
	}
	if err := os.WriteFile(targetSidecarPath, out, 0o644); err != nil {
		return false, fmt.Errorf("export: write sidecar: %w", err)
	}
	return true, nil
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func fmtMMSS(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}
	total := int(math.Round(seconds))
	m := total / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

// extractedAtISO8601 is a var so tests can substitute a fixed clock.
var extractedAtISO8601 = func() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}
