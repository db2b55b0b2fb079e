package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zim-audio/zim/internal/wavwrite"
)

func writeTestWAV(t *testing.T, path string, sampleRate, channels int, samples []int16) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := wavwrite.Write(f, sampleRate, channels, samples); err != nil {
		t.Fatal(err)
	}
}

func TestSaveFullCopiesWAVByteForByte(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "source.wav")
	writeTestWAV(t, src, 44100, 1, []int16{1, 2, 3, 4, 5})

	dst := filepath.Join(dir, "copy.wav")
	if err := SaveFull(src, dst); err != nil {
		t.Fatalf("SaveFull() error = %v", err)
	}

	wantBytes, _ := os.ReadFile(src)
	gotBytes, _ := os.ReadFile(dst)
	if string(wantBytes) != string(gotBytes) {
		t.Error("SaveFull() copy is not byte-identical to source")
	}
}

func TestSaveSelectionWritesOnlyRequestedRange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "source.wav")
	samples := make([]int16, 100)
	for i := range samples {
		samples[i] = int16(i)
	}
	writeTestWAV(t, src, 8000, 1, samples)

	dst := filepath.Join(dir, "selection.wav")
	result, err := SaveSelection(Job{
		SourcePath: src,
		FrameStart: 10,
		FrameEnd:   20,
		TargetPath: dst,
	})
	if err != nil {
		t.Fatalf("SaveSelection() error = %v", err)
	}
	if result.FramesWritten != 10 {
		t.Errorf("FramesWritten = %d, want 10", result.FramesWritten)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 44+10*2 {
		t.Errorf("selection.wav size = %d, want %d", info.Size(), 44+10*2)
	}
}

func TestSaveSelectionRejectsEmptyRange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "source.wav")
	writeTestWAV(t, src, 8000, 1, []int16{1, 2, 3})

	_, err := SaveSelection(Job{SourcePath: src, FrameStart: 2, FrameEnd: 2, TargetPath: filepath.Join(dir, "out.wav")})
	if err == nil {
		t.Error("SaveSelection() with empty range: want error, got nil")
	}
}

func TestSaveSelectionClonesSidecarWithProvenance(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "source.wav")
	samples := make([]int16, 80)
	writeTestWAV(t, src, 8000, 1, samples)
	sidecarContent := "---\nfile: source.wav\npath: " + src + "\ntitle: Take 1\n---\nnotes\n"
	if err := os.WriteFile(src+".md", []byte(sidecarContent), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "source_edit.wav")
	result, err := SaveSelection(Job{
		SourcePath:   src,
		FrameStart:   0,
		FrameEnd:     40,
		TargetPath:   dst,
		CloneSidecar: true,
	})
	if err != nil {
		t.Fatalf("SaveSelection() error = %v", err)
	}
	if result.SidecarError != nil {
		t.Fatalf("SidecarError = %v", result.SidecarError)
	}

	cloned, err := os.ReadFile(dst + ".md")
	if err != nil {
		t.Fatalf("reading cloned sidecar: %v", err)
	}
	content := string(cloned)
	for _, want := range []string{"extraction_type: selection", "source_time_start:", "extracted_at:"} {
		if !strings.Contains(content, want) {
			t.Errorf("cloned sidecar missing %q:\n%s", want, content)
		}
	}
}

func TestSuggestFilenameFindsSmallestUnusedSuffix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if got := SuggestFilename("kick", dir); got != "kick_edit.wav" {
		t.Fatalf("SuggestFilename() = %q, want kick_edit.wav", got)
	}

	os.WriteFile(filepath.Join(dir, "kick_edit.wav"), []byte("x"), 0o644)
	if got := SuggestFilename("kick", dir); got != "kick_edit_2.wav" {
		t.Fatalf("SuggestFilename() = %q, want kick_edit_2.wav", got)
	}

	os.WriteFile(filepath.Join(dir, "kick_edit_2.wav"), []byte("x"), 0o644)
	if got := SuggestFilename("kick", dir); got != "kick_edit_3.wav" {
		t.Fatalf("SuggestFilename() = %q, want kick_edit_3.wav", got)
	}
}
