// Package browse implements the directory browser: scanning with
// sidecar lookup, substring-scored filtering, and wrapping list
// navigation, per spec.md §4.7.
package browse

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zim-audio/zim/internal/scan"
)

// DefaultContextWidth is the sidecar match context-window size.
const DefaultContextWidth = 80

// Entry is one browsable audio file, with its sidecar content loaded
// verbatim if present.
type Entry struct {
	AudioPath      string
	SidecarPath    *string
	SidecarContent *string

	// MatchContext is the context window around the query's first hit
	// in the sidecar body, set by Filter for display; empty for
	// unfiltered entries and for filename-only matches.
	MatchContext string
}

// Scan walks root (via internal/scan) and opportunistically reads each
// audio file's sidecar, collecting per-file errors without aborting
// the batch — grounded on simonhull-audiometa's OpenMany pattern.
func Scan(ctx context.Context, root string) ([]Entry, []error) {
	paths, scanErrs := scan.Walk(ctx, root, scan.DefaultExtensions, scan.DefaultSkipDirs)
	entries := make([]Entry, len(paths))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			entries[i] = loadEntry(p)
			return nil
		})
	}
	_ = g.Wait()

	return entries, scanErrs
}

func loadEntry(audioPath string) Entry {
	e := Entry{AudioPath: audioPath}
	sidecarPath := audioPath + ".md"
	content, err := os.ReadFile(sidecarPath)
	if err != nil {
		return e
	}
	s := string(content)
	e.SidecarPath = &sidecarPath
	e.SidecarContent = &s
	return e
}

type scoredEntry struct {
	entry Entry
	score int
}

// Filter scores entries against query per spec.md §4.7 and returns
// them sorted descending by score, stable for ties. An empty query
// returns all entries in their original order.
func Filter(entries []Entry, query string) []Entry {
	if query == "" {
		return append([]Entry(nil), entries...)
	}
	q := strings.ToLower(query)

	scored := make([]scoredEntry, 0, len(entries))
	for _, e := range entries {
		score := 0
		ctxWindow := ""
		name := strings.ToLower(filepath.Base(e.AudioPath))
		if strings.Contains(name, q) {
			score += 100
		}
		if e.SidecarContent != nil {
			body := strings.ToLower(*e.SidecarContent)
			if idx := strings.Index(body, q); idx != -1 {
				score += 50 - min(idx, 50)
				ctxWindow = contextWindow(*e.SidecarContent, idx, DefaultContextWidth)
			}
		}
		if score == 0 {
			continue
		}
		e.MatchContext = ctxWindow
		scored = append(scored, scoredEntry{entry: e, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	out := make([]Entry, len(scored))
	for i, s := range scored {
		out[i] = s.entry
	}
	return out
}

// contextWindow extracts up to width chars centered on idx within s.
func contextWindow(s string, idx, width int) string {
	half := width / 2
	start := idx - half
	if start < 0 {
		start = 0
	}
	end := start + width
	if end > len(s) {
		end = len(s)
		start = end - width
		if start < 0 {
			start = 0
		}
	}
	return s[start:end]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// List wraps an ordered Entry slice with a wrapping cursor.
type List struct {
	Entries  []Entry
	Selected int
}

func NewList(entries []Entry) *List {
	return &List{Entries: entries}
}

// Next moves the selection forward, wrapping past the last entry.
func (l *List) Next() {
	if len(l.Entries) == 0 {
		return
	}
	l.Selected = (l.Selected + 1) % len(l.Entries)
}

// Prev moves the selection backward, wrapping past the first entry.
func (l *List) Prev() {
	if len(l.Entries) == 0 {
		return
	}
	l.Selected = (l.Selected - 1 + len(l.Entries)) % len(l.Entries)
}

// SelectedPath returns the selected entry's audio path, or nil when
// the list is empty.
func (l *List) SelectedPath() *string {
	if len(l.Entries) == 0 || l.Selected < 0 || l.Selected >= len(l.Entries) {
		return nil
	}
	return &l.Entries[l.Selected].AudioPath
}
