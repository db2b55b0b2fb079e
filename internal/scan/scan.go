// Package scan implements the recursive directory collector shared by
// the browser and (per spec.md §1) external sidecar tooling.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultSkipDirs matches spec.md §4.7.
var DefaultSkipDirs = map[string]bool{
	".git": true, "node_modules": true, "temp": true, "target": true, ".zim": true,
}

// DefaultExtensions are the supported audio containers from spec.md §6.
var DefaultExtensions = map[string]bool{
	".wav": true, ".wave": true, ".flac": true, ".aiff": true, ".aif": true,
}

// Walk recursively collects files under root whose extension is in
// exts, skipping hidden entries and directories named in skipDirs.
// Work is partitioned across root's immediate subdirectories and
// merged via an errgroup capped at runtime.NumCPU(), per spec.md §5's
// "work-stealing across subdirectories" — errors in one branch are
// collected and returned without aborting the others. Result order is
// unspecified; callers sort before display.
func Walk(ctx context.Context, root string, exts, skipDirs map[string]bool) ([]string, []error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, []error{err}
	}

	var subtrees []string
	var rootFiles []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(root, name)
		if e.IsDir() {
			if skipDirs[name] {
				continue
			}
			subtrees = append(subtrees, full)
			continue
		}
		if exts[strings.ToLower(filepath.Ext(name))] {
			rootFiles = append(rootFiles, full)
		}
	}

	results := make([][]string, len(subtrees))
	errs := make([]error, len(subtrees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, sub := range subtrees {
		i, sub := i, sub
		g.Go(func() error {
			files, suberrs := walkSubtree(gctx, sub, exts, skipDirs)
			results[i] = files
			if len(suberrs) > 0 {
				errs[i] = suberrs[0]
			}
			return nil // branch errors never abort sibling branches
		})
	}
	_ = g.Wait()

	out := append([]string(nil), rootFiles...)
	var outErrs []error
	for i := range results {
		out = append(out, results[i]...)
		if errs[i] != nil {
			outErrs = append(outErrs, errs[i])
		}
	}
	return out, outErrs
}

// walkSubtree performs a plain recursive walk within a single
// subtree — this is the unit of work each errgroup goroutine owns.
func walkSubtree(ctx context.Context, root string, exts, skipDirs map[string]bool) ([]string, []error) {
	var out []string
	var errs []error
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if exts[strings.ToLower(filepath.Ext(name))] {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	return out, errs
}
