package internal

import (
	"fmt"
	"os"
	"path/filepath"
)

// Candidate is one path considered for renaming during a single run.
type Candidate struct {
	Path  string
	IsDir bool
}

// ListCandidates enumerates the rename candidates for target. A file target
// yields itself (single reports that); a directory target yields its
// immediate entries in lexical order, sub-directories included so they can
// be reported as skips later.
func ListCandidates(target string) (candidates []Candidate, single bool, err error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, false, fmt.Errorf("failed to stat target: %w", err)
	}

	if !info.IsDir() {
		return []Candidate{{Path: filepath.Clean(target)}}, true, nil
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list %s: %w", target, err)
	}

	candidates = make([]Candidate, 0, len(entries))
	for _, e := range entries {
		candidates = append(candidates, Candidate{
			Path:  filepath.Join(target, e.Name()),
			IsDir: e.IsDir(),
		})
	}
	return candidates, false, nil
}
