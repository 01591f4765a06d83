package internal

import (
	"errors"
	"fmt"
)

// ErrPartial marks a run that finished but could not read every file's
// metadata. Per-file details are logged as they happen; callers use this
// to pick the exit status.
var ErrPartial = errors.New("some files could not be processed")

// SkipReason classifies why a candidate was left out of the rename plan.
type SkipReason int

const (
	SkipDirectory        SkipReason = iota // sub-directory listed in directory mode
	SkipUnknownExtension                   // extension not in the configured mapping
	SkipWellNamed                          // already carries its computed name
)

func (r SkipReason) String() string {
	switch r {
	case SkipDirectory:
		return "is a directory"
	case SkipUnknownExtension:
		return "unknown extension"
	case SkipWellNamed:
		return "already named correctly"
	default:
		return "skipped"
	}
}

// SkipError reports a candidate dropped from the plan for a benign reason.
// Skips never fail the run.
type SkipError struct {
	Path   string
	Reason SkipReason
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// MalformedOutputError reports metadata tool output that does not match the
// expected single-line tag format. Output carries the raw text for
// diagnostics.
type MalformedOutputError struct {
	Output string
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed metadata tool output: %q", e.Output)
}
