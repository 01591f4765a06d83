package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CommitOptions control how a plan is presented and applied.
type CommitOptions struct {
	DryRun    bool
	AssumeYes bool
	Quiet     bool

	// In and Out default to stdin and stdout; tests override them. The
	// confirmation prompt always goes to Out, quiet or not.
	In  io.Reader
	Out io.Writer
}

// Commit reports the plan, asks for confirmation unless told otherwise and
// applies the renames in order. Returns the number of files renamed. A
// rename failure stops the loop; earlier renames stay applied, there is no
// rollback.
func Commit(plan Plan, opts CommitOptions) (int, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if len(plan) == 0 {
		if !opts.Quiet {
			fmt.Fprintln(opts.Out, "Nothing to rename!")
		}
		return 0, nil
	}

	if !opts.Quiet {
		for _, e := range plan {
			fmt.Fprintf(opts.Out, "%s => %s\n",
				shellQuote(filepath.Base(e.Source)), shellQuote(filepath.Base(e.Dest)))
		}
	}

	if opts.DryRun {
		return 0, nil
	}

	if !opts.AssumeYes {
		ok, err := Confirm(opts.In, opts.Out)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, nil
		}
	}

	renamed := 0
	for _, e := range plan {
		if err := os.Rename(e.Source, e.Dest); err != nil {
			return renamed, fmt.Errorf("failed to rename %s: %w", e.Source, err)
		}
		renamed++
	}

	if renamed > 0 {
		logger.Info(fmt.Sprintf("%d renamed files", renamed))
	}
	return renamed, nil
}

// shellQuote quotes s for copy-paste into a shell, leaving plain names
// untouched.
func shellQuote(s string) string {
	if s != "" && !strings.ContainsFunc(s, unsafeShellRune) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func unsafeShellRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("_@%+=:,./-", r):
		return false
	}
	return true
}
