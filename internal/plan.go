package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// PlanEntry is one source → destination rename queued for commit.
type PlanEntry struct {
	Source string
	Dest   string
}

// Plan is the ordered rename sequence for one run.
type Plan []PlanEntry

// PlanStats counts per-candidate outcomes of the planning phase.
type PlanStats struct {
	Candidates int
	Skipped    int
	Failed     int
}

// PlanOptions control the planning phase.
type PlanOptions struct {
	Jobs  int  // worker count for directory targets, 0 = one per CPU
	Quiet bool // no progress bar
}

// planResult is the outcome of computing one candidate's destination.
type planResult struct {
	dest string
	skip *SkipError
	err  error
}

// PlanRenames enumerates the candidates under target and computes their
// destinations, concurrently when target is a directory. The returned plan
// preserves enumeration order no matter in which order workers finish.
// Candidates whose metadata cannot be read are logged and counted in
// stats.Failed; they never abort the others.
func PlanRenames(ctx context.Context, reader MetadataReader, conf Config, target string, loc *time.Location, opts PlanOptions) (Plan, PlanStats, error) {
	candidates, single, err := ListCandidates(target)
	if err != nil {
		return nil, PlanStats{}, err
	}

	results := make([]planResult, len(candidates))

	if single {
		results[0] = computeDest(ctx, reader, conf, candidates[0], loc)
	} else if len(candidates) > 0 {
		var bar *progressbar.ProgressBar
		if !opts.Quiet {
			bar = progressbar.Default(int64(len(candidates)), "Processing pictures")
		}

		jobs := opts.Jobs
		if jobs <= 0 {
			jobs = runtime.NumCPU()
		}

		work := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < jobs; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range work {
					results[i] = computeDest(ctx, reader, conf, candidates[i], loc)
					if bar != nil {
						_ = bar.Add(1)
					}
				}
			}()
		}
		for i := range candidates {
			work <- i
		}
		close(work)
		wg.Wait()

		if bar != nil {
			_ = bar.Finish()
		}
	}

	stats := PlanStats{Candidates: len(candidates)}
	plan := make(Plan, 0, len(candidates))
	for i, res := range results {
		src := candidates[i].Path
		switch {
		case res.err != nil:
			logger.Error("cannot read capture time", "file", filepath.Base(src), "err", res.err)
			stats.Failed++
		case res.skip != nil:
			logger.Info("skipping", "file", filepath.Base(src), "reason", res.skip.Reason)
			stats.Skipped++
		case res.dest == src:
			logger.Info("skipping", "file", filepath.Base(src), "reason", SkipWellNamed)
			stats.Skipped++
		default:
			plan = append(plan, PlanEntry{Source: src, Dest: res.dest})
		}
	}

	if stats.Failed > 0 {
		logger.Error(fmt.Sprintf("%d files could not be processed", stats.Failed))
	}
	return plan, stats, nil
}

// computeDest derives one candidate's destination: map the extension, read
// the capture time, format the stem with the configured layout.
func computeDest(ctx context.Context, reader MetadataReader, conf Config, cand Candidate, loc *time.Location) planResult {
	if cand.IsDir {
		return planResult{skip: &SkipError{Path: cand.Path, Reason: SkipDirectory}}
	}

	mapped, ok := conf.MapExtension(filepath.Ext(cand.Path))
	if !ok {
		return planResult{skip: &SkipError{Path: cand.Path, Reason: SkipUnknownExtension}}
	}

	ts, err := reader.CaptureTime(ctx, cand.Path, loc)
	if err != nil {
		return planResult{err: err}
	}

	stem := ts.Format(conf.FilenameFormat)
	return planResult{dest: filepath.Join(filepath.Dir(cand.Path), stem+mapped)}
}

// CheckConflicts rejects plans in which two entries want the same
// destination, or a destination matches another entry's current name. Rename
// order could silently eat a file in either case.
func CheckConflicts(plan Plan) error {
	sources := make(map[string]struct{}, len(plan))
	for _, e := range plan {
		sources[e.Source] = struct{}{}
	}

	claimed := make(map[string]string, len(plan))
	conflicts := 0
	for _, e := range plan {
		if prev, ok := claimed[e.Dest]; ok {
			logger.Error("conflicting destination",
				"dest", filepath.Base(e.Dest),
				"files", prev+", "+filepath.Base(e.Source))
			conflicts++
		} else {
			claimed[e.Dest] = filepath.Base(e.Source)
		}
		if _, ok := sources[e.Dest]; ok {
			logger.Error("destination is another file pending rename",
				"file", filepath.Base(e.Source),
				"dest", filepath.Base(e.Dest))
			conflicts++
		}
	}

	if conflicts > 0 {
		return fmt.Errorf("%d conflicting destinations, nothing renamed", conflicts)
	}
	return nil
}
