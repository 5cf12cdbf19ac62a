package resolve

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/licensefinder/pkg/license"
	"github.com/matzehuels/licensefinder/pkg/lockfile"
	"github.com/matzehuels/licensefinder/pkg/observability"
	"github.com/matzehuels/licensefinder/pkg/report"
)

// sourceLockfile names the declared-license path in stats and hooks.
const sourceLockfile = "lockfile"

// Stats summarizes a [Resolver.Run].
type Stats struct {
	Dependencies int            // non-root entries examined
	Recorded     int            // rows added, root included
	Skipped      int            // dropped on registry not found
	Unresolved   int            // rows recorded as UNKNOWN
	BySource     map[string]int // recorded licenses per stage name or "lockfile"
}

// Resolver runs the stage chain over lockfile dependencies.
type Resolver struct {
	stages []Stage
	logger *log.Logger
}

// New creates a Resolver that consults stages in order.
func New(logger *log.Logger, stages ...Stage) *Resolver {
	return &Resolver{stages: stages, logger: orDiscard(logger)}
}

// Resolve determines the license of dep. It returns false when the entry
// must be left out of the report. The error is non-nil only when ctx is
// done.
func (r *Resolver) Resolve(ctx context.Context, dep lockfile.Dependency) (report.Record, bool, error) {
	rec, source, ok, err := r.resolve(ctx, dep)
	if ok {
		observability.Resolve().OnRecord(ctx, dep.Key, rec.License, source)
	}
	return rec, ok, err
}

func (r *Resolver) resolve(ctx context.Context, dep lockfile.Dependency) (report.Record, string, bool, error) {
	s := &State{
		Dep:      dep,
		Name:     dep.PackageName(),
		Homepage: dep.Homepage,
		Tarball:  dep.Resolved,
	}
	record := func(lic string) report.Record {
		return report.Record{Dependency: dep.Key, License: lic, Homepage: s.Homepage, TarballURL: s.Tarball}
	}

	if license.IsKnown(dep.License) {
		return record(dep.License), sourceLockfile, true, nil
	}

	for _, stage := range r.stages {
		if err := ctx.Err(); err != nil {
			return report.Record{}, "", false, err
		}

		start := time.Now()
		out := stage.Resolve(ctx, s)
		observability.Resolve().OnStageComplete(ctx, stage.Name(), dep.Key, out.Kind.String(), time.Since(start), out.Err)

		switch out.Kind {
		case Resolved:
			return record(out.License), stage.Name(), true, nil
		case Skip:
			return report.Record{}, "", false, nil
		case Failed:
			if err := ctx.Err(); err != nil {
				return report.Record{}, "", false, err
			}
			r.logger.Error("Lookup failed", "stage", stage.Name(), "pkg", s.Name, "err", out.Err)
		}
	}
	return record(license.Unknown), "", true, nil
}

// Run resolves every dependency of lf in file order and adds the results
// to b. The root entry bypasses the chain: it is recorded under its name
// only when it declares both a name and a license.
func (r *Resolver) Run(ctx context.Context, lf *lockfile.Lockfile, b *report.Builder) (Stats, error) {
	stats := Stats{BySource: make(map[string]int)}

	if root := lf.Root; root != nil && root.Name != "" && root.License != "" {
		rec := b.Add(report.Record{Dependency: root.Name, License: root.License})
		observability.Resolve().OnRecord(ctx, root.Name, rec.License, sourceLockfile)
		stats.count(rec, sourceLockfile)
	}

	total := len(lf.Dependencies)
	for i, dep := range lf.Dependencies {
		r.logger.Debug("Resolving dependency", "pkg", dep.Key, "progress", progress(i+1, total))
		stats.Dependencies++

		rec, source, ok, err := r.resolve(ctx, dep)
		if err != nil {
			return stats, err
		}
		if !ok {
			stats.Skipped++
			continue
		}
		rec = b.Add(rec)
		observability.Resolve().OnRecord(ctx, dep.Key, rec.License, source)
		stats.count(rec, source)
	}
	return stats, nil
}

func (s *Stats) count(rec report.Record, source string) {
	s.Recorded++
	if rec.Unresolved() {
		s.Unresolved++
		return
	}
	s.BySource[source]++
}

func progress(n, total int) string {
	return fmt.Sprintf("%d/%d", n, total)
}
