package resolve

import (
	"context"

	"github.com/matzehuels/licensefinder/pkg/lockfile"
)

// Kind classifies a stage verdict.
type Kind int

const (
	// NotApplicable means the stage had nothing to say: its precondition
	// did not hold or its source knew no license.
	NotApplicable Kind = iota
	// Resolved means the stage determined the license.
	Resolved
	// Failed means the lookup errored. The chain continues.
	Failed
	// Skip drops the dependency from the report.
	Skip
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	case Skip:
		return "skip"
	default:
		return "not-applicable"
	}
}

// Outcome is the result of one stage.
type Outcome struct {
	Kind    Kind
	License string
	Err     error
}

func resolved(lic string) Outcome { return Outcome{Kind: Resolved, License: lic} }
func failed(err error) Outcome    { return Outcome{Kind: Failed, Err: err} }
func skip(err error) Outcome      { return Outcome{Kind: Skip, Err: err} }

var notApplicable = Outcome{Kind: NotApplicable}

// State is the mutable lookup state of one dependency. Stages may update
// Homepage and Tarball for the stages after them.
type State struct {
	Dep      lockfile.Dependency
	Name     string // registry package name
	Homepage string
	Tarball  string
}

// Stage is one link of the resolution chain.
type Stage interface {
	Name() string
	Resolve(ctx context.Context, s *State) Outcome
}
