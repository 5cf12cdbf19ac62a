// Package report accumulates resolved license records and renders them as
// a CSV file and a console summary.
package report

import (
	"strings"

	"github.com/matzehuels/licensefinder/pkg/license"
)

// Placeholders recorded when a dependency has no homepage or tarball link.
const (
	NoHomepage = "No homepage available"
	NoTarball  = "No tarball link available"
)

// Header is the CSV header row.
var Header = []string{"Dependency", "License", "Homepage", "Tarball URL"}

// Record is one output row.
type Record struct {
	Dependency string
	License    string
	Homepage   string
	TarballURL string
}

// Row returns the record as CSV fields.
func (r Record) Row() []string {
	return []string{r.Dependency, r.License, r.Homepage, r.TarballURL}
}

// Unresolved reports whether no license was determined for r.
func (r Record) Unresolved() bool {
	return r.License == license.Unknown
}

// Normalize fills empty fields with their placeholders.
func (r Record) Normalize() Record {
	r.License = license.OrUnknown(r.License)
	if strings.TrimSpace(r.Homepage) == "" {
		r.Homepage = NoHomepage
	}
	if strings.TrimSpace(r.TarballURL) == "" {
		r.TarballURL = NoTarball
	}
	return r
}

// Tally counts records per license in first-seen order.
type Tally struct {
	order  []string
	counts map[string]int
}

// NewTally returns an empty Tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add counts one occurrence of lic.
func (t *Tally) Add(lic string) {
	if _, ok := t.counts[lic]; !ok {
		t.order = append(t.order, lic)
	}
	t.counts[lic]++
}

// Count returns the occurrences of lic.
func (t *Tally) Count(lic string) int { return t.counts[lic] }

// Licenses returns the distinct licenses in first-seen order.
func (t *Tally) Licenses() []string {
	return append([]string(nil), t.order...)
}

// Total returns the sum of all counts.
func (t *Tally) Total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Builder collects records in lockfile order.
type Builder struct {
	records    []Record
	tally      *Tally
	unresolved []Record
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{tally: NewTally()}
}

// Add normalizes r and appends it. Every record is tallied; records
// without a license also join the unresolved list.
func (b *Builder) Add(r Record) Record {
	r = r.Normalize()
	b.records = append(b.records, r)
	b.tally.Add(r.License)
	if r.Unresolved() {
		b.unresolved = append(b.unresolved, r)
	}
	return r
}

// Records returns the collected records in insertion order.
func (b *Builder) Records() []Record { return b.records }

// Tally returns the license counts.
func (b *Builder) Tally() *Tally { return b.tally }

// Unresolved returns the records whose license is [license.Unknown].
func (b *Builder) Unresolved() []Record { return b.unresolved }

// Len returns the number of records.
func (b *Builder) Len() int { return len(b.records) }
