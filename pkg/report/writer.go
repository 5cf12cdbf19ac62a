package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/licensefinder/pkg/errors"
)

// WriteCSV writes the header row followed by one row per record.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the collected records to path. The file is written to a
// temporary sibling and renamed into place, so path either holds the full
// report or is left untouched.
func (b *Builder) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "cannot create output file %s", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := WriteCSV(tmp, b.records); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "cannot write output file %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "cannot write output file %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "cannot write output file %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, err, "cannot write output file %s", path)
	}
	return nil
}

// WriteSummary prints the license tally followed by the unresolved list,
// which is omitted when every record has a license:
//
//	License	Counts:
//	MIT	3
//
//	Modules with UNKNOWN licenses:
//	node_modules/x	Homepage: ...	Tarball: ...
func (b *Builder) WriteSummary(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "License\tCounts:"); err != nil {
		return err
	}
	for _, lic := range b.tally.Licenses() {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", lic, b.tally.Count(lic)); err != nil {
			return err
		}
	}
	if len(b.unresolved) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nModules with UNKNOWN licenses:"); err != nil {
		return err
	}
	for _, r := range b.unresolved {
		if _, err := fmt.Fprintf(w, "%s\tHomepage: %s\tTarball: %s\n", r.Dependency, r.Homepage, r.TarballURL); err != nil {
			return err
		}
	}
	return nil
}
