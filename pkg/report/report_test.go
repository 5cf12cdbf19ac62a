package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/licensefinder/pkg/errors"
	"github.com/matzehuels/licensefinder/pkg/license"
)

func sampleBuilder() *Builder {
	b := NewBuilder()
	b.Add(Record{Dependency: "node_modules/a", License: "MIT", Homepage: "https://a.dev", TarballURL: "https://r/a.tgz"})
	b.Add(Record{Dependency: "node_modules/b", License: "ISC"})
	b.Add(Record{Dependency: "node_modules/c", License: "MIT", Homepage: "https://c.dev"})
	b.Add(Record{Dependency: "node_modules/d", License: "", TarballURL: "https://r/d.tgz"})
	return b
}

func TestRecordNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Record
		want Record
	}{
		{
			name: "complete",
			in:   Record{"k", "MIT", "h", "t"},
			want: Record{"k", "MIT", "h", "t"},
		},
		{
			name: "placeholders",
			in:   Record{Dependency: "k"},
			want: Record{"k", license.Unknown, NoHomepage, NoTarball},
		},
		{
			name: "noassertion kept",
			in:   Record{"k", "NOASSERTION", " ", "t"},
			want: Record{"k", "NOASSERTION", NoHomepage, "t"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(); got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuilderTallyAndUnresolved(t *testing.T) {
	b := sampleBuilder()

	if b.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", b.Len())
	}
	tally := b.Tally()
	if got := tally.Licenses(); !reflect.DeepEqual(got, []string{"MIT", "ISC", license.Unknown}) {
		t.Errorf("Licenses() = %v", got)
	}
	if tally.Count("MIT") != 2 || tally.Count("ISC") != 1 || tally.Count(license.Unknown) != 1 {
		t.Errorf("counts = MIT:%d ISC:%d UNKNOWN:%d", tally.Count("MIT"), tally.Count("ISC"), tally.Count(license.Unknown))
	}
	if tally.Total() != b.Len() {
		t.Errorf("Total() = %d, want %d", tally.Total(), b.Len())
	}

	unresolved := b.Unresolved()
	if len(unresolved) != tally.Count(license.Unknown) {
		t.Fatalf("unresolved = %d, UNKNOWN count = %d", len(unresolved), tally.Count(license.Unknown))
	}
	if unresolved[0].Dependency != "node_modules/d" || unresolved[0].Homepage != NoHomepage {
		t.Errorf("unresolved[0] = %+v", unresolved[0])
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	records := []Record{
		{"node_modules/a", "MIT", "https://a.dev", "https://r/a.tgz"},
		{"node_modules/b", "MIT,Apache-2.0", "https://b.dev, mirror", NoTarball},
	}
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	want := [][]string{Header, records[0].Row(), records[1].Row()}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %q, want %q", rows, want)
	}
}

func TestWriteCSVQuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []Record{{"k", "MIT,ISC", "h", "t"}}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Dependency,License,Homepage,Tarball URL" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != `k,"MIT,ISC",h,t` {
		t.Errorf("row = %q", lines[1])
	}
}

func TestBuilderWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "licenses.csv")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := sampleBuilder().WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[2][2] != NoHomepage || rows[2][3] != NoTarball {
		t.Errorf("placeholders not applied: %q", rows[2])
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestBuilderWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	err := sampleBuilder().WriteFile(path)
	if !errors.Is(err, errors.ErrCodeWriteFailed) {
		t.Fatalf("WriteFile() error = %v, want WRITE_FAILED", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("output file should not exist")
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleBuilder().WriteSummary(&buf); err != nil {
		t.Fatalf("WriteSummary() error: %v", err)
	}
	want := "License\tCounts:\n" +
		"MIT\t2\n" +
		"ISC\t1\n" +
		"UNKNOWN\t1\n" +
		"\n" +
		"Modules with UNKNOWN licenses:\n" +
		"node_modules/d\tHomepage: No homepage available\tTarball: https://r/d.tgz\n"
	if buf.String() != want {
		t.Errorf("WriteSummary() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewBuilder().WriteSummary(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "License\tCounts:\n" {
		t.Errorf("WriteSummary() = %q", buf.String())
	}
}
