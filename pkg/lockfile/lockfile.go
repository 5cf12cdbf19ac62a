// Package lockfile reads the "packages" map of an npm package-lock.json
// (lockfile versions 2 and 3, and npm-shrinkwrap.json) in file order.
package lockfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/matzehuels/licensefinder/pkg/errors"
	"github.com/matzehuels/licensefinder/pkg/license"
)

// RootKey is the "packages" key of the project itself.
const RootKey = ""

const nodeModules = "node_modules/"

// Dependency is one package node from the lockfile.
type Dependency struct {
	Key      string // lockfile path, e.g. "node_modules/@a/util"
	Name     string // declared "name", usually only set for aliases and the root
	License  string // declared license; empty when absent
	Homepage string
	Resolved string // tarball URL
}

// PackageName returns the registry name for the dependency: the declared
// name if any, otherwise the path after the last "node_modules/" segment,
// otherwise the last path element (workspace links).
func (d Dependency) PackageName() string {
	if d.Name != "" {
		return d.Name
	}
	if i := strings.LastIndex(d.Key, nodeModules); i >= 0 {
		return d.Key[i+len(nodeModules):]
	}
	return path.Base(d.Key)
}

// Lockfile is the decoded package-lock.json.
type Lockfile struct {
	Name            string
	LockfileVersion int

	// Root is the entry at [RootKey], or nil when absent.
	Root *Dependency

	// Dependencies holds every other object entry in file order.
	Dependencies []Dependency

	// Entries counts all keys of the "packages" map, including the root
	// and non-object values.
	Entries int
}

// Load reads and parses the lockfile at path.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read lockfile %s", path)
	}
	lf, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if lf.Entries == 0 {
		return nil, errors.New(errors.ErrCodeNoDependencies, "no dependencies found in %s", path)
	}
	return lf, nil
}

// Parse decodes lockfile JSON. An empty or missing "packages" map is not
// an error here; [Load] rejects it.
func Parse(data []byte) (*Lockfile, error) {
	var doc struct {
		Name            string   `json:"name"`
		LockfileVersion int      `json:"lockfileVersion"`
		Packages        packages `json:"packages"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse lockfile")
	}

	lf := &Lockfile{
		Name:            doc.Name,
		LockfileVersion: doc.LockfileVersion,
		Entries:         len(doc.Packages.items),
	}
	for _, item := range doc.Packages.items {
		if !item.ok {
			continue
		}
		d := item.dep
		if d.Key == RootKey {
			root := d
			lf.Root = &root
			continue
		}
		lf.Dependencies = append(lf.Dependencies, d)
	}
	return lf, nil
}

// packages decodes a JSON object while keeping key order, which
// encoding/json maps discard.
type packages struct {
	items []packageItem
}

type packageItem struct {
	dep Dependency
	ok  bool // false for non-object values
}

func (p *packages) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("packages: expected object, got %v", tok)
	}

	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("packages[%q]: %w", key, err)
		}

		dep, ok := decodeEntry(key, raw)
		item := packageItem{dep: dep, ok: ok}
		// A repeated key replaces the earlier value but keeps its position.
		if i, seen := index[key]; seen {
			p.items[i] = item
			continue
		}
		index[key] = len(p.items)
		p.items = append(p.items, item)
	}
	_, err = dec.Token()
	return err
}

// decodeEntry converts one packages value. Non-object values are ignored.
// Fields of unexpected types are treated as absent rather than failing
// the whole lockfile.
func decodeEntry(key string, raw json.RawMessage) (Dependency, bool) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Dependency{}, false
	}
	str := func(name string) string {
		s, _ := fields[name].(string)
		return strings.TrimSpace(s)
	}
	return Dependency{
		Key:      key,
		Name:     str("name"),
		License:  license.Declared(fields["license"], fields["licenses"]),
		Homepage: str("homepage"),
		Resolved: str("resolved"),
	}, true
}
