// Package license normalizes the license declarations found in npm
// metadata into a single identifier string.
//
// npm has accepted three shapes over the years:
//
//	"license": "MIT"
//	"license": {"type": "MIT", "url": "..."}
//	"licenses": [{"type": "MIT"}, {"type": "Apache-2.0"}]
//
// [Declared] folds all of them into one string, joining arrays with ",".
package license

import "strings"

// Unknown is the sentinel recorded when no stage could determine a license.
const Unknown = "UNKNOWN"

// IsKnown reports whether s is a usable license identifier. Only a blank
// value and [Unknown] are rejected; anything else is kept verbatim.
func IsKnown(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != Unknown
}

// Declared returns the license named by a decoded "license" value, falling
// back to a decoded "licenses" array. Values come straight from
// encoding/json decoding into any. It returns "" when neither carries a
// usable string.
func Declared(single, multiple any) string {
	if s := field(single); s != "" {
		return s
	}
	items, ok := multiple.([]any)
	if !ok {
		// Some manifests put a single object under "licenses".
		return field(multiple)
	}
	var types []string
	for _, item := range items {
		if s := field(item); s != "" {
			types = append(types, s)
		}
	}
	return strings.Join(types, ",")
}

// field extracts a license string from either a bare string or an object
// with a "type" key.
func field(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		if s, ok := val["type"].(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// OrUnknown returns s, or [Unknown] when s is not a usable identifier.
func OrUnknown(s string) string {
	if IsKnown(s) {
		return strings.TrimSpace(s)
	}
	return Unknown
}
