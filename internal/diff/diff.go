// Package diff computes an order-insensitive structural difference between
// a desired configuration tree and the live controller state. The result is
// informational only: the apply path always writes full records and never
// consults the diff to pick fields.
package diff

import (
	"fmt"
	"sort"
	"strings"
)

// Change records a scalar value that differs between the two trees
type Change struct {
	Path string
	Old  interface{} // live value
	New  interface{} // desired value
}

// Result holds the outcome of one tree comparison
type Result struct {
	Added   []string // present in desired, absent in live
	Removed []string // present in live, absent in desired
	Changed []Change
}

// Empty reports whether the two trees were structurally identical
func (r *Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Summary renders a short human-readable report
func (r *Result) Summary() string {
	if r.Empty() {
		return "no differences"
	}
	var lines []string
	for _, path := range r.Added {
		lines = append(lines, fmt.Sprintf("+ %s", path))
	}
	for _, path := range r.Removed {
		lines = append(lines, fmt.Sprintf("- %s", path))
	}
	for _, change := range r.Changed {
		lines = append(lines, fmt.Sprintf("~ %s: %v -> %v", change.Path, change.Old, change.New))
	}
	return strings.Join(lines, "\n")
}

// Diff compares the desired tree against the live tree. Neither input is
// mutated. Map keys are walked in sorted order so reports are stable.
func Diff(desired, live map[string]interface{}) *Result {
	result := &Result{}
	diffMaps("", desired, live, result)
	return result
}

func diffMaps(prefix string, desired, live map[string]interface{}, result *Result) {
	for _, key := range sortedKeys(desired) {
		path := joinPath(prefix, key)
		liveValue, exists := live[key]
		if !exists {
			result.Added = append(result.Added, path)
			continue
		}
		diffValues(path, desired[key], liveValue, result)
	}

	for _, key := range sortedKeys(live) {
		if _, exists := desired[key]; !exists {
			result.Removed = append(result.Removed, joinPath(prefix, key))
		}
	}
}

func diffValues(path string, desired, live interface{}, result *Result) {
	desiredMap, dOK := asMap(desired)
	liveMap, lOK := asMap(live)
	if dOK && lOK {
		diffMaps(path, desiredMap, liveMap, result)
		return
	}

	desiredList, dOK := desired.([]interface{})
	liveList, lOK := live.([]interface{})
	if dOK && lOK {
		if !equalUnordered(desiredList, liveList) {
			result.Changed = append(result.Changed, Change{Path: path, Old: live, New: desired})
		}
		return
	}

	if !scalarEqual(desired, live) {
		result.Changed = append(result.Changed, Change{Path: path, Old: live, New: desired})
	}
}

// asMap normalizes the two map shapes produced by YAML and JSON decoding
func asMap(value interface{}) (map[string]interface{}, bool) {
	switch m := value.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}

// equalUnordered compares two lists as multisets
func equalUnordered(a, b []interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	aRepr := make([]string, len(a))
	bRepr := make([]string, len(b))
	for i := range a {
		aRepr[i] = fmt.Sprint(a[i])
		bRepr[i] = fmt.Sprint(b[i])
	}
	sort.Strings(aRepr)
	sort.Strings(bRepr)
	for i := range aRepr {
		if aRepr[i] != bRepr[i] {
			return false
		}
	}
	return true
}

// scalarEqual compares leaf values by their printed form, so 10 (YAML int)
// equals 10.0 only when both render identically; numeric cross-decoder
// drift is handled by normalizing integral floats.
func scalarEqual(a, b interface{}) bool {
	return normalize(a) == normalize(b)
}

func normalize(value interface{}) string {
	if f, ok := value.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprint(int64(f))
	}
	return fmt.Sprint(value)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
