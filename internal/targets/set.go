package targets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry pairs a specifier with its root-prefixed path.
type Entry struct {
	Specifier Specifier
	Path      string
}

// Set is the ordered TargetSet. It is immutable once built: accessors hand
// out copies so one checker cannot disturb what the next one receives.
type Set struct {
	root    string
	entries []Entry
}

// Build rewrites every specifier so it is rooted at the package root. It never
// consults the filesystem and keeps duplicates and order exactly as given.
func Build(root string, specs []Specifier) Set {
	entries := make([]Entry, 0, len(specs))
	for _, spec := range specs {
		entries = append(entries, Entry{Specifier: spec, Path: prefix(root, spec)})
	}
	return Set{root: root, entries: entries}
}

func prefix(root string, spec Specifier) string {
	base := filepath.ToSlash(strings.TrimSpace(root))
	for len(base) > 1 && strings.HasSuffix(base, "/") {
		base = strings.TrimSuffix(base, "/")
	}

	var joined string
	switch {
	case spec.Path == "." && base != "":
		joined = base
	case base == "":
		joined = spec.Path
	case base == "/":
		joined = "/" + spec.Path
	default:
		joined = base + "/" + spec.Path
	}
	if spec.Kind == KindDir && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return filepath.FromSlash(joined)
}

// Root returns the package root the set was built against.
func (s Set) Root() string { return s.root }

// Len returns the number of entries, duplicates included.
func (s Set) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in order.
func (s Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Paths returns a copy of the root-prefixed paths in order.
func (s Set) Paths() []string {
	out := make([]string, len(s.entries))
	for i, entry := range s.entries {
		out[i] = entry.Path
	}
	return out
}

// Resolve turns every entry into an absolute path. Relative entries are
// resolved against base; an empty base means the current working directory.
// Directory entries keep their trailing separator.
func (s Set) Resolve(base string) ([]string, error) {
	if strings.TrimSpace(base) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		base = wd
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve base %q: %w", base, err)
	}

	out := make([]string, len(s.entries))
	for i, entry := range s.entries {
		resolved := entry.Path
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(absBase, resolved)
		} else {
			resolved = filepath.Clean(resolved)
		}
		if entry.Specifier.Kind == KindDir && !strings.HasSuffix(resolved, string(filepath.Separator)) {
			resolved += string(filepath.Separator)
		}
		out[i] = resolved
	}
	return out, nil
}

// Duplicates lists every path that appears more than once, in first-seen
// order. Paths are compared cleaned, so "tools" and "tools/" are the same
// directory; the first spelling is reported.
func (s Set) Duplicates() []string {
	seen := make(map[string]int, len(s.entries))
	var dupes []string
	for _, entry := range s.entries {
		key := filepath.Clean(entry.Path)
		seen[key]++
		if seen[key] == 2 {
			dupes = append(dupes, s.firstSpelling(key))
		}
	}
	return dupes
}

func (s Set) firstSpelling(key string) string {
	for _, entry := range s.entries {
		if filepath.Clean(entry.Path) == key {
			return entry.Path
		}
	}
	return key
}

// Redundant lists file entries already covered by a directory entry in the
// same set. Checkers see those files twice.
func (s Set) Redundant() []string {
	var out []string
	for _, entry := range s.entries {
		for _, other := range s.entries {
			if other.Specifier.covers(entry.Specifier) {
				out = append(out, entry.Path)
				break
			}
		}
	}
	return out
}
