package targets

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Kind records whether a specifier names a directory, a file, or either.
type Kind int

const (
	// KindAuto leaves the decision to the filesystem.
	KindAuto Kind = iota
	// KindDir covers every file recursively under the directory.
	KindDir
	// KindFile names exactly one file.
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindFile:
		return "file"
	default:
		return "auto"
	}
}

// Specifier is a typed path relative to the package root.
type Specifier struct {
	Path string
	Kind Kind
}

// ParseSpecifier converts a configuration literal into a Specifier. A trailing
// slash marks a directory. Absolute paths and paths that climb out of the
// package root are rejected.
func ParseSpecifier(raw string) (Specifier, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Specifier{}, errors.New("path specifier is empty")
	}
	if filepath.IsAbs(trimmed) || path.IsAbs(filepath.ToSlash(trimmed)) {
		return Specifier{}, fmt.Errorf("path specifier %q must be relative to the package root", trimmed)
	}

	slashed := filepath.ToSlash(trimmed)
	kind := KindAuto
	if strings.HasSuffix(slashed, "/") {
		kind = KindDir
	}

	cleaned := path.Clean(slashed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return Specifier{}, fmt.Errorf("path specifier %q escapes the package root", trimmed)
	}
	if cleaned == "." {
		kind = KindDir
	}
	return Specifier{Path: cleaned, Kind: kind}, nil
}

// MustParse parses each literal and panics on the first invalid one. It is
// meant for built-in defaults and tests.
func MustParse(raw ...string) []Specifier {
	specs := make([]Specifier, 0, len(raw))
	for _, value := range raw {
		spec, err := ParseSpecifier(value)
		if err != nil {
			panic(err)
		}
		specs = append(specs, spec)
	}
	return specs
}

// File builds a specifier that must resolve to a regular file.
func File(p string) Specifier {
	return Specifier{Path: path.Clean(filepath.ToSlash(p)), Kind: KindFile}
}

// Dir builds a directory specifier.
func Dir(p string) Specifier {
	return Specifier{Path: path.Clean(filepath.ToSlash(p)), Kind: KindDir}
}

// String renders the specifier the way it is written in configuration files.
func (s Specifier) String() string {
	if s.Kind == KindDir && !strings.HasSuffix(s.Path, "/") {
		return s.Path + "/"
	}
	return s.Path
}

// MarshalText implements encoding.TextMarshaler.
func (s Specifier) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so TOML and YAML
// documents can list specifiers as plain strings.
func (s *Specifier) UnmarshalText(text []byte) error {
	parsed, err := ParseSpecifier(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// covers reports whether s is a directory specifier containing other.
func (s Specifier) covers(other Specifier) bool {
	if s.Kind != KindDir || s.Path == other.Path {
		return false
	}
	if s.Path == "." {
		return true
	}
	return strings.HasPrefix(other.Path, s.Path+"/")
}
