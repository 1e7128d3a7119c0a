package targets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"checkgate/internal/failure"
)

// ErrInvalidTarget marks specifiers that do not resolve to a usable path.
var ErrInvalidTarget = failure.ErrValidation

// TargetError describes one specifier that failed validation.
type TargetError struct {
	Specifier Specifier
	Path      string
	Reason    string
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("target %s (%s): %s", e.Specifier, e.Path, e.Reason)
}

func (e *TargetError) Unwrap() error { return ErrInvalidTarget }

// Validate checks every specifier against the package tree under root
// (resolved against base when relative). Every failure is reported, joined
// into one error.
func Validate(base, root string, specs []Specifier) error {
	rootPath := root
	if !filepath.IsAbs(rootPath) && strings.TrimSpace(base) != "" {
		rootPath = filepath.Join(base, rootPath)
	}
	rootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("resolve package root %q: %w", root, err)
	}

	info, err := os.Stat(rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: package root %s does not exist", ErrInvalidTarget, rootPath)
		}
		return fmt.Errorf("%w: package root %s: %v", ErrInvalidTarget, rootPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: package root %s is not a directory", ErrInvalidTarget, rootPath)
	}
	realRoot, err := filepath.EvalSymlinks(rootPath)
	if err != nil {
		return fmt.Errorf("%w: package root %s: %v", ErrInvalidTarget, rootPath, err)
	}

	var errs []error
	for _, spec := range specs {
		if err := validateOne(realRoot, rootPath, spec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validateOne(realRoot, rootPath string, spec Specifier) error {
	full := filepath.Join(rootPath, filepath.FromSlash(spec.Path))
	fail := func(reason string) error {
		return &TargetError{Specifier: spec, Path: full, Reason: reason}
	}

	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fail("does not exist")
		}
		return fail(fmt.Sprintf("stat: %v", err))
	}

	real, err := filepath.EvalSymlinks(full)
	if err != nil {
		return fail(fmt.Sprintf("resolve symlinks: %v", err))
	}
	rel, err := filepath.Rel(realRoot, real)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fail("resolves outside the package root")
	}

	switch spec.Kind {
	case KindDir:
		if !info.IsDir() {
			return fail("is not a directory")
		}
	case KindFile:
		if !info.Mode().IsRegular() {
			return fail("is not a regular file")
		}
	}

	mode := uint32(unix.R_OK)
	if info.IsDir() {
		mode |= unix.X_OK
	}
	if err := unix.Access(full, mode); err != nil {
		return fail(fmt.Sprintf("not readable: %v", err))
	}
	return nil
}
