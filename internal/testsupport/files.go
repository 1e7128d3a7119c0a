package testsupport

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"checkgate/internal/config"
	"checkgate/internal/targets"
)

// Call is one recorded stub checker invocation.
type Call struct {
	Checker string
	Args    []string
}

// WriteTree creates every specifier under root: directories for directory
// specifiers, small Python files otherwise.
func WriteTree(t testing.TB, root string, specs ...targets.Specifier) {
	t.Helper()

	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", root, err)
	}
	for _, spec := range specs {
		path := filepath.Join(root, filepath.FromSlash(spec.Path))
		if spec.Kind == targets.KindDir {
			if err := os.MkdirAll(path, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", path, err)
			}
			continue
		}
		WriteFile(t, path, "\"\"\"stub module.\"\"\"\n")
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Calls returns the stub checker invocations recorded for cfg, in order.
func Calls(t testing.TB, cfg *config.Config) []Call {
	t.Helper()

	f, err := os.Open(filepath.Join(BaseDir(cfg), callLogName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		t.Fatalf("open call log: %v", err)
	}
	defer f.Close()

	var calls []Call
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		calls = append(calls, Call{Checker: fields[0], Args: fields[1:]})
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("read call log: %v", err)
	}
	return calls
}
