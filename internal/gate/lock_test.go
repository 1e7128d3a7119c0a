package gate_test

import (
	"testing"

	"github.com/gofrs/flock"
)

func flockHold(t *testing.T, path string) func() {
	t.Helper()
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("hold lock %s: ok=%v err=%v", path, ok, err)
	}
	return func() { _ = lock.Unlock() }
}
