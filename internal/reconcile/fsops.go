package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
)

// maxSameDirStashAttempts bounds how many stash names we try in the
// source's own directory before falling back to the system temp directory,
// per §4.4 Step 3 (same directory preferred, temp dir fallback on
// collision).
const maxSameDirStashAttempts = 64

var stashCounter int64

func defaultPathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// ensureParentDir creates path's parent chain if missing, equivalent to
// `mkdir -p`.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMkdir, dir, err)
	}
	return nil
}

// generateStashName picks a unique "<basename>.vidir-stash-<pid>-<counter>"
// path in path's own directory, falling back to the system temp directory
// if same-directory names keep colliding.
func generateStashName(path string, exists func(string) bool) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	for i := 0; i < maxSameDirStashAttempts; i++ {
		n := atomic.AddInt64(&stashCounter, 1)
		candidate := filepath.Join(dir, fmt.Sprintf("%s.vidir-stash-%d-%d", base, os.Getpid(), n))
		if !exists(candidate) {
			return candidate
		}
	}

	n := atomic.AddInt64(&stashCounter, 1)
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s.vidir-stash-%d-%d", base, os.Getpid(), n))
}

// newStashHandle returns an opaque token correlating a Stash step with its
// Unstash. It is never parsed, only compared for identity.
func newStashHandle() string {
	return uuid.NewString()
}
