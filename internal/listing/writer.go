package listing

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Write serializes entries as "<id><TAB><path><LF>" lines. Paths are never
// quoted or escaped; a path containing a newline is a hard failure since it
// cannot round-trip through a line-oriented buffer.
func Write(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if strings.ContainsRune(e.Path, '\n') {
			return fmt.Errorf("%w: entry %d %q", ErrPathContainsNewline, e.ID, e.Path)
		}
		if _, err := fmt.Fprintf(bw, "%d\t%s\n", e.ID, e.Path); err != nil {
			return fmt.Errorf("write listing line %d: %w", e.ID, err)
		}
	}
	return bw.Flush()
}

// WriteTempFile serializes entries to a new temporary file in dir (the
// system default temp directory when dir is empty) and returns its path.
// The file is flushed and closed before returning, as required by the
// Editor Bridge contract. Callers own the returned path and must remove it
// on every exit path, including failure.
func WriteTempFile(dir string, entries []Entry) (path string, err error) {
	f, err := os.CreateTemp(dir, "vidir-")
	if err != nil {
		return "", fmt.Errorf("create listing temp file: %w", err)
	}
	path = f.Name()

	if werr := Write(f, entries); werr != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", werr
	}
	if cerr := f.Close(); cerr != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close listing temp file: %w", cerr)
	}
	return path, nil
}
