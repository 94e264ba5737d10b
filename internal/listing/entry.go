// Package listing serializes and parses the numbered text buffer handed to
// the external editor, and the Entry/PostPath types that correlate its
// before and after state by id.
package listing

import "errors"

// Sentinel errors for the listing package. Callers use errors.Is.
var (
	// ErrPathContainsNewline means a path cannot round-trip through the
	// line-oriented listing format.
	ErrPathContainsNewline = errors.New("path contains a newline")
	// ErrNoUsableLines means the edited buffer produced zero usable entries.
	ErrNoUsableLines = errors.New("edited listing has no usable lines")
)

// Entry is one line of the pre-edit listing: a stable id and the path it
// named at enumeration time.
type Entry struct {
	ID   int
	Path string
}

// PostPath is the edited-listing counterpart of an id: either the path the
// user left it at (or renamed it to), or the deleted sentinel if its line
// was removed from the buffer entirely.
type PostPath struct {
	Path    string
	Deleted bool
}
