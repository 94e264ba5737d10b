// Package enumerate builds the initial, pre-edit listing from the paths
// given on the command line: directory arguments are expanded one level
// (never recursively), file arguments are taken as-is, and any path
// matching a configured ignore rule is dropped before ids are assigned.
package enumerate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/woozymasta/pathrules"

	"github.com/kjeldahl/vidir/internal/listing"
)

// ErrNoEntries is returned when every candidate path was filtered out by
// ignore rules or no arguments resolved to anything, leaving nothing to
// edit.
var ErrNoEntries = errors.New("no entries to list")

// Options configures enumeration.
type Options struct {
	// Ignore is the set of glob-style exclude patterns, matched against
	// the path as it will appear in the listing (the display path, "./"
	// prefixed, not the raw argument). A path matching any pattern here is
	// dropped.
	Ignore []string
}

// Enumerate resolves args (files and/or directories) into the ordered,
// id-assigned pre-edit listing. Directory arguments are expanded to their
// immediate children (one level, not recursive); vidir is meant to be
// re-invoked on a subdirectory to go deeper, matching how the listing
// format keeps one line per entry manageable.
//
// A nonexistent argument is a fatal error: unlike a malformed edited
// listing line, which only produces a warning, a typo on the command line
// should stop the run before anything is written.
func Enumerate(args []string, opts Options) ([]listing.Entry, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	matcher, err := compileIgnoreMatcher(opts.Ignore)
	if err != nil {
		return nil, fmt.Errorf("compile ignore patterns: %w", err)
	}

	var candidates []candidate
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}

		if !info.IsDir() {
			candidates = append(candidates, candidate{path: arg, isDir: false})
			continue
		}

		children, err := expandDir(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		candidates = append(candidates, children...)
	}

	entries := make([]listing.Entry, 0, len(candidates))
	id := 1
	for _, c := range candidates {
		display := displayPath(c.path)
		if strings.ContainsRune(display, '\n') {
			return nil, fmt.Errorf("%s: %w", display, listing.ErrPathContainsNewline)
		}
		if matcher != nil && !matcher.Included(display, c.isDir) {
			continue
		}
		entries = append(entries, listing.Entry{ID: id, Path: display})
		id++
	}

	if len(entries) == 0 {
		return nil, ErrNoEntries
	}
	return entries, nil
}

// candidate is a not-yet-filtered enumeration result: its raw path (before
// displayPath turns it into the listed form) and whether it names a directory, which ignore matching
// needs to apply dir-style glob rules (e.g. "*/" patterns) correctly.
type candidate struct {
	path  string
	isDir bool
}

// expandDir lists dir's immediate children, sorted by name, joined back
// onto dir so the result is stable regardless of OS readdir order.
func expandDir(dir string) ([]candidate, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(dirents, func(i, j int) bool { return dirents[i].Name() < dirents[j].Name() })

	out := make([]candidate, 0, len(dirents))
	for _, de := range dirents {
		out = append(out, candidate{path: filepath.Join(dir, de.Name()), isDir: de.IsDir()})
	}
	return out, nil
}

// displayPath normalizes p into the form written to the listing: a
// relative path prefixed with "./" unless it is already absolute or
// already carries an explicit "./"/"../" prefix.
func displayPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") || p == "." || p == ".." {
		return p
	}
	return "./" + p
}

// compileIgnoreMatcher compiles patterns into a pathrules matcher that
// excludes anything matching, including everything else by default.
// Returns (nil, nil) when there are no patterns, so callers can skip
// matching entirely.
func compileIgnoreMatcher(patterns []string) (*pathrules.Matcher, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	rules := make([]pathrules.Rule, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: p})
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		DefaultAction: pathrules.ActionInclude,
	})
	if err != nil {
		return nil, fmt.Errorf("compile ignore rules: %w", err)
	}
	return matcher, nil
}
