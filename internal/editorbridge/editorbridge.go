// Package editorbridge resolves the user's editor and runs it against a
// temporary listing file, with the terminal handed over directly so the
// editor behaves exactly as it would from a shell.
package editorbridge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNoEditor means neither $VISUAL, $EDITOR, nor a fallback binary could
// be resolved.
var ErrNoEditor = errors.New("no editor available")

// fallbackEditors is tried, in order, when neither $VISUAL nor $EDITOR is
// set, mirroring what most vidir-alikes do rather than hard failing.
var fallbackEditors = []string{"vi", "nano"}

// lookPath is overridden in tests to avoid depending on the host's PATH.
var lookPath = exec.LookPath

// ResolveWithOverride is Resolve, except override (when non-empty) wins
// over both $VISUAL and $EDITOR. This is how an explicit --editor flag or
// config value takes precedence over the environment.
func ResolveWithOverride(override string) ([]string, error) {
	if override != "" {
		return splitCommand(override), nil
	}
	return Resolve()
}

// Resolve returns the editor command line to run, split into its argv
// form. $VISUAL wins over $EDITOR; if neither is set, the first fallback
// binary found on PATH is used.
func Resolve() ([]string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return splitCommand(v), nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return splitCommand(e), nil
	}
	for _, candidate := range fallbackEditors {
		if _, err := lookPath(candidate); err == nil {
			return []string{candidate}, nil
		}
	}
	return nil, ErrNoEditor
}

// Launch runs editor (as returned by Resolve, or a caller-supplied
// override) against path, with stdin/stdout/stderr connected directly to
// the controlling terminal so interactive editors work normally. It
// returns the process's exit code; a non-zero code is not itself an error,
// since some editors return nonzero for informational reasons, but a
// failure to even start the process is.
func Launch(ctx context.Context, editor []string, path string) (exitCode int, err error) {
	if len(editor) == 0 {
		return -1, ErrNoEditor
	}

	args := make([]string, 0, len(editor)-1+1)
	args = append(args, editor[1:]...)
	args = append(args, path)

	cmd := exec.CommandContext(ctx, editor[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("launch editor %q: %w", editor[0], err)
	}
	return 0, nil
}

// splitCommand performs the same shell-word splitting hsync-alikes apply
// to $EDITOR so that values like "code --wait" resolve to an argv of
// ["code", "--wait"] rather than a single unresolvable binary name.
func splitCommand(s string) []string {
	var (
		fields    []string
		current   []rune
		inQuote   rune
		haveToken bool
	)
	flush := func() {
		if haveToken {
			fields = append(fields, string(current))
			current = current[:0]
			haveToken = false
		}
	}
	for _, r := range s {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
				continue
			}
			current = append(current, r)
			haveToken = true
		case r == '\'' || r == '"':
			inQuote = r
			haveToken = true
		case r == ' ' || r == '\t':
			flush()
		default:
			current = append(current, r)
			haveToken = true
		}
	}
	flush()
	return fields
}
