package editorbridge

import (
	"errors"
	"os/exec"
	"testing"
)

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"vi", []string{"vi"}},
		{"code --wait", []string{"code", "--wait"}},
		{`emacs -nw "--some flag"`, []string{"emacs", "-nw", "--some flag"}},
		{"  nano  ", []string{"nano"}},
	}
	for _, c := range cases {
		got := splitCommand(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("splitCommand(%q) = %#v, want %#v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("splitCommand(%q) = %#v, want %#v", c.in, got, c.want)
			}
		}
	}
}

func TestResolve_VisualWinsOverEditor(t *testing.T) {
	t.Setenv("VISUAL", "visual-editor")
	t.Setenv("EDITOR", "editor-editor")

	got, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0] != "visual-editor" {
		t.Fatalf("Resolve() = %#v, want [visual-editor]", got)
	}
}

func TestResolve_FallsBackToEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "my-editor --flag")

	got, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 2 || got[0] != "my-editor" || got[1] != "--flag" {
		t.Fatalf("Resolve() = %#v", got)
	}
}

func TestResolve_FallsBackToKnownBinary(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(name string) (string, error) {
		if name == "nano" {
			return "/usr/bin/nano", nil
		}
		return "", exec.ErrNotFound
	}

	got, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0] != "nano" {
		t.Fatalf("Resolve() = %#v, want [nano]", got)
	}
}

func TestResolveWithOverride_WinsOverEnvironment(t *testing.T) {
	t.Setenv("VISUAL", "visual-editor")
	t.Setenv("EDITOR", "editor-editor")

	got, err := ResolveWithOverride("code --wait")
	if err != nil {
		t.Fatalf("ResolveWithOverride: %v", err)
	}
	if len(got) != 2 || got[0] != "code" || got[1] != "--wait" {
		t.Fatalf("ResolveWithOverride() = %#v", got)
	}
}

func TestResolveWithOverride_EmptyFallsBackToResolve(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "fallback-editor")

	got, err := ResolveWithOverride("")
	if err != nil {
		t.Fatalf("ResolveWithOverride: %v", err)
	}
	if len(got) != 1 || got[0] != "fallback-editor" {
		t.Fatalf("ResolveWithOverride() = %#v", got)
	}
}

func TestResolve_NoEditorAvailable(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")

	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	_, err := Resolve()
	if !errors.Is(err, ErrNoEditor) {
		t.Fatalf("Resolve() error = %v, want ErrNoEditor", err)
	}
}
