package listing

import (
	"errors"
	"strings"
	"testing"
)

func TestParse_Unchanged(t *testing.T) {
	pre := []Entry{{ID: 1, Path: "./file1.txt"}, {ID: 2, Path: "./file2.txt"}}
	res, err := Parse(strings.NewReader("1\t./file1.txt\n2\t./file2.txt\n"), pre)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Posts[1] != (PostPath{Path: "./file1.txt"}) {
		t.Fatalf("Posts[1] = %+v", res.Posts[1])
	}
	if res.Posts[2] != (PostPath{Path: "./file2.txt"}) {
		t.Fatalf("Posts[2] = %+v", res.Posts[2])
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
}

func TestParse_DeletionByLineRemoval(t *testing.T) {
	pre := []Entry{{ID: 1, Path: "./file1.txt"}, {ID: 2, Path: "./file2.txt"}}
	res, err := Parse(strings.NewReader("2\t./file2.txt\n"), pre)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !res.Posts[1].Deleted {
		t.Fatalf("expected id 1 to be marked deleted, got %+v", res.Posts[1])
	}
}

func TestParse_ToleratesCRLFAndBlankLines(t *testing.T) {
	pre := []Entry{{ID: 1, Path: "./a"}}
	res, err := Parse(strings.NewReader("\r\n1\t./a\r\n\n"), pre)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Posts[1] != (PostPath{Path: "./a"}) {
		t.Fatalf("Posts[1] = %+v", res.Posts[1])
	}
}

func TestParse_AcceptsRetabbedSeparator(t *testing.T) {
	pre := []Entry{{ID: 1, Path: "./a"}}
	res, err := Parse(strings.NewReader("1    ./a\n"), pre)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Posts[1] != (PostPath{Path: "./a"}) {
		t.Fatalf("Posts[1] = %+v", res.Posts[1])
	}
}

func TestParse_PreservesPathWhitespaceLiterally(t *testing.T) {
	pre := []Entry{{ID: 1, Path: "./a"}}
	res, err := Parse(strings.NewReader("1\t  x  \n"), pre)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Posts[1].Path != "  x  " {
		t.Fatalf("Posts[1].Path = %q, want %q", res.Posts[1].Path, "  x  ")
	}
}

func TestParse_UnknownIDIgnoredWithWarning(t *testing.T) {
	pre := []Entry{{ID: 1, Path: "./a"}}
	res, err := Parse(strings.NewReader("1\t./a\n99\t./ghost\n"), pre)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := res.Posts[99]; ok {
		t.Fatalf("unknown id 99 should not appear in Posts")
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", res.Warnings)
	}
}

func TestParse_EmptyPathSkippedWithWarning(t *testing.T) {
	pre := []Entry{{ID: 1, Path: "./a"}, {ID: 2, Path: "./b"}}
	res, err := Parse(strings.NewReader("1\t\n2\t./b\n"), pre)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	// id 1's line was malformed (empty path), so it falls back to deleted.
	if !res.Posts[1].Deleted {
		t.Fatalf("Posts[1] = %+v, want Deleted", res.Posts[1])
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", res.Warnings)
	}
}

func TestParse_NoUsableLinesIsFatal(t *testing.T) {
	pre := []Entry{{ID: 1, Path: "./a"}}
	_, err := Parse(strings.NewReader("not a listing line\n"), pre)
	if !errors.Is(err, ErrNoUsableLines) {
		t.Fatalf("Parse() error = %v, want ErrNoUsableLines", err)
	}
}
