package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func statuses(results []*FileResult) map[string]Status {
	out := make(map[string]Status)
	for _, r := range results {
		out[filepath.Base(r.File)] = r.Status
	}
	return out
}

func TestUpdateThenPass(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.txt":    "x1 = 42",
		"b.txt":    "3 @ 5",
		"copy.txt": "x1 = 42",
	})
	opts := Options{Patterns: filepath.Join(dir, "*.txt"), Jobs: 2, Update: true}

	results, err := runSuite(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]Status{"a.txt": StatusUpdated, "b.txt": StatusUpdated, "copy.txt": StatusSkip}
	if diff := cmp.Diff(want, statuses(results)); diff != "" {
		t.Fatalf("update statuses mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(dir, ".a.txt.json")); err != nil {
		t.Fatalf("golden file missing: %v", err)
	}

	opts.Update = false
	results, err = runSuite(opts)
	if err != nil {
		t.Fatal(err)
	}
	want = map[string]Status{"a.txt": StatusPass, "b.txt": StatusPass, "copy.txt": StatusSkip}
	if diff := cmp.Diff(want, statuses(results)); diff != "" {
		t.Errorf("check statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectsChangedTokens(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "a == b"})
	opts := Options{Patterns: filepath.Join(dir, "*.txt"), Jobs: 1, Update: true}
	if _, err := runSuite(opts); err != nil {
		t.Fatal(err)
	}

	// Whitespace only: hash changes, tokens differ only in position.
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a ==  b"), 0644); err != nil {
		t.Fatal(err)
	}
	opts.Update = false
	results, err := runSuite(opts)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Status != StatusFail || !strings.Contains(results[0].Diff, "Offset") {
		t.Errorf("result = %+v, want FAIL with position diff", results[0])
	}

	var out bytes.Buffer
	if failed := printSummary(&out, results, true); !failed {
		t.Error("printSummary did not report failure")
	}
	if !strings.Contains(out.String(), "0 passed, 1 failed") {
		t.Errorf("summary = %q", out.String())
	}
}

func TestMissingGolden(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.txt": "a"})
	results, err := runSuite(Options{Patterns: filepath.Join(dir, "*.txt"), Jobs: 1})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Status != StatusFail || !strings.Contains(results[0].Message, "-update") {
		t.Errorf("result = %+v", results[0])
	}
}

func TestSeparateGoldenDirAndFlags(t *testing.T) {
	dir := writeFiles(t, map[string]string{"c.txt": "a // b"})
	golden := filepath.Join(t.TempDir(), "golden")
	opts := Options{Patterns: filepath.Join(dir, "*.txt"), Dir: golden, Flags: "-Fcomments", Jobs: 1, Update: true}
	if _, err := runSuite(opts); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(golden, ".c.txt.json")); err != nil {
		t.Fatalf("golden file not written to -dir: %v", err)
	}

	opts.Update = false
	results, err := runSuite(opts)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Status != StatusPass {
		t.Errorf("result = %+v, want PASS", results[0])
	}

	opts.Flags = ""
	results, err = runSuite(opts)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Status != StatusSkip {
		t.Errorf("result = %+v, want SKIP for mismatched flags", results[0])
	}

	if _, err := runSuite(Options{Patterns: "x", Flags: "-Fbogus"}); err == nil {
		t.Error("runSuite accepted an unknown feature")
	}
}

func TestHashContent(t *testing.T) {
	a, b := hashContent([]byte("abc")), hashContent([]byte("abd"))
	if a == b || len(a) != 16 {
		t.Errorf("hashContent gave %q and %q", a, b)
	}
}
