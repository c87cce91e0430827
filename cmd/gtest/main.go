// gtest checks the lexer against golden token snapshots stored next to the
// source files as .<name>.json.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/xplshn/glex/pkg/config"
	"github.com/xplshn/glex/pkg/lexer"
	"github.com/xplshn/glex/pkg/token"
	"github.com/xplshn/glex/pkg/util"
)

// Snapshot is the on-disk golden record for one source file.
type Snapshot struct {
	Hash        string            `json:"hash"`
	Flags       string            `json:"flags,omitempty"`
	Tokens      []token.Token     `json:"tokens"`
	Diagnostics []util.Diagnostic `json:"diagnostics"`
}

type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusSkip    Status = "SKIP"
	StatusError   Status = "ERROR"
	StatusUpdated Status = "UPDATED"
)

type FileResult struct {
	File    string `json:"file"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

type Options struct {
	Patterns string
	Dir      string
	Flags    string
	Jobs     int
	Update   bool
}

var (
	testFiles  = flag.String("files", "testdata/*.txt", "Glob pattern(s) for source files (space-separated).")
	jsonDir    = flag.String("dir", "", "Directory for golden JSON files (defaults to each source file's dir).")
	lexFlags   = flag.String("flags", "", "Lexer switches such as '-Fcomments -Wno-overflow'.")
	jobs       = flag.Int("j", 4, "Number of parallel jobs.")
	update     = flag.Bool("update", false, "Rewrite golden files from the current lexer output.")
	verbose    = flag.Bool("v", false, "Print diffs for failing files.")
	outputJSON = flag.String("output", "", "Write a JSON report of all results to this file.")
)

const (
	cRed    = "\x1b[91m"
	cYellow = "\x1b[93m"
	cGreen  = "\x1b[92m"
	cCyan   = "\x1b[96m"
	cNone   = "\x1b[0m"
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	results, err := runSuite(Options{
		Patterns: *testFiles, Dir: *jsonDir, Flags: *lexFlags, Jobs: *jobs, Update: *update,
	})
	if err != nil {
		log.Fatalf("%s[ERROR]%s %v\n", cRed, cNone, err)
	}
	if len(results) == 0 {
		log.Println("No test files found matching the pattern(s).")
		return
	}

	failed := printSummary(os.Stdout, results, *verbose)

	if *outputJSON != "" {
		if err := writeJSON(*outputJSON, results); err != nil {
			log.Fatalf("%s[ERROR]%s Failed to write report %s: %v\n", cRed, cNone, *outputJSON, err)
		}
	}
	if failed {
		os.Exit(1)
	}
}

func goldenPath(sourceFile, dir string) string {
	name := "." + filepath.Base(sourceFile) + ".json"
	if dir != "" {
		return filepath.Join(dir, name)
	}
	return filepath.Join(filepath.Dir(sourceFile), name)
}

func hashContent(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}

func expandGlobPatterns(patterns string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range strings.Fields(patterns) {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern '%s': %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// runSuite snapshots every matched file with a bounded worker pool. Files
// whose content duplicates an earlier file are skipped.
func runSuite(opts Options) ([]*FileResult, error) {
	cfg := config.NewConfig()
	if err := cfg.ProcessFlags(opts.Flags); err != nil {
		return nil, fmt.Errorf("invalid -flags: %w", err)
	}
	files, err := expandGlobPatterns(opts.Patterns)
	if err != nil {
		return nil, err
	}
	if opts.Update && opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", opts.Dir, err)
		}
	}

	type task struct {
		file    string
		content []byte
		hash    string
	}
	tasks := make(chan task, len(files))
	resultsChan := make(chan *FileResult, len(files))
	var wg sync.WaitGroup

	for i := 0; i < max(opts.Jobs, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				resultsChan <- checkFile(t.file, t.content, t.hash, cfg, opts)
			}
		}()
	}

	seenHashes := make(map[string]string)
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			resultsChan <- &FileResult{File: file, Status: StatusError, Message: fmt.Sprintf("Failed to read file: %v", err)}
			continue
		}
		hash := hashContent(content)
		if original, seen := seenHashes[hash]; seen {
			resultsChan <- &FileResult{File: file, Status: StatusSkip, Message: fmt.Sprintf("Content is identical to %s", original)}
			continue
		}
		seenHashes[hash] = file
		tasks <- task{file, content, hash}
	}
	close(tasks)

	wg.Wait()
	close(resultsChan)

	var results []*FileResult
	for r := range resultsChan {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
	return results, nil
}

// cfg is shared read-only between workers.
func checkFile(file string, content []byte, hash string, cfg *config.Config, opts Options) *FileResult {
	got := snapshot(content, hash, cfg, opts.Flags)
	path := goldenPath(file, opts.Dir)

	if opts.Update {
		if err := writeJSON(path, got); err != nil {
			return &FileResult{File: file, Status: StatusError, Message: err.Error()}
		}
		return &FileResult{File: file, Status: StatusUpdated, Message: path}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &FileResult{File: file, Status: StatusFail, Message: "No golden file (run with -update)"}
	}
	if err != nil {
		return &FileResult{File: file, Status: StatusError, Message: err.Error()}
	}
	var want Snapshot
	if err := json.Unmarshal(data, &want); err != nil {
		return &FileResult{File: file, Status: StatusError, Message: fmt.Sprintf("Corrupt golden file %s: %v", path, err)}
	}
	if want.Flags != got.Flags {
		return &FileResult{File: file, Status: StatusSkip, Message: fmt.Sprintf("Golden file was recorded with flags %q", want.Flags)}
	}

	diff := cmp.Diff(want, got, cmpopts.EquateEmpty(), cmpopts.IgnoreFields(Snapshot{}, "Hash"))
	if diff != "" {
		return &FileResult{File: file, Status: StatusFail, Message: "Token stream differs from golden file", Diff: diff}
	}
	if want.Hash != got.Hash {
		return &FileResult{File: file, Status: StatusPass, Message: "Source changed but tokens still match"}
	}
	return &FileResult{File: file, Status: StatusPass}
}

func snapshot(content []byte, hash string, cfg *config.Config, flags string) Snapshot {
	c := &util.Collector{}
	toks, _ := lexer.Tokenize(string(content), cfg, c.Handle)
	return Snapshot{Hash: hash, Flags: flags, Tokens: toks, Diagnostics: c.Diagnostics}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := json.MarshalWrite(f, v, jsontext.Multiline(true), jsontext.WithIndent("  ")); err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	_, err = io.WriteString(f, "\n")
	return err
}

func printSummary(w io.Writer, results []*FileResult, verbose bool) (failed bool) {
	counts := make(map[Status]int)
	for _, r := range results {
		counts[r.Status]++
		color := cGreen
		switch r.Status {
		case StatusFail, StatusError:
			color = cRed
			failed = true
		case StatusSkip:
			color = cYellow
		case StatusUpdated:
			color = cCyan
		}
		line := fmt.Sprintf("%s[%s]%s %s", color, r.Status, cNone, r.File)
		if r.Message != "" {
			line += " (" + r.Message + ")"
		}
		fmt.Fprintln(w, line)
		if verbose && r.Diff != "" {
			fmt.Fprintf(w, "%s\n", r.Diff)
		}
	}
	fmt.Fprintf(w, "\n%d passed, %d failed, %d errors, %d skipped, %d updated\n",
		counts[StatusPass], counts[StatusFail], counts[StatusError], counts[StatusSkip], counts[StatusUpdated])
	return failed
}
