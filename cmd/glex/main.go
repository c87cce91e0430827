package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/xplshn/glex/pkg/cli"
	"github.com/xplshn/glex/pkg/config"
	"github.com/xplshn/glex/pkg/lexer"
	"github.com/xplshn/glex/pkg/token"
	"github.com/xplshn/glex/pkg/util"
)

const (
	exitOK          = 0
	exitDiagnostics = 1
	exitUsage       = 2
)

// errDiagnostics reports that scanning finished but flagged errors.
var errDiagnostics = errors.New("errors reported")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := cli.NewApp("glex")
	app.Synopsis = "[options] <file>"
	app.Description = "Splits a source file into identifier, literal and operator tokens and prints them one per line."
	app.Stdout, app.Stderr = stdout, stderr

	var (
		jsonOut  bool
		failFast bool
		quiet    bool
	)
	flags := app.FlagSet
	flags.Bool(&jsonOut, "json", "j", false, "Print tokens as a JSON array.")
	flags.Bool(&failFast, "fail-fast", "", false, "Stop at the first error diagnostic.")
	flags.Bool(&quiet, "quiet", "q", false, "Do not print diagnostics.")

	cfg := config.NewConfig()
	warningFlags, featureFlags := cfg.SetupFlagGroups(flags)

	app.Action = func(inputFiles []string) error {
		if len(inputFiles) != 1 {
			return &cli.UsageError{Msg: fmt.Sprintf("expected exactly one input file, got %d", len(inputFiles))}
		}
		cfg.ApplyFlagGroups(warningFlags, featureFlags)

		path := inputFiles[0]
		content, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("file not found: %s", path)
			}
			return fmt.Errorf("could not read file '%s': %w", path, err)
		}

		record := util.SourceFileRecord{Name: path, Content: []rune(string(content))}
		collector := &util.Collector{}
		handlers := []util.Handler{collector.Handle}
		if !quiet {
			handlers = append(handlers, util.NewEmitter(stderr, record).Handle)
		}
		if failFast {
			handlers = append(handlers, util.FailFast)
		}

		l := lexer.NewLexer(record.Content, cfg, util.Chain(handlers...))
		var toks []token.Token
		for tok := range l.All() {
			toks = append(toks, tok)
		}

		if err := printTokens(stdout, toks, jsonOut); err != nil {
			return fmt.Errorf("could not write tokens: %w", err)
		}
		if l.Err() != nil || collector.HasErrors() {
			return errDiagnostics
		}
		return nil
	}

	err := app.Run(args)
	var ue *cli.UsageError
	switch {
	case err == nil, errors.Is(err, cli.ErrHelp):
		return exitOK
	case errors.Is(err, errDiagnostics):
		return exitDiagnostics
	case errors.As(err, &ue):
		return exitUsage
	default:
		fmt.Fprintf(stderr, "glex: error: %v\n", err)
		return exitUsage
	}
}

func printTokens(w io.Writer, toks []token.Token, asJSON bool) error {
	if asJSON {
		if toks == nil {
			toks = []token.Token{}
		}
		if err := json.MarshalWrite(w, toks, jsontext.Multiline(true), jsontext.WithIndent("  ")); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}
	for _, tok := range toks {
		if _, err := fmt.Fprintln(w, tok); err != nil {
			return err
		}
	}
	return nil
}
