package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/xplshn/glex/pkg/token"
)

type Severity int

const (
	SevError Severity = iota
	SevWarning
)

func (s Severity) String() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "error":
		*s = SevError
	case "warning":
		*s = SevWarning
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}

type Code string

const (
	UnrecognizedCharacter Code = "UnrecognizedCharacter"
	UnterminatedComment   Code = "UnterminatedComment"
	UnterminatedString    Code = "UnterminatedString"
	IntegerOverflow       Code = "IntegerOverflow"
)

// Diagnostic is a problem found while scanning. Char is set for
// UnrecognizedCharacter only.
type Diagnostic struct {
	Severity Severity  `json:"severity"`
	Code     Code      `json:"code"`
	Message  string    `json:"message"`
	Pos      token.Pos `json:"pos"`
	Len      int       `json:"len"`
	Char     string    `json:"char,omitempty"`
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// Handler receives diagnostics as they occur. Returning a non-nil error stops
// the scan.
type Handler func(Diagnostic) error

// Chain fans a diagnostic out to every handler and stops at the first error.
func Chain(handlers ...Handler) Handler {
	return func(d Diagnostic) error {
		for _, h := range handlers {
			if h == nil {
				continue
			}
			if err := h(d); err != nil {
				return err
			}
		}
		return nil
	}
}

var ErrAborted = errors.New("scan aborted")

// FailFast stops the scan on the first error-severity diagnostic. Warnings
// pass through.
func FailFast(d Diagnostic) error {
	if d.Severity == SevError {
		return fmt.Errorf("%w: %w", ErrAborted, d)
	}
	return nil
}

// Collector aggregates diagnostics into a single report.
type Collector struct {
	Diagnostics []Diagnostic
	errorCount  int
	warnCount   int
}

func (c *Collector) Handle(d Diagnostic) error {
	c.Diagnostics = append(c.Diagnostics, d)
	switch d.Severity {
	case SevError:
		c.errorCount++
	case SevWarning:
		c.warnCount++
	}
	return nil
}

func (c *Collector) HasErrors() bool   { return c.errorCount > 0 }
func (c *Collector) ErrorCount() int   { return c.errorCount }
func (c *Collector) WarningCount() int { return c.warnCount }

// Err joins every collected error-severity diagnostic, or returns nil.
func (c *Collector) Err() error {
	var errs []error
	for _, d := range c.Diagnostics {
		if d.Severity == SevError {
			errs = append(errs, d)
		}
	}
	return errors.Join(errs...)
}

// SourceFileRecord tracks the name and content of a single source file.
type SourceFileRecord struct {
	Name    string
	Content []rune
}

// Emitter prints diagnostics with the offending source line and a caret.
type Emitter struct {
	w     io.Writer
	file  SourceFileRecord
	color bool
}

func NewEmitter(w io.Writer, file SourceFileRecord) *Emitter {
	e := &Emitter{w: w, file: file}
	if f, ok := w.(*os.File); ok {
		e.color = term.IsTerminal(int(f.Fd()))
	}
	return e
}

func (e *Emitter) paint(code, s string) string {
	if !e.color {
		return s
	}
	return code + s + "\033[0m"
}

func (e *Emitter) Handle(d Diagnostic) error {
	label := e.paint("\033[31m", "error:")
	if d.Severity == SevWarning {
		label = e.paint("\033[33m", "warning:")
	}
	name := e.file.Name
	if name == "" {
		name = "<input>"
	}
	fmt.Fprintf(e.w, "%s:%d:%d: %s %s [%s]\n", name, d.Pos.Line, d.Pos.Column, label, d.Message, d.Code)
	e.printErrorLine(d)
	return nil
}

// printErrorLine prints the source line and a caret indicating the error position
func (e *Emitter) printErrorLine(d Diagnostic) {
	content := e.file.Content
	if d.Pos.Line == 0 || d.Pos.Offset > len(content) {
		return
	}

	lineStart := d.Pos.Offset
	for lineStart > 0 && content[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := d.Pos.Offset
	for lineEnd < len(content) && content[lineEnd] != '\n' {
		lineEnd++
	}

	fmt.Fprintf(e.w, "  %s\n", string(content[lineStart:lineEnd]))

	// Clip the underline at the end of the line for multi-line spans
	width := d.Len
	if d.Pos.Offset+width > lineEnd {
		width = lineEnd - d.Pos.Offset
	}
	caret := "^"
	if width > 1 {
		caret += strings.Repeat("~", width-1)
	}
	fmt.Fprintf(e.w, "  %s%s\n", strings.Repeat(" ", d.Pos.Offset-lineStart), e.paint("\033[32m", caret))
}
