package lexer

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"unicode"

	"github.com/xplshn/glex/pkg/config"
	"github.com/xplshn/glex/pkg/token"
	"github.com/xplshn/glex/pkg/util"
)

type Lexer struct {
	source  []rune
	pos     int
	line    int
	column  int
	cfg     *config.Config
	handler util.Handler
	err     error
}

// NewLexer returns a lexer over source. A nil cfg selects the defaults and a
// nil handler discards diagnostics.
func NewLexer(source []rune, cfg *config.Config, handler util.Handler) *Lexer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Lexer{
		source: source, line: 1, column: 1, cfg: cfg, handler: handler,
	}
}

// Tokenize scans source to the end. The returned slice never contains EOF.
// The error is non-nil only when the handler stopped the scan, in which case
// the tokens produced up to that point are returned with it.
func Tokenize(source string, cfg *config.Config, handler util.Handler) ([]token.Token, error) {
	l := NewLexer([]rune(source), cfg, handler)
	var toks []token.Token
	for tok := range l.All() {
		toks = append(toks, tok)
	}
	return toks, l.Err()
}

// Reset rewinds the lexer onto a new source, keeping its config and handler.
func (l *Lexer) Reset(source []rune) {
	l.source, l.pos, l.line, l.column, l.err = source, 0, 1, 1, nil
}

// Err returns the error that stopped the scan, if any.
func (l *Lexer) Err() error { return l.err }

// All yields tokens until EOF. Breaking out early leaves the lexer positioned
// after the last yielded token.
func (l *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for {
			tok := l.Next()
			if tok.Kind == token.EOF || !yield(tok) {
				return
			}
		}
	}
}

func (l *Lexer) Next() token.Token {
	for l.err == nil && !l.isAtEnd() {
		startPos, startCol, startLine := l.pos, l.column, l.line
		ch := l.peek()

		if unicode.IsSpace(ch) {
			l.advance()
			continue
		}

		if l.cfg.IsFeatureEnabled(config.FeatComments) && ch == '/' {
			if l.peekNext() == '/' {
				l.lineComment()
				continue
			}
			if l.peekNext() == '*' {
				l.blockComment(startPos, startCol, startLine)
				continue
			}
		}
		if l.cfg.IsFeatureEnabled(config.FeatStrings) && ch == '"' {
			if tok, ok := l.stringLiteral(startPos, startCol, startLine); ok {
				return tok
			}
			continue
		}

		switch {
		case isLetter(ch):
			return l.identifier(startPos, startCol, startLine)
		case isDigit(ch):
			return l.numberLiteral(startPos, startCol, startLine)
		}
		if tok, ok := l.operator(startPos, startCol, startLine); ok {
			return tok
		}

		l.advance()
		l.report(util.Diagnostic{
			Severity: util.SevError,
			Code:     util.UnrecognizedCharacter,
			Message:  fmt.Sprintf("Unrecognized character %q at offset %d", ch, startPos),
			Pos:      token.Pos{Offset: startPos, Line: startLine, Column: startCol},
			Len:      1,
			Char:     string(ch),
		})
	}
	return l.makeToken(token.EOF, "", l.pos, l.column, l.line)
}

func (l *Lexer) report(d util.Diagnostic) {
	if l.handler == nil || l.err != nil {
		return
	}
	l.err = l.handler(d)
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	ch := l.source[l.pos]
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
	return ch
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.source) }

func (l *Lexer) makeToken(kind token.Kind, text string, startPos, startCol, startLine int) token.Token {
	return token.Token{
		Kind: kind, Text: text,
		Pos: token.Pos{Offset: startPos, Line: startLine, Column: startCol},
		Len: l.pos - startPos,
	}
}

func isLetter(ch rune) bool { return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_' }
func isDigit(ch rune) bool  { return ch >= '0' && ch <= '9' }

func (l *Lexer) identifier(startPos, startCol, startLine int) token.Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}
	return l.makeToken(token.Identifier, string(l.source[startPos:l.pos]), startPos, startCol, startLine)
}

// numberLiteral consumes the whole digit run. Values past 64 bits saturate
// at math.MaxUint64 and keep every digit in Text.
func (l *Lexer) numberLiteral(startPos, startCol, startLine int) token.Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	tok := l.makeToken(token.Literal, string(l.source[startPos:l.pos]), startPos, startCol, startLine)

	val, err := strconv.ParseUint(tok.Text, 10, 64)
	if err != nil {
		tok.Int = math.MaxUint64
		if l.cfg.IsWarningEnabled(config.WarnOverflow) {
			l.report(util.Diagnostic{
				Severity: util.SevWarning,
				Code:     util.IntegerOverflow,
				Message:  fmt.Sprintf("Integer literal %s overflows 64 bits, saturated to %d", tok.Text, tok.Int),
				Pos:      tok.Pos,
				Len:      tok.Len,
			})
		}
		return tok
	}
	tok.Int = val
	return tok
}

func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

func (l *Lexer) blockComment(startPos, startCol, startLine int) {
	l.advance()
	l.advance()
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		l.advance()
	}
	l.report(util.Diagnostic{
		Severity: util.SevError,
		Code:     util.UnterminatedComment,
		Message:  "Unterminated block comment",
		Pos:      token.Pos{Offset: startPos, Line: startLine, Column: startCol},
		Len:      l.pos - startPos,
	})
}

// stringLiteral returns the literal verbatim, quotes included. No escapes
// are interpreted, so a string ends at the next '"'.
func (l *Lexer) stringLiteral(startPos, startCol, startLine int) (token.Token, bool) {
	l.advance()
	for !l.isAtEnd() {
		if l.advance() == '"' {
			return l.makeToken(token.String, string(l.source[startPos:l.pos]), startPos, startCol, startLine), true
		}
	}
	l.report(util.Diagnostic{
		Severity: util.SevError,
		Code:     util.UnterminatedString,
		Message:  "Unterminated string literal",
		Pos:      token.Pos{Offset: startPos, Line: startLine, Column: startCol},
		Len:      l.pos - startPos,
	})
	return token.Token{}, false
}
