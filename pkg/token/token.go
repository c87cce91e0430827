package token

import (
	"fmt"
	"strconv"
)

type Kind int

const (
	EOF Kind = iota
	Identifier
	Literal
	Operator
	String
)

var kindNames = map[Kind]string{
	EOF:        "EOF",
	Identifier: "Identifier",
	Literal:    "Literal",
	Operator:   "Operator",
	String:     "String",
}

// Reverse mapping from name to Kind, used when decoding snapshots
var KindMap = make(map[string]Kind)

func init() {
	for k, name := range kindNames {
		KindMap[name] = k
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	kind, ok := KindMap[string(b)]
	if !ok {
		return fmt.Errorf("unknown token kind %q", b)
	}
	*k = kind
	return nil
}

// Pos locates a lexeme. Offset counts runes from the start of the source,
// Line and Column are 1-based.
type Pos struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

type Token struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
	Int  uint64 `json:"int,omitzero"`
	Pos  Pos    `json:"pos"`
	Len  int    `json:"len"`
}

// Value is the canonical text of the token: the lexeme itself, or the
// decoded base-10 integer for literals.
func (t Token) Value() string {
	if t.Kind == Literal {
		return strconv.FormatUint(t.Int, 10)
	}
	return t.Text
}

// String renders the token as Token(<kind>, <value>), quoting textual values.
func (t Token) String() string {
	if t.Kind == Literal {
		return fmt.Sprintf("Token(%s, %d)", t.Kind, t.Int)
	}
	return fmt.Sprintf("Token(%s, %s)", t.Kind, quote(t.Text))
}

// quote prefers single quotes and falls back to double quotes when the text
// already contains one, the way the original printer rendered values.
func quote(s string) string {
	q := strconv.Quote(s)
	body := q[1 : len(q)-1]
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			return q
		}
	}
	body = unescapeDoubleQuote(body)
	return "'" + body + "'"
}

func unescapeDoubleQuote(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '"' {
			out = append(out, '"')
			i++
			continue
		}
		if s[i] == '\\' && i+1 < len(s) {
			out = append(out, s[i], s[i+1])
			i++
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

// Operators lists every operator lexeme the lexer recognizes.
var Operators = []string{"+", "-", "*", "/", "=", "==", "!=", "<", ">", "<=", ">="}
