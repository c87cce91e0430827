package token

import (
	"math"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
)

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Kind: Identifier, Text: "x1"}, "Token(Identifier, 'x1')"},
		{Token{Kind: Operator, Text: "=="}, "Token(Operator, '==')"},
		{Token{Kind: Literal, Text: "042", Int: 42}, "Token(Literal, 42)"},
		{Token{Kind: Literal, Text: "99999999999999999999", Int: math.MaxUint64}, "Token(Literal, 18446744073709551615)"},
		{Token{Kind: String, Text: `"hi"`}, `Token(String, '"hi"')`},
		{Token{Kind: String, Text: `"it's"`}, `Token(String, "\"it's\"")`},
		{Token{Kind: String, Text: "\"a\tb\""}, `Token(String, '"a\tb"')`},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

func TestValue(t *testing.T) {
	if got := (Token{Kind: Literal, Text: "0007", Int: 7}).Value(); got != "7" {
		t.Errorf("Value() = %q, want 7", got)
	}
	if got := (Token{Kind: Identifier, Text: "abc"}).Value(); got != "abc" {
		t.Errorf("Value() = %q, want abc", got)
	}
}

func TestKindText(t *testing.T) {
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("String() = %q", got)
	}

	want := []Token{
		{Kind: Identifier, Text: "a", Pos: Pos{Offset: 0, Line: 1, Column: 1}, Len: 1},
		{Kind: Literal, Text: "5", Int: 5, Pos: Pos{Offset: 2, Line: 1, Column: 3}, Len: 1},
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	var got []Token
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal(%s): %v", b, err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded tokens mismatch (-want +got):\n%s", diff)
	}

	var k Kind
	if err := k.UnmarshalText([]byte("Bogus")); err == nil {
		t.Error("UnmarshalText accepted an unknown kind")
	}
}
