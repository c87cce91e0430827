package lexer

import "github.com/xplshn/glex/pkg/token"

// operator tries the two-character forms before their one-character
// prefixes, so "==" is never split into two "=" tokens.
func (l *Lexer) operator(sPos, sCol, sLine int) (token.Token, bool) {
	switch ch := l.peek(); ch {
	case '+', '-', '*', '/':
		l.advance()
		return l.opToken(sPos, sCol, sLine), true
	case '=', '<', '>':
		l.advance()
		l.match('=')
		return l.opToken(sPos, sCol, sLine), true
	case '!':
		// '!' alone is not an operator
		if l.peekNext() != '=' {
			return token.Token{}, false
		}
		l.advance()
		l.advance()
		return l.opToken(sPos, sCol, sLine), true
	}
	return token.Token{}, false
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.source[l.pos] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) opToken(sPos, sCol, sLine int) token.Token {
	return l.makeToken(token.Operator, string(l.source[sPos:l.pos]), sPos, sCol, sLine)
}
