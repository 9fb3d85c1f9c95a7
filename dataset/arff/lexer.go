package arff

import (
	"strings"

	"github.com/pkg/errors"
)

// lexer splits a single line of an ARFF file into tokens.
type lexer struct {
	line string
	pos  int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || c == ',' || c == '{' || c == '}' || c == '%'
}

// skipSpace advances past whitespace and, when a comment starts, to the
// end of the line.
func (l *lexer) skipSpace() {
	for l.pos < len(l.line) && isSpace(l.line[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.line) && l.line[l.pos] == '%' {
		l.pos = len(l.line)
	}
}

func (l *lexer) done() bool {
	l.skipSpace()
	return l.pos >= len(l.line)
}

func (l *lexer) peek() byte {
	l.skipSpace()
	if l.pos >= len(l.line) {
		return 0
	}
	return l.line[l.pos]
}

func (l *lexer) accept(c byte) bool {
	if l.peek() == c && c != 0 {
		l.pos++
		return true
	}
	return false
}

func (l *lexer) expect(c byte) error {
	if !l.accept(c) {
		return l.unexpected(string(c))
	}
	return nil
}

func (l *lexer) unexpected(expected string) error {
	if l.done() {
		return errors.Errorf("expected %s but found end of line", expected)
	}
	return errors.Errorf("expected %s but found %q", expected, l.line[l.pos:])
}

/*
word returns the next token on the line, unquoting and unescaping it if
it is enclosed in single or double quotes. The returned boolean is true
when the token was quoted.
*/
func (l *lexer) word() (string, bool, error) {
	l.skipSpace()
	if l.pos >= len(l.line) {
		return "", false, errors.New("unexpected end of line")
	}
	if c := l.line[l.pos]; c == '\'' || c == '"' {
		return l.quoted(c)
	}
	start := l.pos
	for l.pos < len(l.line) && !isDelimiter(l.line[l.pos]) {
		l.pos++
	}
	if start == l.pos {
		return "", false, errors.Errorf("unexpected %q", l.line[l.pos])
	}
	return l.line[start:l.pos], false, nil
}

func (l *lexer) quoted(q byte) (string, bool, error) {
	var b strings.Builder
	for l.pos++; l.pos < len(l.line); l.pos++ {
		c := l.line[l.pos]
		switch {
		case c == q:
			l.pos++
			return b.String(), true, nil
		case c == '\\' && l.pos+1 < len(l.line):
			l.pos++
			b.WriteByte(unescape(l.line[l.pos]))
		default:
			b.WriteByte(c)
		}
	}
	return "", false, errors.New("unterminated quoted string")
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return c
}

// Quote returns s as it must be written on an ARFF file to be read back
// as the same single token.
func Quote(s string) string {
	if s != "" && s != "?" && !strings.ContainsAny(s, " \t\r\n,{}%'\"\\") {
		return s
	}
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '\'':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
