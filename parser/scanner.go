package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"treelox/token"
)

const EOF_CHAR = '\x00'

// Scanner produces tokens lazily, one per call to NextToken.
type Scanner struct {
	source  string
	start   int
	current int

	// Position of the next character and of the token being scanned.
	line, column           int
	startLine, startColumn int
}

func MakeScanner(source string) Scanner {
	s := Scanner{source: source}
	s.Reset()
	return s
}

// Rewinds the scanner to the beginning of the source.
func (s *Scanner) Reset() {
	s.start, s.current = 0, 0
	s.line, s.column = 1, 1
	s.startLine, s.startColumn = 1, 1
}

// Scans the whole remaining source, the last token is always END_OF_FILE.
func (s *Scanner) Tokens() []token.Token {
	toks := make([]token.Token, 0)
	for {
		tok := s.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.END_OF_FILE {
			return toks
		}
	}
}

func (s *Scanner) NextToken() token.Token {
	// Skip blanks and comments, there can be any number of them in a row.
	if tok, ok := s.skipBlanksAndComments(); !ok {
		return tok
	}

	s.markStart()

	if s.isAtEnd() {
		return s.makeTok(token.END_OF_FILE)
	}

	c := s.advance()

	switch c {
	case '(':
		return s.makeTok(token.LEFT_PAREN)
	case ')':
		return s.makeTok(token.RIGHT_PAREN)
	case '{':
		return s.makeTok(token.LEFT_BRACE)
	case '}':
		return s.makeTok(token.RIGHT_BRACE)

	case '-':
		return s.makeTok(token.MINUS)
	case '+':
		return s.makeTok(token.PLUS)
	case '*':
		return s.makeTok(token.STAR)
	case '/':
		return s.makeTok(token.SLASH)
	case '%':
		return s.makeTok(token.PERCENT)

	case ',':
		return s.makeTok(token.COMMA)
	case '.':
		return s.makeTok(token.DOT)
	case ';':
		return s.makeTok(token.SEMICOLON)

	case '!':
		return s.makeTok(s.either('=', token.BANG_EQUAL, token.BANG))
	case '=':
		return s.makeTok(s.either('=', token.EQUAL_EQUAL, token.EQUAL))
	case '<':
		return s.makeTok(s.either('=', token.LESS_EQUAL, token.LESS))
	case '>':
		return s.makeTok(s.either('=', token.GREATER_EQUAL, token.GREATER))

	case '"':
		return s.do_string()
	}

	if isDigit(c) {
		return s.do_number()
	}

	if isIdentFirstChar(c) {
		return s.do_identifier()
	}

	if c >= utf8.RuneSelf {
		// The whole multi-byte character is one unexpected character.
		r, size := utf8.DecodeRuneInString(s.source[s.start:])
		s.current = s.start + size
		return s.errorTok(fmt.Sprintf("Unexpected character '%c'.", r))
	}

	return s.errorTok(fmt.Sprintf("Unexpected character '%c'.", c))
}

func (s *Scanner) do_string() token.Token {
	var b strings.Builder

	for !s.isAtEnd() {
		c := s.advance()

		switch c {
		case '"':
			tok := s.makeTok(token.STRING)
			tok.Literal = b.String()
			return tok

		case '\\':
			switch esc := s.advance(); esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"', '\\':
				b.WriteByte(esc)
			case EOF_CHAR:
				// Reported as unterminated below.
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}

		default:
			b.WriteByte(c)
		}
	}

	return s.errorTok("Unterminated string.")
}

func (s *Scanner) do_number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // Eat the '.'

		for isDigit(s.peek()) {
			s.advance()
		}
	}

	tok := s.makeTok(token.NUMBER)
	val, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		return s.errorTok(fmt.Sprintf("Invalid number (%v).", err.Error()))
	}

	tok.Literal = val
	return tok
}

func (s *Scanner) do_identifier() token.Token {
	for isIdentChar(s.peek()) {
		s.advance()
	}

	tok := s.makeTok(token.IDENTIFIER)
	tok.Kind = token.LookupIdent(tok.Lexeme)
	return tok
}

// Utility methods
// -----------------------------------------------

// Returns false along with an error token on an unterminated block comment.
func (s *Scanner) skipBlanksAndComments() (token.Token, bool) {
	for {
		s.skipBlanks()

		switch {
		case s.peek() == '/' && s.peekNext() == '/':
			for !s.isAtEnd() && s.peek() != '\n' {
				s.advance()
			}

		case s.peek() == '/' && s.peekNext() == '*':
			s.markStart()
			s.advance()
			s.advance()

			for !(s.peek() == '*' && s.peekNext() == '/') {
				if s.isAtEnd() {
					return s.errorTok("Unterminated block comment."), false
				}
				s.advance()
			}
			s.advance()
			s.advance()

		default:
			return token.Token{}, true
		}
	}
}

func (s *Scanner) skipBlanks() {
	for !s.isAtEnd() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			s.advance()
		default:
			return
		}
	}
}

// The message is carried by the token, the parser turns it into a
// lexical diagnostic.
func (s *Scanner) errorTok(message string) token.Token {
	err_tok := s.makeTok(token.INVALID)
	err_tok.Literal = message
	return err_tok
}

func (s *Scanner) markStart() {
	s.start = s.current
	s.startLine, s.startColumn = s.line, s.column
}

func (s *Scanner) makeTok(kind token.TokenKind) token.Token {
	return token.Token{
		Kind:   kind,
		Lexeme: s.source[s.start:s.current],
		Line:   s.startLine,
		Column: s.startColumn,
	}
}

// Scanner character matching and processing methods
// --------------------------------------------------------
func (s *Scanner) either(expected byte, matched, otherwise token.TokenKind) token.TokenKind {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) match(expected byte) bool {
	if !s.isAtEnd() && s.peek() == expected {
		s.advance()
		return true
	} else {
		return false
	}
}

func (s *Scanner) peekNext() byte {
	if s.current+1 < len(s.source) {
		return s.source[s.current+1]
	} else {
		return EOF_CHAR
	}
}

func (s *Scanner) peek() byte {
	if !s.isAtEnd() {
		return s.source[s.current]
	} else {
		return EOF_CHAR
	}
}

func (s *Scanner) advance() byte {
	if s.isAtEnd() {
		return EOF_CHAR
	}

	ret := s.source[s.current]
	s.current++
	if ret == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}

	return ret
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

// Character class functions
// --------------------------------------------------------
func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentChar(c byte) bool {
	return isIdentFirstChar(c) || isDigit(c)
}

func isIdentFirstChar(c byte) bool {
	return c == '_' ||
		'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z'
}
