package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treelox/token"
)

func kindsOf(toks []token.Token) []token.TokenKind {
	kinds := make([]token.TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	return kinds
}

func TestScannerOperators(t *testing.T) {
	scn := MakeScanner("( ) { } , . - + ; / * % ! != = == > >= < <=")

	assert.Equal(t, []token.TokenKind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON,
		token.SLASH, token.STAR, token.PERCENT,
		token.BANG, token.BANG_EQUAL, token.EQUAL, token.EQUAL_EQUAL,
		token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL,
		token.END_OF_FILE,
	}, kindsOf(scn.Tokens()))
}

func TestScannerLiterals(t *testing.T) {
	scn := MakeScanner(`var answer = 42.5; "a\tb\n" nil while_ 12.`)
	toks := scn.Tokens()

	require.Equal(t, []token.TokenKind{
		token.VAR, token.IDENTIFIER, token.EQUAL, token.NUMBER, token.SEMICOLON,
		token.STRING, token.NIL, token.IDENTIFIER, token.NUMBER, token.DOT,
		token.END_OF_FILE,
	}, kindsOf(toks))

	assert.Equal(t, "answer", toks[1].Lexeme)
	assert.Equal(t, 42.5, toks[3].Literal)
	assert.Equal(t, "a\tb\n", toks[5].Literal)
	assert.Equal(t, "while_", toks[7].Lexeme)
	assert.Equal(t, 12.0, toks[8].Literal)
}

func TestScannerPositions(t *testing.T) {
	scn := MakeScanner("var x;\n  print x; // trailing\n/* multi\nline */ x")
	toks := scn.Tokens()

	require.Len(t, toks, 8)
	assert.Equal(t, []int{1, 1}, []int{toks[0].Line, toks[0].Column})
	assert.Equal(t, []int{1, 5}, []int{toks[1].Line, toks[1].Column})
	assert.Equal(t, []int{2, 3}, []int{toks[3].Line, toks[3].Column})
	assert.Equal(t, []int{4, 9}, []int{toks[6].Line, toks[6].Column})
	assert.Equal(t, token.END_OF_FILE, toks[7].Kind)
}

func TestScannerErrors(t *testing.T) {
	tests := []struct {
		source  string
		message string
	}{
		{`"abc`, "Unterminated string."},
		{"/* never closed", "Unterminated block comment."},
		{"@", "Unexpected character '@'."},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			scn := MakeScanner(tt.source)
			tok := scn.NextToken()

			assert.Equal(t, token.INVALID, tok.Kind)
			assert.Equal(t, tt.message, tok.Literal)
		})
	}
}

func TestScannerMultiByteCharacter(t *testing.T) {
	scn := MakeScanner("print é;")
	toks := scn.Tokens()

	require.Equal(t,
		[]token.TokenKind{token.PRINT, token.INVALID, token.SEMICOLON, token.END_OF_FILE},
		kindsOf(toks))
	assert.Equal(t, "Unexpected character 'é'.", toks[1].Literal)
	assert.Equal(t, "é", toks[1].Lexeme)
	assert.Equal(t, 7, toks[1].Column)
	assert.Equal(t, 8, toks[2].Column)
}

func TestScannerReset(t *testing.T) {
	scn := MakeScanner("a b")
	first := scn.Tokens()

	scn.Reset()
	assert.Equal(t, first, scn.Tokens())
}
