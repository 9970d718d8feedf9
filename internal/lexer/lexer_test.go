package lexer

import (
	"testing"

	"github.com/Emmyhack/invar/internal/token"
)

func TestNextTokenBasic(t *testing.T) {
	input := `invariant BalancePositive { account::balance >= 0 && total_supply != -1 }`

	tests := []struct {
		expectedType   token.Type
		expectedLexeme string
	}{
		{token.INVARIANT, "invariant"},
		{token.IDENT, "BalancePositive"},
		{token.LBRACE, "{"},
		{token.IDENT, "account"},
		{token.COLON, "::"},
		{token.IDENT, "balance"},
		{token.GTE, ">="},
		{token.INT, "0"},
		{token.AND, "&&"},
		{token.IDENT, "total_supply"},
		{token.NEQ, "!="},
		{token.INT, "-1"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("test[%d] - wrong type. expected=%s, got=%s (lexeme %q)", i, tt.expectedType, tok.Type, tok.Lexeme)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("test[%d] - wrong lexeme. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestLongestMatchComparisons(t *testing.T) {
	cases := []struct {
		in   string
		want token.Type
	}{
		{"<=", token.LTE},
		{"<", token.LT},
		{">=", token.GTE},
		{">", token.GT},
		{"==", token.EQ},
		{"!=", token.NEQ},
	}
	for _, c := range cases {
		l := New(c.in)
		tok := l.NextToken()
		if tok.Type != c.want {
			t.Errorf("input %q: got %s, want %s", c.in, tok.Type, c.want)
		}
	}
}

func TestFunctionCallTokens(t *testing.T) {
	l := New("sum(balance, fee)")
	want := []token.Type{token.IDENT, token.LPAREN, token.IDENT, token.COMMA, token.IDENT, token.RPAREN, token.EOF}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, w)
		}
	}
}
