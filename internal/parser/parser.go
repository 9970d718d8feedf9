// Package parser builds the Expression/Invariant IR from a token stream
// per the invariant DSL grammar (lexer -> parser, precedence low to
// high: logical_or, logical_and, comparison, unary, primary).
package parser

import (
	"math/big"

	"github.com/Emmyhack/invar/internal/ast"
	"github.com/Emmyhack/invar/internal/config"
	"github.com/Emmyhack/invar/internal/lexer"
	"github.com/Emmyhack/invar/internal/token"
)

// minInt128/maxInt128 bound the literal syntax itself, matching the
// original's parse::<i128>() overflow check at parse time: -2^127 and
// 2^127-1. Type inference over an in-range literal (intLiteralType)
// narrows further into U64/U128/I64.
var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// checkIntLiteralRange rejects a decimal literal (magnitude text plus a
// separate sign) outside the 128-bit range, per spec: "Int literals
// outside 128-bit range are rejected by the parser".
func checkIntLiteralRange(text string, neg bool) error {
	mag, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return errf("invalid integer literal %q", text)
	}
	if neg {
		mag.Neg(mag)
	}
	if mag.Cmp(minInt128) < 0 || mag.Cmp(maxInt128) > 0 {
		return errf("integer literal %q outside 128-bit range", text)
	}
	return nil
}

// Parser consumes tokens from a Lexer one at a time, with one token of
// lookahead.
type Parser struct {
	l         *lexer.Lexer
	cur, peek token.Token
}

// New returns a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

// ParseFile parses one or more invariant_def blocks until EOF.
func ParseFile(input string) ([]ast.Invariant, error) {
	p := New(lexer.New(input))
	var out []ast.Invariant
	for p.cur.Type != token.EOF {
		inv, err := p.parseInvariantDef()
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if len(out) == 0 {
		return nil, errf("no invariant definitions found")
	}
	return out, nil
}

// ParseInvariant parses exactly one invariant_def from input.
func ParseInvariant(input string) (ast.Invariant, error) {
	p := New(lexer.New(input))
	return p.parseInvariantDef()
}

func (p *Parser) parseInvariantDef() (ast.Invariant, error) {
	if p.cur.Type != token.INVARIANT {
		return ast.Invariant{}, errf("expected 'invariant', got %q", p.cur.Lexeme)
	}
	p.next()

	if p.cur.Type != token.IDENT {
		return ast.Invariant{}, errf("expected invariant name, got %q", p.cur.Lexeme)
	}
	name := p.cur.Lexeme
	p.next()

	var layers []string
	if p.cur.Type == token.LPAREN {
		p.next()
		for {
			if p.cur.Type != token.IDENT || !config.IsLayer(p.cur.Lexeme) {
				return ast.Invariant{}, errf("expected layer name, got %q", p.cur.Lexeme)
			}
			layers = append(layers, p.cur.Lexeme)
			p.next()
			if p.cur.Type == token.COMMA {
				p.next()
				continue
			}
			break
		}
		if p.cur.Type != token.RPAREN {
			return ast.Invariant{}, errf("expected ')' after layer list, got %q", p.cur.Lexeme)
		}
		p.next()
	}

	if p.cur.Type != token.LBRACE {
		return ast.Invariant{}, errf("expected '{', got %q", p.cur.Lexeme)
	}
	p.next()

	if p.cur.Type == token.RBRACE {
		return ast.Invariant{}, errf("invariant %q has an empty body", name)
	}

	expr, err := p.parseExpr()
	if err != nil {
		return ast.Invariant{}, err
	}

	if p.cur.Type != token.RBRACE {
		return ast.Invariant{}, errf("expected '}', got %q", p.cur.Lexeme)
	}
	p.next()

	return ast.Invariant{
		Name:         name,
		Expression:   expr,
		Severity:     ast.SeverityMedium,
		Category:     "general",
		IsAlwaysTrue: true,
		Layers:       layers,
		Phases:       nil,
	}, nil
}

func (p *Parser) parseExpr() (ast.Expression, error) {
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.OR {
		p.next()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = ast.Logical{Left: left, Op: ast.OpOr, Right: right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.AND {
		p.next()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = ast.Logical{Left: left, Op: ast.OpAnd, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.BinaryOp
		switch p.cur.Type {
		case token.EQ:
			op = ast.OpEq
		case token.NEQ:
			op = ast.OpNeq
		case token.LTE:
			op = ast.OpLte
		case token.GTE:
			op = ast.OpGte
		case token.LT:
			op = ast.OpLt
		case token.GT:
			op = ast.OpGt
		default:
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.cur.Type == token.NOT {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Not{Expr: inner}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	if p.cur.Type == token.LPAREN {
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != token.RPAREN {
			return nil, errf("expected ')', got %q", p.cur.Lexeme)
		}
		p.next()
		return inner, nil
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() (ast.Expression, error) {
	switch p.cur.Type {
	case token.TRUE:
		p.next()
		return ast.Boolean{Value: true}, nil
	case token.FALSE:
		p.next()
		return ast.Boolean{Value: false}, nil
	case token.INT:
		lit := p.cur.Lexeme
		p.next()
		neg := len(lit) > 0 && lit[0] == '-'
		text := lit
		if neg {
			text = lit[1:]
		}
		if err := checkIntLiteralRange(text, neg); err != nil {
			return nil, err
		}
		return ast.Int{Text: text, Neg: neg}, nil
	case token.IDENT:
		return p.parseIdentLed()
	default:
		return nil, errf("unexpected token %q in expression", p.cur.Lexeme)
	}
}

// parseIdentLed handles the three atom forms that start with IDENT:
// function_call (IDENT followed by '('), a layer-qualified var_id
// (IDENT in the layer set followed by '::'), or a plain var_id.
func (p *Parser) parseIdentLed() (ast.Expression, error) {
	name := p.cur.Lexeme

	if p.peek.Type == token.LPAREN {
		p.next() // consume name
		p.next() // consume '('
		var args []ast.Expression
		if p.cur.Type != token.RPAREN {
			for {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.cur.Type == token.COMMA {
					p.next()
					continue
				}
				break
			}
		}
		if p.cur.Type != token.RPAREN {
			return nil, errf("expected ')' to close call to %q, got %q", name, p.cur.Lexeme)
		}
		p.next()
		return ast.FunctionCall{Name: name, Args: args}, nil
	}

	if config.IsLayer(name) && p.peek.Type == token.COLON {
		p.next() // consume layer name
		p.next() // consume '::'
		if p.cur.Type != token.IDENT {
			return nil, errf("expected identifier after '%s::', got %q", name, p.cur.Lexeme)
		}
		varName := p.cur.Lexeme
		p.next()
		return ast.LayerVar{Layer: name, Name: varName}, nil
	}

	p.next()
	return ast.Var{Name: name}, nil
}
