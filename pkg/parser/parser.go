// Package parser implements a recursive-descent/Pratt parser that turns a
// token stream into an ast.Program: two-token lookahead, a precedence
// table for binary operators, and an accumulated []string of
// "filename:line:col:message" errors rather than panicking on the first
// bad token.
package parser

import (
	"fmt"
	"strconv"

	"github.com/OliverRoss/mcc/pkg/ast"
	"github.com/OliverRoss/mcc/pkg/lexer"
	"github.com/OliverRoss/mcc/pkg/token"
)

const (
	precLowest = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMulti
	precUnary
)

var precedences = map[token.Type]int{
	token.OrOr:   precOr,
	token.AndAnd: precAnd,
	token.Eq:     precEquality,
	token.Ne:     precEquality,
	token.Lt:     precRelational,
	token.Gt:     precRelational,
	token.Le:     precRelational,
	token.Ge:     precRelational,
	token.Plus:   precAdditive,
	token.Minus:  precAdditive,
	token.Star:   precMulti,
	token.Slash:  precMulti,
}

var binaryOps = map[token.Type]ast.BinaryOp{
	token.Plus:   ast.OpAdd,
	token.Minus:  ast.OpSub,
	token.Star:   ast.OpMul,
	token.Slash:  ast.OpDiv,
	token.Lt:     ast.OpLt,
	token.Gt:     ast.OpGt,
	token.Le:     ast.OpLe,
	token.Ge:     ast.OpGe,
	token.Eq:     ast.OpEq,
	token.Ne:     ast.OpNe,
	token.AndAnd: ast.OpAnd,
	token.OrOr:   ast.OpOr,
}

var typeTokens = map[token.Type]ast.Type{
	token.Int_:    ast.TInt,
	token.Float_:  ast.TFloat,
	token.Bool_:   ast.TBool,
	token.String_: ast.TString,
	token.Void:    ast.TVoid,
}

// Parser parses a token stream into an AST.
type Parser struct {
	l         *lexer.Lexer
	filename  string
	curToken  token.Token
	peekToken token.Token
	errors    []string
}

// New creates a Parser over l, attributing diagnostics to filename.
func New(l *lexer.Lexer, filename string) *Parser {
	p := &Parser{l: l, filename: filename}
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns accumulated "filename:line:col:message" syntax errors.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{File: p.filename, Line: p.curToken.Line, Column: p.curToken.Column}
}

func (p *Parser) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("%s:%d:%d:%s", p.filename, p.curToken.Line, p.curToken.Column, msg))
}

func (p *Parser) expect(t token.Type) bool {
	if p.curToken.Type == t {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.curToken.Type)
	return false
}

// ParseProgram parses a full program: a sequence of function definitions.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{Pos: p.pos()}
	for p.curToken.Type != token.EOF {
		fn := p.parseFunctionDef()
		if fn == nil {
			p.nextToken()
			continue
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog
}

func (p *Parser) parseFunctionDef() *ast.FunctionDef {
	pos := p.pos()
	retType, ok := typeTokens[p.curToken.Type]
	if !ok {
		p.errorf("expected a type, got %s", p.curToken.Type)
		return nil
	}
	p.nextToken()

	if p.curToken.Type != token.Ident {
		p.errorf("expected function name, got %s", p.curToken.Type)
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(token.LParen) {
		return nil
	}
	var params []*ast.Param
	for p.curToken.Type != token.RParen && p.curToken.Type != token.EOF {
		if len(params) > 0 && !p.expect(token.Comma) {
			return nil
		}
		ppos := p.pos()
		ptype, ok := typeTokens[p.curToken.Type]
		if !ok {
			p.errorf("expected parameter type, got %s", p.curToken.Type)
			return nil
		}
		p.nextToken()
		if p.curToken.Type != token.Ident {
			p.errorf("expected parameter name, got %s", p.curToken.Type)
			return nil
		}
		params = append(params, &ast.Param{Name: p.curToken.Literal, Type: ptype, Pos: ppos})
		p.nextToken()
	}
	if !p.expect(token.RParen) {
		return nil
	}
	body := p.parseCompound()
	if body == nil {
		return nil
	}
	return &ast.FunctionDef{Name: name, ReturnType: retType, Params: params, Body: body, Pos: pos}
}

func (p *Parser) parseCompound() *ast.Compound {
	pos := p.pos()
	if !p.expect(token.LBrace) {
		return nil
	}
	c := &ast.Compound{Pos: pos}
	for p.curToken.Type != token.RBrace && p.curToken.Type != token.EOF {
		s := p.parseStatement()
		if s == nil {
			p.nextToken()
			continue
		}
		c.Stmts = append(c.Stmts, s)
	}
	p.expect(token.RBrace)
	return c
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.LBrace:
		return p.parseCompound()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.Return:
		return p.parseReturn()
	case token.Int_, token.Float_, token.Bool_, token.String_:
		return p.parseDecl()
	case token.Ident:
		if p.peekToken.Type == token.Assign || p.peekToken.Type == token.LBracket {
			return p.parseAssign()
		}
		return p.parseExprStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseDecl() ast.Stmt {
	pos := p.pos()
	elem := typeTokens[p.curToken.Type]
	p.nextToken()
	if p.curToken.Type != token.Ident {
		p.errorf("expected identifier, got %s", p.curToken.Type)
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()
	if p.curToken.Type == token.LBracket {
		p.nextToken()
		if p.curToken.Type != token.Int {
			p.errorf("expected array size, got %s", p.curToken.Type)
			return nil
		}
		size := parseIntLiteral(p.curToken.Literal)
		p.nextToken()
		if !p.expect(token.RBracket) {
			return nil
		}
		p.expect(token.Semicolon)
		return &ast.ArrayDecl{Name: name, Elem: elem, Size: size, Pos: pos}
	}
	p.expect(token.Semicolon)
	return &ast.VarDecl{Name: name, Type: elem, Pos: pos}
}

func (p *Parser) parseAssign() ast.Stmt {
	pos := p.pos()
	name := p.curToken.Literal
	p.nextToken()
	var index ast.Expr
	if p.curToken.Type == token.LBracket {
		p.nextToken()
		index = p.parseExpr(precLowest)
		p.expect(token.RBracket)
	}
	if !p.expect(token.Assign) {
		return nil
	}
	rhs := p.parseExpr(precLowest)
	p.expect(token.Semicolon)
	return &ast.Assign{Name: name, Index: index, RHS: rhs, Pos: pos}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.pos()
	p.nextToken()
	if !p.expect(token.LParen) {
		return nil
	}
	cond := p.parseExpr(precLowest)
	if !p.expect(token.RParen) {
		return nil
	}
	then := p.parseStatement()
	var els ast.Stmt
	if p.curToken.Type == token.Else {
		p.nextToken()
		els = p.parseStatement()
	}
	return &ast.If{Cond: cond, Then: then, Else: els, Pos: pos}
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.pos()
	p.nextToken()
	if !p.expect(token.LParen) {
		return nil
	}
	cond := p.parseExpr(precLowest)
	if !p.expect(token.RParen) {
		return nil
	}
	body := p.parseStatement()
	return &ast.While{Cond: cond, Body: body, Pos: pos}
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.pos()
	p.nextToken()
	if p.curToken.Type == token.Semicolon {
		p.nextToken()
		return &ast.Return{Pos: pos}
	}
	val := p.parseExpr(precLowest)
	p.expect(token.Semicolon)
	return &ast.Return{Expr: val, Pos: pos}
}

func (p *Parser) parseExprStmt() ast.Stmt {
	pos := p.pos()
	e := p.parseExpr(precLowest)
	p.expect(token.Semicolon)
	return &ast.ExprStmt{Expr: e, Pos: pos}
}

func (p *Parser) parseExpr(prec int) ast.Expr {
	left := p.parseUnary()
	for p.curToken.Type != token.Semicolon && prec < precedences[p.curToken.Type] {
		opTok := p.curToken
		op, ok := binaryOps[opTok.Type]
		if !ok {
			break
		}
		opPrec := precedences[opTok.Type]
		p.nextToken()
		right := p.parseExpr(opPrec)
		left = &ast.Binary{Op: op, Left: left, Right: right, Pos: ast.Pos{File: p.filename, Line: opTok.Line, Column: opTok.Column}}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	pos := p.pos()
	switch p.curToken.Type {
	case token.Minus:
		p.nextToken()
		return &ast.Unary{Op: ast.OpNeg, Child: p.parseUnary(), Pos: pos}
	case token.Not:
		p.nextToken()
		return &ast.Unary{Op: ast.OpNot, Child: p.parseUnary(), Pos: pos}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	pos := p.pos()
	switch p.curToken.Type {
	case token.Int:
		v := parseIntLiteral(p.curToken.Literal)
		p.nextToken()
		return &ast.IntLit{Value: v, Pos: pos}
	case token.Float:
		v := parseFloatLiteral(p.curToken.Literal)
		p.nextToken()
		return &ast.FloatLit{Value: v, Pos: pos}
	case token.True:
		p.nextToken()
		return &ast.BoolLit{Value: true, Pos: pos}
	case token.False:
		p.nextToken()
		return &ast.BoolLit{Value: false, Pos: pos}
	case token.String:
		v := p.curToken.Literal
		if s, err := strconv.Unquote(`"` + v + `"`); err == nil {
			v = s
		}
		p.nextToken()
		return &ast.StringLit{Value: v, Pos: pos}
	case token.LParen:
		p.nextToken()
		e := p.parseExpr(precLowest)
		p.expect(token.RParen)
		return &ast.Paren{Expr: e, Pos: pos}
	case token.Ident:
		name := p.curToken.Literal
		p.nextToken()
		switch p.curToken.Type {
		case token.LParen:
			p.nextToken()
			var args []ast.Expr
			for p.curToken.Type != token.RParen && p.curToken.Type != token.EOF {
				if len(args) > 0 && !p.expect(token.Comma) {
					break
				}
				args = append(args, p.parseExpr(precLowest))
			}
			p.expect(token.RParen)
			return &ast.Call{Name: name, Args: args, Pos: pos}
		case token.LBracket:
			p.nextToken()
			idx := p.parseExpr(precLowest)
			p.expect(token.RBracket)
			return &ast.ArrayElem{Name: name, Index: idx, Pos: pos}
		default:
			return &ast.Variable{Name: name, Pos: pos}
		}
	default:
		p.errorf("unexpected token %s", p.curToken.Type)
		p.nextToken()
		return &ast.IntLit{Value: 0, Pos: pos}
	}
}

func parseIntLiteral(s string) int64 {
	var v int64
	for _, c := range s {
		v = v*10 + int64(c-'0')
	}
	return v
}

func parseFloatLiteral(s string) float64 {
	var intPart, fracPart int64
	var fracDigits int
	seenDot := false
	for _, c := range s {
		if c == '.' {
			seenDot = true
			continue
		}
		if seenDot {
			fracPart = fracPart*10 + int64(c-'0')
			fracDigits++
		} else {
			intPart = intPart*10 + int64(c-'0')
		}
	}
	result := float64(intPart)
	if fracDigits > 0 {
		div := 1.0
		for i := 0; i < fracDigits; i++ {
			div *= 10
		}
		result += float64(fracPart) / div
	}
	return result
}
