// Copyright 2020 The Prometheus Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package lexer is the hand-rolled grammar driver spec.md deliberately
// scopes out of the core (§1: "the lexer/grammar driver ... we specify only
// the builder contracts it consumes"). It tokenizes a PromQL source string
// and drives the ast package's builder API bottom-up, exactly as an
// external table-driven LR parser would, then runs ast.CheckAST once at the
// root (spec.md §2 control flow).
package lexer

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/prometheus/model/labels"

	"github.com/prometheus-community/promql-ast/ast"
	"github.com/prometheus-community/promql-ast/functions"
	"github.com/prometheus-community/promql-ast/token"
)

// Parse tokenizes and parses source into a validated expression tree, or
// returns an error describing why the input was rejected: a *ParseError for
// scanner and syntax errors and for a root-level CheckAST rejection, and the
// ast builder's own error, unwrapped, when a builder refuses a node. This is the
// library's entry point (spec.md §6, "parse(source) -> Result<Expr, String>").
func Parse(source string, opts ...Option) (ast.Expr, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(&o)
	}

	start := time.Now()

	expr, err := parseUnchecked(source, o)
	if err != nil {
		o.recorder.Observe(start, false)
		return nil, err
	}

	checked, err := ast.CheckAST(expr)
	if err != nil {
		o.recorder.Observe(start, false)
		return nil, &ParseError{Pos: len(source), Err: err}
	}

	o.recorder.Observe(start, true)
	return checked, nil
}

func parseUnchecked(source string, o options) (ast.Expr, error) {
	toks, err := newScanner(source).tokenize()
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks, catalog: o.catalog, maxDepth: o.maxDepth}
	expr, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if !p.cur().is(tokEOF) {
		return nil, &ParseError{Pos: p.cur().pos, Msg: "unexpected trailing input"}
	}
	return expr, nil
}

type parser struct {
	toks     []tok
	pos      int
	catalog  functions.Catalog
	maxDepth int
	depth    int
}

func (p *parser) cur() tok {
	if p.pos >= len(p.toks) {
		return tok{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) tok {
	i := p.pos + n
	if i >= len(p.toks) {
		return tok{kind: tokEOF}
	}
	return p.toks[i]
}

func (p *parser) advance() tok {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) curIsIdent(s string) bool {
	t := p.cur()
	return t.kind == tokIdent && t.text == s
}

func (p *parser) errUnexpected(want string) error {
	return &ParseError{Pos: p.cur().pos, Msg: fmt.Sprintf("expected %s", want)}
}

var precedence = map[token.Type]int{
	token.LOR:     1,
	token.LAND:    2,
	token.LUNLESS: 2,
	token.EQL:     3,
	token.NEQ:     3,
	token.GTR:     3,
	token.LSS:     3,
	token.GTE:     3,
	token.LTE:     3,
	token.ADD:     4,
	token.SUB:     4,
	token.MUL:     5,
	token.DIV:     5,
	token.MOD:     5,
	token.POW:     6,
}

var rightAssoc = map[token.Type]bool{token.POW: true}

var symbolOps = map[kind]token.Type{
	tokAdd: token.ADD, tokSub: token.SUB, tokMul: token.MUL,
	tokDiv: token.DIV, tokMod: token.MOD, tokPow: token.POW,
	tokEQL: token.EQL, tokNEQ: token.NEQ, tokGTR: token.GTR,
	tokLSS: token.LSS, tokGTE: token.GTE, tokLTE: token.LTE,
}

func (p *parser) peekBinaryOp() (token.Type, bool) {
	t := p.cur()
	if opType, ok := symbolOps[t.kind]; ok {
		return opType, true
	}
	if t.kind == tokIdent {
		if opType, ok := token.Lookup(t.text); ok && opType.IsSetOperator() {
			return opType, true
		}
	}
	return 0, false
}

// parseExpr implements operator-precedence (Pratt-style) parsing: parse a
// unary operand, then repeatedly consume binary operators whose precedence
// is at least minPrec, parsing the right operand with that operator's
// precedence+1 (left-associative) or its precedence (right-associative,
// only `^`) as the new minimum.
func (p *parser) parseExpr(minPrec int) (ast.Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return nil, &ParseError{Pos: p.cur().pos, Msg: "expression nesting too deep"}
	}

	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		opType, ok := p.peekBinaryOp()
		if !ok {
			break
		}
		prec := precedence[opType]
		if prec < minPrec {
			break
		}
		p.advance()

		modifier, err := p.parseBinModifier()
		if err != nil {
			return nil, err
		}

		nextMin := prec + 1
		if rightAssoc[opType] {
			nextMin = prec
		}
		rhs, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}

		lhs = ast.NewBinaryExpr(lhs, opType, modifier, rhs)
	}

	return lhs, nil
}

func (p *parser) parseUnary() (ast.Expr, error) {
	switch {
	case p.cur().is(tokSub):
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(operand)
	case p.cur().is(tokAdd):
		p.advance()
		return p.parseUnary()
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles the modifiers that can trail a selector, matrix
// selector, or subquery: a `[range]`/`[range:step]` suffix, `offset`, and
// `@`, in any order and repetition — ast.OffsetExpr/ast.AtExpr enforce the
// set-once invariant and reject the wrong node kinds (spec.md §4.1).
func (p *parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.cur().is(tokLBracket):
			expr, err = p.parseRangeOrSubquery(expr)
		case p.curIsIdent("offset"):
			expr, err = p.parseOffset(expr)
		case p.cur().is(tokAt):
			expr, err = p.parseAt(expr)
		default:
			return expr, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	t := p.cur()
	switch t.kind {
	case tokNumber:
		p.advance()
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, &ParseError{Pos: t.pos, Msg: "invalid number literal '" + t.text + "'"}
		}
		return &ast.NumberLiteral{Val: v}, nil

	case tokString:
		p.advance()
		return &ast.StringLiteral{Val: t.text}, nil

	case tokLParen:
		p.advance()
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if !p.cur().is(tokRParen) {
			return nil, p.errUnexpected("')'")
		}
		p.advance()
		return ast.NewParenExpr(inner), nil

	case tokLBrace:
		matchers, err := p.parseMatchers()
		if err != nil {
			return nil, err
		}
		return ast.NewVectorSelector(nil, matchers), nil

	case tokIdent:
		return p.parseIdentPrimary()

	default:
		return nil, &ParseError{Pos: t.pos, Msg: "unexpected token"}
	}
}

func (p *parser) parseIdentPrimary() (ast.Expr, error) {
	t := p.cur()
	name := t.text

	if opType, ok := token.Lookup(name); ok && opType.IsAggregator() {
		p.advance()
		return p.parseAggregateExpr(opType)
	}

	if fn, ok := p.catalog.Lookup(name); ok && p.peekAt(1).is(tokLParen) {
		p.advance()
		return p.parseCallExpr(fn)
	}

	p.advance()
	vs := ast.VectorSelectorForName(name)
	if p.cur().is(tokLBrace) {
		extra, err := p.parseMatchers()
		if err != nil {
			return nil, err
		}
		vs.Matchers = append(vs.Matchers, extra...)
	}
	return vs, nil
}

func (p *parser) parseCallExpr(fn *functions.Function) (ast.Expr, error) {
	p.advance() // '('
	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	if !p.cur().is(tokRParen) {
		return nil, p.errUnexpected("')'")
	}
	p.advance()
	return ast.NewCall(fn, args), nil
}

func (p *parser) parseAggregateExpr(opType token.Type) (ast.Expr, error) {
	var modifier *ast.LabelModifier
	var err error

	if p.curIsIdent("by") || p.curIsIdent("without") {
		modifier, err = p.parseAggModifier()
		if err != nil {
			return nil, err
		}
	}

	if !p.cur().is(tokLParen) {
		return nil, p.errUnexpected("'(' in aggregation expression")
	}
	p.advance()

	args, err := p.parseArgList()
	if err != nil {
		return nil, err
	}
	if !p.cur().is(tokRParen) {
		return nil, p.errUnexpected("')'")
	}
	p.advance()

	if modifier == nil && (p.curIsIdent("by") || p.curIsIdent("without")) {
		modifier, err = p.parseAggModifier()
		if err != nil {
			return nil, err
		}
	}

	return ast.NewAggregateExpr(opType, modifier, args)
}

func (p *parser) parseAggModifier() (*ast.LabelModifier, error) {
	kindWord := p.cur().text
	p.advance()
	labelSet, err := p.parseLabelNameList()
	if err != nil {
		return nil, err
	}
	if kindWord == "by" {
		return ast.NewIncludeModifier(labelSet), nil
	}
	return ast.NewExcludeModifier(labelSet), nil
}

func (p *parser) parseBinModifier() (*ast.BinModifier, error) {
	var mod ast.BinModifier
	mod.Card = ast.VectorMatchCardinality{Kind: ast.OneToOne}
	present := false

	if p.curIsIdent("bool") {
		p.advance()
		mod.ReturnBool = true
		present = true
	}

	if p.curIsIdent("on") || p.curIsIdent("ignoring") {
		kindWord := p.cur().text
		p.advance()
		labelSet, err := p.parseLabelNameList()
		if err != nil {
			return nil, err
		}
		if kindWord == "on" {
			mod.Matching = ast.NewIncludeModifier(labelSet)
		} else {
			mod.Matching = ast.NewExcludeModifier(labelSet)
		}
		present = true
	}

	if p.curIsIdent("group_left") || p.curIsIdent("group_right") {
		kindWord := p.cur().text
		p.advance()
		labelSet := ast.NewLabelSet()
		if p.cur().is(tokLParen) {
			var err error
			labelSet, err = p.parseLabelNameList()
			if err != nil {
				return nil, err
			}
		}
		cardKind := ast.ManyToOne
		if kindWord == "group_right" {
			cardKind = ast.OneToMany
		}
		mod.Card = ast.VectorMatchCardinality{Kind: cardKind, Labels: labelSet}
		present = true
	}

	if !present {
		return nil, nil
	}
	return &mod, nil
}

func (p *parser) parseArgList() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.cur().is(tokRParen) {
		return args, nil
	}
	for {
		arg, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().is(tokComma) {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

func (p *parser) parseLabelNameList() (ast.LabelSet, error) {
	if !p.cur().is(tokLParen) {
		return nil, p.errUnexpected("'('")
	}
	p.advance()

	var names []string
	for !p.cur().is(tokRParen) {
		if !p.cur().is(tokIdent) {
			return nil, p.errUnexpected("label name")
		}
		names = append(names, p.cur().text)
		p.advance()
		if p.cur().is(tokComma) {
			p.advance()
			continue
		}
		break
	}
	if !p.cur().is(tokRParen) {
		return nil, p.errUnexpected("')'")
	}
	p.advance()
	return ast.NewLabelSet(names...), nil
}

var matchTypeOf = map[kind]labels.MatchType{
	tokMatchEqual:     labels.MatchEqual,
	tokNEQ:            labels.MatchNotEqual,
	tokMatchRegexp:    labels.MatchRegexp,
	tokMatchNotRegexp: labels.MatchNotRegexp,
}

func (p *parser) parseMatchers() (ast.Matchers, error) {
	p.advance() // '{'
	var out ast.Matchers

	for !p.cur().is(tokRBrace) {
		if !p.cur().is(tokIdent) {
			return nil, p.errUnexpected("label name")
		}
		labelName := p.cur().text
		p.advance()

		mt, ok := matchTypeOf[p.cur().kind]
		if !ok {
			return nil, p.errUnexpected("'=', '!=', '=~' or '!~'")
		}
		p.advance()

		if !p.cur().is(tokString) {
			return nil, p.errUnexpected("label value string")
		}
		value := p.cur().text
		p.advance()

		m, err := labels.NewMatcher(mt, labelName, value)
		if err != nil {
			return nil, &ParseError{Pos: p.cur().pos, Err: err}
		}
		out = append(out, m)

		if p.cur().is(tokComma) {
			p.advance()
			continue
		}
		break
	}

	if !p.cur().is(tokRBrace) {
		return nil, p.errUnexpected("'}'")
	}
	p.advance()
	return out, nil
}

func (p *parser) parseRangeOrSubquery(expr ast.Expr) (ast.Expr, error) {
	p.advance() // '['
	if !p.cur().is(tokDuration) {
		return nil, p.errUnexpected("duration")
	}
	rangeDur, err := parseDurationText(p.cur().text)
	if err != nil {
		return nil, &ParseError{Pos: p.cur().pos, Err: err}
	}
	p.advance()

	if p.cur().is(tokColon) {
		p.advance()
		var step *time.Duration
		if p.cur().is(tokDuration) {
			d, err := parseDurationText(p.cur().text)
			if err != nil {
				return nil, &ParseError{Pos: p.cur().pos, Err: err}
			}
			p.advance()
			step = &d
		}
		if !p.cur().is(tokRBracket) {
			return nil, p.errUnexpected("']'")
		}
		p.advance()
		return ast.NewSubqueryExpr(expr, rangeDur, step), nil
	}

	if !p.cur().is(tokRBracket) {
		return nil, p.errUnexpected("']'")
	}
	p.advance()

	ms, err := ast.NewMatrixSelector(expr, rangeDur)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func (p *parser) parseOffset(expr ast.Expr) (ast.Expr, error) {
	p.advance() // 'offset'
	neg := false
	if p.cur().is(tokSub) {
		neg = true
		p.advance()
	}
	if !p.cur().is(tokDuration) {
		return nil, p.errUnexpected("duration")
	}
	d, err := parseDurationText(p.cur().text)
	if err != nil {
		return nil, &ParseError{Pos: p.cur().pos, Err: err}
	}
	p.advance()

	kind := ast.Pos
	if neg {
		kind = ast.Neg
	}
	return ast.OffsetExpr(expr, ast.Offset{Kind: kind, Duration: d})
}

func (p *parser) parseAt(expr ast.Expr) (ast.Expr, error) {
	p.advance() // '@'

	if p.curIsIdent("start") || p.curIsIdent("end") {
		name := p.cur().text
		p.advance()
		if !p.cur().is(tokLParen) {
			return nil, p.errUnexpected("'('")
		}
		p.advance()
		if !p.cur().is(tokRParen) {
			return nil, p.errUnexpected("')'")
		}
		p.advance()

		tt := token.START
		if name == "end" {
			tt = token.END
		}
		at, err := ast.NewAtModifierFromToken(tt)
		if err != nil {
			return nil, err
		}
		return ast.AtExpr(expr, at)
	}

	neg := false
	if p.cur().is(tokSub) {
		neg = true
		p.advance()
	}
	if !p.cur().is(tokNumber) {
		return nil, p.errUnexpected("timestamp")
	}
	v, err := strconv.ParseFloat(p.cur().text, 64)
	if err != nil {
		return nil, &ParseError{Pos: p.cur().pos, Msg: "invalid @ timestamp literal"}
	}
	p.advance()
	if neg {
		v = -v
	}

	at, err := ast.NewAtModifierFromSeconds(v)
	if err != nil {
		return nil, err
	}
	return ast.AtExpr(expr, at)
}

var durationUnitMultiplier = map[string]time.Duration{
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  24 * time.Hour,
	"w":  7 * 24 * time.Hour,
	"y":  365 * 24 * time.Hour,
}

// parseDurationText parses a PromQL duration literal like "5m" or "1h30m"
// into a time.Duration by summing its <digits><unit> components.
func parseDurationText(text string) (time.Duration, error) {
	var total time.Duration
	i := 0
	for i < len(text) {
		j := i
		for j < len(text) && (text[j] >= '0' && text[j] <= '9' || text[j] == '.') {
			j++
		}
		if j == i {
			return 0, fmt.Errorf("invalid duration %q", text)
		}
		numStr := text[i:j]

		k := j
		for k < len(text) && !(text[k] >= '0' && text[k] <= '9') {
			k++
		}
		unit := text[j:k]

		n, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", text)
		}
		mult, ok := durationUnitMultiplier[unit]
		if !ok {
			return 0, fmt.Errorf("unknown duration unit %q in %q", unit, text)
		}
		total += time.Duration(n * float64(mult))
		i = k
	}
	return total, nil
}
