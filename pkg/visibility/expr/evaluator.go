package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-saq/pkg/visibility"
)

// Evaluator is a small, dependency-free rule evaluator over questionnaire
// answers.
//
// Supported forms:
//   - answered checks: `colour`
//   - comparisons: `colour == "red"`, `colour != red`
//   - multi-choice membership: `topics has "cloud"`
//   - input state: `checked("saq-colour-red")`
//   - composition: `!a`, `a && b`, `a || b`, parentheses
//
// Compiled programs are cached per rule string.
type Evaluator struct {
	cache sync.Map
}

func New() *Evaluator { return &Evaluator{} }

var _ visibility.Evaluator = (*Evaluator)(nil)

func (e *Evaluator) Eval(blockID, rule string, ctx visibility.Context) (bool, error) {
	_ = blockID
	if cached, ok := e.cache.Load(rule); ok {
		return cached.(*Program).Eval(ctx), nil
	}
	prog, err := Compile(rule)
	if err != nil {
		return false, err
	}
	e.cache.Store(rule, prog)
	return prog.Eval(ctx), nil
}

// Program is a parsed rule. The zero Program always evaluates to true.
type Program struct {
	root node
}

// Compile parses rule. An empty rule compiles to an always-true program.
func Compile(rule string) (*Program, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return &Program{}, nil
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	stream := &tokenStream{tokens: tokens}
	root, err := parseOr(stream)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return &Program{root: root}, nil
}

// Eval runs the program against ctx.
func (p *Program) Eval(ctx visibility.Context) bool {
	if p == nil || p.root == nil {
		return true
	}
	return p.root.eval(ctx)
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenEq
	tokenNeq
	tokenHas
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	return isSpace(ch) || ch == '(' || ch == ')' || ch == '!' || ch == '=' || ch == '&' || ch == '|' || ch == '"' || ch == '\''
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		ch := input[i]
		switch {
		case isSpace(ch):
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokenLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokenRParen, raw: ")"})
			i++
		case ch == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{kind: tokenNeq, raw: "!="})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokenNot, raw: "!"})
			i++
		case ch == '=':
			if i+1 >= len(input) || input[i+1] != '=' {
				return nil, errors.New("visibility/expr: unexpected '='; use '=='")
			}
			tokens = append(tokens, token{kind: tokenEq, raw: "=="})
			i += 2
		case ch == '&':
			if i+1 >= len(input) || input[i+1] != '&' {
				return nil, errors.New("visibility/expr: unexpected '&'; use '&&'")
			}
			tokens = append(tokens, token{kind: tokenAnd, raw: "&&"})
			i += 2
		case ch == '|':
			if i+1 >= len(input) || input[i+1] != '|' {
				return nil, errors.New("visibility/expr: unexpected '|'; use '||'")
			}
			tokens = append(tokens, token{kind: tokenOr, raw: "||"})
			i += 2
		case ch == '"' || ch == '\'':
			end := strings.IndexByte(input[i+1:], ch)
			if end < 0 {
				return nil, errors.New("visibility/expr: unterminated string literal")
			}
			raw := input[i+1 : i+1+end]
			if ch == '"' {
				value, err := strconv.Unquote(`"` + raw + `"`)
				if err != nil {
					return nil, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
				}
				raw = value
			}
			tokens = append(tokens, token{kind: tokenString, raw: raw})
			i += end + 2
		default:
			start := i
			for i < len(input) && !isDelimiter(input[i]) {
				i++
			}
			word := input[start:i]
			if strings.EqualFold(word, "has") {
				tokens = append(tokens, token{kind: tokenHas, raw: "has"})
				continue
			}
			tokens = append(tokens, token{kind: tokenIdentifier, raw: word})
		}
	}
	return tokens, nil
}

type node interface {
	eval(ctx visibility.Context) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx visibility.Context) bool { return n.left.eval(ctx) || n.right.eval(ctx) }

type andNode struct{ left, right node }

func (n andNode) eval(ctx visibility.Context) bool { return n.left.eval(ctx) && n.right.eval(ctx) }

type notNode struct{ inner node }

func (n notNode) eval(ctx visibility.Context) bool { return !n.inner.eval(ctx) }

type compareNode struct {
	slug  string
	op    tokenKind
	value string
}

func (n compareNode) eval(ctx visibility.Context) bool {
	answer := ctx.Answers[n.slug]
	switch n.op {
	case tokenEq:
		return answer == n.value
	case tokenNeq:
		return answer != n.value
	case tokenHas:
		if answer == "" {
			return false
		}
		for _, item := range strings.Split(answer, ",") {
			if item == n.value {
				return true
			}
		}
		return false
	default:
		return false
	}
}

type answeredNode struct{ slug string }

func (n answeredNode) eval(ctx visibility.Context) bool { return ctx.Answers[n.slug] != "" }

type checkedNode struct{ input string }

func (n checkedNode) eval(ctx visibility.Context) bool {
	if ctx.Checked == nil {
		return false
	}
	return ctx.Checked(n.input)
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseOr(stream *tokenStream) (node, error) {
	left, err := parseAnd(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenOr) {
		right, err := parseAnd(stream)
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func parseAnd(stream *tokenStream) (node, error) {
	left, err := parseUnary(stream)
	if err != nil {
		return nil, err
	}
	for stream.match(tokenAnd) {
		right, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (node, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (node, error) {
	if stream.match(tokenLParen) {
		inner, err := parseOr(stream)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := stream.consume(tokenIdentifier)
	if !ok {
		if stream.pos >= len(stream.tokens) {
			return nil, errors.New("visibility/expr: empty expression")
		}
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", stream.tokens[stream.pos].raw)
	}

	if strings.EqualFold(ident.raw, "checked") && stream.match(tokenLParen) {
		arg, err := stream.consumeLiteral()
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')' after checked argument")
		}
		return checkedNode{input: arg}, nil
	}

	for _, op := range []tokenKind{tokenEq, tokenNeq, tokenHas} {
		if stream.match(op) {
			value, err := stream.consumeLiteral()
			if err != nil {
				return nil, err
			}
			return compareNode{slug: ident.raw, op: op, value: value}, nil
		}
	}

	return answeredNode{slug: ident.raw}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return false
	}
	s.pos++
	return true
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

// consumeLiteral accepts quoted strings and, to stay forgiving, bare
// identifiers such as answer slugs.
func (s *tokenStream) consumeLiteral() (string, error) {
	if s.pos >= len(s.tokens) {
		return "", errors.New("visibility/expr: missing literal")
	}
	tok := s.tokens[s.pos]
	if tok.kind != tokenString && tok.kind != tokenIdentifier {
		return "", fmt.Errorf("visibility/expr: expected literal, got %q", tok.raw)
	}
	s.pos++
	return tok.raw, nil
}
