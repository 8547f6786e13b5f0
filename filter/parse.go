package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/entrahub/scim/spec"
)

// Parse compiles a filter expression into its AST. It trims outer
// whitespace and fails with spec.ErrInvalidFilter if any unparsed remainder
// exists after a complete filter is read.
func Parse(input string) (*Expr, error) {
	trimmed := strings.TrimSpace(input)
	p := &parser{data: trimmed}

	p.skipSpace()
	expr, err := p.parseFilter()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.data) {
		return nil, p.errorf("unexpected trailing input")
	}
	return expr, nil
}

// parser holds a recursive-descent parser's lexing state over one filter
// string. Positions are byte offsets into data (already whitespace-trimmed).
type parser struct {
	data string
	pos  int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s at position %d in %q", spec.ErrInvalidFilter, msg, p.pos, p.data)
}

func (p *parser) eof() bool { return p.pos >= len(p.data) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.data[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.peek()) {
		p.pos++
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isPathByte(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '-' || b == '_' || b == '.' || b == ':' || b == '$'
}

// parseFilter implements FILTER = attrExp / logExp / valuePath / notExp / "(" FILTER ")",
// parsing a base expression and then greedily attaching "SP logOp SP FILTER" suffixes,
// recursing right, so that "a and b and c" parses as a and (b and c).
func (p *parser) parseFilter() (*Expr, error) {
	left, err := p.parseBase()
	if err != nil {
		return nil, err
	}
	return p.parseLogicalSuffix(left)
}

func (p *parser) parseLogicalSuffix(left *Expr) (*Expr, error) {
	save := p.pos
	p.skipSpace()

	op, ok := p.tryKeyword(LogAnd, LogOr)
	if !ok {
		p.pos = save
		return left, nil
	}

	if !p.eof() && !isSpace(p.peek()) {
		p.pos = save
		return left, nil
	}
	p.skipSpace()

	right, err := p.parseFilter()
	if err != nil {
		return nil, err
	}
	return &Expr{Kind: KindLogical, Left: left, LogOp: op, Right: right}, nil
}

// parseBase parses one of: "not" SP "(" FILTER ")", "(" FILTER ")" (pure grouping,
// never wrapped in a Not node), or an attrExp / valuePath rooted at an attribute path.
func (p *parser) parseBase() (*Expr, error) {
	if p.matchKeywordFollowedByOpenParen("not") {
		p.skipSpace()
		p.pos++ // consume "("
		p.skipSpace()
		inner, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eof() || p.peek() != ')' {
			return nil, p.errorf("expected closing parenthesis for not expression")
		}
		p.pos++
		return &Expr{Kind: KindNot, Inner: inner}, nil
	}

	if p.peek() == '(' {
		p.pos++
		p.skipSpace()
		inner, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eof() || p.peek() != ')' {
			return nil, p.errorf("expected closing parenthesis")
		}
		p.pos++
		return inner, nil
	}

	path, err := p.parseAttrPath()
	if err != nil {
		return nil, err
	}

	if !p.eof() && p.peek() == '[' {
		p.pos++
		p.skipSpace()
		inner, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eof() || p.peek() != ']' {
			return nil, p.errorf("expected closing bracket for value path")
		}
		p.pos++
		return &Expr{Kind: KindValuePath, Path: path, Inner: inner}, nil
	}

	return p.parseAttrExprTail(path)
}

// parseAttrExprTail parses the "pr" or "compareOp compValue" tail of an attrExp, given the
// attribute path already read.
func (p *parser) parseAttrExprTail(path Path) (*Expr, error) {
	save := p.pos
	p.skipSpace()
	if p.pos == save {
		return nil, p.errorf("expected whitespace before operator")
	}

	word := p.readWord()
	if word == "" {
		return nil, p.errorf("expected operator")
	}
	lower := strings.ToLower(word)

	if lower == "pr" {
		return &Expr{Kind: KindAttribute, Path: path, Present: true}, nil
	}

	switch lower {
	case OpEqual, OpNotEqual, OpContains, OpStartsWith, OpEndsWith, OpGreaterThan, OpLessThan, OpGreaterThanOrEqual, OpLessThanOrEqual:
	default:
		return nil, p.errorf("unrecognized operator %q", word)
	}

	save = p.pos
	p.skipSpace()
	if p.pos == save {
		return nil, p.errorf("expected whitespace before comparison value")
	}

	value, err := p.parseCompValue()
	if err != nil {
		return nil, err
	}

	return &Expr{Kind: KindAttribute, Path: path, Operator: lower, Value: value}, nil
}

// parseAttrPath parses attrPath = [URI ":"] ATTRNAME ["." SUBATTR], applying the
// last-colon heuristic to distinguish a URI qualifier from the attribute name.
func (p *parser) parseAttrPath() (Path, error) {
	start := p.pos
	for !p.eof() && isPathByte(p.peek()) {
		p.pos++
	}
	token := p.data[start:p.pos]
	if token == "" {
		return Path{}, p.errorf("expected attribute path")
	}
	return splitAttrPath(token, p)
}

func splitAttrPath(token string, p *parser) (Path, error) {
	var uri, rest string
	if idx := strings.LastIndexByte(token, ':'); idx >= 0 {
		uri, rest = token[:idx], token[idx+1:]
	} else {
		rest = token
	}

	attr := rest
	var subAttr string
	if dot := strings.IndexByte(rest, '.'); dot >= 0 {
		attr, subAttr = rest[:dot], rest[dot+1:]
	}

	if !validAttrName(attr) {
		return Path{}, p.errorf("invalid attribute name %q", attr)
	}
	if subAttr != "" && !validAttrName(subAttr) {
		return Path{}, p.errorf("invalid sub-attribute name %q", subAttr)
	}

	return Path{URI: uri, Attr: attr, SubAttr: subAttr}, nil
}

func validAttrName(s string) bool {
	if s == "" {
		return false
	}
	if s == "$ref" {
		return true
	}
	if !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		b := s[i]
		if !(isAlpha(b) || isDigit(b) || b == '-' || b == '_') {
			return false
		}
	}
	return true
}

// readWord reads a contiguous run of alphabetic characters, used for operator and logical keywords.
func (p *parser) readWord() string {
	start := p.pos
	for !p.eof() && isAlpha(p.peek()) {
		p.pos++
	}
	return p.data[start:p.pos]
}

// tryKeyword consumes one of the given case-insensitive keywords at the current
// position if present, returning the canonical (lowercased) keyword matched.
func (p *parser) tryKeyword(keywords ...string) (string, bool) {
	save := p.pos
	word := p.readWord()
	lower := strings.ToLower(word)
	for _, kw := range keywords {
		if lower == kw {
			return kw, true
		}
	}
	p.pos = save
	return "", false
}

// matchKeywordFollowedByOpenParen peeks for "<keyword> SP* (" without consuming
// input unless the match succeeds, so non-matches fall through to other parseBase cases.
func (p *parser) matchKeywordFollowedByOpenParen(keyword string) bool {
	save := p.pos
	word := p.readWord()
	if !strings.EqualFold(word, keyword) {
		p.pos = save
		return false
	}
	p.skipSpace()
	if p.eof() || p.peek() != '(' {
		p.pos = save
		return false
	}
	p.pos = save
	p.pos += len(word)
	return true
}

// parseCompValue parses a JSON scalar compValue: string, integer, decimal, boolean, or null.
func (p *parser) parseCompValue() (interface{}, error) {
	if p.eof() {
		return nil, p.errorf("expected comparison value")
	}

	var raw string
	if p.peek() == '"' {
		end, err := p.scanQuotedString()
		if err != nil {
			return nil, err
		}
		raw = p.data[p.pos:end]
		p.pos = end
	} else {
		start := p.pos
		for !p.eof() && !isSpace(p.peek()) && p.peek() != ')' && p.peek() != ']' {
			p.pos++
		}
		raw = p.data[start:p.pos]
		if raw == "" {
			return nil, p.errorf("expected comparison value")
		}
	}

	var value interface{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, p.errorf("invalid comparison value %q", raw)
	}
	return value, nil
}

// scanQuotedString returns the end offset (exclusive of the closing quote) of a
// double-quoted JSON string literal starting at p.pos, validating escape sequences.
func (p *parser) scanQuotedString() (int, error) {
	i := p.pos + 1
	for i < len(p.data) {
		switch p.data[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return i + 1, nil
		}
		i++
	}
	return 0, p.errorf("unterminated string literal")
}
