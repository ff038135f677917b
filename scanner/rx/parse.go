package rx

import (
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"
)

// Notation selects the syntax of pattern strings.
type Notation int

const (
	// POSIXNotation is a POSIX-like syntax: literals, '.', character classes
	// […] and [^…], groups, '|', '*', '+', '?', escapes \n \t \r \f \v \xHH,
	// escaped metacharacters and the shorthand classes \d \w \s.
	POSIXNotation Notation = iota
	// LiteralNotation treats the whole pattern as a literal string.
	LiteralNotation
)

func (n Notation) String() string {
	if n == LiteralNotation {
		return "literal"
	}
	return "POSIX"
}

// PatternError is returned for malformed patterns.
type PatternError struct {
	Pattern string
	Offset  int // byte offset into Pattern
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("malformed pattern %q at offset %d: %s", e.Pattern, e.Offset, e.Reason)
}

// anyChar is the domain of '.' and negated classes, before it is narrowed to
// the repertoire of an encoding.
var anyChar = Range{Lo: 0, Hi: utf8.MaxRune}

// Parse parses a pattern string into a regular expression tree.
func Parse(pattern string, notation Notation) (RegExp, error) {
	if notation == LiteralNotation {
		return Literal{Text: pattern}, nil
	}
	p := &parser{pattern: pattern}
	re, err := p.alternation()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		if p.peek() == ')' {
			return nil, p.errorf("unbalanced ')'")
		}
		return nil, p.errorf("unexpected %q", p.peek())
	}
	tracer().Debugf("pattern %q parsed as %s", pattern, re)
	return re, nil
}

// MustParse is like Parse, but panics on error. Intended for static patterns.
func MustParse(pattern string) RegExp {
	re, err := Parse(pattern, POSIXNotation)
	if err != nil {
		panic(err)
	}
	return re
}

type parser struct {
	pattern string
	pos     int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.pattern)
}

func (p *parser) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.pattern[p.pos:])
	return r
}

func (p *parser) next() rune {
	r, sz := utf8.DecodeRuneInString(p.pattern[p.pos:])
	p.pos += sz
	return r
}

func (p *parser) errorf(format string, args ...interface{}) *PatternError {
	return &PatternError{
		Pattern: p.pattern,
		Offset:  p.pos,
		Reason:  fmt.Sprintf(format, args...),
	}
}

// alternation := concatenation ( '|' concatenation )*
func (p *parser) alternation() (RegExp, error) {
	left, err := p.concatenation()
	if err != nil {
		return nil, err
	}
	for !p.eof() && p.peek() == '|' {
		p.next()
		right, err := p.concatenation()
		if err != nil {
			return nil, err
		}
		left = Alternation{Left: left, Right: right}
	}
	return left, nil
}

// concatenation := repetition*
func (p *parser) concatenation() (RegExp, error) {
	var items []RegExp
	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		re, err := p.repetition()
		if err != nil {
			return nil, err
		}
		if lit, ok := re.(Literal); ok && len(items) > 0 {
			if prev, ok := items[len(items)-1].(Literal); ok {
				items[len(items)-1] = Literal{Text: prev.Text + lit.Text}
				continue
			}
		}
		items = append(items, re)
	}
	if len(items) == 0 {
		return Literal{}, nil
	}
	re := items[0]
	for _, item := range items[1:] {
		re = Concatenation{Left: re, Right: item}
	}
	return re, nil
}

// repetition := atom ( '*' | '+' | '?' )*
//
// A quantified literal is split so the quantifier binds to its last character only.
func (p *parser) repetition() (RegExp, error) {
	if !p.eof() && isQuantifier(p.peek()) {
		return nil, p.errorf("quantifier %q without operand", p.peek())
	}
	atom, err := p.atom()
	if err != nil {
		return nil, err
	}
	for !p.eof() && isQuantifier(p.peek()) {
		switch p.next() {
		case '*':
			atom = Repetition{Inner: atom}
		case '+':
			atom = PositiveRepetition{Inner: atom}
		case '?':
			atom = Optional{Inner: atom}
		}
	}
	return atom, nil
}

func isQuantifier(r rune) bool {
	return r == '*' || r == '+' || r == '?'
}

// atom := '(' alternation ')' | '[' class ']' | '.' | escape | char
func (p *parser) atom() (RegExp, error) {
	start := p.pos
	switch r := p.next(); r {
	case '(':
		re, err := p.alternation()
		if err != nil {
			return nil, err
		}
		if p.eof() || p.peek() != ')' {
			p.pos = start
			return nil, p.errorf("unbalanced '('")
		}
		p.next()
		return re, nil
	case '[':
		return p.class()
	case '.':
		return Complement{Excluded: []Range{{Lo: '\n', Hi: '\n'}}}, nil
	case '\\':
		ranges, err := p.escape()
		if err != nil {
			return nil, err
		}
		return union(ranges), nil
	case ']':
		return nil, p.errorf("unbalanced ']'")
	default:
		if r == utf8.RuneError {
			return nil, p.errorf("invalid UTF-8 in pattern")
		}
		return Literal{Text: string(r)}, nil
	}
}

// class parses the inside of a bracket expression, after the opening '['.
func (p *parser) class() (RegExp, error) {
	start := p.pos - 1
	negate := false
	if !p.eof() && p.peek() == '^' {
		negate = true
		p.next()
	}
	var ranges []Range
	first := true
	for {
		if p.eof() {
			p.pos = start
			return nil, p.errorf("unbalanced '['")
		}
		if p.peek() == ']' && !first {
			p.next()
			break
		}
		first = false
		lo, set, err := p.classChar()
		if err != nil {
			return nil, err
		}
		if set != nil {
			ranges = append(ranges, set...)
			continue
		}
		hi := lo
		if !p.eof() && p.peek() == '-' && p.pos+1 < len(p.pattern) && p.pattern[p.pos+1] != ']' {
			p.next()
			at := p.pos
			var hset []Range
			hi, hset, err = p.classChar()
			if err != nil {
				return nil, err
			}
			if hset != nil {
				p.pos = at
				return nil, p.errorf("class shorthand cannot bound a range")
			}
			if lo > hi {
				p.pos = at
				return nil, p.errorf("invalid range %q-%q", lo, hi)
			}
		}
		ranges = append(ranges, Range{Lo: lo, Hi: hi})
	}
	if negate {
		if len(complement(ranges)) == 0 {
			return nil, p.errorf("negated class matches nothing")
		}
		return Complement{Excluded: normalize(ranges)}, nil
	}
	return union(ranges), nil
}

// classChar reads a single class member: either a character or a shorthand
// class (returned as set).
func (p *parser) classChar() (rune, []Range, error) {
	r := p.next()
	if r != '\\' {
		return r, nil, nil
	}
	set, err := p.escape()
	if err != nil {
		return 0, nil, err
	}
	if len(set) == 1 && set[0].Lo == set[0].Hi {
		return set[0].Lo, nil, nil
	}
	return 0, set, nil
}

// escape parses an escape sequence after the backslash.
func (p *parser) escape() ([]Range, error) {
	if p.eof() {
		return nil, p.errorf("trailing backslash")
	}
	single := func(r rune) []Range { return []Range{{Lo: r, Hi: r}} }
	at := p.pos
	switch r := p.next(); r {
	case 'n':
		return single('\n'), nil
	case 't':
		return single('\t'), nil
	case 'r':
		return single('\r'), nil
	case 'f':
		return single('\f'), nil
	case 'v':
		return single('\v'), nil
	case 'd':
		return []Range{{Lo: '0', Hi: '9'}}, nil
	case 'w':
		return []Range{{Lo: '0', Hi: '9'}, {Lo: 'A', Hi: 'Z'}, {Lo: '_', Hi: '_'}, {Lo: 'a', Hi: 'z'}}, nil
	case 's':
		return []Range{{Lo: '\t', Hi: '\r'}, {Lo: ' ', Hi: ' '}}, nil
	case 'x':
		if p.pos+2 > len(p.pattern) {
			p.pos = at
			return nil, p.errorf("incomplete \\x escape")
		}
		v, err := strconv.ParseUint(p.pattern[p.pos:p.pos+2], 16, 8)
		if err != nil {
			p.pos = at
			return nil, p.errorf("malformed \\x escape")
		}
		p.pos += 2
		return single(rune(v)), nil
	default:
		if r < utf8.RuneSelf && (isMeta(r) || r == '/' || r == '"' || r == '\'') {
			return single(r), nil
		}
		p.pos = at
		return nil, p.errorf("unknown escape \\%c", r)
	}
}

func isMeta(r rune) bool {
	for _, m := range metachars {
		if r == m {
			return true
		}
	}
	return false
}

// complement returns the ranges of anyChar not covered by ranges.
func complement(ranges []Range) []Range {
	normalized := normalize(ranges)
	var r []Range
	lo := anyChar.Lo
	for _, rg := range normalized {
		if rg.Hi < lo {
			continue
		}
		if rg.Lo > anyChar.Hi {
			break
		}
		if rg.Lo > lo {
			r = append(r, Range{Lo: lo, Hi: rg.Lo - 1})
		}
		lo = rg.Hi + 1
	}
	if lo <= anyChar.Hi {
		r = append(r, Range{Lo: lo, Hi: anyChar.Hi})
	}
	return r
}

// normalize sorts ranges and merges overlapping or adjacent ones.
func normalize(ranges []Range) []Range {
	rs := append([]Range(nil), ranges...)
	sort.Slice(rs, func(i, j int) bool { return rs[i].Lo < rs[j].Lo })
	var r []Range
	for _, rg := range rs {
		if n := len(r); n > 0 && rg.Lo <= r[n-1].Hi+1 {
			if rg.Hi > r[n-1].Hi {
				r[n-1].Hi = rg.Hi
			}
			continue
		}
		r = append(r, rg)
	}
	return r
}

// union folds ranges into an alternation. Single characters become literals.
func union(ranges []Range) RegExp {
	var re RegExp
	for _, rg := range ranges {
		var x RegExp = rg
		if rg.Lo == rg.Hi {
			x = Literal{Text: string(rg.Lo)}
		}
		if re == nil {
			re = x
		} else {
			re = Alternation{Left: re, Right: x}
		}
	}
	return re
}
