package rx

// Seq concatenates expressions from left to right. Seq() matches the empty word.
func Seq(items ...RegExp) RegExp {
	if len(items) == 0 {
		return Literal{}
	}
	re := items[0]
	for _, item := range items[1:] {
		re = Concatenation{Left: re, Right: item}
	}
	return re
}

// Or builds a left-leaning alternation of its arguments.
func Or(first RegExp, rest ...RegExp) RegExp {
	re := first
	for _, item := range rest {
		re = Alternation{Left: re, Right: item}
	}
	return re
}

// Star is a shortcut for Repetition.
func Star(re RegExp) RegExp { return Repetition{Inner: re} }

// Plus is a shortcut for PositiveRepetition.
func Plus(re RegExp) RegExp { return PositiveRepetition{Inner: re} }

// Maybe is a shortcut for Optional.
func Maybe(re RegExp) RegExp { return Optional{Inner: re} }

// Lit is a shortcut for Literal.
func Lit(s string) RegExp { return Literal{Text: s} }

// Chars is a shortcut for Range.
func Chars(lo, hi rune) RegExp { return Range{Lo: lo, Hi: hi} }

// Except matches any single character not in one of the ranges.
func Except(ranges ...Range) RegExp { return Complement{Excluded: ranges} }

// AnyChar matches any single character except newline, like '.'.
func AnyChar() RegExp { return Except(Range{Lo: '\n', Hi: '\n'}) }

// Number matches unsigned decimal integers.
func Number() RegExp {
	return Plus(Chars('0', '9'))
}

// Identifier matches identifiers made of ASCII letters, digits and '_',
// not starting with a digit.
func Identifier() RegExp {
	letter := Or(Chars('a', 'z'), Chars('A', 'Z'), Lit("_"))
	return Seq(letter, Star(Or(letter, Chars('0', '9'))))
}

// Whitespace matches a non-empty run of blanks, tabs and line breaks.
func Whitespace() RegExp {
	return Plus(Or(Lit(" "), Lit("\t"), Lit("\n"), Lit("\r")))
}
