package rx

import (
	"fmt"
	"unicode/utf8"

	"github.com/onirtuen/scopus/scanner/automata"
)

// byteRange is an inclusive range of byte values at one position of an
// encoded character.
type byteRange struct {
	lo, hi byte
}

// paths adds byte sequences to an NFA fragment. Sequences with a common
// prefix share the states of the prefix; the last byte of a sequence leads
// into the terminator.
type paths struct {
	fa    *automata.FiniteAutomata
	nodes map[string]*automata.State // prefix key -> state
}

func newPaths(fa *automata.FiniteAutomata) *paths {
	return &paths{fa: fa, nodes: make(map[string]*automata.State)}
}

// add adds the path of a single encoded character.
func (p *paths) add(bytes []byte) {
	seq := make([]byteRange, len(bytes))
	for i, b := range bytes {
		seq[i] = byteRange{b, b}
	}
	p.addSequence(seq)
}

func (p *paths) addSequence(seq []byteRange) {
	state := p.fa.Start
	key := make([]byte, 0, 2*len(seq))
	for _, br := range seq[:len(seq)-1] {
		key = append(key, br.lo, br.hi)
		next, ok := p.nodes[string(key)]
		if !ok {
			next = automata.NewState(fmt.Sprintf("range:%d", br.lo))
			for b := int(br.lo); b <= int(br.hi); b++ {
				state.AddTransitionTo(next, automata.Byte(byte(b)))
			}
			p.nodes[string(key)] = next
		}
		state = next
	}
	last := seq[len(seq)-1]
	for b := int(last.lo); b <= int(last.hi); b++ {
		state.AddTransitionTo(p.fa.Terminator, automata.Byte(byte(b)))
	}
}

// addUTF8 adds the UTF-8 encodings of all characters in [lo…hi]. Surrogates
// are skipped.
func (p *paths) addUTF8(lo, hi rune) {
	if lo < 0 {
		lo = 0
	}
	if hi > utf8.MaxRune {
		hi = utf8.MaxRune
	}
	if lo > hi {
		return
	}
	for _, seq := range utf8Sequences(lo, hi) {
		p.addSequence(seq)
	}
}

const (
	surrogateMin = 0xd800
	surrogateMax = 0xdfff
)

// utf8Sequences splits [lo…hi] into sub-ranges which encode to sequences of
// the same length, where every byte position covers a contiguous range of
// byte values independently of the other positions.
func utf8Sequences(lo, hi rune) [][]byteRange {
	var seqs [][]byteRange
	var split func(lo, hi rune)
	split = func(lo, hi rune) {
		if lo <= surrogateMax && hi >= surrogateMin {
			if lo < surrogateMin {
				split(lo, surrogateMin-1)
			}
			if hi > surrogateMax {
				split(surrogateMax+1, hi)
			}
			return
		}
		for _, bound := range []rune{0x7f, 0x7ff, 0xffff} {
			if lo <= bound && hi > bound {
				split(lo, bound)
				split(bound+1, hi)
				return
			}
		}
		if hi < utf8.RuneSelf {
			seqs = append(seqs, []byteRange{{byte(lo), byte(hi)}})
			return
		}
		n := utf8.RuneLen(lo)
		for i := 1; i < n; i++ {
			m := rune(1)<<(6*i) - 1
			if lo&^m == hi&^m {
				continue
			}
			if lo&m != 0 {
				split(lo, lo|m)
				split((lo|m)+1, hi)
				return
			}
			if hi&m != m {
				split(lo, (hi&^m)-1)
				split(hi&^m, hi)
				return
			}
		}
		var a, b [utf8.UTFMax]byte
		utf8.EncodeRune(a[:], lo)
		utf8.EncodeRune(b[:], hi)
		seq := make([]byteRange, n)
		for i := range seq {
			seq[i] = byteRange{a[i], b[i]}
		}
		seqs = append(seqs, seq)
	}
	split(lo, hi)
	return seqs
}
