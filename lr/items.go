package lr

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"golang.org/x/exp/slices"
)

// Item is a production together with a dot position, marking how much of
// the right hand side has been recognized.
type Item struct {
	Production *Production
	Dot        int
}

// StartItem returns the item for p with the dot at the very left.
func StartItem(p *Production) Item {
	return Item{Production: p, Dot: 0}
}

// PeekSymbol returns the symbol after the dot, or nil for complete items.
func (i Item) PeekSymbol() GrammarEntity {
	if i.Dot >= len(i.Production.Expression) {
		return nil
	}
	return i.Production.Expression[i.Dot]
}

// IsComplete is true if the dot is behind the last symbol.
func (i Item) IsComplete() bool {
	return i.Dot >= len(i.Production.Expression)
}

// Advance returns the item with the dot moved one symbol to the right.
func (i Item) Advance() Item {
	return Item{Production: i.Production, Dot: i.Dot + 1}
}

func (i Item) String() string {
	var b strings.Builder
	b.WriteString(i.Production.Symbol.Name())
	b.WriteString(" ")
	b.WriteString(Arrow)
	for k, A := range i.Production.Expression {
		if k == i.Dot {
			b.WriteString(" ·")
		}
		b.WriteString(" ")
		b.WriteString(A.Name())
	}
	if i.IsComplete() {
		b.WriteString(" ·")
	}
	return b.String()
}

// Closure computes the LR(0) closure of a kernel. For every item
// A --> α·Bβ it adds the items B --> ·γ for every production of B, until no
// more items are added. The result starts with the kernel, followed by the
// added items in order of discovery; it is a function of the kernel and the
// order of productions in g.
func Closure(g *Grammar, kernel []Item) []Item {
	C := slices.Clone(kernel)
	expanded := make(map[*NonTerminal]bool)
	for k := 0; k < len(C); k++ {
		B, ok := C[k].PeekSymbol().(*NonTerminal)
		if !ok || expanded[B] {
			continue
		}
		expanded[B] = true
		for _, p := range g.ProductionsFor(B) {
			if i := StartItem(p); !slices.Contains(C, i) {
				C = append(C, i)
			}
		}
	}
	return C
}

// Goto computes the kernel of the item set reached from s by symbol X: every
// item A --> α·Xβ of s, advanced to A --> αX·β, in order.
func Goto(s *ItemSet, X GrammarEntity) []Item {
	var kernel []Item
	for _, i := range s.Items {
		if A := i.PeekSymbol(); A != nil && sameEntity(A, X) {
			kernel = append(kernel, i.Advance())
		}
	}
	return kernel
}

// ItemSet is a state of the LR(0) automaton: a kernel of items, followed by
// its closure. Item sets are equal if their kernels are equal, item by item
// and in order; the rest of the items follows from the kernel.
type ItemSet struct {
	ID         int
	Items      []Item // kernel first, then closure items
	KernelSize int
	key        string
}

// NewItemSet creates an item set for a kernel, computing its closure.
func NewItemSet(g *Grammar, kernel []Item, id int) *ItemSet {
	s := &ItemSet{
		ID:         id,
		Items:      Closure(g, kernel),
		KernelSize: len(kernel),
	}
	s.key = kernelKey(kernel)
	return s
}

// Kernel returns the kernel items of s.
func (s *ItemSet) Kernel() []Item {
	return s.Items[:s.KernelSize]
}

// Equals compares item sets by kernel.
func (s *ItemSet) Equals(other *ItemSet) bool {
	return other != nil && slices.Equal(s.Kernel(), other.Kernel())
}

// Hash returns a structural hash of the kernel of s.
func (s *ItemSet) Hash() string {
	return s.key
}

// CompleteItems returns the items of s with the dot at the end.
func (s *ItemSet) CompleteItems() []Item {
	var r []Item
	for _, i := range s.Items {
		if i.IsComplete() {
			r = append(r, i)
		}
	}
	return r
}

func (s *ItemSet) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%d ||", s.ID)
	for k, i := range s.Items {
		if k == s.KernelSize {
			b.WriteString(" |")
		}
		b.WriteString(" ")
		b.WriteString(i.String())
		b.WriteString(";")
	}
	b.WriteString(" >")
	return b.String()
}

// Dump is a debugging helper
func (s *ItemSet) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	for k, i := range s.Items {
		marker := " "
		if k < s.KernelSize {
			marker = "*"
		}
		tracer().Debugf("%s %v", marker, i)
	}
	tracer().Debugf("-------------------------")
}

// itemKey is the hashed form of an item. structhash considers exported
// fields only.
type itemKey struct {
	Production int
	Dot        int
}

func kernelKey(kernel []Item) string {
	keys := make([]itemKey, len(kernel))
	for k, i := range kernel {
		keys[k] = itemKey{Production: i.Production.ID, Dot: i.Dot}
	}
	return hex.EncodeToString(structhash.Md5(struct{ Kernel []itemKey }{keys}, 1))
}
