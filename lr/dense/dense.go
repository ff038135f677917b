/*
Package dense implements a simple type for dense integer matrices.
It is used for parser tables (GOTO-table and ACTION-table), which are
read at every parse step and therefore favour constant-time access over
compact storage.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package dense

import (
	"fmt"
	"strings"
)

// IntMatrix is a type for a dense matrix of int32 values. Construct with
//
//	M := NewIntMatrix(10, 10, -1)  // last parameter is M's null-value
//
// Now
//
//	M.Set(2, 3, 4711)              // set a value
//	v := M.Value(2, 3)             // returns 4711
//	cnt := M.ValueCount()          // returns 1 (one position set)
//	v = M.Value(10, 10)            // returns -1, i.e. the null-value
//
// Positions outside of the matrix read as the null-value.
type IntMatrix struct {
	values  []int32
	rowcnt  int
	colcnt  int
	nullval int32
}

// NewIntMatrix creates a new matrix for int32, size m x n. The 3rd argument is a
// null-value, indicating empty entries.
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	if m < 0 || n < 0 {
		panic(fmt.Sprintf("dense.NewIntMatrix with negative size %d x %d", m, n))
	}
	values := make([]int32, m*n)
	if nullValue != 0 {
		for i := range values {
			values[i] = nullValue
		}
	}
	return &IntMatrix{
		values:  values,
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// M returns the row count.
func (m *IntMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of non-null values in the matrix.
func (m *IntMatrix) ValueCount() int {
	cnt := 0
	for _, v := range m.values {
		if v != m.nullval {
			cnt++
		}
	}
	return cnt
}

// Value returns the value at position (i,j), or NullValue.
func (m *IntMatrix) Value(i, j int) int32 {
	if !m.inside(i, j) {
		return m.nullval
	}
	return m.values[i*m.colcnt+j]
}

// Set a value in the matrix at position (i,j). Setting a value outside of the
// matrix is a programming error and panics.
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	if !m.inside(i, j) {
		panic(fmt.Sprintf("dense.IntMatrix.Set(%d,%d) outside of %d x %d", i, j, m.rowcnt, m.colcnt))
	}
	m.values[i*m.colcnt+j] = value
	return m
}

// Row returns a copy of row i.
func (m *IntMatrix) Row(i int) []int32 {
	if i < 0 || i >= m.rowcnt {
		return nil
	}
	return append([]int32(nil), m.values[i*m.colcnt:(i+1)*m.colcnt]...)
}

// Values returns a copy of all values, row by row.
func (m *IntMatrix) Values() []int32 {
	return append([]int32(nil), m.values...)
}

// Equals is true if both matrices have the same size and content.
func (m *IntMatrix) Equals(other *IntMatrix) bool {
	if other == nil || m.rowcnt != other.rowcnt || m.colcnt != other.colcnt || m.nullval != other.nullval {
		return false
	}
	for k, v := range m.values {
		if other.values[k] != v {
			return false
		}
	}
	return true
}

func (m *IntMatrix) inside(i, j int) bool {
	return i >= 0 && i < m.rowcnt && j >= 0 && j < m.colcnt
}

func (m *IntMatrix) String() string {
	var b strings.Builder
	for i := 0; i < m.rowcnt; i++ {
		for j := 0; j < m.colcnt; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			v := m.Value(i, j)
			if v == m.nullval {
				b.WriteString(".")
			} else {
				fmt.Fprintf(&b, "%d", v)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
