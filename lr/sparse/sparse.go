/*
Package sparse implements a simple type for sparse matrices.
It is mainly used for parser tables, where most of the cells are empty.

This implementation uses the COO algorithm (a.k.a. triplet-encoding), with
triplets sorted by (row, column), which allows lookups by binary search.

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229
   https://www.coin-or.org/Ipopt/documentation/node38.html


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import (
	"sort"
)

// Matrix is a type for a sparse matrix of values of type V. Construct with
//
//     M := sparse.NewMatrix[int](10, 10, -1)  // last parameter is M's null-value
//
// Now
//
//     M.Set(2, 3, 4711)              // set a value
//     v := M.Value(2, 3)             // returns 4711
//     cnt := M.ValueCount()          // returns 1 (one position set)
//     v = M.Value(9, 9)              // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten with the null-value. Space for
// null-values is not re-claimed.
type Matrix[V any] struct {
	values  []triplet[V]
	rowcnt  int
	colcnt  int
	nullval V
}

// Triplet values to store
type triplet[V any] struct {
	row, col int
	value    V
}

// NewMatrix creates a new matrix of size m x n. The 3rd argument is a null-value,
// indicating empty entries.
func NewMatrix[V any](m, n int, nullValue V) *Matrix[V] {
	return &Matrix[V]{
		values:  []triplet[V]{},
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// M returns the row count.
func (m *Matrix[V]) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *Matrix[V]) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value
func (m *Matrix[V]) NullValue() V {
	return m.nullval
}

// ValueCount returns the number of positions set in the matrix.
func (m *Matrix[V]) ValueCount() int {
	return len(m.values)
}

// search returns the index of the first triplet not stored left of (i,j).
func (m *Matrix[V]) search(i, j int) int {
	return sort.Search(len(m.values), func(k int) bool {
		return !m.values[k].storedLeftOf(i, j)
	})
}

// Value returns the value at position (i,j), or the null-value.
func (m *Matrix[V]) Value(i, j int) V {
	v, _ := m.Lookup(i, j)
	return v
}

// Lookup returns the value at position (i,j) and true, or the null-value and
// false if the position has never been set.
func (m *Matrix[V]) Lookup(i, j int) (V, bool) {
	k := m.search(i, j)
	if k < len(m.values) && m.values[k].storedAt(i, j) {
		return m.values[k].value, true
	}
	return m.nullval, false
}

// Set a value in the matrix at position (i,j). Positions outside of the
// matrix' dimensions are ignored.
func (m *Matrix[V]) Set(i, j int, value V) *Matrix[V] {
	if i < 0 || i >= m.rowcnt || j < 0 || j >= m.colcnt {
		return m
	}
	at := m.search(i, j)
	if at < len(m.values) && m.values[at].storedAt(i, j) { // value already present
		m.values[at].value = value
		return m
	}
	tnew := triplet[V]{row: i, col: j, value: value}
	// the following 3 lines have to work for at being the right edge of values or not
	m.values = append(m.values, tnew)    // make room
	copy(m.values[at+1:], m.values[at:]) // copy remainder values one index to right
	m.values[at] = tnew                  // if not append-case: insert new triplet
	return m
}

// Each calls f for every position set, row by row.
func (m *Matrix[V]) Each(f func(i, j int, value V)) {
	for _, t := range m.values {
		f(t.row, t.col, t.value)
	}
}

func (t *triplet[V]) storedLeftOf(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t *triplet[V]) storedAt(i, j int) bool {
	return (t.row == i && t.col == j)
}
