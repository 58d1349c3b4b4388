// Copyright 2010-2024 Google LLC
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package layout fixes the numbering of placements and cells used by the
// linear model.
//
// A placement (p, q, k) is the shape k anchored at row p, column q of an n×m
// board with t shapes. It is numbered
//
//	PlacementIndex(p, q, k) = p·(m·t) + q·t + k
//
// which is a bijection from [0,n)×[0,m)×[0,t) onto [0, n·m·t). A cell (p, q)
// is numbered CellIndex(p, q) = p·m + q, a bijection onto [0, n·m). Variables
// of the model are placement indices and rows are cell indices, so solution
// decoding depends on this exact layout.
package layout

import "fmt"

// Encoder numbers placements and cells of one board/shape catalogue.
// The zero value is not usable; use New.
type Encoder struct {
	rows   int
	cols   int
	shapes int
}

// New returns an encoder for an n×m board with t shapes. All dimensions must
// be positive.
func New(n, m, t int) Encoder {
	if n <= 0 || m <= 0 || t <= 0 {
		panic(fmt.Sprintf("layout: invalid dimensions n=%d m=%d t=%d", n, m, t))
	}
	return Encoder{rows: n, cols: m, shapes: t}
}

// Rows returns n.
func (e Encoder) Rows() int { return e.rows }

// Cols returns m.
func (e Encoder) Cols() int { return e.cols }

// Shapes returns t.
func (e Encoder) Shapes() int { return e.shapes }

// NumPlacements returns n·m·t.
func (e Encoder) NumPlacements() int { return e.rows * e.cols * e.shapes }

// NumCells returns n·m.
func (e Encoder) NumCells() int { return e.rows * e.cols }

// PlacementIndex returns the index of shape k anchored at (p, q).
// It panics if an argument is out of range.
func (e Encoder) PlacementIndex(p, q, k int) int {
	if p < 0 || p >= e.rows || q < 0 || q >= e.cols || k < 0 || k >= e.shapes {
		panic(fmt.Sprintf("layout: placement (%d,%d,%d) out of range for %dx%dx%d", p, q, k, e.rows, e.cols, e.shapes))
	}
	return p*(e.cols*e.shapes) + q*e.shapes + k
}

// DecodePlacement is the inverse of PlacementIndex.
func (e Encoder) DecodePlacement(i int) (p, q, k int) {
	if i < 0 || i >= e.NumPlacements() {
		panic(fmt.Sprintf("layout: placement index %d out of range [0,%d)", i, e.NumPlacements()))
	}
	p = i / (e.cols * e.shapes)
	rem := i % (e.cols * e.shapes)
	return p, rem / e.shapes, rem % e.shapes
}

// CellIndex returns the index of cell (p, q).
// It panics if an argument is out of range.
func (e Encoder) CellIndex(p, q int) int {
	if p < 0 || p >= e.rows || q < 0 || q >= e.cols {
		panic(fmt.Sprintf("layout: cell (%d,%d) out of range for %dx%d", p, q, e.rows, e.cols))
	}
	return p*e.cols + q
}

// DecodeCell is the inverse of CellIndex.
func (e Encoder) DecodeCell(i int) (p, q int) {
	if i < 0 || i >= e.NumCells() {
		panic(fmt.Sprintf("layout: cell index %d out of range [0,%d)", i, e.NumCells()))
	}
	return i / e.cols, i % e.cols
}
