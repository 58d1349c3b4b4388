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

package geometry

import (
	"fmt"
	"sort"
)

// Board is an immutable rows×cols grid with an optional set of blocked cells.
type Board struct {
	rows    int
	cols    int
	blocked map[Cell]bool
}

// NewBoard returns a board of the given dimensions. Blocked cells may be
// repeated; they must all lie inside the board.
func NewBoard(rows, cols int, blocked ...Cell) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("board %dx%d: %w", rows, cols, ErrBoardDimension)
	}
	b := &Board{rows: rows, cols: cols, blocked: make(map[Cell]bool, len(blocked))}
	for _, c := range blocked {
		if !b.InBounds(c) {
			return nil, fmt.Errorf("cell %v on %dx%d board: %w", c, rows, cols, ErrBlockedOutOfBounds)
		}
		b.blocked[c] = true
	}
	return b, nil
}

// Rows returns n.
func (b *Board) Rows() int { return b.rows }

// Cols returns m.
func (b *Board) Cols() int { return b.cols }

// Area returns rows·cols, blocked cells included.
func (b *Board) Area() int { return b.rows * b.cols }

// NumOpen returns the number of cells that must be covered.
func (b *Board) NumOpen() int { return b.Area() - len(b.blocked) }

// InBounds reports whether c lies on the board.
func (b *Board) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < b.rows && c.Col >= 0 && c.Col < b.cols
}

// IsBlocked reports whether c is a blocked cell.
func (b *Board) IsBlocked(c Cell) bool { return b.blocked[c] }

// Blocked returns the blocked cells in row-major order.
func (b *Board) Blocked() []Cell {
	cells := make([]Cell, 0, len(b.blocked))
	for c := range b.blocked {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}

// OpenCells returns the unblocked cells in row-major order.
func (b *Board) OpenCells() []Cell {
	cells := make([]Cell, 0, b.NumOpen())
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if cell := (Cell{r, c}); !b.blocked[cell] {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// Anchor places s with its reference cell at (p, q) and returns the covered
// cells in offset order. The second result is false, and the cells nil, as
// soon as one cell falls outside the board or on a blocked cell: a placement
// is valid as a whole or not at all.
func Anchor(s Shape, b *Board, p, q int) ([]Cell, bool) {
	if len(s.offsets) == 0 {
		return nil, false
	}
	cells := make([]Cell, len(s.offsets))
	for i, o := range s.offsets {
		c := Cell{p + o.DRow, q + o.DCol}
		if !b.InBounds(c) || b.blocked[c] {
			return nil, false
		}
		cells[i] = c
	}
	return cells, true
}
