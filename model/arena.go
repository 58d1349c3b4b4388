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

package model

import (
	"github.com/polycover/polycover/geometry"
	"github.com/polycover/polycover/layout"
)

// Arena records, for every placement index, the cells the placement covers or
// nil when the placement is invalid. It spans the full index range so that
// invalid placements keep their index and become forced-zero variables.
type Arena struct {
	enc        layout.Encoder
	shapes     []geometry.Shape
	cells      [][]geometry.Cell
	forcedZero []int
}

func newArena(board *geometry.Board, shapes []geometry.Shape) *Arena {
	enc := layout.New(board.Rows(), board.Cols(), len(shapes))
	a := &Arena{
		enc:    enc,
		shapes: shapes,
		cells:  make([][]geometry.Cell, enc.NumPlacements()),
	}
	for p := 0; p < board.Rows(); p++ {
		for q := 0; q < board.Cols(); q++ {
			for k, s := range shapes {
				i := enc.PlacementIndex(p, q, k)
				if cells, ok := geometry.Anchor(s, board, p, q); ok {
					a.cells[i] = cells
				} else {
					a.forcedZero = append(a.forcedZero, i)
				}
			}
		}
	}
	return a
}

// Encoder returns the numbering the arena was built with.
func (a *Arena) Encoder() layout.Encoder { return a.enc }

// Shapes returns the shape catalogue, indexed by shape id.
func (a *Arena) Shapes() []geometry.Shape { return a.shapes }

// Len returns the number of placement indices, valid or not.
func (a *Arena) Len() int { return len(a.cells) }

// Valid reports whether placement i fits on the board.
func (a *Arena) Valid(i int) bool { return a.cells[i] != nil }

// Cells returns the cells covered by placement i, or nil if it is invalid.
// The returned slice must not be modified.
func (a *Arena) Cells(i int) []geometry.Cell { return a.cells[i] }

// ForcedZero returns the invalid placement indices in increasing order.
// The returned slice must not be modified.
func (a *Arena) ForcedZero() []int { return a.forcedZero }

// NumValid returns the number of valid placements.
func (a *Arena) NumValid() int { return len(a.cells) - len(a.forcedZero) }
