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

// Package solution turns a primal vector back into shape placements and
// checks the covering postconditions the model is supposed to guarantee.
package solution

import (
	"errors"
	"fmt"

	"github.com/polycover/polycover/geometry"
	"github.com/polycover/polycover/model"
)

// DefaultThreshold is the value a placement variable must exceed to count as
// selected. It leaves room for integer solutions reported with slack.
const DefaultThreshold = 0.8

var (
	// ErrPrimalLength is returned when a primal vector does not match the
	// placement arena.
	ErrPrimalLength = errors.New("solution: primal vector length mismatch")
	// ErrThreshold is returned for a threshold outside [0,1).
	ErrThreshold = errors.New("solution: threshold must be in [0,1)")
	// ErrInvalidPlacement is returned when a selected placement leaves the
	// board or covers a blocked cell.
	ErrInvalidPlacement = errors.New("solution: invalid placement selected")
	// ErrOverlap is returned when two selected placements share a cell.
	ErrOverlap = errors.New("solution: placements overlap")
	// ErrIncompleteCover is returned when an exact covering misses a cell.
	ErrIncompleteCover = errors.New("solution: open cell left uncovered")
)

// Placement is a selected (row, col, shape) triple with the cells it covers.
// Cells is nil for a placement the board does not admit.
type Placement struct {
	Row, Col, Shape int
	Cells           []geometry.Cell
}

func (p Placement) String() string {
	return fmt.Sprintf("shape %d at (%d,%d)", p.Shape, p.Row, p.Col)
}

// Decode selects every placement whose value in primal exceeds threshold and
// returns them in placement index order.
func Decode(arena *model.Arena, primal []float64, threshold float64) ([]Placement, error) {
	if threshold < 0 || threshold >= 1 {
		return nil, fmt.Errorf("threshold %v: %w", threshold, ErrThreshold)
	}
	if len(primal) != arena.Len() {
		return nil, fmt.Errorf("got %d values for %d placements: %w", len(primal), arena.Len(), ErrPrimalLength)
	}
	enc := arena.Encoder()
	var placements []Placement
	for i, v := range primal {
		if v <= threshold {
			continue
		}
		p, q, k := enc.DecodePlacement(i)
		placements = append(placements, Placement{Row: p, Col: q, Shape: k, Cells: arena.Cells(i)})
	}
	return placements, nil
}

// Verify checks that placements are valid on board and pairwise disjoint,
// and, when exact is set, that together they cover every open cell.
func Verify(board *geometry.Board, placements []Placement, exact bool) error {
	owner := make(map[geometry.Cell]int)
	for i, p := range placements {
		if p.Cells == nil {
			return fmt.Errorf("%v: %w", p, ErrInvalidPlacement)
		}
		for _, c := range p.Cells {
			if !board.InBounds(c) || board.IsBlocked(c) {
				return fmt.Errorf("%v covers %v: %w", p, c, ErrInvalidPlacement)
			}
			if j, ok := owner[c]; ok {
				return fmt.Errorf("%v and %v both cover %v: %w", placements[j], p, c, ErrOverlap)
			}
			owner[c] = i
		}
	}
	if !exact {
		return nil
	}
	for _, c := range board.OpenCells() {
		if _, ok := owner[c]; !ok {
			return fmt.Errorf("cell %v: %w", c, ErrIncompleteCover)
		}
	}
	return nil
}

// Area returns the number of cells covered by placements, counted with
// multiplicity.
func Area(placements []Placement) int {
	area := 0
	for _, p := range placements {
		area += len(p.Cells)
	}
	return area
}

// ShapeCounts returns how many placements use each of the numShapes shapes.
func ShapeCounts(placements []Placement, numShapes int) []int {
	counts := make([]int, numShapes)
	for _, p := range placements {
		counts[p.Shape]++
	}
	return counts
}
