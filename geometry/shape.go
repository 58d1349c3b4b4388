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

// Package geometry describes boards, shapes and anchored placements for the
// planar covering problem.
//
// A `Shape` is an immutable list of integer offsets relative to a reference
// cell. A `Board` is a rectangle of cells, some of which may be blocked.
// `Anchor` translates a shape to a board position and reports whether every
// resulting cell is available.
package geometry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyShape is returned when a shape has no cells.
	ErrEmptyShape = errors.New("geometry: shape must have at least one cell")
	// ErrDuplicateOffset is returned when a shape lists the same offset twice.
	ErrDuplicateOffset = errors.New("geometry: duplicate offset in shape")
	// ErrBoardDimension is returned when a board has a non-positive dimension.
	ErrBoardDimension = errors.New("geometry: board dimensions must be positive")
	// ErrBlockedOutOfBounds is returned when a blocked cell lies outside the board.
	ErrBlockedOutOfBounds = errors.New("geometry: blocked cell out of bounds")
)

// Cell is an absolute board position.
type Cell struct {
	Row int
	Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Offset is a position relative to a shape's reference cell.
type Offset struct {
	DRow int
	DCol int
}

// Shape is a fixed pattern of unit cells given as offsets from a reference
// cell. The zero value is an empty, unusable shape; use NewShape.
type Shape struct {
	name    string
	offsets []Offset
}

// NewShape returns a shape made of the given offsets, in order.
func NewShape(name string, offsets ...Offset) (Shape, error) {
	if len(offsets) == 0 {
		return Shape{}, fmt.Errorf("shape %q: %w", name, ErrEmptyShape)
	}
	seen := make(map[Offset]bool, len(offsets))
	for _, o := range offsets {
		if seen[o] {
			return Shape{}, fmt.Errorf("shape %q offset %v: %w", name, o, ErrDuplicateOffset)
		}
		seen[o] = true
	}
	cp := make([]Offset, len(offsets))
	copy(cp, offsets)
	return Shape{name: name, offsets: cp}, nil
}

// MustShape is like NewShape but panics on error. It is meant for shape
// catalogues defined in code.
func MustShape(name string, offsets ...Offset) Shape {
	s, err := NewShape(name, offsets...)
	if err != nil {
		panic(err)
	}
	return s
}

// Rectangle returns the rows×cols rectangle anchored at its top-left cell.
func Rectangle(rows, cols int) (Shape, error) {
	if rows <= 0 || cols <= 0 {
		return Shape{}, fmt.Errorf("rectangle %dx%d: %w", rows, cols, ErrEmptyShape)
	}
	offsets := make([]Offset, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			offsets = append(offsets, Offset{r, c})
		}
	}
	return NewShape(fmt.Sprintf("%dx%d", rows, cols), offsets...)
}

// ParseShape reads a shape drawn with '#' for cells and any other rune for
// holes, one line per row. The first '#' in reading order is the reference
// cell. Leading and trailing blank lines are ignored.
func ParseShape(name, pattern string) (Shape, error) {
	lines := strings.Split(strings.Trim(pattern, "\n"), "\n")
	var offsets []Offset
	var ref Offset
	found := false
	for r, line := range lines {
		for c, ch := range []rune(line) {
			if ch != '#' {
				continue
			}
			if !found {
				ref = Offset{r, c}
				found = true
			}
			offsets = append(offsets, Offset{r - ref.DRow, c - ref.DCol})
		}
	}
	return NewShape(name, offsets...)
}

// Name returns the name given at construction.
func (s Shape) Name() string { return s.name }

// Size returns the number of cells, which is also the shape's area.
func (s Shape) Size() int { return len(s.offsets) }

// Offsets returns a copy of the shape's offsets.
func (s Shape) Offsets() []Offset {
	cp := make([]Offset, len(s.offsets))
	copy(cp, s.offsets)
	return cp
}

func (s Shape) String() string {
	return fmt.Sprintf("%s%v", s.name, s.offsets)
}
