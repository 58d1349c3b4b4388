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
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ExampleAnchor() {
	board, err := NewBoard(3, 3, Cell{1, 1})
	if err != nil {
		panic(err)
	}
	bar, err := Rectangle(1, 3)
	if err != nil {
		panic(err)
	}
	cells, ok := Anchor(bar, board, 0, 0)
	fmt.Println(cells, ok)
	cells, ok = Anchor(bar, board, 1, 0)
	fmt.Println(cells, ok)
	// Output:
	// [(0,0) (0,1) (0,2)] true
	// [] false
}

func TestNewShape_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		offsets []Offset
		want    error
	}{
		{name: "Empty", want: ErrEmptyShape},
		{name: "Duplicate", offsets: []Offset{{0, 0}, {0, 1}, {0, 0}}, want: ErrDuplicateOffset},
		{name: "Valid", offsets: []Offset{{0, 0}, {1, 0}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewShape(tc.name, tc.offsets...)
			if !errors.Is(err, tc.want) {
				t.Errorf("NewShape(%v) err = %v, want %v", tc.offsets, err, tc.want)
			}
		})
	}
}

func TestShape_OffsetsIsCopy(t *testing.T) {
	s := MustShape("domino", Offset{0, 0}, Offset{0, 1})
	got := s.Offsets()
	got[0] = Offset{5, 5}
	if diff := cmp.Diff([]Offset{{0, 0}, {0, 1}}, s.Offsets()); diff != "" {
		t.Errorf("Offsets() mutated through copy, diff (-want +got):\n%s", diff)
	}
}

func TestParseShape(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		want    []Offset
	}{
		{name: "Bar", pattern: "###", want: []Offset{{0, 0}, {0, 1}, {0, 2}}},
		{name: "T", pattern: ".#.\n###", want: []Offset{{0, 0}, {1, -1}, {1, 0}, {1, 1}}},
		{name: "BlankLines", pattern: "\n##\n#.\n", want: []Offset{{0, 0}, {0, 1}, {1, 0}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := ParseShape(tc.name, tc.pattern)
			if err != nil {
				t.Fatalf("ParseShape(%q) err = %v, want nil", tc.pattern, err)
			}
			if diff := cmp.Diff(tc.want, s.Offsets()); diff != "" {
				t.Errorf("ParseShape(%q) diff (-want +got):\n%s", tc.pattern, diff)
			}
		})
	}
	if _, err := ParseShape("none", "..\n.."); !errors.Is(err, ErrEmptyShape) {
		t.Errorf("ParseShape(no cells) err = %v, want %v", err, ErrEmptyShape)
	}
}

func TestTetrominoes(t *testing.T) {
	shapes := Tetrominoes()
	if len(shapes) != 7 {
		t.Fatalf("len(Tetrominoes()) = %d, want 7", len(shapes))
	}
	for _, s := range shapes {
		if s.Size() != 4 {
			t.Errorf("%s.Size() = %d, want 4", s.Name(), s.Size())
		}
	}
}

func TestBars(t *testing.T) {
	shapes, err := Bars(8, 9)
	if err != nil {
		t.Fatalf("Bars(8, 9) err = %v", err)
	}
	var got []string
	for _, s := range shapes {
		got = append(got, s.Name())
	}
	if diff := cmp.Diff([]string{"1x8", "8x1", "1x9", "9x1"}, got); diff != "" {
		t.Errorf("Bars(8, 9) names diff (-want +got):\n%s", diff)
	}
}

func TestNewBoard_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		rows, cols int
		blocked    []Cell
		want       error
	}{
		{name: "ZeroRows", rows: 0, cols: 3, want: ErrBoardDimension},
		{name: "NegativeCols", rows: 3, cols: -1, want: ErrBoardDimension},
		{name: "BlockedOutside", rows: 2, cols: 2, blocked: []Cell{{2, 0}}, want: ErrBlockedOutOfBounds},
		{name: "BlockedNegative", rows: 2, cols: 2, blocked: []Cell{{0, -1}}, want: ErrBlockedOutOfBounds},
		{name: "Valid", rows: 2, cols: 2, blocked: []Cell{{1, 1}, {1, 1}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBoard(tc.rows, tc.cols, tc.blocked...)
			if !errors.Is(err, tc.want) {
				t.Errorf("NewBoard(%d, %d, %v) err = %v, want %v", tc.rows, tc.cols, tc.blocked, err, tc.want)
			}
		})
	}
}

func TestBoard_Cells(t *testing.T) {
	b, err := NewBoard(2, 3, Cell{1, 2}, Cell{0, 1})
	if err != nil {
		t.Fatalf("NewBoard() err = %v", err)
	}
	if got, want := b.NumOpen(), 4; got != want {
		t.Errorf("NumOpen() = %d, want %d", got, want)
	}
	if diff := cmp.Diff([]Cell{{0, 1}, {1, 2}}, b.Blocked()); diff != "" {
		t.Errorf("Blocked() diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Cell{{0, 0}, {0, 2}, {1, 0}, {1, 1}}, b.OpenCells()); diff != "" {
		t.Errorf("OpenCells() diff (-want +got):\n%s", diff)
	}
}

func TestAnchor_Soundness(t *testing.T) {
	board, err := NewBoard(4, 5, Cell{0, 0}, Cell{2, 3}, Cell{3, 4})
	if err != nil {
		t.Fatalf("NewBoard() err = %v", err)
	}
	shapes := append(Tetrominoes(), MustShape("mono", Offset{0, 0}))
	for _, s := range shapes {
		for p := -2; p < board.Rows()+2; p++ {
			for q := -2; q < board.Cols()+2; q++ {
				cells, ok := Anchor(s, board, p, q)
				if !ok {
					if cells != nil {
						t.Errorf("Anchor(%s, %d, %d) = %v, false; want nil cells", s.Name(), p, q, cells)
					}
					continue
				}
				if len(cells) != s.Size() {
					t.Errorf("Anchor(%s, %d, %d) returned %d cells, want %d", s.Name(), p, q, len(cells), s.Size())
				}
				for _, c := range cells {
					if !board.InBounds(c) || board.IsBlocked(c) {
						t.Errorf("Anchor(%s, %d, %d) covers unavailable cell %v", s.Name(), p, q, c)
					}
				}
			}
		}
	}
}

func TestAnchor_AllOrNothing(t *testing.T) {
	board, err := NewBoard(1, 3, Cell{0, 2})
	if err != nil {
		t.Fatalf("NewBoard() err = %v", err)
	}
	bar := MustShape("bar", Offset{0, 0}, Offset{0, 1}, Offset{0, 2})
	if cells, ok := Anchor(bar, board, 0, 0); ok {
		t.Errorf("Anchor(bar, 0, 0) = %v, true; want invalid", cells)
	}
	if _, ok := Anchor(Shape{}, board, 0, 0); ok {
		t.Error("Anchor(empty shape) = true, want false")
	}
}
