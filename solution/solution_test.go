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

package solution

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/polycover/polycover/geometry"
	"github.com/polycover/polycover/model"
)

// dominoBoard is a 2×4 board with its top corners blocked, so that three
// horizontal dominoes tile it.
func dominoBoard(t *testing.T) (*geometry.Board, *model.Arena) {
	t.Helper()
	board, err := geometry.NewBoard(2, 4, geometry.Cell{Row: 0, Col: 0}, geometry.Cell{Row: 0, Col: 3})
	if err != nil {
		t.Fatalf("NewBoard() err = %v", err)
	}
	shapes, err := geometry.Bars(2)
	if err != nil {
		t.Fatalf("Bars() err = %v", err)
	}
	b, err := model.NewBuilder(board, shapes, model.Options{Exact: true})
	if err != nil {
		t.Fatalf("NewBuilder() err = %v", err)
	}
	_, arena := b.Build()
	return board, arena
}

func primal(n int, values map[int]float64) []float64 {
	x := make([]float64, n)
	for i, v := range values {
		x[i] = v
	}
	return x
}

func TestDecode(t *testing.T) {
	_, arena := dominoBoard(t)
	// 2 = (0,1,0), 5 = (0,2,1), 8 = (1,0,0), 12 = (1,2,0).
	x := primal(arena.Len(), map[int]float64{2: 1, 5: 0.79, 8: 0.81, 12: 0.99})
	got, err := Decode(arena, x, DefaultThreshold)
	if err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	want := []Placement{
		{Row: 0, Col: 1, Shape: 0, Cells: []geometry.Cell{{Row: 0, Col: 1}, {Row: 0, Col: 2}}},
		{Row: 1, Col: 0, Shape: 0, Cells: []geometry.Cell{{Row: 1, Col: 0}, {Row: 1, Col: 1}}},
		{Row: 1, Col: 2, Shape: 0, Cells: []geometry.Cell{{Row: 1, Col: 2}, {Row: 1, Col: 3}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() diff (-want +got):\n%s", diff)
	}
	if got := Area(got); got != 6 {
		t.Errorf("Area() = %d, want 6", got)
	}
	if diff := cmp.Diff([]int{3, 0}, ShapeCounts(got, 2)); diff != "" {
		t.Errorf("ShapeCounts() diff (-want +got):\n%s", diff)
	}
}

func TestDecode_Threshold(t *testing.T) {
	_, arena := dominoBoard(t)
	x := primal(arena.Len(), map[int]float64{2: 0.5})
	got, err := Decode(arena, x, 0.4)
	if err != nil {
		t.Fatalf("Decode() err = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Decode(τ=0.4) selected %d placements, want 1", len(got))
	}
}

func TestDecode_Errors(t *testing.T) {
	_, arena := dominoBoard(t)
	testCases := []struct {
		name      string
		primal    []float64
		threshold float64
		want      error
	}{
		{name: "ShortPrimal", primal: make([]float64, 3), threshold: DefaultThreshold, want: ErrPrimalLength},
		{name: "ThresholdOne", primal: make([]float64, arena.Len()), threshold: 1, want: ErrThreshold},
		{name: "NegativeThreshold", primal: make([]float64, arena.Len()), threshold: -0.1, want: ErrThreshold},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(arena, tc.primal, tc.threshold); !errors.Is(err, tc.want) {
				t.Errorf("Decode() err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestVerify(t *testing.T) {
	board, arena := dominoBoard(t)
	testCases := []struct {
		name     string
		selected map[int]float64
		exact    bool
		want     error
	}{
		{name: "ExactTiling", selected: map[int]float64{2: 1, 8: 1, 12: 1}, exact: true},
		{name: "Overlap", selected: map[int]float64{2: 1, 5: 1, 8: 1}, want: ErrOverlap},
		{name: "BlockedPlacement", selected: map[int]float64{0: 1}, want: ErrInvalidPlacement},
		{name: "Incomplete", selected: map[int]float64{2: 1, 8: 1}, exact: true, want: ErrIncompleteCover},
		{name: "PartialIsFineWhenMaximal", selected: map[int]float64{2: 1, 8: 1}},
		{name: "Empty", selected: map[int]float64{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			placements, err := Decode(arena, primal(arena.Len(), tc.selected), DefaultThreshold)
			if err != nil {
				t.Fatalf("Decode() err = %v", err)
			}
			if err := Verify(board, placements, tc.exact); !errors.Is(err, tc.want) {
				t.Errorf("Verify(exact=%t) err = %v, want %v", tc.exact, err, tc.want)
			}
		})
	}
}

func TestVerify_HandMadePlacement(t *testing.T) {
	board, _ := dominoBoard(t)
	p := []Placement{{Row: 1, Col: 3, Cells: []geometry.Cell{{Row: 1, Col: 3}, {Row: 1, Col: 4}}}}
	if err := Verify(board, p, false); !errors.Is(err, ErrInvalidPlacement) {
		t.Errorf("Verify() err = %v, want %v", err, ErrInvalidPlacement)
	}
}
