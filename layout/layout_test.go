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

package layout

import (
	"fmt"
	"testing"
)

func ExampleEncoder() {
	enc := New(21, 21, 4)
	i := enc.PlacementIndex(2, 3, 1)
	p, q, k := enc.DecodePlacement(i)
	fmt.Println(i, p, q, k)
	fmt.Println(enc.CellIndex(2, 3), enc.NumPlacements(), enc.NumCells())
	// Output:
	// 181 2 3 1
	// 45 1764 441
}

func TestEncoder_PlacementBijection(t *testing.T) {
	for _, dims := range [][3]int{{1, 1, 1}, {3, 5, 2}, {4, 1, 7}, {12, 12, 2}} {
		enc := New(dims[0], dims[1], dims[2])
		seen := make([]bool, enc.NumPlacements())
		next := 0
		for p := 0; p < dims[0]; p++ {
			for q := 0; q < dims[1]; q++ {
				for k := 0; k < dims[2]; k++ {
					i := enc.PlacementIndex(p, q, k)
					if i != next {
						t.Errorf("%v: PlacementIndex(%d,%d,%d) = %d, want %d (order preserving)", dims, p, q, k, i, next)
					}
					next++
					if i < 0 || i >= len(seen) || seen[i] {
						t.Fatalf("%v: PlacementIndex(%d,%d,%d) = %d is out of range or repeated", dims, p, q, k, i)
					}
					seen[i] = true
					if gp, gq, gk := enc.DecodePlacement(i); gp != p || gq != q || gk != k {
						t.Errorf("%v: DecodePlacement(%d) = (%d,%d,%d), want (%d,%d,%d)", dims, i, gp, gq, gk, p, q, k)
					}
				}
			}
		}
		if next != enc.NumPlacements() {
			t.Errorf("%v: enumerated %d placements, want %d", dims, next, enc.NumPlacements())
		}
	}
}

func TestEncoder_CellBijection(t *testing.T) {
	enc := New(3, 4, 2)
	for i := 0; i < enc.NumCells(); i++ {
		p, q := enc.DecodeCell(i)
		if got := enc.CellIndex(p, q); got != i {
			t.Errorf("CellIndex(DecodeCell(%d)) = %d, want %d", i, got, i)
		}
	}
}

func TestEncoder_PanicsOutOfRange(t *testing.T) {
	enc := New(2, 2, 1)
	testCases := []struct {
		name string
		call func()
	}{
		{"PlacementRow", func() { enc.PlacementIndex(2, 0, 0) }},
		{"PlacementShape", func() { enc.PlacementIndex(0, 0, 1) }},
		{"DecodePlacement", func() { enc.DecodePlacement(4) }},
		{"Cell", func() { enc.CellIndex(0, -1) }},
		{"DecodeCell", func() { enc.DecodeCell(-1) }},
		{"New", func() { New(0, 1, 1) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s did not panic", tc.name)
				}
			}()
			tc.call()
		})
	}
}
