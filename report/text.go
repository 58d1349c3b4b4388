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

package report

import (
	"strings"

	"github.com/polycover/polycover/covering"
)

const labels = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Grid draws the placements of res on the board of cfg, one line per row.
// Placements are labelled in order with letters then digits, cycling when
// there are more of them than labels; blocked cells are '#' and uncovered
// ones '.'.
func Grid(cfg covering.Config, res *covering.Result) string {
	board := cfg.Board
	cells := make([][]byte, board.Rows())
	for r := range cells {
		cells[r] = []byte(strings.Repeat(".", board.Cols()))
	}
	for _, c := range board.Blocked() {
		cells[c.Row][c.Col] = '#'
	}
	for i, p := range res.Placements {
		for _, c := range p.Cells {
			cells[c.Row][c.Col] = labels[i%len(labels)]
		}
	}
	var sb strings.Builder
	for _, row := range cells {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}
