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
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/polycover/polycover/covering"
)

const (
	summarySheet     = "Summary"
	tilingSheet      = "Tiling"
	certificateSheet = "Certificate"
)

// WriteWorkbook writes an xlsx workbook to w with a "Summary" sheet, a
// "Tiling" sheet holding the name of the shape covering each cell ("#" for
// blocked cells) and, when a certificate was found, a "Certificate" sheet
// holding its values with the total below the grid.
func WriteWorkbook(w io.Writer, cfg covering.Config, res *covering.Result) error {
	if cfg.Board == nil || res == nil {
		return ErrMissingInput
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	summary := [][]any{
		{"status", res.Status.String()},
		{"suboptimal", res.Suboptimal},
		{"covered area", res.CoveredArea},
		{"open cells", cfg.Board.NumOpen()},
		{"placements", len(res.Placements)},
		{"certificate", res.CertificateState().String()},
	}
	if res.Status.HasSolution() {
		summary = append(summary, []any{"objective", res.Objective})
	}
	if err := setRows(f, summarySheet, summary); err != nil {
		return err
	}

	board := cfg.Board
	grid := make([][]any, board.Rows())
	for r := range grid {
		grid[r] = make([]any, board.Cols())
	}
	for _, c := range board.Blocked() {
		grid[c.Row][c.Col] = "#"
	}
	for _, p := range res.Placements {
		for _, c := range p.Cells {
			grid[c.Row][c.Col] = cfg.Shapes[p.Shape].Name()
		}
	}
	if _, err := f.NewSheet(tilingSheet); err != nil {
		return err
	}
	if err := setRows(f, tilingSheet, grid); err != nil {
		return err
	}

	if cert := res.Certificate(); cert != nil {
		values := make([][]any, cert.Rows, cert.Rows+1)
		for r := range values {
			values[r] = make([]any, cert.Cols)
			for c := range values[r] {
				if v, open := cert.At(r, c); open {
					values[r][c] = v
				} else {
					values[r][c] = Blocked
				}
			}
		}
		values = append(values, []any{"total", cert.Total})
		if _, err := f.NewSheet(certificateSheet); err != nil {
			return err
		}
		if err := setRows(f, certificateSheet, values); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// setRows writes rows to sheet starting at A1. Nil values leave the cell
// empty.
func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		for j, v := range row {
			if v == nil {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, ref, v); err != nil {
				return fmt.Errorf("sheet %s cell %s: %w", sheet, ref, err)
			}
		}
	}
	return nil
}
