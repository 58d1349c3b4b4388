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

// Package report renders the outcome of a covering run for consumers outside
// this module: a protobuf Struct (and its JSON form) for renderers and log
// pipelines, and a spreadsheet for people.
package report

import (
	"errors"
	"math"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/polycover/polycover/covering"
)

// Blocked is the value reported for blocked cells in certificate grids.
const Blocked = "blocked"

// ErrMissingInput is returned when the board or the result is nil.
var ErrMissingInput = errors.New("report: board and result are required")

// Build describes cfg and res as a Struct. Every report gets a fresh run_id.
func Build(cfg covering.Config, res *covering.Result) (*structpb.Struct, error) {
	if cfg.Board == nil || res == nil {
		return nil, ErrMissingInput
	}
	board := cfg.Board
	blocked := make([]any, 0, len(board.Blocked()))
	for _, c := range board.Blocked() {
		blocked = append(blocked, []any{c.Row, c.Col})
	}
	shapes := make([]any, len(cfg.Shapes))
	for k, s := range cfg.Shapes {
		offsets := make([]any, 0, s.Size())
		for _, o := range s.Offsets() {
			offsets = append(offsets, []any{o.DRow, o.DCol})
		}
		shapes[k] = map[string]any{"name": s.Name(), "size": s.Size(), "offsets": offsets}
	}
	placements := make([]any, len(res.Placements))
	for i, p := range res.Placements {
		cells := make([]any, len(p.Cells))
		for j, c := range p.Cells {
			cells[j] = []any{c.Row, c.Col}
		}
		placements[i] = map[string]any{
			"row":   p.Row,
			"col":   p.Col,
			"shape": p.Shape,
			"name":  cfg.Shapes[p.Shape].Name(),
			"cells": cells,
		}
	}
	opts := cfg.Options
	fields := map[string]any{
		"run_id": uuid.NewString(),
		"board": map[string]any{
			"rows":    board.Rows(),
			"cols":    board.Cols(),
			"blocked": blocked,
		},
		"shapes": shapes,
		"options": map[string]any{
			"exact":              opts.Exact,
			"repetition_limit":   opts.RepetitionLimit,
			"time_limit_seconds": opts.TimeLimit.Seconds(),
			"threshold":          opts.Threshold,
		},
		"status":       res.Status.String(),
		"suboptimal":   res.Suboptimal,
		"covered_area": res.CoveredArea,
		"placements":   placements,
		"certificate":  certificateFields(res),
	}
	if res.Status.HasSolution() {
		fields["objective"] = res.Objective
	}
	if !math.IsNaN(res.BestBound) && !math.IsInf(res.BestBound, 0) {
		fields["best_bound"] = res.BestBound
	}
	return structpb.NewStruct(fields)
}

func certificateFields(res *covering.Result) map[string]any {
	out := map[string]any{"state": res.CertificateState().String()}
	if res.Analysis != nil && res.Analysis.Diagnostic != "" {
		out["diagnostic"] = res.Analysis.Diagnostic
	}
	cert := res.Certificate()
	if cert == nil {
		return out
	}
	grid := make([]any, cert.Rows)
	for r := range grid {
		row := make([]any, cert.Cols)
		for c := range row {
			if v, open := cert.At(r, c); open {
				row[c] = v
			} else {
				row[c] = Blocked
			}
		}
		grid[r] = row
	}
	out["grid"] = grid
	out["total"] = cert.Total
	return out
}

// MarshalJSON renders a report as indented JSON.
func MarshalJSON(s *structpb.Struct) ([]byte, error) {
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}
