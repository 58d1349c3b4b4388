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

// The bar_tiling_sample command tiles a 21×21 board with 1×8, 8×1, 1×9 and
// 9×1 bars and optionally writes the report as JSON and as a workbook, and
// the model in LP format.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/golang/glog"

	"github.com/polycover/polycover/covering"
	"github.com/polycover/polycover/geometry"
	"github.com/polycover/polycover/model"
	"github.com/polycover/polycover/report"
	"github.com/polycover/polycover/solver"
	"github.com/polycover/polycover/solver/lpsolver"
	"github.com/polycover/polycover/solver/pbsolver"
)

var (
	size      = flag.Int("size", 21, "side of the square board")
	timeLimit = flag.Duration("time_limit", 5*time.Minute, "time limit of each solve")
	jsonOut   = flag.String("json_out", "", "if set, write the JSON report to this file")
	xlsxOut   = flag.String("xlsx_out", "", "if set, write the workbook to this file")
	lpOut     = flag.String("lp_out", "", "if set, write the model in LP format to this file")
)

func barTilingSample() error {
	board, err := geometry.NewBoard(*size, *size)
	if err != nil {
		return fmt.Errorf("failed to create the board: %w", err)
	}
	shapes, err := geometry.Bars(8, 9)
	if err != nil {
		return fmt.Errorf("failed to create the bars: %w", err)
	}
	opts := covering.DefaultOptions()
	opts.TimeLimit = *timeLimit
	cfg := covering.Config{Board: board, Shapes: shapes, Options: opts}

	if *lpOut != "" {
		if err := writeLP(cfg, *lpOut); err != nil {
			return err
		}
	}

	port := solver.Dispatcher{Integer: pbsolver.New(), Linear: lpsolver.New()}
	res, err := covering.Solve(context.Background(), cfg, port)
	if err != nil {
		return fmt.Errorf("failed to solve: %w", err)
	}

	fmt.Printf("Status: %v, %d bars cover %d of %d cells\n", res.Status, len(res.Placements), res.CoveredArea, board.NumOpen())
	if len(res.Placements) > 0 {
		fmt.Print(report.Grid(cfg, res))
	}
	if res.Analysis != nil {
		fmt.Printf("Certificate: %v %s\n", res.CertificateState(), res.Analysis.Diagnostic)
	}

	if *jsonOut != "" {
		s, err := report.Build(cfg, res)
		if err != nil {
			return fmt.Errorf("failed to build the report: %w", err)
		}
		data, err := report.MarshalJSON(s)
		if err != nil {
			return fmt.Errorf("failed to marshal the report: %w", err)
		}
		if err := os.WriteFile(*jsonOut, data, 0o644); err != nil {
			return err
		}
	}
	if *xlsxOut != "" {
		f, err := os.Create(*xlsxOut)
		if err != nil {
			return err
		}
		if err := report.WriteWorkbook(f, cfg, res); err != nil {
			f.Close()
			return fmt.Errorf("failed to write the workbook: %w", err)
		}
		return f.Close()
	}
	return nil
}

func writeLP(cfg covering.Config, path string) error {
	b, err := model.NewBuilder(cfg.Board, cfg.Shapes, model.Options{Exact: cfg.Options.Exact, RepetitionLimit: cfg.Options.RepetitionLimit})
	if err != nil {
		return fmt.Errorf("failed to build the model: %w", err)
	}
	m, _ := b.Build()
	lp, err := model.ExportLPFormat(m)
	if err != nil {
		return fmt.Errorf("failed to export the model: %w", err)
	}
	return os.WriteFile(path, []byte(lp), 0o644)
}

func main() {
	flag.Parse()
	if err := barTilingSample(); err != nil {
		log.Exitf("barTilingSample returned with error: %v", err)
	}
}
