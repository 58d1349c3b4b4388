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

// The tetromino_packing_sample command places each one-sided tetromino at
// most once on an 11×3 board, maximizing the covered area.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	log "github.com/golang/glog"

	"github.com/polycover/polycover/covering"
	"github.com/polycover/polycover/geometry"
	"github.com/polycover/polycover/report"
	"github.com/polycover/polycover/solution"
	"github.com/polycover/polycover/solver"
	"github.com/polycover/polycover/solver/lpsolver"
	"github.com/polycover/polycover/solver/pbsolver"
)

var (
	repetitionLimit = flag.Int("repetition_limit", 1, "how often each tetromino may be placed, 0 for unlimited")
	timeLimit       = flag.Duration("time_limit", time.Minute, "time limit of each solve")
)

func tetrominoPackingSample() error {
	board, err := geometry.NewBoard(11, 3)
	if err != nil {
		return fmt.Errorf("failed to create the board: %w", err)
	}
	shapes := geometry.Tetrominoes()
	opts := covering.DefaultOptions()
	opts.Exact = false
	opts.RepetitionLimit = *repetitionLimit
	opts.TimeLimit = *timeLimit
	cfg := covering.Config{Board: board, Shapes: shapes, Options: opts}

	port := solver.Dispatcher{Integer: pbsolver.New(), Linear: lpsolver.New()}
	res, err := covering.Solve(context.Background(), cfg, port)
	if err != nil {
		return fmt.Errorf("failed to solve: %w", err)
	}

	fmt.Printf("Status: %v, covered area %d (best bound %g)\n", res.Status, res.CoveredArea, res.BestBound)
	fmt.Print(report.Grid(cfg, res))
	for k, n := range solution.ShapeCounts(res.Placements, len(shapes)) {
		fmt.Printf("  %s: %d\n", shapes[k].Name(), n)
	}
	return nil
}

func main() {
	flag.Parse()
	if err := tetrominoPackingSample(); err != nil {
		log.Exitf("tetrominoPackingSample returned with error: %v", err)
	}
}
