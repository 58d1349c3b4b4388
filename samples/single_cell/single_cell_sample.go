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

// The single_cell_sample command covers a 1×1 board with a monomino.
package main

import (
	"context"
	"flag"
	"fmt"

	log "github.com/golang/glog"

	"github.com/polycover/polycover/covering"
	"github.com/polycover/polycover/geometry"
	"github.com/polycover/polycover/solver"
	"github.com/polycover/polycover/solver/lpsolver"
	"github.com/polycover/polycover/solver/pbsolver"
)

func singleCellSample() error {
	board, err := geometry.NewBoard(1, 1)
	if err != nil {
		return fmt.Errorf("failed to create the board: %w", err)
	}
	cfg := covering.Config{
		Board:   board,
		Shapes:  []geometry.Shape{geometry.MustShape("mono", geometry.Offset{})},
		Options: covering.DefaultOptions(),
	}
	port := solver.Dispatcher{Integer: pbsolver.New(), Linear: lpsolver.New()}
	res, err := covering.Solve(context.Background(), cfg, port)
	if err != nil {
		return fmt.Errorf("failed to solve: %w", err)
	}

	fmt.Printf("Status: %v\n", res.Status)
	for _, p := range res.Placements {
		fmt.Printf("  %v covers %v\n", p, p.Cells)
	}
	return nil
}

func main() {
	flag.Parse()
	if err := singleCellSample(); err != nil {
		log.Exitf("singleCellSample returned with error: %v", err)
	}
}
