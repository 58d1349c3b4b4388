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

// Package solvertest provides a deterministic solver.Port for tests.
package solvertest

import (
	"context"
	"sync"

	"github.com/polycover/polycover/solver"
)

// Fake returns canned responses: Integer for models with integer variables,
// Relaxed for continuous ones. It records every request it receives.
type Fake struct {
	Integer solver.Response
	Relaxed solver.Response
	// Err, when set, is returned instead of a response.
	Err error

	mu       sync.Mutex
	requests []*solver.Request
}

// Solve implements solver.Port. Returned slices are copies, so callers may
// modify them.
func (f *Fake) Solve(ctx context.Context, req *solver.Request) (*solver.Response, error) {
	if req == nil || req.Model == nil {
		return nil, solver.ErrNilModel
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if err := ctx.Err(); err != nil {
		return &solver.Response{Status: solver.StatusUnknown}, nil
	}
	canned := f.Relaxed
	if req.Model.HasIntegerVariables() {
		canned = f.Integer
	}
	res := canned
	res.Primal = append([]float64(nil), canned.Primal...)
	if req.WantDuals {
		res.Dual = append([]float64(nil), canned.Dual...)
	} else {
		res.Dual = nil
	}
	return &res, nil
}

// Requests returns the requests received so far, in order.
func (f *Fake) Requests() []*solver.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*solver.Request(nil), f.requests...)
}

// Primal returns a vector of n zeros with ones at the selected indices.
func Primal(n int, selected ...int) []float64 {
	x := make([]float64, n)
	for _, i := range selected {
		x[i] = 1
	}
	return x
}

// Coloring returns a cell-indexed vector for a rows×cols board where cell
// (r,c) gets weights[(r+c)%len(weights)]. Diagonal colorings are the classic
// certificates against straight bars.
func Coloring(rows, cols int, weights ...float64) []float64 {
	y := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			y[r*cols+c] = weights[(r+c)%len(weights)]
		}
	}
	return y
}
