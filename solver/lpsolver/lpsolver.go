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

// Package lpsolver solves continuous linear models with the gonum simplex
// method and, when a model is infeasible, returns a Farkas certificate as
// its dual vector.
//
// Both problems are put in the standard form gonum expects,
//
//	minimize c·z  subject to  A·z = b, z ≥ 0,
//
// with dense matrices.
package lpsolver

import (
	"context"
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/polycover/polycover/model"
	"github.com/polycover/polycover/solver"
)

const (
	// DefaultTolerance is the threshold below which the Farkas objective
	// proves infeasibility.
	DefaultTolerance = 1e-9
	// boundPenalty makes the certificate search prefer row multipliers over
	// variable upper bound multipliers.
	boundPenalty = 1e-4
	simplexTol   = 1e-10
)

// Solver implements solver.Port for models without integer variables.
type Solver struct {
	// Tolerance overrides DefaultTolerance when positive.
	Tolerance float64
}

// New returns a Solver with default settings.
func New() *Solver {
	return &Solver{Tolerance: DefaultTolerance}
}

func (s *Solver) tolerance() float64 {
	if s.Tolerance > 0 {
		return s.Tolerance
	}
	return DefaultTolerance
}

// Solve implements solver.Port. When req.WantDuals is set the model is first
// checked for infeasibility; an infeasible model then comes back with Dual
// holding one Farkas multiplier per row, positive where the row's upper bound
// is used and negative where its lower bound is. Multipliers on variable upper
// bounds are avoided whenever the rows alone prove infeasibility, in which
// case Σ_i Dual_i·A_ij ≥ 0 for every column j with a zero lower bound and the
// bound-weighted sum of Dual is negative. Feasible models never carry duals.
func (s *Solver) Solve(ctx context.Context, req *solver.Request) (*solver.Response, error) {
	if req == nil || req.Model == nil {
		return nil, solver.ErrNilModel
	}
	m := req.Model
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", solver.ErrUnsupportedModel, err)
	}
	if m.HasIntegerVariables() {
		return nil, fmt.Errorf("%w: model %q has integer variables", solver.ErrUnsupportedModel, m.Name)
	}
	ctx, cancel := solver.WithTimeLimit(ctx, req)
	defer cancel()

	var res *solver.Response
	run := func() {
		if req.WantDuals {
			if y, ok := s.farkas(m); ok {
				res = &solver.Response{Status: solver.StatusInfeasible, BestBound: math.NaN(), Dual: y}
				return
			}
		}
		res = s.primal(m)
	}
	if !runInterruptible(ctx, run) {
		log.V(1).Infof("lpsolver: %s abandoned: %v", m.Name, ctx.Err())
		return &solver.Response{Status: solver.StatusUnknown, BestBound: math.NaN()}, nil
	}
	return res, nil
}

// runInterruptible runs f on its own goroutine and reports whether it
// finished before ctx was done. An abandoned f keeps running; it must only
// touch state the caller no longer reads.
func runInterruptible(ctx context.Context, f func()) bool {
	if ctx.Err() != nil {
		return false
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

// columns lists the variables that take part in the linear algebra. Variables
// fixed at zero contribute nothing to any row.
func columns(m *model.Model) []int {
	var cols []int
	for j, v := range m.Variables {
		if v.LowerBound == 0 && v.UpperBound == 0 {
			continue
		}
		cols = append(cols, j)
	}
	return cols
}

// farkas searches for a certificate of infeasibility. With one multiplier
// per finite row or variable bound it solves
//
//	minimize   f = Σ hi·zhi − Σ lo·zlo + Σ u·zu − Σ l·zl
//	subject to Aᵀ(zhi − zlo) + zu − zl = 0,  t − f = 1,  z, t ≥ 0
//
// whose optimum is −1 exactly when the model is infeasible and 0 otherwise.
// The zu carry a small extra cost so that certificates built from rows alone
// are preferred.
func (s *Solver) farkas(m *model.Model) ([]float64, bool) {
	cols := columns(m)
	colRow := make(map[int]int, len(cols))
	for k, j := range cols {
		colRow[j] = k
	}
	rowEntries := make([]map[int]float64, len(m.Rows))
	for _, j := range cols {
		for k, r := range m.Columns[j].Rows {
			if c := m.Columns[j].Coeffs[k]; c != 0 {
				if rowEntries[r] == nil {
					rowEntries[r] = make(map[int]float64)
				}
				rowEntries[r][colRow[j]] += c
			}
		}
	}

	type multiplier struct {
		row     int // model row, or -1 for a variable bound
		sign    float64
		cost    float64
		penalty float64
		entry   map[int]float64
	}
	scaled := func(e map[int]float64, sign float64) map[int]float64 {
		out := make(map[int]float64, len(e))
		for k, c := range e {
			out[k] = sign * c
		}
		return out
	}
	var zs []multiplier
	for i, r := range m.Rows {
		if len(rowEntries[i]) == 0 {
			// An empty row only matters when 0 violates it.
			if r.UpperBound < 0 {
				zs = append(zs, multiplier{row: i, sign: 1, cost: r.UpperBound})
			}
			if r.LowerBound > 0 {
				zs = append(zs, multiplier{row: i, sign: -1, cost: -r.LowerBound})
			}
			continue
		}
		if !math.IsInf(r.UpperBound, 1) {
			zs = append(zs, multiplier{row: i, sign: 1, cost: r.UpperBound, entry: scaled(rowEntries[i], 1)})
		}
		if !math.IsInf(r.LowerBound, -1) {
			zs = append(zs, multiplier{row: i, sign: -1, cost: -r.LowerBound, entry: scaled(rowEntries[i], -1)})
		}
	}
	for k, j := range cols {
		v := m.Variables[j]
		if !math.IsInf(v.UpperBound, 1) {
			zs = append(zs, multiplier{row: -1, cost: v.UpperBound, penalty: boundPenalty, entry: map[int]float64{k: 1}})
		}
		if !math.IsInf(v.LowerBound, -1) {
			zs = append(zs, multiplier{row: -1, cost: -v.LowerBound, entry: map[int]float64{k: -1}})
		}
	}

	// Rows 0..len(cols)-1 balance the columns, the last one normalizes.
	nr := len(cols) + 1
	nc := len(zs) + 1
	a := mat.NewDense(nr, nc, nil)
	c := make([]float64, nc)
	b := make([]float64, nr)
	for z, mu := range zs {
		for k, val := range mu.entry {
			a.Set(k, z, val)
		}
		a.Set(nr-1, z, -mu.cost)
		c[z] = mu.cost + mu.penalty
	}
	a.Set(nr-1, nc-1, 1)
	b[nr-1] = 1

	_, z, err := lp.Simplex(c, a, b, simplexTol, nil)
	if err != nil {
		log.Warningf("lpsolver: certificate search on %s failed: %v", m.Name, err)
		return nil, false
	}
	f := 0.0
	y := make([]float64, len(m.Rows))
	for k, mu := range zs {
		f += mu.cost * z[k]
		if mu.row >= 0 {
			y[mu.row] += mu.sign * z[k]
		}
	}
	log.V(1).Infof("lpsolver: %s certificate objective %g", m.Name, f)
	if f >= -s.tolerance() {
		return nil, false
	}
	return y, true
}

// primal solves m over the box l ≤ x ≤ u, shifted to x = l + x′ and written as
//
//	minimize ±c·x′  subject to  G·x′ + s = h,  x′, s ≥ 0
//
// with one slack per finite row side or upper variable bound.
func (s *Solver) primal(m *model.Model) *solver.Response {
	sense := 1.0
	if m.Maximize {
		sense = -1
	}
	x := make([]float64, len(m.Variables))
	var free []int
	for j, v := range m.Variables {
		if math.IsInf(v.LowerBound, -1) {
			log.Warningf("lpsolver: %s variable %d has no lower bound", m.Name, j)
			return &solver.Response{Status: solver.StatusUnknown, BestBound: math.NaN()}
		}
		x[j] = v.LowerBound
		if !v.Fixed() {
			free = append(free, j)
		}
	}
	// Row activities at x = l.
	base := m.Activities(x)

	type inequality struct {
		coeffs map[int]float64 // keyed by variable index
		rhs    float64
	}
	rowEntries := make([]map[int]float64, len(m.Rows))
	for _, j := range free {
		for k, r := range m.Columns[j].Rows {
			if c := m.Columns[j].Coeffs[k]; c != 0 {
				if rowEntries[r] == nil {
					rowEntries[r] = make(map[int]float64)
				}
				rowEntries[r][j] += c
			}
		}
	}
	var g []inequality
	for i, r := range m.Rows {
		if len(rowEntries[i]) == 0 {
			if base[i] < r.LowerBound || base[i] > r.UpperBound {
				return &solver.Response{Status: solver.StatusInfeasible, BestBound: math.NaN()}
			}
			continue
		}
		if !math.IsInf(r.UpperBound, 1) {
			g = append(g, inequality{coeffs: rowEntries[i], rhs: r.UpperBound - base[i]})
		}
		if !math.IsInf(r.LowerBound, -1) {
			neg := make(map[int]float64, len(rowEntries[i]))
			for j, c := range rowEntries[i] {
				neg[j] = -c
			}
			g = append(g, inequality{coeffs: neg, rhs: base[i] - r.LowerBound})
		}
	}
	for _, j := range free {
		if v := m.Variables[j]; !math.IsInf(v.UpperBound, 1) {
			g = append(g, inequality{coeffs: map[int]float64{j: 1}, rhs: v.UpperBound - v.LowerBound})
		}
	}

	// Variables absent from G stay at their lower bound unless the objective
	// pushes them to infinity.
	pos := make(map[int]int)
	var used []int
	for _, in := range g {
		for j := range in.coeffs {
			if _, ok := pos[j]; !ok {
				pos[j] = -1
			}
		}
	}
	for _, j := range free {
		if _, ok := pos[j]; !ok {
			if sense*m.Variables[j].ObjectiveCoefficient < 0 {
				return &solver.Response{Status: solver.StatusUnbounded, BestBound: math.NaN()}
			}
			continue
		}
		pos[j] = len(used)
		used = append(used, j)
	}
	if len(g) == 0 {
		return response(m, solver.StatusOptimal, x)
	}

	nu := len(used)
	a := mat.NewDense(len(g), nu+len(g), nil)
	b := make([]float64, len(g))
	c := make([]float64, nu+len(g))
	for i, in := range g {
		for j, val := range in.coeffs {
			a.Set(i, pos[j], val)
		}
		a.Set(i, nu+i, 1)
		b[i] = in.rhs
	}
	for k, j := range used {
		c[k] = sense * m.Variables[j].ObjectiveCoefficient
	}
	_, z, err := lp.Simplex(c, a, b, simplexTol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return &solver.Response{Status: solver.StatusInfeasible, BestBound: math.NaN()}
	case errors.Is(err, lp.ErrUnbounded):
		return &solver.Response{Status: solver.StatusUnbounded, BestBound: math.NaN()}
	case err != nil:
		log.Warningf("lpsolver: simplex on %s failed: %v", m.Name, err)
		return &solver.Response{Status: solver.StatusUnknown, BestBound: math.NaN()}
	}
	for k, j := range used {
		x[j] += z[k]
	}
	return response(m, solver.StatusOptimal, x)
}

func response(m *model.Model, status solver.Status, x []float64) *solver.Response {
	obj := m.Objective(x)
	return &solver.Response{Status: status, Objective: obj, BestBound: obj, Primal: x}
}
