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

// Package pbsolver solves 0/1 integer models with the gophersat
// pseudo-boolean engine.
//
// Every variable must be binary (or fixed to 0 or 1) and every coefficient
// and bound must be integral; rows become pseudo-boolean constraints.
// Optimization proceeds by repeatedly asking for a strictly better model
// until the engine proves none exists or the objective bound is reached.
package pbsolver

import (
	"context"
	"fmt"
	"math"

	pbs "github.com/crillab/gophersat/solver"
	log "github.com/golang/glog"

	"github.com/polycover/polycover/model"
	"github.com/polycover/polycover/solver"
)

// Solver implements solver.Port. The zero value is ready to use.
type Solver struct {
	// Verbose makes the engine print its search statistics on stdout.
	Verbose bool
}

// New returns a Solver.
func New() *Solver {
	return &Solver{}
}

// problem is a model translated to engine literals. Variable j is literal j+1.
type problem struct {
	constrs []pbs.PBConstr
	// fixed holds the value of variables decided without the engine.
	fixed map[int]bool
	// infeasible is set when a row without variables cannot be satisfied.
	infeasible bool
	objLits    []int
	objWeights []int
	// objConst is the objective contribution of the fixed variables.
	objConst int
	// bound is the best objective the engine could possibly reach.
	bound int
}

func integral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f
}

func translate(m *model.Model) (*problem, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", solver.ErrUnsupportedModel, err)
	}
	pb := &problem{fixed: make(map[int]bool)}
	for j, v := range m.Variables {
		if !integral(v.ObjectiveCoefficient) {
			return nil, fmt.Errorf("%w: variable %d has fractional objective %v", solver.ErrUnsupportedModel, j, v.ObjectiveCoefficient)
		}
		if v.Fixed() {
			if v.LowerBound != 0 && v.LowerBound != 1 {
				return nil, fmt.Errorf("%w: variable %d fixed to %v", solver.ErrUnsupportedModel, j, v.LowerBound)
			}
			pb.fixed[j] = v.LowerBound == 1
		} else if !v.IsInteger || math.Ceil(v.LowerBound) < 0 || math.Floor(v.UpperBound) > 1 {
			return nil, fmt.Errorf("%w: variable %d is not binary", solver.ErrUnsupportedModel, j)
		}
		for _, c := range m.Columns[j].Coeffs {
			if !integral(c) {
				return nil, fmt.Errorf("%w: variable %d has fractional coefficient %v", solver.ErrUnsupportedModel, j, c)
			}
		}
	}

	// Rows are rewritten over the free variables only; fixed ones shift the
	// bounds.
	rowLits := make([][]int, len(m.Rows))
	rowWeights := make([][]int, len(m.Rows))
	rowShift := make([]float64, len(m.Rows))
	for j, col := range m.Columns {
		val, isFixed := pb.fixed[j]
		for k, r := range col.Rows {
			c := col.Coeffs[k]
			switch {
			case c == 0:
			case isFixed:
				if val {
					rowShift[r] += c
				}
			default:
				rowLits[r] = append(rowLits[r], j+1)
				rowWeights[r] = append(rowWeights[r], int(c))
			}
		}
	}
	for i, r := range m.Rows {
		lo, hi := r.LowerBound-rowShift[i], r.UpperBound-rowShift[i]
		if len(rowLits[i]) == 0 {
			if lo > 0 || hi < 0 {
				pb.infeasible = true
			}
			continue
		}
		if !math.IsInf(lo, -1) {
			pb.add(pbs.GtEq(clone(rowLits[i]), clone(rowWeights[i]), int(math.Ceil(lo))))
		}
		if !math.IsInf(hi, 1) {
			pb.add(pbs.LtEq(clone(rowLits[i]), clone(rowWeights[i]), int(math.Floor(hi))))
		}
	}

	// Only variables occurring in a binding constraint are known to the
	// engine; the rest take whichever bound the objective prefers.
	inEngine := make(map[int]bool)
	for _, c := range pb.constrs {
		for _, lit := range c.Lits {
			if lit < 0 {
				lit = -lit
			}
			inEngine[lit-1] = true
		}
	}
	sign := 1
	if !m.Maximize {
		sign = -1
	}
	for j, v := range m.Variables {
		c := int(v.ObjectiveCoefficient)
		if val, ok := pb.fixed[j]; ok {
			if val {
				pb.objConst += c
			}
			continue
		}
		if !inEngine[j] {
			up := sign*c > 0 || (c == 0 && v.LowerBound > 0)
			pb.fixed[j] = up
			if up {
				pb.objConst += c
			}
			continue
		}
		if c != 0 {
			pb.objLits = append(pb.objLits, j+1)
			pb.objWeights = append(pb.objWeights, c)
			if sign*c > 0 {
				pb.bound += sign * c
			}
		}
	}
	return pb, nil
}

// add keeps c unless it is trivially satisfied. Unsatisfiable constraints
// are kept so that the engine reports them.
func (pb *problem) add(c pbs.PBConstr) {
	if c.AtLeast <= 0 {
		return
	}
	pb.constrs = append(pb.constrs, c)
}

func clone(s []int) []int {
	return append([]int(nil), s...)
}

type outcome struct {
	status pbs.Status
	model  []bool
}

// solveAsync runs one engine search. The engine is not interruptible, so on
// cancellation the search keeps running on its goroutine and its result is
// dropped; the caller must not touch the engine again.
func solveAsync(ctx context.Context, engine *pbs.Solver) (outcome, bool) {
	if ctx.Err() != nil {
		return outcome{}, false
	}
	done := make(chan outcome, 1)
	go func() {
		st := engine.Solve()
		var m []bool
		if st == pbs.Sat {
			m = engine.Model()
		}
		done <- outcome{status: st, model: m}
	}()
	select {
	case o := <-done:
		return o, true
	case <-ctx.Done():
		return outcome{}, false
	}
}

// Solve implements solver.Port. Duals are never returned.
func (s *Solver) Solve(ctx context.Context, req *solver.Request) (*solver.Response, error) {
	if req == nil || req.Model == nil {
		return nil, solver.ErrNilModel
	}
	m := req.Model
	pb, err := translate(m)
	if err != nil {
		return nil, err
	}
	if pb.infeasible {
		return &solver.Response{Status: solver.StatusInfeasible, BestBound: math.NaN()}, nil
	}
	if len(pb.constrs) == 0 {
		x := primal(m, pb, nil)
		return s.response(m, solver.StatusOptimal, x, 0), nil
	}
	ctx, cancel := solver.WithTimeLimit(ctx, req)
	defer cancel()

	sign := 1
	if !m.Maximize {
		sign = -1
	}
	// target is the best engine objective worth looking for, in the sign
	// convention where larger is better.
	target := pb.bound
	if !math.IsNaN(m.ObjectiveBound) && !math.IsInf(m.ObjectiveBound, 0) {
		hint := int(math.Floor(float64(sign)*m.ObjectiveBound)) - sign*pb.objConst
		if hint < target {
			target = hint
		}
	}

	engine := pbs.New(pbs.ParsePBConstrs(pb.constrs))
	engine.Verbose = s.Verbose
	var best []float64
	bestObj := 0
	for iter := 0; ; iter++ {
		o, finished := solveAsync(ctx, engine)
		if !finished {
			log.V(1).Infof("pbsolver: %s stopped after %d improving models: %v", m.Name, iter, ctx.Err())
			if best == nil {
				return &solver.Response{Status: solver.StatusUnknown, BestBound: math.NaN()}, nil
			}
			return s.response(m, solver.StatusFeasible, best, float64(sign*target+pb.objConst)), nil
		}
		if o.status != pbs.Sat {
			if best == nil {
				return &solver.Response{Status: solver.StatusInfeasible, BestBound: math.NaN()}, nil
			}
			break
		}
		best = primal(m, pb, o.model)
		bestObj = 0
		for i, lit := range pb.objLits {
			if o.model[lit-1] {
				bestObj += sign * pb.objWeights[i]
			}
		}
		log.V(2).Infof("pbsolver: %s model %d has objective %d", m.Name, iter, sign*bestObj+pb.objConst)
		if len(pb.objLits) == 0 || bestObj >= target {
			break
		}
		next := improving(pb, sign, bestObj)
		if next.AtLeast > next.WeightSum() {
			break
		}
		engine.AppendClause(next.Clause())
	}
	obj := float64(sign*bestObj + pb.objConst)
	return s.response(m, solver.StatusOptimal, best, obj), nil
}

// improving returns the constraint "objective strictly better than cur".
func improving(pb *problem, sign, cur int) pbs.PBConstr {
	lits := clone(pb.objLits)
	weights := make([]int, len(pb.objWeights))
	for i, w := range pb.objWeights {
		weights[i] = sign * w
	}
	return pbs.GtEq(lits, weights, cur+1)
}

func primal(m *model.Model, pb *problem, bindings []bool) []float64 {
	x := make([]float64, len(m.Variables))
	for j := range x {
		if v, ok := pb.fixed[j]; ok {
			if v {
				x[j] = 1
			}
			continue
		}
		if j < len(bindings) && bindings[j] {
			x[j] = 1
		}
	}
	return x
}

func (s *Solver) response(m *model.Model, status solver.Status, x []float64, bound float64) *solver.Response {
	res := &solver.Response{
		Status:    status,
		Objective: m.Objective(x),
		Primal:    x,
		BestBound: bound,
	}
	if status == solver.StatusOptimal {
		res.BestBound = res.Objective
	}
	return res
}
