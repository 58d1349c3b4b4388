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

// Package model builds the 0/1 integer linear program of a planar covering
// problem.
//
// The `Builder` turns a board, a shape catalogue and `Options` into a `Model`:
// one binary variable per candidate placement (numbered by package layout),
// one row per board cell, and optionally one row per shape capping how often
// it is used. The `Model` is a plain, solver-independent description in the
// spirit of MPModelProto: variable bounds and integrality, row bounds, a
// column-oriented sparse matrix and a linear objective.
package model

import (
	"fmt"
	"math"
)

// Variable describes one column of the model.
type Variable struct {
	Name                 string
	LowerBound           float64
	UpperBound           float64
	IsInteger            bool
	ObjectiveCoefficient float64
}

// Fixed reports whether the variable can only take a single value.
func (v Variable) Fixed() bool { return v.LowerBound == v.UpperBound }

// Row describes the bounds of one linear constraint. Use math.Inf for a
// missing side.
type Row struct {
	Name       string
	LowerBound float64
	UpperBound float64
}

// Column holds the non-zero coefficients of one variable, keyed by row index.
type Column struct {
	Rows   []int
	Coeffs []float64
}

// Model is a mixed integer linear program
//
//	maximize (or minimize)  Σ obj_j·x_j
//	subject to              lb_i ≤ Σ A_ij·x_j ≤ ub_i   for every row i
//	                        lb_j ≤ x_j ≤ ub_j          for every variable j
//
// with A stored column by column. Once built a Model is never mutated;
// methods that derive a new model return a copy.
type Model struct {
	Name      string
	Maximize  bool
	Variables []Variable
	Rows      []Row
	// Columns has one entry per variable.
	Columns []Column
	// ObjectiveBound is a bound on the optimal objective known at build time
	// (an upper bound when maximizing). NaN when unknown.
	ObjectiveBound float64
}

// NumVariables returns the number of variables.
func (m *Model) NumVariables() int { return len(m.Variables) }

// NumRows returns the number of constraints.
func (m *Model) NumRows() int { return len(m.Rows) }

// NumNonZeros returns the number of stored matrix coefficients.
func (m *Model) NumNonZeros() int {
	nnz := 0
	for _, c := range m.Columns {
		nnz += len(c.Rows)
	}
	return nnz
}

// HasIntegerVariables reports whether at least one non-fixed variable is
// integer.
func (m *Model) HasIntegerVariables() bool {
	for _, v := range m.Variables {
		if v.IsInteger && !v.Fixed() {
			return true
		}
	}
	return false
}

// Relaxed returns a copy of m where every variable is continuous. Bounds,
// rows and the objective are unchanged. The matrix is shared since models
// are immutable.
func (m *Model) Relaxed() *Model {
	r := *m
	r.Name = m.Name + "_relaxed"
	r.Variables = make([]Variable, len(m.Variables))
	copy(r.Variables, m.Variables)
	for i := range r.Variables {
		r.Variables[i].IsInteger = false
	}
	return &r
}

// Objective evaluates the objective at x.
func (m *Model) Objective(x []float64) float64 {
	obj := 0.0
	for j, v := range m.Variables {
		if j < len(x) {
			obj += v.ObjectiveCoefficient * x[j]
		}
	}
	return obj
}

// Activities returns Σ A_ij·x_j for every row i.
func (m *Model) Activities(x []float64) []float64 {
	act := make([]float64, len(m.Rows))
	for j, col := range m.Columns {
		if j >= len(x) || x[j] == 0 {
			continue
		}
		for k, r := range col.Rows {
			act[r] += col.Coeffs[k] * x[j]
		}
	}
	return act
}

// Validate checks the internal consistency of m: one column per variable,
// in-range row indices and ordered bounds.
func (m *Model) Validate() error {
	if len(m.Columns) != len(m.Variables) {
		return fmt.Errorf("model %q has %d columns for %d variables", m.Name, len(m.Columns), len(m.Variables))
	}
	for j, v := range m.Variables {
		if v.LowerBound > v.UpperBound || math.IsNaN(v.LowerBound) || math.IsNaN(v.UpperBound) {
			return fmt.Errorf("variable %d has invalid bounds [%v,%v]", j, v.LowerBound, v.UpperBound)
		}
		col := m.Columns[j]
		if len(col.Rows) != len(col.Coeffs) {
			return fmt.Errorf("column %d has %d rows for %d coefficients", j, len(col.Rows), len(col.Coeffs))
		}
		for _, r := range col.Rows {
			if r < 0 || r >= len(m.Rows) {
				return fmt.Errorf("column %d references row %d, model has %d rows", j, r, len(m.Rows))
			}
		}
	}
	for i, r := range m.Rows {
		if r.LowerBound > r.UpperBound || math.IsNaN(r.LowerBound) || math.IsNaN(r.UpperBound) {
			return fmt.Errorf("row %d has invalid bounds [%v,%v]", i, r.LowerBound, r.UpperBound)
		}
	}
	return nil
}
