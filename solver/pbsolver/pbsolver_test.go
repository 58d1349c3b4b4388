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

package pbsolver_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polycover/polycover/geometry"
	"github.com/polycover/polycover/model"
	"github.com/polycover/polycover/solver"
	"github.com/polycover/polycover/solver/pbsolver"
)

func build(t *testing.T, rows, cols int, shapes []geometry.Shape, opts model.Options, blocked ...geometry.Cell) *model.Model {
	t.Helper()
	board, err := geometry.NewBoard(rows, cols, blocked...)
	require.NoError(t, err)
	b, err := model.NewBuilder(board, shapes, opts)
	require.NoError(t, err)
	m, _ := b.Build()
	return m
}

func mono(t *testing.T) []geometry.Shape {
	t.Helper()
	s, err := geometry.Rectangle(1, 1)
	require.NoError(t, err)
	return []geometry.Shape{s}
}

func bars(t *testing.T, lengths ...int) []geometry.Shape {
	t.Helper()
	s, err := geometry.Bars(lengths...)
	require.NoError(t, err)
	return s
}

func solve(t *testing.T, m *model.Model) *solver.Response {
	t.Helper()
	res, err := pbsolver.New().Solve(context.Background(), &solver.Request{Model: m, TimeLimit: time.Minute})
	require.NoError(t, err)
	return res
}

// rowsSatisfied checks x against every row and variable bound of m.
func rowsSatisfied(t *testing.T, m *model.Model, x []float64) {
	t.Helper()
	require.Len(t, x, m.NumVariables())
	for j, v := range m.Variables {
		assert.GreaterOrEqual(t, x[j], v.LowerBound, "variable %s", v.Name)
		assert.LessOrEqual(t, x[j], v.UpperBound, "variable %s", v.Name)
	}
	for i, a := range m.Activities(x) {
		r := m.Rows[i]
		assert.GreaterOrEqual(t, a, r.LowerBound, "row %s", r.Name)
		assert.LessOrEqual(t, a, r.UpperBound, "row %s", r.Name)
	}
}

func TestSolve_SingleCell(t *testing.T) {
	m := build(t, 1, 1, mono(t), model.Options{Exact: true})
	res := solve(t, m)
	require.Equal(t, solver.StatusOptimal, res.Status)
	assert.Equal(t, []float64{1}, res.Primal)
	assert.Equal(t, 1.0, res.Objective)
	assert.Equal(t, 1.0, res.BestBound)
	assert.Nil(t, res.Dual)
}

func TestSolve_ExactDominoes(t *testing.T) {
	m := build(t, 2, 4, bars(t, 2), model.Options{Exact: true}, geometry.Cell{Row: 0, Col: 0}, geometry.Cell{Row: 0, Col: 3})
	res := solve(t, m)
	require.Equal(t, solver.StatusOptimal, res.Status)
	assert.Equal(t, 6.0, res.Objective)
	rowsSatisfied(t, m, res.Primal)
}

func TestSolve_OddAreaIsInfeasible(t *testing.T) {
	m := build(t, 3, 3, bars(t, 2), model.Options{Exact: true})
	res := solve(t, m)
	assert.Equal(t, solver.StatusInfeasible, res.Status)
	assert.Nil(t, res.Primal)
}

func TestSolve_MaximalWithRepetitionLimit(t *testing.T) {
	m := build(t, 11, 3, geometry.Tetrominoes(), model.Options{RepetitionLimit: 1})
	res := solve(t, m)
	require.Equal(t, solver.StatusOptimal, res.Status)
	// I never fits three columns, so six tetrominoes at most.
	assert.Equal(t, 24.0, res.Objective)
	assert.Equal(t, res.Objective, m.Objective(res.Primal))
	rowsSatisfied(t, m, res.Primal)
}

func TestSolve_TimeLimitKeepsIncumbent(t *testing.T) {
	m := build(t, 25, 25, geometry.Tetrominoes(), model.Options{})
	res, err := pbsolver.New().Solve(context.Background(), &solver.Request{Model: m, TimeLimit: 300 * time.Millisecond})
	require.NoError(t, err)
	// 25×25 leaves at least one cell uncovered, and the improving loop is far
	// from 624 cells after a fraction of a second.
	require.Equal(t, solver.StatusFeasible, res.Status)
	require.NotNil(t, res.Primal)
	rowsSatisfied(t, m, res.Primal)
	assert.Equal(t, m.Objective(res.Primal), res.Objective)
	assert.Positive(t, res.Objective)
	assert.GreaterOrEqual(t, res.BestBound, res.Objective)
	assert.LessOrEqual(t, res.BestBound, m.ObjectiveBound)
}

func TestSolve_Minimize(t *testing.T) {
	m := &model.Model{
		Name:           "cover_one",
		ObjectiveBound: math.NaN(),
		Variables: []model.Variable{
			{Name: "a", UpperBound: 1, IsInteger: true, ObjectiveCoefficient: 2},
			{Name: "b", UpperBound: 1, IsInteger: true, ObjectiveCoefficient: 3},
			{Name: "c", LowerBound: 1, UpperBound: 1, IsInteger: true, ObjectiveCoefficient: 5},
			{Name: "unused", UpperBound: 1, IsInteger: true, ObjectiveCoefficient: 7},
		},
		Rows: []model.Row{{Name: "any", LowerBound: 1, UpperBound: 2}},
		Columns: []model.Column{
			{Rows: []int{0}, Coeffs: []float64{1}},
			{Rows: []int{0}, Coeffs: []float64{1}},
			{},
			{},
		},
	}
	res := solve(t, m)
	require.Equal(t, solver.StatusOptimal, res.Status)
	assert.Equal(t, []float64{1, 0, 1, 0}, res.Primal)
	assert.Equal(t, 7.0, res.Objective)
}

func TestSolve_UnsupportedModels(t *testing.T) {
	for _, tc := range []struct {
		name string
		v    model.Variable
		c    float64
	}{
		{"continuous", model.Variable{UpperBound: 1}, 1},
		{"general integer", model.Variable{UpperBound: 3, IsInteger: true}, 1},
		{"fractional coefficient", model.Variable{UpperBound: 1, IsInteger: true}, 0.5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m := &model.Model{
				Variables: []model.Variable{tc.v},
				Rows:      []model.Row{{LowerBound: 0, UpperBound: 1}},
				Columns:   []model.Column{{Rows: []int{0}, Coeffs: []float64{tc.c}}},
			}
			_, err := pbsolver.New().Solve(context.Background(), &solver.Request{Model: m})
			assert.ErrorIs(t, err, solver.ErrUnsupportedModel)
		})
	}
}

func TestSolve_NilModel(t *testing.T) {
	_, err := pbsolver.New().Solve(context.Background(), &solver.Request{})
	assert.ErrorIs(t, err, solver.ErrNilModel)
}

func TestSolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := build(t, 4, 4, bars(t, 2), model.Options{Exact: true})
	res, err := pbsolver.New().Solve(ctx, &solver.Request{Model: m})
	require.NoError(t, err)
	assert.Equal(t, solver.StatusUnknown, res.Status)
	assert.Nil(t, res.Primal)
}
