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

// Package solver defines the port through which covering models are handed to
// an optimization engine, and the statuses an engine reports back.
//
// Engines live in sub-packages: pbsolver solves 0/1 models exactly,
// lpsolver solves continuous relaxations and produces Farkas duals, and
// solvertest provides a deterministic fake.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/polycover/polycover/model"
)

var (
	// ErrNilModel is returned when a request carries no model.
	ErrNilModel = errors.New("solver: request has no model")
	// ErrUnsupportedModel is returned when an engine cannot represent a model.
	ErrUnsupportedModel = errors.New("solver: model not supported by this engine")
)

// Status is the outcome of a solve. The names follow MPSolverResponseStatus.
type Status int

const (
	// StatusUnknown means the engine stopped without a conclusion.
	StatusUnknown Status = iota
	// StatusOptimal means the returned primal solution is optimal.
	StatusOptimal
	// StatusFeasible means a solution was found but the time limit stopped
	// the search before optimality was proven.
	StatusFeasible
	// StatusInfeasible means the model has no solution.
	StatusInfeasible
	// StatusUnbounded means the objective is unbounded.
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbounded:
		return "UNBOUNDED"
	default:
		return "UNKNOWN"
	}
}

// HasSolution reports whether a response with this status carries a primal
// solution.
func (s Status) HasSolution() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Request is one solve call.
type Request struct {
	Model *model.Model
	// TimeLimit bounds the solve. Zero means no limit.
	TimeLimit time.Duration
	// WantDuals asks for a dual vector. Only continuous models can provide
	// one; when the model is infeasible the vector is a Farkas certificate.
	WantDuals bool
}

// Response is the result of a solve.
type Response struct {
	Status Status
	// Objective is the objective value of Primal.
	Objective float64
	// BestBound is the best proven bound on the objective, NaN if unknown.
	BestBound float64
	// Primal has one value per variable when Status.HasSolution().
	Primal []float64
	// Dual has one value per row when duals were requested and available.
	Dual []float64
}

// Port is implemented by every engine. Solve returns an error only for
// malformed requests; every solving outcome, including time limits and
// infeasibility, is reported through Response.Status.
type Port interface {
	Solve(ctx context.Context, req *Request) (*Response, error)
}

// WithTimeLimit derives the context an engine should run under: ctx bounded
// by the request's time limit, if any.
func WithTimeLimit(ctx context.Context, req *Request) (context.Context, context.CancelFunc) {
	if req.TimeLimit > 0 {
		return context.WithTimeout(ctx, req.TimeLimit)
	}
	return context.WithCancel(ctx)
}

// Dispatcher routes models with integer variables to Integer and continuous
// models to Linear.
type Dispatcher struct {
	Integer Port
	Linear  Port
}

// Solve implements Port.
func (d Dispatcher) Solve(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Model == nil {
		return nil, ErrNilModel
	}
	if req.Model.HasIntegerVariables() {
		if d.Integer == nil {
			return nil, fmt.Errorf("%w: no integer engine configured", ErrUnsupportedModel)
		}
		return d.Integer.Solve(ctx, req)
	}
	if d.Linear == nil {
		return nil, fmt.Errorf("%w: no linear engine configured", ErrUnsupportedModel)
	}
	return d.Linear.Solve(ctx, req)
}
