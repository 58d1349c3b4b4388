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

// Package covering runs the whole pipeline for one board: validate the
// configuration, build the covering model, solve it through a solver port,
// then either decode the placements or look for an infeasibility certificate.
package covering

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/golang/glog"

	"github.com/polycover/polycover/certificate"
	"github.com/polycover/polycover/geometry"
	"github.com/polycover/polycover/model"
	"github.com/polycover/polycover/solution"
	"github.com/polycover/polycover/solver"
)

var (
	// ErrNegativeTimeLimit is returned for a time limit below zero.
	ErrNegativeTimeLimit = errors.New("covering: time limit must not be negative")
	// ErrNegativeTolerance is returned for a certificate tolerance below zero.
	ErrNegativeTolerance = errors.New("covering: tolerance must not be negative")
	// ErrNilPort is returned when no solver port is given.
	ErrNilPort = errors.New("covering: solver port is required")
)

// Options tunes a run.
type Options struct {
	// Exact asks for a covering of every open cell. When false the covered
	// area is maximized instead.
	Exact bool
	// RepetitionLimit caps how often each shape is placed. Zero means
	// unlimited.
	RepetitionLimit int
	// TimeLimit bounds each solver call. Zero means no limit.
	TimeLimit time.Duration
	// Threshold is the value above which a placement counts as selected.
	// Zero means solution.DefaultThreshold.
	Threshold float64
	// Tolerance is the slack allowed when validating a certificate. Zero
	// means certificate.DefaultTolerance.
	Tolerance float64
}

// DefaultOptions returns the options of an exact covering run.
func DefaultOptions() Options {
	return Options{
		Exact:     true,
		Threshold: solution.DefaultThreshold,
		Tolerance: certificate.DefaultTolerance,
	}
}

// Validate reports configuration errors in o.
func (o Options) Validate() error {
	if err := (model.Options{Exact: o.Exact, RepetitionLimit: o.RepetitionLimit}).Validate(); err != nil {
		return err
	}
	if o.TimeLimit < 0 {
		return fmt.Errorf("time limit %v: %w", o.TimeLimit, ErrNegativeTimeLimit)
	}
	if o.Threshold < 0 || o.Threshold >= 1 {
		return fmt.Errorf("threshold %v: %w", o.Threshold, solution.ErrThreshold)
	}
	if o.Tolerance < 0 {
		return fmt.Errorf("tolerance %v: %w", o.Tolerance, ErrNegativeTolerance)
	}
	return nil
}

// Config is everything a run needs besides the solver.
type Config struct {
	Board   *geometry.Board
	Shapes  []geometry.Shape
	Options Options
}

// Result is what a run produces.
type Result struct {
	// Status is the status of the integer solve.
	Status solver.Status
	// Placements are the selected placements, in placement index order.
	Placements []solution.Placement
	// CoveredArea is the number of cells the placements cover.
	CoveredArea int
	// Objective and BestBound are as reported by the solver.
	Objective float64
	BestBound float64
	// Suboptimal is set when Placements come from an incumbent the solver
	// could not prove optimal.
	Suboptimal bool
	// Analysis is set when the integer model was infeasible.
	Analysis *certificate.Result
}

// CertificateState returns the state of the infeasibility analysis.
func (r *Result) CertificateState() certificate.State {
	if r.Analysis == nil {
		return certificate.NotAttempted
	}
	return r.Analysis.State
}

// Certificate returns the validated certificate, or nil.
func (r *Result) Certificate() *certificate.Certificate {
	if r.Analysis == nil {
		return nil
	}
	return r.Analysis.Certificate
}

// Solve runs cfg against port. Configuration errors are returned before any
// solve; solver outcomes are reported in the Result. A solution violating the
// covering constraints is returned as an error, since it means port is broken.
func Solve(ctx context.Context, cfg Config, port solver.Port) (*Result, error) {
	if port == nil {
		return nil, ErrNilPort
	}
	if err := cfg.Options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	opts := cfg.Options
	b, err := model.NewBuilder(cfg.Board, cfg.Shapes, model.Options{Exact: opts.Exact, RepetitionLimit: opts.RepetitionLimit})
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	m, arena := b.Build()

	start := time.Now()
	resp, err := port.Solve(ctx, &solver.Request{Model: m, TimeLimit: opts.TimeLimit})
	if err != nil {
		return nil, fmt.Errorf("solving %s: %w", m.Name, err)
	}
	log.V(1).Infof("covering: %s solved in %v with status %v, objective %g, bound %g",
		m.Name, time.Since(start), resp.Status, resp.Objective, resp.BestBound)

	res := &Result{
		Status:    resp.Status,
		Objective: resp.Objective,
		BestBound: resp.BestBound,
	}
	if resp.Status == solver.StatusInfeasible {
		a := &certificate.Analyzer{Port: port, Tolerance: opts.Tolerance, TimeLimit: opts.TimeLimit}
		res.Analysis, err = a.Analyze(ctx, m, arena, cfg.Board)
		switch {
		case errors.Is(err, solver.ErrUnsupportedModel):
			log.Warningf("covering: cannot analyze %s: %v", m.Name, err)
			res.Analysis = &certificate.Result{State: certificate.NoCertificate, Diagnostic: err.Error()}
		case err != nil:
			return nil, err
		}
		return res, nil
	}
	if len(resp.Primal) == 0 {
		return res, nil
	}

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = solution.DefaultThreshold
	}
	placements, err := solution.Decode(arena, resp.Primal, threshold)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", m.Name, err)
	}
	if err := solution.Verify(cfg.Board, placements, opts.Exact); err != nil {
		log.Errorf("covering: solver returned an inconsistent solution for %s: %v", m.Name, err)
		return nil, fmt.Errorf("verifying %s: %w", m.Name, err)
	}
	res.Placements = placements
	res.CoveredArea = solution.Area(placements)
	res.Suboptimal = resp.Status != solver.StatusOptimal
	if limit := opts.RepetitionLimit; limit > 0 {
		for k, n := range solution.ShapeCounts(placements, len(cfg.Shapes)) {
			if n > limit {
				return nil, fmt.Errorf("verifying %s: shape %d placed %d times, limit %d", m.Name, k, n, limit)
			}
		}
	}
	return res, nil
}
