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

// Package certificate explains integer infeasibility of a covering model
// with a Farkas certificate of its continuous relaxation.
//
// A certificate assigns a real weight y to every board cell such that each
// valid placement covers weight at least zero while the open cells sum to
// something negative. Any exact covering would sum those weights twice, once
// per placement and once per cell, so none can exist. The method is
// one-sided: a feasible relaxation proves nothing either way.
package certificate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	log "github.com/golang/glog"

	"github.com/polycover/polycover/geometry"
	"github.com/polycover/polycover/model"
	"github.com/polycover/polycover/solver"
)

// DefaultTolerance is the slack allowed when checking a certificate.
const DefaultTolerance = 1e-6

// State is the progress of an analysis.
type State int

const (
	// NotAttempted means no analysis ran.
	NotAttempted State = iota
	// CheckingRelaxation means the relaxation is being solved.
	CheckingRelaxation
	// CertificateFound means a validated certificate proves infeasibility.
	CertificateFound
	// NoCertificate means the analysis ended without a proof.
	NoCertificate
)

func (s State) String() string {
	switch s {
	case NotAttempted:
		return "NOT_ATTEMPTED"
	case CheckingRelaxation:
		return "CHECKING_RELAXATION"
	case CertificateFound:
		return "CERTIFICATE_FOUND"
	case NoCertificate:
		return "NO_CERTIFICATE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Certificate is a cell-indexed weight grid. Values[r*Cols+c] belongs to
// cell (r,c); blocked cells are flagged and carry no meaningful value.
type Certificate struct {
	Rows, Cols int
	Values     []float64
	Blocked    []bool
	// Total is the sum of the values over the open cells.
	Total float64
}

// At returns the value of cell (r,c) and whether the cell is open.
func (c *Certificate) At(r, col int) (float64, bool) {
	i := r*c.Cols + col
	return c.Values[i], !c.Blocked[i]
}

// String renders the grid with one row per line, "#" for blocked cells.
func (c *Certificate) String() string {
	var sb strings.Builder
	for r := 0; r < c.Rows; r++ {
		for col := 0; col < c.Cols; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if v, open := c.At(r, col); open {
				fmt.Fprintf(&sb, "%6.3f", v)
			} else {
				sb.WriteString("     #")
			}
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "total %.6f\n", c.Total)
	return sb.String()
}

// Result is the outcome of Analyze.
type Result struct {
	State State
	// RelaxationStatus is the status the relaxation solve returned.
	RelaxationStatus solver.Status
	// Certificate is set when State is CertificateFound.
	Certificate *Certificate
	// Diagnostic explains a NoCertificate outcome.
	Diagnostic string
}

// Analyzer derives certificates through a solver port able to return duals
// of continuous models.
type Analyzer struct {
	Port solver.Port
	// Tolerance overrides DefaultTolerance when positive.
	Tolerance float64
	// TimeLimit bounds the relaxation solve. Zero means no limit.
	TimeLimit time.Duration
}

func (a *Analyzer) tolerance() float64 {
	if a.Tolerance > 0 {
		return a.Tolerance
	}
	return DefaultTolerance
}

// Analyze solves the relaxation of m and, if it is infeasible, validates the
// returned duals as a certificate. The first board.Rows()*board.Cols() rows
// of m must be the cell rows, in cell index order.
//
// Solver outcomes, including failures to validate, are reported in the
// Result; an error means the request itself was rejected.
func (a *Analyzer) Analyze(ctx context.Context, m *model.Model, arena *model.Arena, board *geometry.Board) (*Result, error) {
	res := &Result{State: CheckingRelaxation}
	log.V(1).Infof("certificate: solving relaxation of %s", m.Name)
	resp, err := a.Port.Solve(ctx, &solver.Request{Model: m.Relaxed(), TimeLimit: a.TimeLimit, WantDuals: true})
	if err != nil {
		return nil, fmt.Errorf("relaxation of %s: %w", m.Name, err)
	}
	res.RelaxationStatus = resp.Status
	switch resp.Status {
	case solver.StatusInfeasible:
	case solver.StatusOptimal, solver.StatusFeasible:
		return noCertificate(res, "relaxation is feasible"), nil
	default:
		return noCertificate(res, fmt.Sprintf("relaxation ended with status %v", resp.Status)), nil
	}
	cells := board.Rows() * board.Cols()
	if len(resp.Dual) < cells {
		return noCertificate(res, fmt.Sprintf("solver returned %d duals for %d cells", len(resp.Dual), cells)), nil
	}
	y := resp.Dual[:cells]
	cert, err := Validate(y, arena, board, a.tolerance())
	if err != nil {
		return noCertificate(res, err.Error()), nil
	}
	res.State = CertificateFound
	res.Certificate = cert
	log.V(1).Infof("certificate: %s is infeasible, certificate total %g", m.Name, cert.Total)
	return res, nil
}

func noCertificate(res *Result, diagnostic string) *Result {
	log.Warningf("certificate: no certificate: %s", diagnostic)
	res.State = NoCertificate
	res.Diagnostic = diagnostic
	return res
}

// Validate checks that y, one value per cell in cell index order, prices
// every valid placement of arena at -eps or more and sums to less than -eps
// over the open cells of board. Values on blocked cells are ignored.
func Validate(y []float64, arena *model.Arena, board *geometry.Board, eps float64) (*Certificate, error) {
	enc := arena.Encoder()
	if len(y) != enc.NumCells() {
		return nil, fmt.Errorf("certificate has %d values for %d cells", len(y), enc.NumCells())
	}
	for _, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("certificate holds non-finite value %v", v)
		}
	}
	for i := 0; i < arena.Len(); i++ {
		if !arena.Valid(i) {
			continue
		}
		sum := 0.0
		for _, c := range arena.Cells(i) {
			sum += y[enc.CellIndex(c.Row, c.Col)]
		}
		if sum < -eps {
			p, q, k := enc.DecodePlacement(i)
			return nil, fmt.Errorf("placement of shape %d at (%d,%d) sums to %g", k, p, q, sum)
		}
	}
	cert := &Certificate{
		Rows:    board.Rows(),
		Cols:    board.Cols(),
		Values:  append([]float64(nil), y...),
		Blocked: make([]bool, len(y)),
	}
	for _, c := range board.Blocked() {
		i := enc.CellIndex(c.Row, c.Col)
		cert.Blocked[i] = true
		cert.Values[i] = 0
	}
	for i, v := range cert.Values {
		if !cert.Blocked[i] {
			cert.Total += v
		}
	}
	if cert.Total >= -eps {
		return nil, fmt.Errorf("certificate total %g is not negative", cert.Total)
	}
	return cert, nil
}
