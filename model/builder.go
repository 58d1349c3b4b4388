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

package model

import (
	"errors"
	"fmt"
	"math"

	log "github.com/golang/glog"

	"github.com/polycover/polycover/geometry"
	"github.com/polycover/polycover/layout"
)

var (
	// ErrNilBoard is returned when no board is given.
	ErrNilBoard = errors.New("model: board is required")
	// ErrNoShapes is returned when the shape catalogue is empty.
	ErrNoShapes = errors.New("model: at least one shape is required")
	// ErrNegativeRepetitionLimit is returned for a repetition limit below zero.
	ErrNegativeRepetitionLimit = errors.New("model: repetition limit must not be negative")
)

// Options selects the model variant.
type Options struct {
	// Exact requires every unblocked cell to be covered exactly once. When
	// false, cells are covered at most once and the covered area is maximized.
	Exact bool
	// RepetitionLimit caps how many times each shape may be placed.
	// Zero means unlimited; it never means "forbidden".
	RepetitionLimit int
}

// Validate reports configuration errors in o.
func (o Options) Validate() error {
	if o.RepetitionLimit < 0 {
		return fmt.Errorf("repetition limit %d: %w", o.RepetitionLimit, ErrNegativeRepetitionLimit)
	}
	return nil
}

// Builder assembles the covering model of one board and shape catalogue.
type Builder struct {
	board  *geometry.Board
	shapes []geometry.Shape
	opts   Options
	enc    layout.Encoder
}

// NewBuilder validates its inputs and returns a Builder. The board and the
// shapes are not copied; both are immutable.
func NewBuilder(board *geometry.Board, shapes []geometry.Shape, opts Options) (*Builder, error) {
	if board == nil {
		return nil, ErrNilBoard
	}
	if len(shapes) == 0 {
		return nil, ErrNoShapes
	}
	for k, s := range shapes {
		if s.Size() == 0 {
			return nil, fmt.Errorf("shape %d (%q): %w", k, s.Name(), geometry.ErrEmptyShape)
		}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Builder{
		board:  board,
		shapes: shapes,
		opts:   opts,
		enc:    layout.New(board.Rows(), board.Cols(), len(shapes)),
	}, nil
}

// Encoder returns the placement and cell numbering of the model.
func (b *Builder) Encoder() layout.Encoder { return b.enc }

// Build returns the model together with the placement arena it was built
// from. Variables are placement indices and the first n·m rows are cell
// indices; with a repetition limit, row n·m+k caps shape k.
func (b *Builder) Build() (*Model, *Arena) {
	arena := newArena(b.board, b.shapes)
	numVars := b.enc.NumPlacements()
	numCells := b.enc.NumCells()

	m := &Model{
		Name:      fmt.Sprintf("cover_%dx%d_%d", b.board.Rows(), b.board.Cols(), len(b.shapes)),
		Maximize:  true,
		Variables: make([]Variable, numVars),
		Columns:   make([]Column, numVars),
	}

	for j := range m.Variables {
		p, q, k := b.enc.DecodePlacement(j)
		m.Variables[j] = Variable{
			Name:                 fmt.Sprintf("x_%d_%d_%d", p, q, k),
			LowerBound:           0,
			UpperBound:           1,
			IsInteger:            true,
			ObjectiveCoefficient: float64(b.shapes[k].Size()),
		}
	}

	for j := 0; j < numVars; j++ {
		cells := arena.Cells(j)
		if cells == nil {
			continue
		}
		col := Column{Rows: make([]int, len(cells)), Coeffs: make([]float64, len(cells))}
		for i, c := range cells {
			col.Rows[i] = b.enc.CellIndex(c.Row, c.Col)
			col.Coeffs[i] = 1
		}
		m.Columns[j] = col
	}

	m.Rows = make([]Row, numCells)
	lower := math.Inf(-1)
	if b.opts.Exact {
		lower = 1
	}
	for i := range m.Rows {
		p, q := b.enc.DecodeCell(i)
		m.Rows[i] = Row{Name: fmt.Sprintf("cell_%d_%d", p, q), LowerBound: lower, UpperBound: 1}
	}
	// Blocked cells are never available, whatever the mode.
	for _, c := range b.board.Blocked() {
		i := b.enc.CellIndex(c.Row, c.Col)
		m.Rows[i].LowerBound = 0
		m.Rows[i].UpperBound = 0
	}

	for _, j := range arena.ForcedZero() {
		m.Variables[j].UpperBound = 0
	}

	m.ObjectiveBound = float64(b.board.NumOpen())
	if limit := b.opts.RepetitionLimit; limit > 0 {
		capArea := 0
		for k, s := range b.shapes {
			m.Rows = append(m.Rows, Row{
				Name:       fmt.Sprintf("use_%d", k),
				LowerBound: math.Inf(-1),
				UpperBound: float64(limit),
			})
			capArea += limit * s.Size()
		}
		for j := 0; j < numVars; j++ {
			_, _, k := b.enc.DecodePlacement(j)
			m.Columns[j].Rows = append(m.Columns[j].Rows, numCells+k)
			m.Columns[j].Coeffs = append(m.Columns[j].Coeffs, 1)
		}
		m.ObjectiveBound = math.Min(m.ObjectiveBound, float64(capArea))
	}

	log.V(1).Infof("built model %s: %d variables (%d forced to zero), %d rows, %d non-zeros",
		m.Name, m.NumVariables(), len(arena.ForcedZero()), m.NumRows(), m.NumNonZeros())
	return m, arena
}
