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
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExportLPFormat outputs the model as a string in CPLEX LP format, which most
// standalone MIP solvers read. Rows with two distinct finite bounds are
// written as a pair of rows suffixed _lo and _hi.
func ExportLPFormat(m *Model) (string, error) {
	if err := m.Validate(); err != nil {
		return "", fmt.Errorf("cannot export an invalid model as LP format: %w", err)
	}
	if len(m.Variables) == 0 {
		return "", fmt.Errorf("cannot export model %q with no variables as LP format", m.Name)
	}
	names := make([]string, len(m.Variables))
	for j, v := range m.Variables {
		names[j] = v.Name
		if names[j] == "" {
			names[j] = fmt.Sprintf("v%d", j)
		}
	}
	rows := rowEntries(m)

	var sb strings.Builder
	fmt.Fprintf(&sb, "\\ %s\n", m.Name)
	if m.Maximize {
		sb.WriteString("Maximize\n")
	} else {
		sb.WriteString("Minimize\n")
	}
	var obj []rowEntry
	for j, v := range m.Variables {
		if v.ObjectiveCoefficient != 0 {
			obj = append(obj, rowEntry{Var: j, Coeff: v.ObjectiveCoefficient})
		}
	}
	sb.WriteString(" obj:")
	writeTerms(&sb, obj, names)
	sb.WriteString("\n")

	sb.WriteString("Subject To\n")
	for i, r := range m.Rows {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("r%d", i)
		}
		entries := rows[i]
		if len(entries) == 0 {
			entries = []rowEntry{{Var: 0, Coeff: 0}}
		}
		switch {
		case r.LowerBound == r.UpperBound:
			writeRow(&sb, name, entries, names, "=", r.UpperBound)
		case math.IsInf(r.LowerBound, -1) && math.IsInf(r.UpperBound, 1):
			// Free row, nothing to write.
		case math.IsInf(r.LowerBound, -1):
			writeRow(&sb, name, entries, names, "<=", r.UpperBound)
		case math.IsInf(r.UpperBound, 1):
			writeRow(&sb, name, entries, names, ">=", r.LowerBound)
		default:
			writeRow(&sb, name+"_lo", entries, names, ">=", r.LowerBound)
			writeRow(&sb, name+"_hi", entries, names, "<=", r.UpperBound)
		}
	}

	sb.WriteString("Bounds\n")
	var general []string
	for j, v := range m.Variables {
		switch {
		case v.Fixed():
			fmt.Fprintf(&sb, " %s = %s\n", names[j], formatFloat(v.LowerBound))
		default:
			fmt.Fprintf(&sb, " %s <= %s <= %s\n", formatFloat(v.LowerBound), names[j], formatFloat(v.UpperBound))
		}
		if v.IsInteger {
			general = append(general, names[j])
		}
	}
	if len(general) > 0 {
		sb.WriteString("General\n")
		for _, n := range general {
			fmt.Fprintf(&sb, " %s\n", n)
		}
	}
	sb.WriteString("End\n")
	return sb.String(), nil
}

func writeRow(sb *strings.Builder, name string, entries []rowEntry, names []string, sense string, rhs float64) {
	fmt.Fprintf(sb, " %s:", name)
	writeTerms(sb, entries, names)
	fmt.Fprintf(sb, " %s %s\n", sense, formatFloat(rhs))
}

func writeTerms(sb *strings.Builder, entries []rowEntry, names []string) {
	for i, e := range entries {
		c := e.Coeff
		sign := "+"
		if c < 0 {
			sign = "-"
			c = -c
		}
		if i == 0 && sign == "+" {
			fmt.Fprintf(sb, " %s %s", formatFloat(c), names[e.Var])
			continue
		}
		fmt.Fprintf(sb, " %s %s %s", sign, formatFloat(c), names[e.Var])
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// rowEntry is one coefficient of a row.
type rowEntry struct {
	Var   int
	Coeff float64
}

// rowEntries transposes the columns of m into rows, each by increasing
// variable.
func rowEntries(m *Model) [][]rowEntry {
	rows := make([][]rowEntry, len(m.Rows))
	for j, col := range m.Columns {
		for k, r := range col.Rows {
			rows[r] = append(rows[r], rowEntry{Var: j, Coeff: col.Coeffs[k]})
		}
	}
	return rows
}
