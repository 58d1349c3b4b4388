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

// The tromino_certificate_sample command shows that 1×3 bars cannot cover a
// 12×12 board with three corners removed, and prints the certificate.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	log "github.com/golang/glog"

	"github.com/polycover/polycover/certificate"
	"github.com/polycover/polycover/covering"
	"github.com/polycover/polycover/geometry"
	"github.com/polycover/polycover/solver"
	"github.com/polycover/polycover/solver/lpsolver"
	"github.com/polycover/polycover/solver/pbsolver"
)

var timeLimit = flag.Duration("time_limit", time.Minute, "time limit of each solve")

func trominoCertificateSample() error {
	board, err := geometry.NewBoard(12, 12, geometry.Cell{Row: 0, Col: 0}, geometry.Cell{Row: 0, Col: 11}, geometry.Cell{Row: 11, Col: 0})
	if err != nil {
		return fmt.Errorf("failed to create the board: %w", err)
	}
	shapes, err := geometry.Bars(3)
	if err != nil {
		return fmt.Errorf("failed to create the bars: %w", err)
	}
	opts := covering.DefaultOptions()
	opts.TimeLimit = *timeLimit
	cfg := covering.Config{Board: board, Shapes: shapes, Options: opts}

	port := solver.Dispatcher{Integer: pbsolver.New(), Linear: lpsolver.New()}
	res, err := covering.Solve(context.Background(), cfg, port)
	if err != nil {
		return fmt.Errorf("failed to solve: %w", err)
	}

	fmt.Printf("Status: %v\n", res.Status)
	switch res.CertificateState() {
	case certificate.CertificateFound:
		fmt.Println("No covering exists. Every bar sums to at least 0 on:")
		fmt.Print(res.Certificate())
	case certificate.NoCertificate:
		fmt.Printf("No certificate: %s\n", res.Analysis.Diagnostic)
	}
	return nil
}

func main() {
	flag.Parse()
	if err := trominoCertificateSample(); err != nil {
		log.Exitf("trominoCertificateSample returned with error: %v", err)
	}
}
