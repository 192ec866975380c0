// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/giecli/adjointPerm/adjoint"
	"github.com/giecli/adjointPerm/sim"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".sim", true)
	verbose := io.ArgToBool(1, true)
	withAdjoint := io.ArgToBool(2, true)

	// message
	if verbose {
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"run adjoint pass", "withAdjoint", withAdjoint,
		))
	}

	// build simulation
	m, err := sim.NewMain(fnamepath, verbose)
	if err != nil {
		chk.Panic("cannot build simulation:\n%v", err)
	}

	// forward run
	err = m.RunForward(withAdjoint)
	if err != nil {
		chk.Panic("forward run failed:\n%v", err)
	}
	io.Pf("> objective (NPV) = %23.15e\n", m.Npv.Val)

	// adjoint pass and control gradient
	if withAdjoint {
		states, err := m.RunAdjoint()
		if err != nil {
			chk.Panic("adjoint run failed:\n%v", err)
		}
		grad := adjoint.ControlGradient(m.Wells, states, m.Npv.Steps)
		for iw, w := range m.Wells {
			io.Pf("> dJ/du[%s] = %23.15e\n", w.Name, grad[iw])
		}
	}
}
