// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim orchestrates one simulation: it builds grid, rock, fluid and
// wells from input data, runs the forward schedule (pressure solve followed
// by implicit transport per outer step) while recording the trajectory and
// objective partials, and runs the adjoint pass over the recorded data
package sim

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/giecli/adjointPerm/adjoint"
	"github.com/giecli/adjointPerm/flow"
	"github.com/giecli/adjointPerm/grd"
	"github.com/giecli/adjointPerm/inp"
	"github.com/giecli/adjointPerm/mfluid"
	"github.com/giecli/adjointPerm/obj"
	"github.com/giecli/adjointPerm/transport"
	"github.com/giecli/adjointPerm/wel"
)

// Main holds all data for one forward/adjoint simulation
type Main struct {
	Sim     *inp.Simulation // input data
	G       *grd.Grid       // grid
	Rock    *inp.Rock       // rock properties
	Fl      mfluid.Model    // fluid model
	Wells   []*wel.Well     // wells
	Prov    *flow.TPFA      // pressure provider
	St      *flow.State     // reservoir state (mutated step by step)
	Npv     *obj.NPV        // objective accumulator
	Traj    []*adjoint.Step // recorded forward trajectory
	ShowMsg bool            // show messages
}

// NewMain builds a simulation from a .sim file. Configuration errors panic;
// physical inconsistencies (e.g. a negative well index) are returned.
func NewMain(simfilepath string, verbose bool) (o *Main, err error) {

	// input data
	o = new(Main)
	o.Sim = inp.ReadSim(simfilepath)
	o.ShowMsg = verbose

	// grid
	gd := o.Sim.Grid
	o.G = grd.NewCartesian(gd.Nx, gd.Ny, gd.Nz, gd.Dx, gd.Dy, gd.Dz)

	// rock
	rd := o.Sim.Rock
	phi := make([]float64, o.G.N)
	for c := 0; c < o.G.N; c++ {
		phi[c] = rd.Phi
	}
	var perm [][]float64
	if rd.PermFile != "" {
		perm = inp.ReadPermTable(rd.PermFile, o.G.N, rd.PermNcol)
	} else {
		perm = make([][]float64, o.G.N)
		for c := 0; c < o.G.N; c++ {
			perm[c] = []float64{rd.Kval}
		}
	}
	o.Rock = inp.NewRock(phi, perm)

	// fluid model
	o.Fl, err = mfluid.New(o.Sim.Fluid.Name)
	if err != nil {
		return
	}
	err = o.Fl.Init(o.Sim.Fluid.Prms)
	if err != nil {
		return
	}

	// wells
	for _, wd := range o.Sim.Wells {
		w, e := wel.NewWell(o.G, o.Rock, wd)
		if e != nil {
			return nil, e
		}
		o.Wells = append(o.Wells, w)
	}

	// pressure provider, state and objective
	o.Prov = flow.NewTPFA(o.G, o.Rock, o.Fl, o.Wells)
	o.St = flow.NewState(o.G.N, len(o.G.Faces), o.Wells)
	for c := 0; c < o.G.N; c++ {
		o.St.Sat[c] = rd.Sini
	}
	o.Npv = obj.NewNPV(&o.Sim.Obj, o.Fl, o.Wells)

	// message
	if o.ShowMsg {
		io.Pf("> %d cells, %d faces, %d wells, %d outer steps\n", o.G.N, len(o.G.Faces), len(o.Wells), len(o.Sim.Schedule))
	}
	return
}

// RunForward advances the schedule, recording the trajectory and the
// objective (with partials when wantPartials is true)
func (o *Main) RunForward(wantPartials bool) (err error) {
	t0 := 0.0
	s := make([]float64, o.G.N)
	copy(s, o.St.Sat)
	for k, t1 := range o.Sim.Schedule {

		// pressure solve at the start-of-step saturation
		copy(o.St.Sat, s)
		err = o.Prov.Solve(o.St, t0)
		if err != nil {
			return chk.Err("pressure solve of step %d failed:\n%v", k, err)
		}

		// bound context and transport advance
		ctx := transport.NewContext(o.G, o.Rock, o.Wells, o.St)
		orc := transport.NewUpstream(ctx, o.Fl)
		sol := transport.NewSolverImplicit(orc, &o.Sim.Solver)
		s0 := make([]float64, o.G.N)
		copy(s0, s)
		err = sol.Advance(s, t1-t0)
		if err != nil {
			return chk.Err("transport solve of step %d failed:\n%v", k, err)
		}

		// record
		s1 := make([]float64, o.G.N)
		copy(s1, s)
		copy(o.St.Sat, s)
		o.Npv.AddStep(t0, t1, o.St, wantPartials)
		o.Traj = append(o.Traj, &adjoint.Step{T0: t0, T1: t1, Ctx: ctx, S0: s0, S1: s1})

		// message
		if o.ShowMsg {
			io.Pf("%13.6e: step %d accepted\n", t1, k)
		}
		t0 = t1
	}
	return
}

// RunAdjoint runs the backward pass over the recorded trajectory
func (o *Main) RunAdjoint() (states []*adjoint.State, err error) {
	if len(o.Traj) < 1 {
		chk.Panic("the forward run must complete before the adjoint pass")
	}
	asol := &adjoint.Solver{Fl: o.Fl, Prov: o.Prov}
	return asol.Run(o.Traj, o.Npv.Steps)
}
