// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"

	"github.com/giecli/adjointPerm/flow"
	"github.com/giecli/adjointPerm/grd"
	"github.com/giecli/adjointPerm/inp"
	"github.com/giecli/adjointPerm/mfluid"
	"github.com/giecli/adjointPerm/obj"
	"github.com/giecli/adjointPerm/transport"
	"github.com/giecli/adjointPerm/wel"
)

func waterflood(nc int, uinj, uprd float64, ctrl string) (g *grd.Grid, rock *inp.Rock, fl mfluid.Model, wells []*wel.Well) {
	g = grd.NewCartesian(nc, 1, 1, 1.0, 1.0, 1.0)
	phi := make([]float64, nc)
	perm := make([][]float64, nc)
	for c := 0; c < nc; c++ {
		phi[c] = 1.0
		perm[c] = []float64{1.0}
	}
	rock = inp.NewRock(phi, perm)
	fl, err := mfluid.New("cor")
	if err != nil {
		chk.Panic("cannot allocate fluid model: %v", err)
	}
	err = fl.Init(fun.Prms{
		&fun.Prm{N: "muw", V: 1},
		&fun.Prm{N: "muo", V: 1},
	})
	if err != nil {
		chk.Panic("cannot initialize fluid model: %v", err)
	}
	for _, wd := range []*inp.WellData{
		{Name: "inj", Ctrl: ctrl, Target: uinj, Cells: []int{0}, Radius: 0.1, Dir: "z", Sign: 1, Compi: 1, IpKind: "tpf"},
		{Name: "prd", Ctrl: ctrl, Target: uprd, Cells: []int{nc - 1}, Radius: 0.1, Dir: "z", Sign: -1, IpKind: "tpf"},
	} {
		w, err := wel.NewWell(g, rock, wd)
		if err != nil {
			chk.Panic("cannot build well: %v", err)
		}
		wells = append(wells, w)
	}
	return
}

func Test_adj01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adj01. adjoint well flux opposes the forward solve")

	// pressure-controlled wells leave the well fluxes free
	g, rock, fl, wells := waterflood(2, 10.0, 0.0, "bhp")
	prov := flow.NewTPFA(g, rock, fl, wells)
	st := flow.NewState(g.N, len(g.Faces), wells)
	st.Sat[0], st.Sat[1] = 0.6, 0.2
	err := prov.Solve(st, 0)
	if err != nil {
		tst.Errorf("Solve failed: %v\n", err)
		return
	}
	ctx := transport.NewContext(g, rock, wells, st)
	sat := []float64{0.6, 0.2}

	// unit perturbation on the producer's well-flux partial only
	parts := &obj.Partials{
		Flux:    make([]float64, len(g.Faces)),
		Pres:    make([]float64, g.N),
		Sat:     make([]float64, g.N),
		SatDiag: make([]float64, g.N),
		Perf:    []float64{0, 1},
		Ctrl:    make([]float64, 2),
	}
	traj := []*Step{{T0: 0, T1: 1, Ctx: ctx, S0: sat, S1: sat}}
	asol := &Solver{Fl: fl, Prov: prov}
	states, err := asol.Run(traj, []*obj.Partials{parts})
	if err != nil {
		tst.Errorf("adjoint run failed: %v\n", err)
		return
	}

	// identical linear system, forward direction
	_, _, xq, _, err := prov.SolveLinear(sat, parts.Flux, parts.Pres, parts.Perf, false)
	if err != nil {
		tst.Errorf("forward solve failed: %v\n", err)
		return
	}
	io.Pforan("adjoint qadj = %v\n", states[0].Qadj)
	io.Pforan("forward q    = %v\n", xq)
	for i := 0; i < 2; i++ {
		if xq[i] == 0 {
			tst.Errorf("forward well flux %d must be nonzero in this setting", i)
			return
		}
		if states[0].Qadj[i]*xq[i] >= 0 {
			tst.Errorf("adjoint well flux %d must oppose the forward one", i)
			return
		}
		chk.Scalar(tst, io.Sf("qadj[%d]", i), 1e-12, states[0].Qadj[i], -xq[i])
	}
}

// npvRun performs a complete forward run (and optionally the adjoint pass)
// for the given injector/producer targets, returning the objective value,
// the control gradient and the objective partials
func npvRun(uinj, uprd float64, schedule []float64, wantAdjoint bool, tst *testing.T) (val float64, grad []float64) {
	g, rock, fl, wells := waterflood(4, uinj, uprd, "rate")
	prov := flow.NewTPFA(g, rock, fl, wells)
	st := flow.NewState(g.N, len(g.Faces), wells)
	dat := new(inp.SolverData)
	dat.SetDefault()
	dat.Nltol = 1e-13
	npv := obj.NewNPV(&inp.ObjData{OilPrice: 1.0, WatProd: 0.4, WatInj: 0.2, Discount: 0.05}, fl, wells)

	var traj []*Step
	t0 := 0.0
	s := make([]float64, g.N)
	for _, t1 := range schedule {
		copy(st.Sat, s)
		err := prov.Solve(st, t0)
		if err != nil {
			tst.Errorf("pressure solve failed: %v\n", err)
			return
		}
		ctx := transport.NewContext(g, rock, wells, st)
		orc := transport.NewUpstream(ctx, fl)
		sol := transport.NewSolverImplicit(orc, dat)
		s0 := make([]float64, g.N)
		copy(s0, s)
		err = sol.Advance(s, t1-t0)
		if err != nil {
			tst.Errorf("transport solve failed: %v\n", err)
			return
		}
		s1 := make([]float64, g.N)
		copy(s1, s)
		copy(st.Sat, s)
		npv.AddStep(t0, t1, st, true)
		traj = append(traj, &Step{T0: t0, T1: t1, Ctx: ctx, S0: s0, S1: s1})
		t0 = t1
	}
	val = npv.Val
	if !wantAdjoint {
		return
	}
	asol := &Solver{Fl: fl, Prov: prov}
	states, err := asol.Run(traj, npv.Steps)
	if err != nil {
		tst.Errorf("adjoint run failed: %v\n", err)
		return
	}
	grad = ControlGradient(wells, states, npv.Steps)
	return
}

func Test_adj02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adj02. control gradient against finite differences")

	uinj, uprd := 1.0, -1.0
	schedule := []float64{0.15, 0.3}
	_, grad := npvRun(uinj, uprd, schedule, true, tst)
	if grad == nil {
		return
	}
	io.Pforan("grad = %v\n", grad)

	h := 1e-4
	fdInjP, _ := npvRun(uinj+h, uprd, schedule, false, tst)
	fdInjM, _ := npvRun(uinj-h, uprd, schedule, false, tst)
	fdPrdP, _ := npvRun(uinj, uprd+h, schedule, false, tst)
	fdPrdM, _ := npvRun(uinj, uprd-h, schedule, false, tst)
	chk.AnaNum(tst, "dJ/du inj", 1e-6, grad[0], (fdInjP-fdInjM)/(2*h), chk.Verbose)
	chk.AnaNum(tst, "dJ/du prd", 1e-6, grad[1], (fdPrdP-fdPrdM)/(2*h), chk.Verbose)
}
