// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package obj implements the discounted cash-flow objective and the partial
// derivatives feeding the adjoint solver
package obj

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/giecli/adjointPerm/flow"
	"github.com/giecli/adjointPerm/inp"
	"github.com/giecli/adjointPerm/mfluid"
	"github.com/giecli/adjointPerm/wel"
)

// Partials holds the first- and second-order partial derivatives of one
// outer step's objective contribution, indexed like the forward unknowns
type Partials struct {
	Flux    []float64 // [nf] ∂J/∂v
	Pres    []float64 // [nc] ∂J/∂p
	Sat     []float64 // [nc] ∂J/∂s
	SatDiag []float64 // [nc] sparse diagonal ∂²J/∂s² contribution
	Perf    []float64 // [nperf] ∂J/∂q per perforation
	Ctrl    []float64 // [nw] ∂J/∂u per well control
}

// NPV accumulates a discounted cash-flow objective: production revenue
// minus water-handling and injection costs, per-well, per outer step
type NPV struct {

	// input
	Dat   *inp.ObjData // prices and discount factor
	Fl    mfluid.Model // fluid model (fractional flow at well cells)
	Wells []*wel.Well  // wells

	// results
	Val   float64     // running scalar objective
	Steps []*Partials // per-step partials (nil entries when not requested)

	// derived
	pwell, pcell []int // flattened perforations
}

// NewNPV returns an objective accumulator
func NewNPV(dat *inp.ObjData, fl mfluid.Model, wells []*wel.Well) (o *NPV) {
	o = &NPV{Dat: dat, Fl: fl, Wells: wells}
	o.pwell, o.pcell, _ = flow.Perfs(wells)
	return
}

// rateSign resolves the injector/producer sign of a well: an explicitly
// configured sign wins; otherwise the sign is inferred from the total rate,
// and a zero rate is ambiguous and only produces a warning
func (o *NPV) rateSign(iw int, qtot float64) int {
	w := o.Wells[iw]
	if w.Sign != 0 {
		return w.Sign
	}
	if qtot > 0 {
		return 1
	}
	if qtot < 0 {
		return -1
	}
	io.Pfyel("well %q has exactly zero rate; injector/producer sign cannot be inferred, set an explicit sign\n", w.Name)
	return 0
}

// AddStep accumulates the objective contribution of one outer step over
// [t0,t1] from the accepted state, computing partial derivatives when
// wantPartials is true. The saturation of st is the end-of-step saturation.
func (o *NPV) AddStep(t0, t1 float64, st *flow.State, wantPartials bool) {

	// check
	if t1 <= t0 {
		chk.Panic("objective step must have t1 > t0; got [%g,%g]", t0, t1)
	}
	dt := t1 - t0
	disc := dt / math.Pow(1.0+o.Dat.Discount, t1)

	// partials
	var p *Partials
	if wantPartials {
		p = &Partials{
			Flux:    make([]float64, len(st.Flux)),
			Pres:    make([]float64, len(st.Pcell)),
			Sat:     make([]float64, len(st.Sat)),
			SatDiag: make([]float64, len(st.Sat)),
			Perf:    make([]float64, len(st.Qperf)),
			Ctrl:    make([]float64, len(o.Wells)),
		}
	}

	// resolve the injector/producer sign once per well
	signs := make([]int, len(o.Wells))
	for iw := range o.Wells {
		signs[iw] = o.rateSign(iw, st.Qwell[iw])
	}

	// per-perforation cash flow
	for i, c := range o.pcell {
		iw := o.pwell[i]
		q := st.Qperf[i]
		switch signs[iw] {
		case 1:
			// injection cost
			o.Val -= disc * o.Dat.WatInj * q
			if p != nil {
				p.Perf[i] = -disc * o.Dat.WatInj
			}
		case -1:
			// production revenue minus water-handling cost
			fw := o.Fl.Fw(st.Sat[c])
			o.Val += disc * (-q) * (o.Dat.OilPrice*(1.0-fw) - o.Dat.WatProd*fw)
			if p != nil {
				dfw := o.Fl.DfwDs(st.Sat[c])
				d2fw := o.Fl.D2fwDs2(st.Sat[c])
				p.Perf[i] = -(o.Dat.OilPrice*(1.0-fw) - o.Dat.WatProd*fw) * disc
				p.Sat[c] += disc * (-q) * (-(o.Dat.OilPrice + o.Dat.WatProd) * dfw)
				p.SatDiag[c] += disc * (-q) * (-(o.Dat.OilPrice + o.Dat.WatProd) * d2fw)
			}
		}
	}
	o.Steps = append(o.Steps, p)
}
