// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package wel implements point wells coupled into the discretized flow
// equations, including the Peaceman-type effective well-index model
package wel

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/giecli/adjointPerm/grd"
	"github.com/giecli/adjointPerm/inp"
)

// Well holds one well definition with its cached well index. The index is
// computed once at construction and is only recomputed when the
// permeability changes (sensitivity studies).
type Well struct {
	Name   string    // well name
	Ctrl   string    // control mode: "rate" or "bhp"
	Target fun.Func  // control target value as a function of time
	Cells  []int     // perforated cells
	Radius float64   // well-bore radius
	Dir    string    // well direction: "x", "y" or "z"
	Skin   float64   // skin factor
	Sign   int       // +1 injector, -1 producer, 0 unset
	Compi  float64   // injected water composition
	Dref   float64   // elevation offset w.r.t. reference depth
	IpKind string    // discretization kind in use
	WI     []float64 // effective well index per perforation (cached)
}

// NewWell builds a well from input data, validating the configuration
// eagerly (panics) and computing the effective well index (a negative
// index is a physical inconsistency and is returned as an error).
func NewWell(g *grd.Grid, rock *inp.Rock, wd *inp.WellData) (o *Well, err error) {

	// configuration checks
	if wd.Name == "" {
		chk.Panic("well must have a name")
	}
	switch wd.Ctrl {
	case "rate", "bhp":
	default:
		chk.Panic("well %q: control mode must be \"rate\" or \"bhp\"; got %q", wd.Name, wd.Ctrl)
	}
	if len(wd.Cells) < 1 {
		chk.Panic("well %q: no perforated cells", wd.Name)
	}
	if wd.Sign < -1 || wd.Sign > 1 {
		chk.Panic("well %q: sign must be -1, 0 or +1; got %d", wd.Name, wd.Sign)
	}
	if wd.Compi < 0 || wd.Compi > 1 {
		chk.Panic("well %q: injected composition must be within [0,1]; got %g", wd.Name, wd.Compi)
	}
	if len(wd.WI) > 0 && len(wd.WI) != len(wd.Cells) {
		chk.Panic("well %q: %d well-index values supplied for %d perforations", wd.Name, len(wd.WI), len(wd.Cells))
	}
	ipKind := wd.IpKind
	if ipKind == "" {
		ipKind = "tpf"
	}

	// well record
	o = &Well{
		Name:   wd.Name,
		Ctrl:   wd.Ctrl,
		Target: wd.TargetFunc(),
		Cells:  wd.Cells,
		Radius: wd.Radius,
		Dir:    wd.Dir,
		Skin:   wd.Skin,
		Sign:   wd.Sign,
		Compi:  wd.Compi,
		Dref:   wd.Dref,
		IpKind: ipKind,
	}

	// supplied well index: warn on discretization mismatch, do not block
	if len(wd.WI) > 0 {
		if wd.WIKind != "" && wd.WIKind != ipKind {
			io.Pfyel("well %q: supplied well index was derived for %q but is used with %q\n", wd.Name, wd.WIKind, ipKind)
		}
		for i, v := range wd.WI {
			if v < 0 {
				return nil, chk.Err("physical inconsistency: supplied well index %g of well %q perforation %d is negative", v, wd.Name, i)
			}
		}
		o.WI = wd.WI
		return
	}

	// compute effective well index
	o.WI, err = ComputeWellIndex(g, rock, wd.Radius, wd.Dir, wd.Cells, ipKind, wd.Skin, 0)
	if err != nil {
		return nil, chk.Err("well %q: %v", wd.Name, err)
	}
	return
}

// RecomputeWI refreshes the cached well index after a permeability change
func (o *Well) RecomputeWI(g *grd.Grid, rock *inp.Rock) (err error) {
	o.WI, err = ComputeWellIndex(g, rock, o.Radius, o.Dir, o.Cells, o.IpKind, o.Skin, 0)
	return
}

// RateControlled tells whether this well is rate-controlled
func (o *Well) RateControlled() bool { return o.Ctrl == "rate" }
