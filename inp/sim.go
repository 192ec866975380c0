// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data structures: simulation (.sim) files,
// rock properties and persisted permeability fields
package inp

import (
	"encoding/json"
	"math"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

// Data holds global simulation information
type Data struct {
	Desc   string `json:"desc"`   // description of simulation
	DirOut string `json:"dirout"` // directory for output; e.g. /tmp/adjperm
}

// GridData holds Cartesian grid construction data
type GridData struct {
	Nx int     `json:"nx"` // number of cells along x
	Ny int     `json:"ny"` // number of cells along y
	Nz int     `json:"nz"` // number of cells along z
	Dx float64 `json:"dx"` // cell size along x
	Dy float64 `json:"dy"` // cell size along y
	Dz float64 `json:"dz"` // cell size along z
}

// RockData holds rock property data. Permeability comes either from a
// constant value or from a persisted flat table with 1, 3 or 6 columns.
type RockData struct {
	Phi      float64 `json:"phi"`      // constant porosity
	Kval     float64 `json:"kval"`     // constant isotropic permeability (used if permfile is empty)
	PermFile string  `json:"permfile"` // path to persisted permeability table
	PermNcol int     `json:"permncol"` // number of columns in permfile
	Sini     float64 `json:"sini"`     // initial water saturation
}

// FluidData holds fluid model selection and parameters
type FluidData struct {
	Name string   `json:"name"` // model name in mfluid database; e.g. "cor"
	Prms fun.Prms `json:"prms"` // model parameters
}

// WellData holds data to construct one well
type WellData struct {
	Name   string  `json:"name"`   // well name
	Ctrl   string  `json:"ctrl"`   // control mode: "rate" or "bhp"
	Target float64 `json:"target"` // control target value
	Cells  []int   `json:"cells"`  // perforated cells
	Radius float64 `json:"radius"` // well-bore radius
	Dir    string  `json:"dir"`    // well direction: "x", "y" or "z"
	Skin   float64 `json:"skin"`   // skin factor
	Sign   int     `json:"sign"`   // +1 injector, -1 producer, 0 unset
	Compi  float64 `json:"compi"`  // injected water composition
	Dref   float64 `json:"dref"`   // elevation offset w.r.t. reference depth
	IpKind string  `json:"ipkind"` // discretization kind in use; e.g. "tpf"

	// optional pre-computed well index
	WI     []float64 `json:"wi"`     // supplied well index per perforation (computed if empty)
	WIKind string    `json:"wikind"` // discretization kind the supplied index was derived for
}

// SolverData holds the transport solver settings
type SolverData struct {
	Nltol    float64 `json:"nltol"`    // nonlinear (Newton) residual tolerance
	Resred   float64 `json:"resred"`   // residual reduction target for line search
	Lstrials int     `json:"lstrials"` // maximum number of line-search trials
	MaxIt    int     `json:"maxit"`    // maximum number of Newton iterations
	RefDepth int     `json:"refdepth"` // time-step refinement depth; 0 => floor(log2(T)) at run time
	Verbose  bool    `json:"verbose"`  // show residuals
}

// ObjData holds objective (net-present-value) settings
type ObjData struct {
	OilPrice float64 `json:"oilprice"` // oil revenue per unit volume
	WatProd  float64 `json:"watprod"`  // water production (handling) cost per unit volume
	WatInj   float64 `json:"watinj"`   // water injection cost per unit volume
	Discount float64 `json:"discount"` // relative discount factor per unit time
}

// Simulation holds all simulation data read from a .sim file
type Simulation struct {
	Data     Data        `json:"data"`     // global information
	Grid     GridData    `json:"grid"`     // grid data
	Rock     RockData    `json:"rock"`     // rock data
	Fluid    FluidData   `json:"fluid"`    // fluid model data
	Wells    []*WellData `json:"wells"`    // wells
	Solver   SolverData  `json:"solver"`   // transport solver data
	Schedule []float64   `json:"schedule"` // end time of each outer step
	Obj      ObjData     `json:"obj"`      // objective data

	// derived
	Key string // simulation key; e.g. mysim01.sim => mysim01
}

// SetDefault sets default values for the solver data
func (o *SolverData) SetDefault() {
	o.Nltol = 1e-6
	o.Resred = 0.99
	o.Lstrials = 20
	o.MaxIt = 25
	o.RefDepth = 0
}

// PostProcess fixes unset values after reading
func (o *SolverData) PostProcess() {
	if o.Nltol <= 0 {
		o.Nltol = 1e-6
	}
	if o.Resred <= 0 || o.Resred >= 1 {
		o.Resred = 0.99
	}
	if o.Lstrials < 1 {
		o.Lstrials = 20
	}
	if o.MaxIt < 1 {
		o.MaxIt = 25
	}
}

// Refinements returns the refinement depth for an advance over [0,tf]
func (o *SolverData) Refinements(tf float64) int {
	if o.RefDepth > 0 {
		return o.RefDepth
	}
	d := int(math.Floor(math.Log2(tf)))
	if d < 1 {
		d = 1
	}
	return d
}

// ReadSim reads all simulation data from a .sim JSON file
func ReadSim(simfilepath string) *Simulation {

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		chk.Panic("cannot read simulation file %q:\n%v", simfilepath, err)
	}

	// decode
	var o Simulation
	o.Solver.SetDefault()
	err = json.Unmarshal(b, &o)
	if err != nil {
		chk.Panic("cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}
	o.Solver.PostProcess()

	// check
	if len(o.Schedule) < 1 {
		chk.Panic("simulation file %q has an empty schedule", simfilepath)
	}
	tprev := 0.0
	for i, t := range o.Schedule {
		if t <= tprev {
			chk.Panic("schedule times must be strictly increasing; step %d has t=%g after t=%g", i, t, tprev)
		}
		tprev = t
	}

	// derived
	o.Key = io.FnKey(filepath.Base(simfilepath))
	return &o
}

// TargetFunc returns the control target of a well as a time function
func (o *WellData) TargetFunc() fun.Func {
	return &fun.Cte{C: o.Target}
}
