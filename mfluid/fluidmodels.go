// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mfluid implements two-phase fluid models providing the water
// fractional flow and phase mobilities as functions of water saturation
package mfluid

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Model defines two-phase fluid models. Fw must be monotone non-decreasing
// with Fw(0)=0 and Fw(1)=1.
type Model interface {
	Init(prms fun.Prms) error      // Init initialises this structure
	GetPrms(example bool) fun.Prms // gets (an example) of parameters
	Fw(s float64) float64          // Fw returns the water fractional flow
	DfwDs(s float64) float64       // DfwDs returns ∂fw/∂s
	D2fwDs2(s float64) float64     // D2fwDs2 returns ∂²fw/∂s²
	Mobw(s float64) float64        // Mobw returns the water mobility krw/μw
	Mobo(s float64) float64        // Mobo returns the oil mobility kro/μo
	Mobt(s float64) float64        // Mobt returns the total mobility
	DmobtDs(s float64) float64     // DmobtDs returns ∂(total mobility)/∂s
}

// New returns a fluid model from the database
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in mfluid database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}

// Corey implements quadratic (Corey-type) relative permeabilities
type Corey struct {

	// parameters
	muw float64 // water viscosity
	muo float64 // oil viscosity
}

// add model to factory
func init() {
	allocators["cor"] = func() Model { return new(Corey) }
}

// Init initialises model
func (o *Corey) Init(prms fun.Prms) (err error) {
	o.muw = 1.0
	o.muo = 1.0
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "muw":
			o.muw = p.V
		case "muo":
			o.muo = p.V
		default:
			return chk.Err("cor: parameter named %q is incorrect", p.N)
		}
	}
	if o.muw <= 0 || o.muo <= 0 {
		return chk.Err("cor: viscosities must be positive: muw=%g muo=%g", o.muw, o.muo)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Corey) GetPrms(example bool) fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "muw", V: 1.0},
		&fun.Prm{N: "muo", V: 1.0},
	}
}

// Mobw returns the water mobility
func (o Corey) Mobw(s float64) float64 {
	return s * s / o.muw
}

// Mobo returns the oil mobility
func (o Corey) Mobo(s float64) float64 {
	return (1.0 - s) * (1.0 - s) / o.muo
}

// Mobt returns the total mobility
func (o Corey) Mobt(s float64) float64 {
	return o.Mobw(s) + o.Mobo(s)
}

// DmobtDs returns ∂(total mobility)/∂s
func (o Corey) DmobtDs(s float64) float64 {
	return 2.0*s/o.muw - 2.0*(1.0-s)/o.muo
}

// Fw returns the water fractional flow
func (o Corey) Fw(s float64) float64 {
	return o.Mobw(s) / o.Mobt(s)
}

// DfwDs returns ∂fw/∂s
func (o Corey) DfwDs(s float64) float64 {
	lw := o.Mobw(s)
	lo := o.Mobo(s)
	dlw := 2.0 * s / o.muw
	dlo := -2.0 * (1.0 - s) / o.muo
	lt := lw + lo
	return (dlw*lo - lw*dlo) / (lt * lt)
}

// D2fwDs2 returns ∂²fw/∂s²
func (o Corey) D2fwDs2(s float64) float64 {
	lw := o.Mobw(s)
	lo := o.Mobo(s)
	dlw := 2.0 * s / o.muw
	dlo := -2.0 * (1.0 - s) / o.muo
	d2lw := 2.0 / o.muw
	d2lo := 2.0 / o.muo
	lt := lw + lo
	dlt := dlw + dlo
	num := dlw*lo - lw*dlo
	dnum := d2lw*lo - lw*d2lo
	return (dnum*lt - 2.0*num*dlt) / (lt * lt * lt)
}
