// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adjoint

import (
	"github.com/cpmech/gosl/chk"

	"github.com/giecli/adjointPerm/flow"
	"github.com/giecli/adjointPerm/obj"
	"github.com/giecli/adjointPerm/wel"
)

// ControlGradient accumulates the gradient of the objective with respect to
// the well control targets across all steps, from the per-step adjoint well
// duals and the objective control partials. This is the caller-side
// accumulation the adjoint solver itself does not perform.
func ControlGradient(wells []*wel.Well, states []*State, parts []*obj.Partials) (grad []float64) {

	// check
	if len(states) != len(parts) {
		chk.Panic("got %d adjoint states for %d objective partial sets", len(states), len(parts))
	}
	pwell, _, _ := flow.Perfs(wells)

	// accumulate; the emitted well duals carry a negated sign, hence the
	// subtraction
	grad = make([]float64, len(wells))
	for k, st := range states {
		if parts[k] != nil {
			for iw := range wells {
				grad[iw] += parts[k].Ctrl[iw]
			}
		}
		for iw, w := range wells {
			if w.RateControlled() {
				grad[iw] -= st.Qwadj[iw]
			}
		}
		for i, iw := range pwell {
			if !wells[iw].RateControlled() {
				grad[iw] -= st.Qadj[i]
			}
		}
	}
	return
}
