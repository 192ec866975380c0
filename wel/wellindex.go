// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wel

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/giecli/adjointPerm/grd"
	"github.com/giecli/adjointPerm/inp"
)

// well-bore constant table for mimetic-type discretizations, keyed by the
// ratio of the two transverse cell extents (Lie's table). The ratio column
// is monotone increasing; lookup is linear interpolation with linear
// extrapolation beyond the ends.
var (
	wcRatio = []float64{1, 2, 3, 4, 5, 8, 9, 16, 17, 32, 33, 64, 65}
	wcConst = []float64{0.292, 0.278, 0.262, 0.252, 0.244, 0.231, 0.229, 0.220, 0.219, 0.213, 0.213, 0.210, 0.210}
)

// wellConstant returns the well-bore constant for the given discretization
// kind and transverse aspect ratio (ratio ≥ 1)
func wellConstant(ipKind string, ratio float64) float64 {
	if ipKind == "tpf" {
		return 0.14
	}
	n := len(wcRatio)
	if ratio <= wcRatio[0] {
		// extrapolate to the left using the first segment
		return wcConst[0] + (ratio-wcRatio[0])*(wcConst[1]-wcConst[0])/(wcRatio[1]-wcRatio[0])
	}
	if ratio >= wcRatio[n-1] {
		// extrapolate to the right using the last segment
		return wcConst[n-2] + (ratio-wcRatio[n-2])*(wcConst[n-1]-wcConst[n-2])/(wcRatio[n-1]-wcRatio[n-2])
	}
	for i := 1; i < n; i++ {
		if ratio <= wcRatio[i] {
			return wcConst[i-1] + (ratio-wcRatio[i-1])*(wcConst[i]-wcConst[i-1])/(wcRatio[i]-wcRatio[i-1])
		}
	}
	return wcConst[n-1]
}

// ComputeWellIndex computes the Peaceman-type effective well index of each
// perforation. For each perforated cell the two transverse extents and
// transverse permeabilities are selected from the well direction, the
// equivalent radius follows from the anisotropy-corrected well-bore constant
// and the geometric-mean transverse permeability, and
//
//   WI = 2π·Kh / (ln(re/radius) + skin)
//
// with Kh supplied (kh > 0) or computed as thickness × sqrt(k1·k2).
// A negative WI is a physical inconsistency and returns an error
// distinguishing "equivalent radius smaller than the well-bore radius"
// from "skin factor too large".
func ComputeWellIndex(g *grd.Grid, rock *inp.Rock, radius float64, dir string, cells []int, ipKind string, skin, kh float64) (wi []float64, err error) {

	// check (configuration errors)
	if radius <= 0 {
		chk.Panic("well-bore radius must be positive: %g", radius)
	}
	if len(cells) < 1 {
		chk.Panic("well must perforate at least one cell")
	}
	switch ipKind {
	case "tpf", "mim":
	default:
		chk.Panic("unknown discretization kind %q; must be \"tpf\" or \"mim\"", ipKind)
	}

	wi = make([]float64, len(cells))
	for i, c := range cells {
		if c < 0 || c >= g.N {
			chk.Panic("perforated cell %d is outside the grid (0 ≤ c < %d)", c, g.N)
		}

		// transverse extents/permeabilities and thickness from well direction
		dx, dy, dz := g.CellDims(c)
		var d1, d2, ell, k1, k2 float64
		switch dir {
		case "x":
			d1, d2, ell = dy, dz, dx
			k1, k2 = rock.Kyy(c), rock.Kzz(c)
		case "y":
			d1, d2, ell = dx, dz, dy
			k1, k2 = rock.Kxx(c), rock.Kzz(c)
		case "z":
			d1, d2, ell = dx, dy, dz
			k1, k2 = rock.Kxx(c), rock.Kyy(c)
		default:
			chk.Panic("unknown well direction %q; must be \"x\", \"y\" or \"z\"", dir)
		}

		// well-bore constant from transverse aspect ratio
		ratio := d1 / d2
		if ratio < 1 {
			ratio = 1.0 / ratio
		}
		wc := wellConstant(ipKind, ratio)

		// equivalent radius with anisotropic correction
		re1 := 2.0 * wc * math.Sqrt(d1*d1*math.Sqrt(k2/k1)+d2*d2*math.Sqrt(k1/k2))
		re := re1 / (math.Pow(k2/k1, 0.25) + math.Pow(k1/k2, 0.25))

		// permeability-thickness
		ke := math.Sqrt(k1 * k2)
		khc := kh
		if khc <= 0 {
			khc = ell * ke
		}

		// well index
		wi[i] = 2.0 * math.Pi * khc / (math.Log(re/radius) + skin)
		if wi[i] < 0 {
			if re < radius {
				return nil, chk.Err("physical inconsistency: equivalent radius %g is smaller than the well-bore radius %g in cell %d", re, radius, c)
			}
			return nil, chk.Err("physical inconsistency: skin factor %g is too large and produces a negative well index in cell %d", skin, c)
		}
	}
	return
}

// WellIndexDeriv computes the derivative of the well index with respect to
// permeability by recomputing the index under an externally supplied
// perturbed permeability field with the identical formula, keeping forward
// and sensitivity values consistent.
//  Input:
//   pert -- perturbed rock: perm + eps·direction
//   eps  -- perturbation magnitude
func WellIndexDeriv(g *grd.Grid, rock, pert *inp.Rock, eps, radius float64, dir string, cells []int, ipKind string, skin, kh float64) (dwi []float64, err error) {
	if eps == 0 {
		chk.Panic("perturbation magnitude must be nonzero")
	}
	wi0, err := ComputeWellIndex(g, rock, radius, dir, cells, ipKind, skin, kh)
	if err != nil {
		return
	}
	wi1, err := ComputeWellIndex(g, pert, radius, dir, cells, ipKind, skin, kh)
	if err != nil {
		return
	}
	dwi = make([]float64, len(cells))
	for i := range cells {
		dwi[i] = (wi1[i] - wi0[i]) / eps
	}
	return
}
