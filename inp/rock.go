// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// PermKind distinguishes the permeability representation. The representation
// is resolved once, at rock construction, from the number of columns.
type PermKind int

const (
	KindIso  PermKind = iota // one column: isotropic scalar
	KindDiag                 // three columns: diagonal tensor (kx, ky, kz)
	KindFull                 // six columns: full symmetric tensor (kxx, kyy, kzz, kxy, kxz, kyz)
)

// Rock holds per-cell porosity and permeability
type Rock struct {
	Nc   int         // number of cells
	Kind PermKind    // resolved permeability representation
	Phi  []float64   // [Nc] porosity
	Perm [][]float64 // [Nc][1, 3 or 6] permeability rows
}

// NewRock resolves the permeability variant and validates lengths.
// Mismatched array lengths and unknown column counts are configuration
// errors and cause a panic.
func NewRock(phi []float64, perm [][]float64) (o *Rock) {
	nc := len(phi)
	if nc < 1 {
		chk.Panic("rock: porosity array is empty")
	}
	if len(perm) != nc {
		chk.Panic("rock: permeability has %d rows but porosity has %d cells", len(perm), nc)
	}
	o = &Rock{Nc: nc, Phi: phi, Perm: perm}
	switch len(perm[0]) {
	case 1:
		o.Kind = KindIso
	case 3:
		o.Kind = KindDiag
	case 6:
		o.Kind = KindFull
	default:
		chk.Panic("rock: permeability must have 1, 3 or 6 columns; got %d", len(perm[0]))
	}
	for c := 1; c < nc; c++ {
		if len(perm[c]) != len(perm[0]) {
			chk.Panic("rock: permeability row %d has %d columns but row 0 has %d", c, len(perm[c]), len(perm[0]))
		}
	}
	return
}

// Kxx returns the xx-component of permeability in cell c
func (o *Rock) Kxx(c int) float64 { return o.Perm[c][0] }

// Kyy returns the yy-component of permeability in cell c
func (o *Rock) Kyy(c int) float64 {
	if o.Kind == KindIso {
		return o.Perm[c][0]
	}
	return o.Perm[c][1]
}

// Kzz returns the zz-component of permeability in cell c
func (o *Rock) Kzz(c int) float64 {
	if o.Kind == KindIso {
		return o.Perm[c][0]
	}
	return o.Perm[c][2]
}

// ReadPermTable reads a permeability field persisted as a flat numeric array
// with one row per cell and ncol values per row (no binary framing).
func ReadPermTable(filename string, nc, ncol int) (perm [][]float64) {
	b, err := io.ReadFile(filename)
	if err != nil {
		chk.Panic("cannot read permeability file %q:\n%v", filename, err)
	}
	fields := strings.Fields(string(b))
	if len(fields) != nc*ncol {
		chk.Panic("permeability file %q has %d values but %d are required (%d cells × %d columns)", filename, len(fields), nc*ncol, nc, ncol)
	}
	perm = make([][]float64, nc)
	for c := 0; c < nc; c++ {
		perm[c] = make([]float64, ncol)
		for j := 0; j < ncol; j++ {
			perm[c][j] = io.Atof(fields[c*ncol+j])
		}
	}
	return
}

// WritePermTable persists a permeability field as a flat numeric array
func WritePermTable(dirout, filename string, perm [][]float64) {
	var sb strings.Builder
	for _, row := range perm {
		for j, v := range row {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(io.Sf("%23.15e", v))
		}
		sb.WriteString("\n")
	}
	io.WriteFileSD(dirout, filename, sb.String())
}
