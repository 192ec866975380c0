// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package grd implements the grid geometry consumed by the flow and
// transport solvers. The grid is read-only after construction.
package grd

import (
	"github.com/cpmech/gosl/chk"
)

// Face holds one internal face connecting two cells
type Face struct {
	L    int     // left cell id
	R    int     // right cell id
	Geom float64 // geometric part of the two-point transmissibility: area/distance
	Dir  int     // normal direction: 0, 1 or 2
}

// Grid holds immutable topology and geometry data
type Grid struct {
	N     int         // number of cells
	Ndim  int         // space dimension
	Vol   []float64   // [N] cell volumes
	Cent  [][]float64 // [N][Ndim] cell centroids
	Dims  [][]float64 // [N][Ndim] bounding-box extents of each cell
	Faces []Face      // internal faces
	C2f   [][]int     // [N] faces touching each cell
}

// NewCartesian returns a regular nx×ny×nz grid with constant spacings
func NewCartesian(nx, ny, nz int, dx, dy, dz float64) (o *Grid) {

	// check
	if nx < 1 || ny < 1 || nz < 1 {
		chk.Panic("grid dimensions must be positive: nx=%d ny=%d nz=%d", nx, ny, nz)
	}
	if dx <= 0 || dy <= 0 || dz <= 0 {
		chk.Panic("grid spacings must be positive: dx=%g dy=%g dz=%g", dx, dy, dz)
	}

	// cells
	o = new(Grid)
	o.N = nx * ny * nz
	o.Ndim = 3
	o.Vol = make([]float64, o.N)
	o.Cent = make([][]float64, o.N)
	o.Dims = make([][]float64, o.N)
	id := func(i, j, k int) int { return i + j*nx + k*nx*ny }
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := id(i, j, k)
				o.Vol[c] = dx * dy * dz
				o.Cent[c] = []float64{(float64(i) + 0.5) * dx, (float64(j) + 0.5) * dy, (float64(k) + 0.5) * dz}
				o.Dims[c] = []float64{dx, dy, dz}
			}
		}
	}

	// internal faces
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := id(i, j, k)
				if i < nx-1 {
					o.Faces = append(o.Faces, Face{c, id(i + 1, j, k), dy * dz / dx, 0})
				}
				if j < ny-1 {
					o.Faces = append(o.Faces, Face{c, id(i, j + 1, k), dx * dz / dy, 1})
				}
				if k < nz-1 {
					o.Faces = append(o.Faces, Face{c, id(i, j, k + 1), dx * dy / dz, 2})
				}
			}
		}
	}

	// cell-to-face map
	o.C2f = make([][]int, o.N)
	for f, fc := range o.Faces {
		o.C2f[fc.L] = append(o.C2f[fc.L], f)
		o.C2f[fc.R] = append(o.C2f[fc.R], f)
	}
	return
}

// CellDims returns the bounding-box extents of cell c
func (o *Grid) CellDims(c int) (dx, dy, dz float64) {
	d := o.Dims[c]
	return d[0], d[1], d[2]
}

// PoreVolumes returns per-cell pore volumes given porosities
func (o *Grid) PoreVolumes(phi []float64) (pv []float64) {
	if len(phi) != o.N {
		chk.Panic("porosity array length %d differs from number of cells %d", len(phi), o.N)
	}
	pv = make([]float64, o.N)
	for c := 0; c < o.N; c++ {
		pv[c] = o.Vol[c] * phi[c]
	}
	return
}
