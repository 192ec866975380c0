// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grd

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_grid01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid01. Cartesian 2x2x1 topology")

	g := NewCartesian(2, 2, 1, 10.0, 5.0, 2.0)
	chk.IntAssert(g.N, 4)
	chk.IntAssert(len(g.Faces), 4)

	// volumes and dims
	for c := 0; c < g.N; c++ {
		chk.Scalar(tst, io.Sf("vol%d", c), 1e-15, g.Vol[c], 100.0)
		dx, dy, dz := g.CellDims(c)
		chk.Scalar(tst, "dx", 1e-15, dx, 10.0)
		chk.Scalar(tst, "dy", 1e-15, dy, 5.0)
		chk.Scalar(tst, "dz", 1e-15, dz, 2.0)
	}

	// centroids
	chk.Vector(tst, "cent0", 1e-15, g.Cent[0], []float64{5, 2.5, 1})
	chk.Vector(tst, "cent3", 1e-15, g.Cent[3], []float64{15, 7.5, 1})

	// adjacency: cells 0-1 and 2-3 along x; 0-2 and 1-3 along y
	nx, ny := 0, 0
	for _, fc := range g.Faces {
		if fc.Dir == 0 {
			nx++
			chk.IntAssert(fc.R, fc.L+1)
		}
		if fc.Dir == 1 {
			ny++
			chk.IntAssert(fc.R, fc.L+2)
		}
	}
	chk.IntAssert(nx, 2)
	chk.IntAssert(ny, 2)

	// pore volumes
	pv := g.PoreVolumes([]float64{0.2, 0.2, 0.2, 0.2})
	chk.Vector(tst, "pv", 1e-14, pv, []float64{20, 20, 20, 20})
}

func Test_grid02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid02. cell-to-face map on 3x1x1")

	g := NewCartesian(3, 1, 1, 1.0, 1.0, 1.0)
	chk.IntAssert(len(g.Faces), 2)
	chk.IntAssert(len(g.C2f[0]), 1)
	chk.IntAssert(len(g.C2f[1]), 2)
	chk.IntAssert(len(g.C2f[2]), 1)

	// geometric factor: area/distance = 1
	for f, fc := range g.Faces {
		chk.Scalar(tst, io.Sf("geom%d", f), 1e-15, fc.Geom, 1.0)
	}
}
