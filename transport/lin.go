// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"
)

// LUSolve solves A·x = b (or Aᵀ·x = b when trans is true) for a matrix
// assembled in triplet form, by dense LU factorization
func LUSolve(tri *la.Triplet, b []float64, trans bool) (x []float64, err error) {
	n := len(b)
	dn := tri.ToMatrix(nil).ToDense()
	A := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			A.Set(i, j, dn[i][j])
		}
	}
	var lu mat.LU
	lu.Factorize(A)
	var v mat.VecDense
	err = lu.SolveVecTo(&v, trans, mat.NewVecDense(n, b))
	if err != nil {
		return nil, chk.Err("linear solve failed:\n%v", err)
	}
	x = make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = v.AtVec(i)
	}
	return
}
