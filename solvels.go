// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.28
//

package gthc

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Solve the observation equation using weighted least squares
// - x = (G^t W G)^-1 G^t W y
// - Return the error covariance matrix (G^t W G)^-1 as cov
func SolveLS(G mat.Matrix, y mat.Vector, W mat.Matrix) (x mat.Vector, cov mat.Matrix, err error) {

	n1, m1 := G.Dims()
	n2, m2 := W.Dims()
	if n1 != n2 {
		return nil, nil, fmt.Errorf("invalid matrix size. G(%d x %d), W(%d x %d)", n1, m1, n2, m2)
	}
	l1 := y.Len()
	if l1 != m2 {
		return nil, nil, fmt.Errorf("invalid matrix size. W(%d x %d), y(%d x 1)", n2, m2, l1)
	}

	// A (G^t W G)
	var WG mat.Dense
	WG.Mul(W, G)
	var A mat.Dense
	A.Mul(G.T(), &WG)

	// b (G^t W y)
	var GtW mat.Dense
	GtW.Mul(G.T(), W)
	var b mat.VecDense
	b.MulVec(&GtW, y)

	// Solve for x (x = A^-1 b)
	var xv mat.VecDense
	err = xv.SolveVec(&A, &b)
	if err != nil {
		return nil, nil, err
	}
	x = &xv

	// Set (G^t W G)^-1 as the covariance matrix
	var c mat.Dense
	err = c.Inverse(&A)
	if err != nil {
		return nil, nil, err
	}
	cov = &c

	return
}
