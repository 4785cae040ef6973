// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.28
//

// Seasonal (day-of-year dependent) scale-height models and the harmonic
// least-squares fitting used to calibrate them from CORS delay series.

package gthc

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Fitted seasonal model coefficients (regression fits to Hong Kong CORS data).
// Opaque calibration data. Do not reorder or round.
var (
	A_ZTD = [3]float64{336.744129380450, 40.0468935232165, 7222.97084384999}
	A_ZWD = [5]float64{-16.7865051683731, 36218.6610049341, -130.895834349628,
		-36297.5776200211, 3253.60038161059}
)

// Seasonal ZTD scale height [m] at normalized day of year t = DOY/365.25
func BetaZTD(t float64) float64 {
	return A_ZTD[0]*math.Cos(2*PI*t) + A_ZTD[1]*math.Sin(2*PI*t) + A_ZTD[2]
}

// Seasonal ZWD scale height [m] at normalized day of year t = DOY/365.25
// The published coefficients carry two cos(4*pi*t) terms. Evaluate as published.
func BetaZWD(t float64) float64 {
	return A_ZWD[0]*math.Cos(2*PI*t) + A_ZWD[1]*math.Cos(4*PI*t) +
		A_ZWD[2]*math.Sin(2*PI*t) + A_ZWD[3]*math.Cos(4*PI*t) + A_ZWD[4]
}

// Estimate the scale height [m] implied by one pair of simultaneous delay
// observations at two heights
// - x = delay at the base station, xu = delay at the user station [mm]
// - hgtDiff = user height - base height [m]
// Inverts xu = x / exp(-hgtDiff/beta)
func BetaFromPair(x, xu, hgtDiff float64) (float64, error) {
	if x <= 0 || xu <= 0 {
		return 0, fmt.Errorf("delays must be positive (x=%f, xu=%f)", x, xu)
	}
	r := math.Log(xu / x)
	if r == 0 {
		return 0, fmt.Errorf("delay ratio is 1, scale height is unobservable")
	}
	return hgtDiff / r, nil
}

// FitSeason fits a harmonic model to scale-height samples by least squares
// - beta(t) = sum_k ( c_k cos(2*pi*k*t) + s_k sin(2*pi*k*t) ) + c0, k = 1..nharm
// - t is the normalized day of year (DOY/365.25)
//
// Returns:
//   - coef: Fitted coefficients in the order [c1, s1, c2, s2, ..., c0]
//   - rms: Post-fit residual RMS [m]
//   - error: Any error encountered during solving
//
// Note: the fitting basis keeps one cos/sin pair per harmonic. The published
// ZWD coefficients split the second-harmonic cosine over two columns, which
// would make the normal equations singular if reproduced in the design matrix.
func FitSeason(t, beta []float64, nharm int) (coef []float64, rms float64, err error) {

	n := len(t)
	m := 2*nharm + 1
	if len(beta) != n {
		return nil, 0, fmt.Errorf("sample length mismatch. t(%d), beta(%d)", n, len(beta))
	}
	if nharm < 1 {
		return nil, 0, fmt.Errorf("at least one harmonic is required (nharm=%d)", nharm)
	}
	if n < m {
		return nil, 0, fmt.Errorf("too few samples for %d harmonics. n=%d, need >=%d", nharm, n, m)
	}

	// Design matrix
	G := mat.NewDense(n, m, nil)
	y := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		for k := 1; k <= nharm; k++ {
			G.Set(i, 2*(k-1), math.Cos(2*PI*float64(k)*t[i]))
			G.Set(i, 2*(k-1)+1, math.Sin(2*PI*float64(k)*t[i]))
		}
		G.Set(i, m-1, 1.0)
		y.SetVec(i, beta[i])
	}

	// Equal weights
	W := mat.NewDiagDense(n, nil)
	for i := 0; i < n; i++ {
		W.SetDiag(i, 1.0)
	}

	x, _, err := SolveLS(G, y, W)
	if err != nil {
		return nil, 0, fmt.Errorf("SolveLS() failed, err=%v", err)
	}

	coef = make([]float64, m)
	for i := 0; i < m; i++ {
		coef[i] = x.AtVec(i)
	}

	// Post-fit residual RMS
	var v mat.VecDense
	v.MulVec(G, x)
	s := 0.0
	for i := 0; i < n; i++ {
		s += SQ(beta[i] - v.AtVec(i))
	}
	rms = math.Sqrt(s / float64(n))

	return coef, rms, nil
}

// Evaluate a harmonic model produced by FitSeason at normalized day of year t
func EvalSeason(coef []float64, t float64) float64 {
	m := len(coef)
	nharm := (m - 1) / 2
	b := coef[m-1]
	for k := 1; k <= nharm; k++ {
		b += coef[2*(k-1)]*math.Cos(2*PI*float64(k)*t) +
			coef[2*(k-1)+1]*math.Sin(2*PI*float64(k)*t)
	}
	return b
}
