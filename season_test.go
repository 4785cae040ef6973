// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.28
//

package gthc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetaSeasonal(t *testing.T) {

	t.Run("periodic with period 1", func(t *testing.T) {
		for _, tn := range []float64{0.0, 0.25, 150.0 / 365.25, 0.9} {
			assert.InDelta(t, BetaZTD(tn), BetaZTD(tn+1), 1e-6)
			assert.InDelta(t, BetaZWD(tn), BetaZWD(tn+1), 1e-6)
		}
	})

	t.Run("mean term dominates", func(t *testing.T) {
		// Averaging over a full cycle leaves (close to) the constant term
		n := 3652
		sZTD, sZWD := 0.0, 0.0
		for i := 0; i < n; i++ {
			tn := float64(i) / float64(n)
			sZTD += BetaZTD(tn)
			sZWD += BetaZWD(tn)
		}
		assert.InDelta(t, A_ZTD[2], sZTD/float64(n), 1.0)
		assert.InDelta(t, A_ZWD[4], sZWD/float64(n), 1.0)
	})

	t.Run("stays near the annual mean constants", func(t *testing.T) {
		for doy := 1; doy <= 366; doy++ {
			tn := float64(doy) / 365.25
			assert.InDelta(t, BETA_ZTD_MEAN, BetaZTD(tn), 500.0, "doy=%d", doy)
			assert.InDelta(t, BETA_ZWD_MEAN, BetaZWD(tn), 500.0, "doy=%d", doy)
		}
	})
}

func TestBetaFromPair(t *testing.T) {

	t.Run("inverts the height correction", func(t *testing.T) {
		const beta = 7000.0
		const hgtDiff = 150.0
		x := 2350.0
		xu := x / math.Exp(-hgtDiff/beta)
		got, err := BetaFromPair(x, xu, hgtDiff)
		require.NoError(t, err)
		assert.InDelta(t, beta, got, 1e-6)
	})

	t.Run("rejects degenerate samples", func(t *testing.T) {
		_, err := BetaFromPair(0, 100, 150)
		assert.Error(t, err)
		_, err = BetaFromPair(100, -1, 150)
		assert.Error(t, err)
		_, err = BetaFromPair(100, 100, 150)
		assert.Error(t, err)
	})
}

func TestFitSeason(t *testing.T) {

	t.Run("recovers synthetic coefficients", func(t *testing.T) {
		want := []float64{300.0, 40.0, -50.0, 10.0, 7200.0} // c1 s1 c2 s2 c0
		ts := []float64{}
		ys := []float64{}
		for doy := 1; doy <= 365; doy += 10 {
			tn := float64(doy) / 365.25
			ts = append(ts, tn)
			ys = append(ys, EvalSeason(want, tn))
		}
		coef, rms, err := FitSeason(ts, ys, 2)
		require.NoError(t, err)
		require.Len(t, coef, 5)
		for i := range want {
			assert.InDelta(t, want[i], coef[i], 1e-6, "coef[%d]", i)
		}
		assert.InDelta(t, 0.0, rms, 1e-6)
	})

	t.Run("fitted model evaluates back", func(t *testing.T) {
		want := []float64{336.744, 40.047, 7222.971}
		ts := []float64{}
		ys := []float64{}
		for doy := 1; doy <= 365; doy += 5 {
			tn := float64(doy) / 365.25
			ts = append(ts, tn)
			ys = append(ys, want[0]*math.Cos(2*PI*tn)+want[1]*math.Sin(2*PI*tn)+want[2])
		}
		coef, _, err := FitSeason(ts, ys, 1)
		require.NoError(t, err)
		for _, tn := range []float64{0.1, 0.41, 0.77} {
			assert.InDelta(t, want[0]*math.Cos(2*PI*tn)+want[1]*math.Sin(2*PI*tn)+want[2],
				EvalSeason(coef, tn), 1e-6)
		}
	})

	t.Run("input validation", func(t *testing.T) {
		_, _, err := FitSeason([]float64{0.1, 0.2}, []float64{1.0}, 1)
		assert.Error(t, err)
		_, _, err = FitSeason([]float64{0.1, 0.2}, []float64{1.0, 2.0}, 0)
		assert.Error(t, err)
		_, _, err = FitSeason([]float64{0.1, 0.2}, []float64{1.0, 2.0}, 1)
		assert.Error(t, err, "fewer samples than parameters")
	})
}
