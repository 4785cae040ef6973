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

// Reference scenario of the model documentation
var (
	testBaseTrop = ZenithDelay{ZHD: 2200, ZWD: 150, ZTD: 2350}
	testBaseLLH  = *NewPosLLHDeg(22.3, 114.2, 50)
	testUserLLH  = *NewPosLLHDeg(22.35, 114.15, 200)
)

func TestIsInHongkong(t *testing.T) {
	assert.True(t, IsInHongkong(22.3, 114.2))
	assert.True(t, IsInHongkong(22.1, 113.8), "lower bounds are inclusive")
	assert.True(t, IsInHongkong(22.6, 114.5), "upper bounds are inclusive")
	assert.False(t, IsInHongkong(22.09, 113.8))
	assert.False(t, IsInHongkong(22.3, 114.51))
	assert.False(t, IsInHongkong(35.7, 139.7))
}

func TestCorrectHgt(t *testing.T) {

	t.Run("identity at zero height difference", func(t *testing.T) {
		user := *NewPosLLHDeg(22.35, 114.15, testBaseLLH.Hei)
		got, err := CorrectHgt(&testBaseTrop, &testBaseLLH, &user, 150, true)
		require.NoError(t, err)
		assert.Equal(t, testBaseTrop.ZHD, got.ZHD)
		assert.Equal(t, testBaseTrop.ZWD, got.ZWD)
		assert.Equal(t, testBaseTrop.ZTD, got.ZTD)
	})

	t.Run("annual mean scale heights", func(t *testing.T) {
		got, err := CorrectHgt(&testBaseTrop, &testBaseLLH, &testUserLLH, 150, false)
		require.NoError(t, err)
		// Hand-computed: X_user = X_base / exp(-150/beta)
		assert.InDelta(t, 2239.4917, got.ZHD, 0.01)
		assert.InDelta(t, 157.0762, got.ZWD, 0.01)
		assert.InDelta(t, 2399.2727, got.ZTD, 0.01)
	})

	t.Run("seasonal scale heights", func(t *testing.T) {
		got, err := CorrectHgt(&testBaseTrop, &testBaseLLH, &testUserLLH, 150, true)
		require.NoError(t, err)
		// ZHD scale height has no seasonal variant
		assert.InDelta(t, 2239.4917, got.ZHD, 0.01)
		// Other components follow the seasonal model at t = DOY/365.25
		hgtDiff := testUserLLH.Hei - testBaseLLH.Hei
		tn := 150.0 / 365.25
		assert.InEpsilon(t, testBaseTrop.ZTD/math.Exp(-hgtDiff/BetaZTD(tn)), got.ZTD, 1e-12)
		assert.InEpsilon(t, testBaseTrop.ZWD/math.Exp(-hgtDiff/BetaZWD(tn)), got.ZWD, 1e-12)
	})

	t.Run("monotonic in height difference", func(t *testing.T) {
		prev := 0.0
		for _, hgt := range []float64{50, 100, 200, 400, 800} {
			user := *NewPosLLHDeg(22.35, 114.15, hgt)
			got, err := CorrectHgt(&testBaseTrop, &testBaseLLH, &user, 150, false)
			require.NoError(t, err)
			assert.Greater(t, got.ZTD, prev)
			prev = got.ZTD
		}
	})

	t.Run("DOY range", func(t *testing.T) {
		for _, doy := range []int{1, 150, 366} {
			_, err := CorrectHgt(&testBaseTrop, &testBaseLLH, &testUserLLH, doy, true)
			assert.NoError(t, err, "doy=%d", doy)
		}
		for _, doy := range []int{0, -1, 367} {
			_, err := CorrectHgt(&testBaseTrop, &testBaseLLH, &testUserLLH, doy, true)
			assert.ErrorIs(t, err, ErrDOYRange, "doy=%d", doy)
		}
	})

	t.Run("region boundary", func(t *testing.T) {
		corner := *NewPosLLHDeg(22.1, 113.8, 10)
		_, err := CorrectHgt(&testBaseTrop, &corner, &testUserLLH, 150, true)
		assert.NoError(t, err, "corner of the bounding box is inside")

		outside := *NewPosLLHDeg(22.09, 113.8, 10)
		_, err = CorrectHgt(&testBaseTrop, &outside, &testUserLLH, 150, true)
		assert.ErrorIs(t, err, ErrOutsideHK)
		_, err = CorrectHgt(&testBaseTrop, &testBaseLLH, &outside, 150, true)
		assert.ErrorIs(t, err, ErrOutsideHK)
	})

	t.Run("validation aborts before computation", func(t *testing.T) {
		got, err := CorrectHgt(&testBaseTrop, &testBaseLLH, &testUserLLH, 367, true)
		require.Error(t, err)
		assert.Nil(t, got)
	})
}
