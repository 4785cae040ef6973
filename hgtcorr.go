// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.28
//

// Implements the tropospheric delay height correction model for the Hong Kong region.
// The model transfers zenith delays estimated at a reference station to a user
// station at a different height using an exponential scale-height law with
// coefficients fitted to Hong Kong CORS data.

package gthc

import (
	"errors"
	"fmt"
	"math"
)

// Validation error kinds
var (
	ErrDOYRange  = errors.New("DOY must be between 1 and 366")
	ErrOutsideHK = errors.New("station coordinates outside Hong Kong region (lat: 22.1-22.6, lon: 113.8-114.5)")
)

// Structure to store the three zenith delay components [mm]
type ZenithDelay struct {
	ZHD float64 // Zenith hydrostatic delay
	ZWD float64 // Zenith wet delay
	ZTD float64 // Zenith total delay
}

// Constructor for the above structure
func NewZenithDelay(zhd, zwd, ztd float64) *ZenithDelay {
	return &ZenithDelay{
		ZHD: zhd,
		ZWD: zwd,
		ZTD: ztd,
	}
}

// Convert to string
func (z *ZenithDelay) String() string {
	return fmt.Sprintf("%10.4f %10.4f %10.4f", z.ZHD, z.ZWD, z.ZTD)
}

// Check if coordinates are within the Hong Kong region boundaries (inclusive)
func IsInHongkong(latDeg, lonDeg float64) bool {
	return HK_LAT_MIN <= latDeg && latDeg <= HK_LAT_MAX &&
		HK_LON_MIN <= lonDeg && lonDeg <= HK_LON_MAX
}

// CorrectHgt transfers the reference station zenith delays to the user station height
// It applies the exponential height correction model with Hong Kong regional scale heights
//
// Parameters:
//   - baseTrop: Reference station zenith delays [mm]
//   - baseLLH: Reference station position (latitude/longitude in radians, height in meters)
//   - userLLH: User station position (latitude/longitude in radians, height in meters)
//   - doy: Day of year (1-366)
//   - seasonal: Use the seasonal scale-height model instead of annual mean values
//
// Returns:
//   - ZenithDelay: User station zenith delays [mm]
//   - error: Validation error if the inputs are outside the model's domain
func CorrectHgt(baseTrop *ZenithDelay, baseLLH, userLLH *PosLLH, doy int, seasonal bool) (*ZenithDelay, error) {

	// Validate inputs before any computation
	if doy < 1 || doy > 366 {
		return nil, fmt.Errorf("%w (doy=%d)", ErrDOYRange, doy)
	}
	if !IsInHongkong(ToDeg(baseLLH.Lat), ToDeg(baseLLH.Lon)) {
		return nil, fmt.Errorf("base %w", ErrOutsideHK)
	}
	if !IsInHongkong(ToDeg(userLLH.Lat), ToDeg(userLLH.Lon)) {
		return nil, fmt.Errorf("user %w", ErrOutsideHK)
	}

	// Height difference between the stations [m]
	hgtDiff := userLLH.Hei - baseLLH.Hei

	// Select scale heights
	betaZTD := BETA_ZTD_MEAN
	betaZWD := BETA_ZWD_MEAN
	if seasonal {
		t := float64(doy) / 365.25
		betaZTD = BetaZTD(t)
		betaZWD = BetaZWD(t)
	}

	// Apply the exponential height correction to each component
	return &ZenithDelay{
		ZHD: baseTrop.ZHD / math.Exp(-hgtDiff/BETA_ZHD),
		ZWD: baseTrop.ZWD / math.Exp(-hgtDiff/betaZWD),
		ZTD: baseTrop.ZTD / math.Exp(-hgtDiff/betaZTD),
	}, nil
}
