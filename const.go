// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.21
//

package gthc

const (
	PI = 3.1415926535897932  // Pi
	Re = 6378137.0           // Earth's radius [m]
	Fe = 1.0 / 298.257223563 // Earth's flattening
)

// Hong Kong region boundaries [deg]
const (
	HK_LAT_MIN = 22.1
	HK_LAT_MAX = 22.6
	HK_LON_MIN = 113.8
	HK_LON_MAX = 114.5
)

// Tropospheric scale heights [m]
const (
	BETA_ZHD      = 8431.2 // Hydrostatic delay (no seasonal variation)
	BETA_ZTD_MEAN = 7228.8 // Total delay, annual mean
	BETA_ZWD_MEAN = 3254.1 // Wet delay, annual mean
)
