// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.28
//

package gthc

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeries = `% station   : HKSL
% delays in mm
2024/05/29 12:30:00  2210.1  148.2  2358.3
2024/05/29 12:00:00  2208.4  151.0  2359.4

2024/05/29 13:00:00  2211.9  146.8  2358.7
2024/05/29 12:30:00  9999.0  999.0  9999.0
`

func TestReadTrop(t *testing.T) {
	trop, err := ReadTrop(strings.NewReader(testSeries))
	require.NoError(t, err)
	require.Len(t, trop.DatE, 3, "duplicate epoch is skipped")

	// Sorted ascending regardless of file order
	assert.Equal(t, time.Date(2024, 5, 29, 12, 0, 0, 0, time.UTC), trop.DatE[0].Time.ToTime().UTC())
	assert.Equal(t, time.Date(2024, 5, 29, 13, 0, 0, 0, time.UTC), trop.DatE[2].Time.ToTime().UTC())
	assert.Equal(t, 2208.4, trop.DatE[0].Del.ZHD)
	assert.Equal(t, 151.0, trop.DatE[0].Del.ZWD)
	assert.Equal(t, 2359.4, trop.DatE[0].Del.ZTD)

	// First occurrence wins on duplicate epochs
	assert.Equal(t, 2210.1, trop.DatE[1].Del.ZHD)
}

func TestReadTropErrors(t *testing.T) {
	_, err := ReadTrop(strings.NewReader("2024/05/29 12:00:00 2208.4 151.0\n"))
	assert.Error(t, err, "missing field")
	_, err = ReadTrop(strings.NewReader("2024-05-29 12:00:00 2208.4 151.0 2359.4\n"))
	assert.Error(t, err, "wrong date format")
	_, err = ReadTrop(strings.NewReader("2024/05/29 12:00:00 abc 151.0 2359.4\n"))
	assert.Error(t, err, "non-numeric delay")
}

func TestTropSeriesGetNearest(t *testing.T) {
	trop, err := ReadTrop(strings.NewReader(testSeries))
	require.NoError(t, err)

	t.Run("exact epoch", func(t *testing.T) {
		got, err := trop.GetNearest(*NewGTime(time.Date(2024, 5, 29, 12, 30, 0, 0, time.UTC)))
		require.NoError(t, err)
		assert.Equal(t, 2210.1, got.Del.ZHD)
	})

	t.Run("within the age limit", func(t *testing.T) {
		got, err := trop.GetNearest(*NewGTime(time.Date(2024, 5, 29, 12, 59, 45, 0, time.UTC)))
		require.NoError(t, err)
		assert.Equal(t, 2211.9, got.Del.ZHD)
	})

	t.Run("too far from any epoch", func(t *testing.T) {
		_, err := trop.GetNearest(*NewGTime(time.Date(2024, 5, 29, 14, 0, 0, 0, time.UTC)))
		assert.Error(t, err)
	})

	t.Run("empty series", func(t *testing.T) {
		empty := &TropSeries{}
		_, err := empty.GetNearest(*NewGTime(time.Now()))
		assert.Error(t, err)
	})
}
