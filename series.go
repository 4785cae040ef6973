// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.28
//

// Reader for zenith delay time-series files.
//
// Format: '%'-prefixed comment/header lines, then one record per line:
//   YYYY/MM/DD HH:MM:SS  ZHD  ZWD  ZTD
// with delays in mm.

package gthc

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// Structure to store the zenith delays for one epoch
type TropE struct {
	Time GTime        // Epoch time
	Del  *ZenithDelay // Zenith delays [mm]
}

// Structure to store the zenith delays for all epochs
type TropSeries struct {
	DatE []*TropE // Delay data for each time (sorted by time in ascending order)
}

// Display series overview
func (p *TropSeries) String() string {
	if len(p.DatE) == 0 {
		return "NO DATA"
	}
	first := p.DatE[0]
	last := p.DatE[len(p.DatE)-1]
	return fmt.Sprintf("epochs: %d, start: %s, end: %s",
		len(p.DatE),
		first.Time.ToTime().UTC().Format("2006/01/02 15:04:05"),
		last.Time.ToTime().UTC().Format("2006/01/02 15:04:05"))
}

// Get the temporally nearest epoch data
func (p *TropSeries) GetNearest(t GTime) (trope *TropE, err error) {
	if len(p.DatE) > 0 {
		const MAX_AGE = 30.0 // [s]
		m := MAX_AGE + 1
		for _, s := range p.DatE {
			d := math.Abs(t.ToTime().Sub(s.Time.ToTime()).Seconds())
			if d <= m {
				trope = s
				m = d
			}
		}
		if m > MAX_AGE {
			return nil, fmt.Errorf("no nearest data is found within %d seconds. t=%s, m=%f", int(MAX_AGE), t.ToTime(), m)
		} else {
			return trope, nil
		}
	} else {
		return nil, fmt.Errorf("the container is empty")
	}
}

// Read zenith delay series data
func ReadTrop(r io.Reader) (*TropSeries, error) {

	dat := []*TropE{}

	// Epochs already read (duplicates are skipped)
	seen := []GTime{}

	// Reader to read line by line with newline as delimiter
	s := bufio.NewScanner(r)

	// Read line by line
	for s.Scan() {

		// Read line
		line := strings.TrimSpace(s.Text())

		// Skip empty and comment lines
		if len(line) == 0 || strings.HasPrefix(line, "%") {
			continue
		}

		trope, err := getTropEpoch(line)
		if err != nil {
			return nil, fmt.Errorf("getTropEpoch() failed, err=%v", err)
		}

		// Skip duplicate epochs
		if slices.Contains(seen, trope.Time) {
			continue
		}
		seen = append(seen, trope.Time)
		dat = append(dat, trope)
	}

	// Check if reading completed without error
	if err := s.Err(); err != nil {
		return nil, err
	}

	// Sort data by date and time
	sort.Slice(dat, func(i, j int) bool {
		return dat[i].Time.Less(dat[j].Time, false)
	})

	return &TropSeries{DatE: dat}, nil
}

// Read date, time and delays from one record line
func getTropEpoch(l string) (*TropE, error) {
	f := strings.Fields(l)
	if len(f) < 5 {
		return nil, fmt.Errorf("record needs 5 fields (date time zhd zwd ztd). l=%s", l)
	}
	t, err := time.Parse("2006/01/02 15:04:05", f[0]+" "+f[1])
	if err != nil {
		return nil, err
	}
	zhd, err := strconv.ParseFloat(f[2], 64)
	if err != nil {
		return nil, err
	}
	zwd, err := strconv.ParseFloat(f[3], 64)
	if err != nil {
		return nil, err
	}
	ztd, err := strconv.ParseFloat(f[4], 64)
	if err != nil {
		return nil, err
	}
	return &TropE{
		Time: *NewGTime(t.UTC()),
		Del:  NewZenithDelay(zhd, zwd, ztd),
	}, nil
}
