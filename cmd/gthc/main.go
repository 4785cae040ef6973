// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.9.28
//

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	m "github.com/mkhts/gthc"
)

func main() {

	// Parse command line arguments
	args, err := parseArgs()
	if err != nil {
		m.PrintE(err)
		flag.Usage()
		os.Exit(1)
	}

	// Run the main application
	if err := runApplication(args); err != nil {
		m.PrintE(err)
		os.Exit(1)
	}
}

// Main application processing
func runApplication(args cmdOpt) error {

	// Prepare output file
	out, err := prepareOutput(args)
	if err != nil {
		return fmt.Errorf("failed to prepare output: %w", err)
	}
	defer closeOutput(out)

	switch args.mode {
	case m.CORR:
		return runCorrection(args, out)
	case m.FIT:
		return runFitting(args, out)
	default:
		return fmt.Errorf("unknown processing mode (%d)", args.mode)
	}
}

// Height correction mode
func runCorrection(args cmdOpt, out io.Writer) error {

	// Print header
	if !args.noHeader {
		printCorrHeader(out, os.Args[0], args)
	}

	// Series input: correct every epoch, DOY derived per epoch
	if len(args.tropFn) > 0 {
		trop, err := readTrop(args.tropFn)
		if err != nil {
			return fmt.Errorf("failed to read delay series file: %w", err)
		}
		m.PrintD(1, "--- delay series (%s): %s ---\n", filepath.Base(args.tropFn), trop)
		for _, trope := range trop.DatE {
			if err := correctEpoch(args, trope, out); err != nil {
				m.PrintB(trope.Time, "Error processing epoch: %s\n", err.Error())
				continue
			}
		}
		return nil
	}

	// Single-shot input: delays from -t or from the a-priori model
	baseTrop := args.baseTrop
	if baseTrop == nil {
		baseTrop = m.TropModel(&args.baseLLH, args.humi)
		m.PrintD(1, "a-priori base delays: %s\n", baseTrop)
	}
	doy := args.doy
	if doy == 0 {
		if args.epoch.IsZero() {
			return fmt.Errorf("DOY is required. Specify -d or -e.")
		}
		doy = args.epoch.UTC().YearDay()
	}

	userTrop, err := m.CorrectHgt(baseTrop, &args.baseLLH, &args.userLLH, doy, args.seasonal)
	if err != nil {
		return fmt.Errorf("CorrectHgt() failed, err=%v", err)
	}
	printCorrLine(out, args, nil, doy, userTrop)
	return nil
}

// Correct one series epoch
func correctEpoch(args cmdOpt, trope *m.TropE, out io.Writer) error {
	doy := trope.Time.DOY()
	userTrop, err := m.CorrectHgt(trope.Del, &args.baseLLH, &args.userLLH, doy, args.seasonal)
	if err != nil {
		return err
	}
	printCorrLine(out, args, &trope.Time, doy, userTrop)
	return nil
}

// Seasonal coefficient fitting mode
func runFitting(args cmdOpt, out io.Writer) error {

	if len(args.tropFn) == 0 || len(args.userFn) == 0 {
		return fmt.Errorf("fitting mode needs both series files. Specify -i and -iu.")
	}

	baseTrop, err := readTrop(args.tropFn)
	if err != nil {
		return fmt.Errorf("failed to read base delay series file: %w", err)
	}
	userTrop, err := readTrop(args.userFn)
	if err != nil {
		return fmt.Errorf("failed to read user delay series file: %w", err)
	}
	m.PrintD(1, "--- base series (%s): %s ---\n", filepath.Base(args.tropFn), baseTrop)
	m.PrintD(1, "--- user series (%s): %s ---\n", filepath.Base(args.userFn), userTrop)

	hgtDiff := args.userLLH.Hei - args.baseLLH.Hei

	// Per-epoch scale-height samples from matched base/user epochs
	ts := []float64{}
	bZTD := []float64{}
	bZWD := []float64{}
	for _, b := range baseTrop.DatE {
		u, err := userTrop.GetNearest(b.Time)
		if err != nil {
			continue
		}
		betaZTD, err := m.BetaFromPair(b.Del.ZTD, u.Del.ZTD, hgtDiff)
		if err != nil {
			m.PrintD(2, "skip epoch (ZTD): %s\n", err.Error())
			continue
		}
		betaZWD, err := m.BetaFromPair(b.Del.ZWD, u.Del.ZWD, hgtDiff)
		if err != nil {
			m.PrintD(2, "skip epoch (ZWD): %s\n", err.Error())
			continue
		}
		ts = append(ts, float64(b.Time.DOY())/365.25)
		bZTD = append(bZTD, betaZTD)
		bZWD = append(bZWD, betaZWD)
	}
	m.PrintD(1, "scale-height samples: %d\n", len(ts))

	coefZTD, rmsZTD, err := m.FitSeason(ts, bZTD, args.nharm)
	if err != nil {
		return fmt.Errorf("FitSeason() for ZTD failed, err=%v", err)
	}
	coefZWD, rmsZWD, err := m.FitSeason(ts, bZWD, args.nharm)
	if err != nil {
		return fmt.Errorf("FitSeason() for ZWD failed, err=%v", err)
	}

	if !args.noHeader {
		fmt.Fprintf(out, "%% program   : %s\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(out, "%% mode      : %s\n", args.mode.String())
		fmt.Fprintf(out, "%% inp file  : %s\n", args.tropFn)
		fmt.Fprintf(out, "%% inp file  : %s\n", args.userFn)
		fmt.Fprintf(out, "%% hgt diff  : %.4f m\n", hgtDiff)
		fmt.Fprintf(out, "%% samples   : %d, harmonics: %d\n", len(ts), args.nharm)
		fmt.Fprintf(out, "%% coef order: c1 s1 ... cN sN c0 (beta = sum ck*cos(2*pi*k*t) + sk*sin(2*pi*k*t) + c0)\n")
	}
	printCoef(out, "ZTD", coefZTD, rmsZTD)
	printCoef(out, "ZWD", coefZWD, rmsZWD)
	return nil
}

func printCoef(out io.Writer, name string, coef []float64, rms float64) {
	fmt.Fprintf(out, "%s", name)
	for _, c := range coef {
		fmt.Fprintf(out, " %18.10f", c)
	}
	fmt.Fprintf(out, "  rms %10.4f\n", rms)
}

// Print correction output header
func printCorrHeader(out io.Writer, cmd string, args cmdOpt) {
	fmt.Fprintf(out, "%% program   : %s\n", filepath.Base(cmd))
	fmt.Fprintf(out, "%% mode      : %s, seasonal: %t\n", args.mode.String(), args.seasonal)
	if len(args.tropFn) > 0 {
		fmt.Fprintf(out, "%% inp file  : %s\n", args.tropFn)
	}
	fmt.Fprintf(out, "%% base pos  : %.8f %.8f %.3f\n", m.ToDeg(args.baseLLH.Lat), m.ToDeg(args.baseLLH.Lon), args.baseLLH.Hei)
	fmt.Fprintf(out, "%% user pos  : %.8f %.8f %.3f\n", m.ToDeg(args.userLLH.Lat), m.ToDeg(args.userLLH.Lon), args.userLLH.Hei)
	if args.elev > 0 {
		fmt.Fprintf(out, "%%  UTC                 doy    ZHD(mm)    ZWD(mm)    ZTD(mm)  slant(mm)\n")
	} else {
		fmt.Fprintf(out, "%%  UTC                 doy    ZHD(mm)    ZWD(mm)    ZTD(mm)\n")
	}
}

// Print one correction output line
func printCorrLine(out io.Writer, args cmdOpt, t *m.GTime, doy int, del *m.ZenithDelay) {
	ts := strings.Repeat(" ", 19)
	if t != nil {
		ts = t.ToTime().UTC().Format("2006/01/02 15:04:05")
	}
	if args.elev > 0 {
		gt := t
		if gt == nil {
			// Slant mapping needs an epoch. Use the given one or midday of the DOY.
			e := args.epoch
			if e.IsZero() {
				e = time.Date(time.Now().UTC().Year(), 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, doy-1)
			}
			gt = m.NewGTime(e)
		}
		slant := del.Slant(gt, &args.userLLH, m.ToRad(args.elev))
		fmt.Fprintf(out, "%s %3d %10.4f %10.4f %10.4f %10.4f\n", ts, doy, del.ZHD, del.ZWD, del.ZTD, slant)
	} else {
		fmt.Fprintf(out, "%s %3d %10.4f %10.4f %10.4f\n", ts, doy, del.ZHD, del.ZWD, del.ZTD)
	}
}

// Prepare output file
func prepareOutput(args cmdOpt) (io.WriteCloser, error) {

	// Use stdout if no output file is specified
	if len(args.outFn) == 0 {
		return &nopCloser{os.Stdout}, nil
	}

	// Create output file
	f, err := os.Create(args.outFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// Close output file
func closeOutput(out io.WriteCloser) {
	if out != nil {
		out.Close()
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Command line options
type cmdOpt struct {
	mode     m.Mode
	baseLLH  m.PosLLH
	userLLH  m.PosLLH
	baseTrop *m.ZenithDelay
	tropFn   string
	userFn   string
	doy      int
	epoch    time.Time
	seasonal bool
	humi     float64
	elev     float64
	outFn    string
	noHeader bool
	nharm    int
}

// Parse command line arguments
func parseArgs() (a cmdOpt, err error) {
	flag.Var(&a.mode, "p", "Processing mode. 0(height correction), 1(seasonal coefficient fitting)")
	flag.Var(&a.baseLLH, "b", "Base station latitude/longitude/ellipsoidal height. Enclose in quotes like -b \"22.30000000 114.20000000 50.0\"")
	flag.Var(&a.userLLH, "u", "User station latitude/longitude/ellipsoidal height. Enclose in quotes like -u \"22.35000000 114.15000000 200.0\"")
	var baseXYZ, userXYZ m.PosXYZ
	flag.Var(&baseXYZ, "bx", "Base station ECEF position [m]. Alternative to -b.")
	flag.Var(&userXYZ, "ux", "User station ECEF position [m]. Alternative to -u.")
	var tropStr string
	flag.StringVar(&tropStr, "t", "", "Base station zenith delays ZHD ZWD ZTD [mm]. Enclose in quotes like -t \"2200 150 2350\". If omitted, -i or the a-priori model is used.")
	flag.StringVar(&a.tropFn, "i", "", "Base station zenith delay series file path.")
	flag.StringVar(&a.userFn, "iu", "", "User station zenith delay series file path (fitting mode).")
	flag.IntVar(&a.doy, "d", 0, "Day of year (1-366). If omitted, derived from -e or from the series epochs.")
	var e_ m.TimeStr
	flag.TextVar(&e_, "e", m.NewTimeStr(time.Time{}), "Epoch specification. Enclose in quotes like -e \"2024/05/29 12:00:00\". Used to derive the DOY.")
	flag.BoolVar(&a.seasonal, "s", false, "Use the seasonal scale-height model instead of annual mean values.")
	flag.Float64Var(&a.humi, "hum", 0.7, "Relative humidity (0-1) for the a-priori delay model.")
	flag.Float64Var(&a.elev, "el", 0, "Elevation angle [deg]. If greater than 0, the slant total delay is also output.")
	flag.StringVar(&a.outFn, "o", "", "Output file path. If not specified, output to stdout.")
	flag.BoolVar(&a.noHeader, "nh", false, "Do not output header lines.")
	flag.IntVar(&a.nharm, "n", 2, "Number of harmonics for coefficient fitting.")
	var dbg int
	flag.IntVar(&dbg, "x", 0, "Debug information display. Specify level value. 0(OFF), 1(display), 2(detailed display)")
	flag.Parse()
	m.DBG_ = dbg
	a.epoch = time.Time(e_)

	// ECEF positions take effect when the LLH flags are not given
	if a.baseLLH.Lat == 0 && a.baseLLH.Lon == 0 {
		if baseXYZ.X == 0 && baseXYZ.Y == 0 && baseXYZ.Z == 0 {
			return a, fmt.Errorf("the base station position must be specified! (-b or -bx option)")
		}
		a.baseLLH = baseXYZ.ToLLH()
	}
	if a.userLLH.Lat == 0 && a.userLLH.Lon == 0 {
		if userXYZ.X == 0 && userXYZ.Y == 0 && userXYZ.Z == 0 {
			return a, fmt.Errorf("the user station position must be specified! (-u or -ux option)")
		}
		a.userLLH = userXYZ.ToLLH()
	}

	// Base delay triple
	if len(tropStr) > 0 {
		a.baseTrop, err = parseTrop(tropStr)
		if err != nil {
			return a, fmt.Errorf("invalid -t value: %w", err)
		}
	}

	if m.DBG_ >= 1 {
		bx := a.baseLLH.ToXYZ()
		m.PrintA("bpos(llh, xyz): %14.9f %14.9f %10.4f, %10.4f %10.4f %10.4f\n", m.ToDeg(a.baseLLH.Lat), m.ToDeg(a.baseLLH.Lon), a.baseLLH.Hei, bx.X, bx.Y, bx.Z)
		ux := a.userLLH.ToXYZ()
		m.PrintA("upos(llh, xyz): %14.9f %14.9f %10.4f, %10.4f %10.4f %10.4f\n", m.ToDeg(a.userLLH.Lat), m.ToDeg(a.userLLH.Lon), a.userLLH.Hei, ux.X, ux.Y, ux.Z)
	}
	return
}

// Parse a "ZHD ZWD ZTD" triple [mm]
func parseTrop(s string) (*m.ZenithDelay, error) {
	f := strings.Fields(s)
	if len(f) != 3 {
		return nil, fmt.Errorf("delays need 3 fields (zhd zwd ztd). s=%s", s)
	}
	v := [3]float64{}
	for i, a := range f {
		x, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		v[i] = x
	}
	return m.NewZenithDelay(v[0], v[1], v[2]), nil
}

// Read zenith delay series file
func readTrop(fn string) (*m.TropSeries, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	trop, err := m.ReadTrop(f)
	if err != nil {
		return nil, err
	}
	return trop, nil
}
