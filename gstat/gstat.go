// Public domain.

package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
)

const parentImport = "github.com/soniakeys/gband"
const versionString = "gstat version 0.1"
const copyrightString = "Public domain."

// magnitude regime boundaries, as in package gcorr
const minMag = 13
const splitMag = 16

var rawCol = "phot_g_mean_mag"
var corrCol = "gmag_corrected"
var ignored int

func main() {
	// parse command line
	flag.Usage = func() {
		os.Stderr.WriteString(
			"Usage: gstat [options] <corrected.csv> [threshold]\n")
		flag.PrintDefaults()
		os.Stderr.WriteString(`
For full documentation:
   go doc ` + parentImport + `/gstat
`)
	}
	flag.StringVar(&rawCol, "g", rawCol,
		"column containing the uncorrected magnitude")
	flag.StringVar(&corrCol, "G", corrCol,
		"column containing the corrected magnitude")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	if n := flag.NArg(); n < 1 || n > 2 {
		flag.Usage()
		os.Exit(1)
	}
	// parse threshold, in millimag
	threshold := 1.
	thresholdPrec := 0
	if flag.NArg() == 2 {
		tStr := flag.Arg(1)
		var err error
		threshold, err = strconv.ParseFloat(tStr, 64)
		if err != nil {
			log.Fatalln("Bad threshold:", err)
		}
		if p := strings.Index(tStr, "."); p >= 0 {
			thresholdPrec = len(tStr) - p - 1
		}
	}
	// read corrected catalog
	s, err := corrections(flag.Arg(0), threshold)
	if err != nil {
		log.Fatalln("corrected catalog:", err)
	}
	corrected := s.bright + s.faint
	// report statistics
	fmt.Println("\nCorrected catalog:   ", flag.Arg(0))
	fmt.Println("Total sources:       ", s.unchanged+corrected)
	if ignored != 0 {
		fmt.Println("Lines ignored:       ", ignored)
	}
	fmt.Println("Uncorrected:         ", s.unchanged)
	fmt.Println("Corrected bright:    ", s.bright)
	fmt.Println("Corrected faint:     ", s.faint)
	fmt.Printf("Threshold (mmag):     %.*f\n", thresholdPrec, threshold)
	fmt.Println("Above threshold:     ", s.above)
	if corrected > 0 {
		fmt.Println()
		fmt.Printf("Mean correction (mmag): %.2f\n",
			s.sum/float64(corrected))
		fmt.Printf("Max correction (mmag):  %.2f\n", s.max)
	}
}

// corrStats is the correction distribution of a corrected catalog.
// Corrected sources are counted by magnitude regime; sum and max are
// over the absolute magnitude corrections, in millimag.
type corrStats struct {
	unchanged     int
	bright, faint int
	above         int
	sum, max      float64
}

// corrections scans a corrected catalog and accumulates the magnitude
// correction distribution.  The correction for each source is the
// absolute difference of the raw and corrected columns, in millimag.
// Corrected sources are classified bright or faint by the raw
// magnitude, split after magnitude 16 as in the correction itself.
// Lines without a numeric value in both columns are ignored.
func corrections(fn string, threshold float64) (s corrStats, err error) {
	var f *os.File
	f, err = os.Open(fn)
	if err != nil {
		return
	}
	defer f.Close()
	cr := csv.NewReader(f)
	hdr, err := cr.Read()
	if err != nil {
		return
	}
	rawIx, corrIx := -1, -1
	for i, h := range hdr {
		switch strings.TrimSpace(h) {
		case rawCol:
			rawIx = i
		case corrCol:
			corrIx = i
		}
	}
	if rawIx < 0 || corrIx < 0 {
		err = fmt.Errorf("columns %s, %s not both found", rawCol, corrCol)
		return
	}
	for {
		rec, readErr := cr.Read()
		if readErr == io.EOF {
			return
		}
		if readErr != nil {
			err = readErr
			return
		}
		raw, rawErr := strconv.ParseFloat(rec[rawIx], 64)
		corr, corrErr := strconv.ParseFloat(rec[corrIx], 64)
		if rawErr != nil || corrErr != nil {
			ignored++
			continue
		}
		d := math.Abs(raw-corr) * 1000
		if d == 0 {
			s.unchanged++
			continue
		}
		if raw > splitMag {
			s.faint++
		} else {
			s.bright++
		}
		s.sum += d
		if d > s.max {
			s.max = d
		}
		if d >= threshold {
			s.above++
		}
	}
}
