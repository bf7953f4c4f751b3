// Public domain.

// Package gcorr corrects the G-band photometry of catalog sources with
// 2-parameter or 6-parameter astrometric solutions.
//
// The G-band magnitudes and fluxes published for these sources carry a
// known instrumental bias.  The correction is a multiplicative factor on
// flux, computed from a cubic in the BP-RP color of the source, with one
// set of coefficients for sources of magnitude 13 through 16 and another
// for fainter sources.  Sources brighter than magnitude 13, sources
// without a color, and sources with the excluded solution code are left
// unchanged.
//
// The coefficients are empirical fits from the calibration reference and
// are reproduced here verbatim.
package gcorr

import "math"

// TwoParamNA is the astrometric solution code for the two-parameter,
// not-applicable solution class.  Sources with this code are excluded
// from correction.  The code is a reserved catalog constant, opaque to
// this package.
const TwoParamNA = 31

// Color is clipped to this range before polynomial evaluation.  The fit
// is not valid outside it.
const (
	clipLo = .25
	clipHi = 3
)

// Magnitude regime boundaries.  Sources brighter than minMag get no
// correction, the bright coefficients apply through splitMag inclusive,
// the faint coefficients beyond.
const (
	minMag   = 13
	splitMag = 16
)

// Factor computes the multiplicative flux correction factor for a single
// source.
//
// Arguments are the BP-RP color, the astrometric solution code, and the
// G magnitude.  The returned factor is 1 for sources that get no
// correction: color NaN, gMag < 13, or solved == TwoParamNA.  A NaN gMag
// also yields 1, leaving NaN propagation to the caller's arithmetic.
func Factor(bpRp float64, solved int, gMag float64) float64 {
	if math.IsNaN(bpRp) || gMag < minMag || solved == TwoParamNA {
		return 1
	}
	c := bpRp
	if c < clipLo {
		c = clipLo
	} else if c > clipHi {
		c = clipHi
	}
	switch {
	case gMag > splitMag:
		return 1.00525 - .02323*c + .01740*c*c - .00253*c*c*c
	case gMag >= minMag:
		return 1.00876 - .02540*c + .01747*c*c - .00277*c*c*c
	}
	return 1 // gMag NaN
}

// Correct computes the corrected G magnitude and flux for a single
// source.
//
// Arguments are the BP-RP color, the astrometric solution code, the G
// magnitude, and the G flux.  A factor of 1 leaves both values bitwise
// unchanged.  NaN magnitude or flux propagates to the corresponding
// result.
func Correct(bpRp float64, solved int, gMag, gFlux float64) (gMagCorr, gFluxCorr float64) {
	f := Factor(bpRp, solved, gMag)
	return gMag - 2.5*math.Log10(f), gFlux * f
}

// CorrectSlice computes corrected G magnitudes and fluxes for a batch of
// sources.
//
// The four arguments must have identical lengths; element i of each
// result corresponds to element i of every argument.  On a length
// mismatch CorrectSlice returns a ShapeError and no partial result.
// Elements are independent, so results do not depend on the order of
// evaluation.
func CorrectSlice(bpRp []float64, solved []int, gMag, gFlux []float64) (gMagCorr, gFluxCorr []float64, err error) {
	n := len(bpRp)
	if len(solved) != n || len(gMag) != n || len(gFlux) != n {
		return nil, nil, ShapeError{len(bpRp), len(solved), len(gMag), len(gFlux)}
	}
	gMagCorr = make([]float64, n)
	gFluxCorr = make([]float64, n)
	for i, c := range bpRp {
		gMagCorr[i], gFluxCorr[i] = Correct(c, solved[i], gMag[i], gFlux[i])
	}
	return gMagCorr, gFluxCorr, nil
}
