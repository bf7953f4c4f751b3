// Public domain.

package gcorr_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	xrand "golang.org/x/exp/rand"

	"github.com/soniakeys/gband/gcorr"
)

var nan = math.NaN()

// factor values hand-evaluated from the reference cubics.
var factorCases = []struct {
	bpRp   float64
	solved int
	gMag   float64
	factor float64
}{
	// faint regime
	{.5, 95, 18, .99766875},
	{.5, 3, 18, .99766875},
	// bright regime, color below the clip range
	{.1, 95, 14, 1.00345859375},
	{.25, 95, 14, 1.00345859375},
	// faint regime at both clip bounds
	{-1, 95, 18, 1.00049046875},
	{.25, 95, 18, 1.00049046875},
	{5, 95, 18, 1.02385},
	{3, 95, 18, 1.02385},
	// bright regime above the clip range
	{3.5, 95, 14, 1.015},
	// magnitude boundaries:  13 and 16 take the bright coefficients
	{.5, 95, 13, 1.00008125},
	{.5, 95, 16, 1.00008125},
	{.5, 95, 16.000001, .99766875},
	// no correction
	{.5, 95, 12.999999, 1},
	{nan, 95, 18, 1},
	{.5, 31, 18, 1},
	{1, 31, 20, 1},
	{.5, 95, nan, 1},
}

func TestFactor(t *testing.T) {
	for _, c := range factorCases {
		f := gcorr.Factor(c.bpRp, c.solved, c.gMag)
		if math.Abs(f-c.factor) > 1e-9 {
			t.Fatalf("Factor(%g, %d, %g) = %g, want %g",
				c.bpRp, c.solved, c.gMag, f, c.factor)
		}
	}
}

func ExampleCorrect() {
	gMag, gFlux := gcorr.Correct(.5, 95, 18, 1000)
	fmt.Printf("%.5f %.3f\n", gMag, gFlux)
	// Output:
	// 18.00253 997.669
}

func TestCorrect(t *testing.T) {
	// faint regime reference scenario
	m, f := gcorr.Correct(.5, 95, 18, 1000)
	if math.Abs(m-18.002534) > 1e-5 {
		t.Fatal("faint gMag:", m)
	}
	if math.Abs(f-997.66875) > 1e-5 {
		t.Fatal("faint gFlux:", f)
	}
	// bright regime reference scenario, color clipped up to .25
	m, f = gcorr.Correct(.1, 95, 14, 500)
	if math.Abs(m-13.996251) > 1e-5 {
		t.Fatal("bright gMag:", m)
	}
	if !(m < 14) {
		t.Fatal("bright gMag not brightened:", m)
	}
	if math.Abs(f-501.729296875) > 1e-5 {
		t.Fatal("bright gFlux:", f)
	}
}

// sources that get no correction must pass through bitwise unchanged.
func TestNoCorrection(t *testing.T) {
	for _, c := range []struct {
		bpRp   float64
		solved int
		gMag   float64
		gFlux  float64
	}{
		{1, 31, 20, 10}, // excluded solution code
		{nan, 95, 18, 1000},
		{.5, 95, 12.5, 1000},
		{2.3, 95, 9.97, 123456.789},
	} {
		m, f := gcorr.Correct(c.bpRp, c.solved, c.gMag, c.gFlux)
		if m != c.gMag {
			t.Fatalf("Correct(%g, %d, %g, %g) changed gMag: %g",
				c.bpRp, c.solved, c.gMag, c.gFlux, m)
		}
		if f != c.gFlux {
			t.Fatalf("Correct(%g, %d, %g, %g) changed gFlux: %g",
				c.bpRp, c.solved, c.gMag, c.gFlux, f)
		}
	}
}

func TestNaNPropagation(t *testing.T) {
	// NaN flux, valid magnitude:  magnitude corrected, flux NaN
	m, f := gcorr.Correct(.5, 95, 18, nan)
	if math.Abs(m-18.002534) > 1e-5 {
		t.Fatal("gMag:", m)
	}
	if !math.IsNaN(f) {
		t.Fatal("gFlux not NaN:", f)
	}
	// NaN magnitude, valid flux:  magnitude NaN, flux unchanged
	m, f = gcorr.Correct(.5, 95, nan, 1000)
	if !math.IsNaN(m) {
		t.Fatal("gMag not NaN:", m)
	}
	if f != 1000 {
		t.Fatal("gFlux:", f)
	}
}

func TestCorrectSlice(t *testing.T) {
	bpRp := []float64{.5, .1, 1, nan, 3.2}
	solved := []int{95, 95, 31, 3, 95}
	gMag := []float64{18, 14, 20, 15, nan}
	gFlux := []float64{1000, 500, 10, 2000, 300}
	mc, fc, err := gcorr.CorrectSlice(bpRp, solved, gMag, gFlux)
	if err != nil {
		t.Fatal(err)
	}
	wm := make([]float64, len(bpRp))
	wf := make([]float64, len(bpRp))
	for i := range bpRp {
		wm[i], wf[i] = gcorr.Correct(bpRp[i], solved[i], gMag[i], gFlux[i])
	}
	if diff := cmp.Diff(wm, mc, cmpopts.EquateNaNs()); diff != "" {
		t.Fatal("gMag mismatch:\n", diff)
	}
	if diff := cmp.Diff(wf, fc, cmpopts.EquateNaNs()); diff != "" {
		t.Fatal("gFlux mismatch:\n", diff)
	}
}

func TestCorrectSliceEmpty(t *testing.T) {
	mc, fc, err := gcorr.CorrectSlice(nil, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(mc) != 0 || len(fc) != 0 {
		t.Fatal("want empty results")
	}
}

var shapeCases = []struct{ nb, ns, nm, nf int }{
	{3, 2, 3, 3},
	{2, 3, 3, 3},
	{3, 3, 2, 3},
	{3, 3, 3, 2},
	{1, 1, 1, 0},
	{0, 1, 0, 0},
}

func TestShapeMismatch(t *testing.T) {
	for _, c := range shapeCases {
		mc, fc, err := gcorr.CorrectSlice(
			make([]float64, c.nb),
			make([]int, c.ns),
			make([]float64, c.nm),
			make([]float64, c.nf))
		se, ok := err.(gcorr.ShapeError)
		if !ok {
			t.Fatalf("lengths %v: err = %v, want ShapeError", c, err)
		}
		if se.BpRp != c.nb || se.Solved != c.ns ||
			se.GMag != c.nm || se.GFlux != c.nf {
			t.Fatalf("lengths %v: ShapeError fields %+v", c, se)
		}
		if mc != nil || fc != nil {
			t.Fatalf("lengths %v: partial result", c)
		}
	}
}

// batched results must agree with scalar calls on the same data.
func TestScalarSliceConsistency(t *testing.T) {
	rnd := xrand.New(&xrand.PCGSource{})
	rnd.Seed(3)
	const n = 500
	bpRp := make([]float64, n)
	solved := make([]int, n)
	gMag := make([]float64, n)
	gFlux := make([]float64, n)
	codes := []int{3, 31, 95}
	for i := 0; i < n; i++ {
		bpRp[i] = rnd.Float64()*5 - 1
		if rnd.Intn(10) == 0 {
			bpRp[i] = nan
		}
		solved[i] = codes[rnd.Intn(len(codes))]
		gMag[i] = 10 + rnd.Float64()*14
		if rnd.Intn(20) == 0 {
			gMag[i] = nan
		}
		gFlux[i] = rnd.Float64() * 1e5
		if rnd.Intn(20) == 0 {
			gFlux[i] = nan
		}
	}
	mc, fc, err := gcorr.CorrectSlice(bpRp, solved, gMag, gFlux)
	if err != nil {
		t.Fatal(err)
	}
	wm := make([]float64, n)
	wf := make([]float64, n)
	for i := 0; i < n; i++ {
		wm[i], wf[i] = gcorr.Correct(bpRp[i], solved[i], gMag[i], gFlux[i])
	}
	if diff := cmp.Diff(wm, mc, cmpopts.EquateNaNs()); diff != "" {
		t.Fatal("gMag mismatch:\n", diff)
	}
	if diff := cmp.Diff(wf, fc, cmpopts.EquateNaNs()); diff != "" {
		t.Fatal("gFlux mismatch:\n", diff)
	}
}
