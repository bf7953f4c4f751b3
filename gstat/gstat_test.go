// Public domain.

package main

import (
	"io/ioutil"
	"math"
	"os"
	"testing"
)

const testCorrected = `source_id,phot_g_mean_mag,gmag_corrected
1,14.50,14.5
2,18,18.002534099452148
3,14,13.996251371885694
4,17.60,17.595777
5,11.72,11.72
6,,
`

func TestCorrections(t *testing.T) {
	f, err := ioutil.TempFile("", "gstat")
	if err != nil {
		t.Fatal(err)
	}
	fn := f.Name()
	defer os.Remove(fn)
	if _, err = f.WriteString(testCorrected); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s, err := corrections(fn, 3)
	if err != nil {
		t.Fatal(err)
	}
	// sources 1 and 5 pass through unchanged, source 6 has no
	// photometry, source 3 is the only bright-regime correction
	if s.unchanged != 2 {
		t.Fatal("unchanged:", s.unchanged)
	}
	if s.bright != 1 {
		t.Fatal("bright:", s.bright)
	}
	if s.faint != 2 {
		t.Fatal("faint:", s.faint)
	}
	if ignored != 1 {
		t.Fatal("ignored:", ignored)
	}
	// corrections of 2.5, 3.7 and 4.2 mmag, threshold 3
	if s.above != 2 {
		t.Fatal("above:", s.above)
	}
	if math.Abs(s.max-4.223) > .1 {
		t.Fatal("max:", s.max)
	}
}
