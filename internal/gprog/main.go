// Public domain.

package gprog

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"go/build"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/soniakeys/exit"

	"github.com/soniakeys/gband/gcorr"
)

const parentImport = "github.com/soniakeys/gband"
const versionString = "gband version 0.1 Go source."
const copyrightString = "Public domain."

// rows handed to a worker at a time.  the correction is cheap, so rows
// go out in batches to keep channel traffic from dominating.
const batchRows = 1024

func Main() {
	defer exit.Handler()

	// these functions terminate on error
	cl := parseCommandLine()
	opt, cols := readConfig(cl)

	if cl.s != "" {
		correctOne(cl.s)
		return
	}

	// open catalog
	var f *os.File
	if cl.fnCat == "-" {
		f = os.Stdin
		cl.fnCat = "input stream"
	} else {
		var err error
		f, err = os.Open(cl.fnCat)
		if err != nil {
			exit.Log(err)
		}
		defer f.Close()
	}

	cr := csv.NewReader(bufio.NewReader(f))
	hdr, err := cr.Read()
	if err == io.EOF {
		exit.Log("empty catalog: " + cl.fnCat)
	}
	if err != nil {
		exit.Log(err)
	}
	ix, err := findColumns(hdr, cols)
	if err != nil {
		exit.Log(err)
	}

	w := csv.NewWriter(os.Stdout)
	// header row first, so that a failure locating columns above never
	// leaves a header with no rows behind it.
	if opt.header {
		if err = w.Write(outputHeader(hdr, opt)); err != nil {
			exit.Log(err)
		}
	}
	if err = correctCatalog(cr, w, ix, opt); err != nil {
		exit.Log(err)
	}
	w.Flush()
	if err = w.Error(); err != nil {
		exit.Log(err)
	}
}

// correctCatalog runs the concurrent correction pipeline:  a reader
// feeding batches of catalog rows, a dispatcher attaching a result
// channel to each batch as a ticket for picking up its results, workers
// correcting batches, and the loop below printing results strictly in
// catalog order.  Adapted row for row, the output is aligned with the
// input; a failed row aborts the run with no partial batch emitted.
func correctCatalog(cr *csv.Reader, w *csv.Writer, ix colIndex, opt *outputOptions) error {
	batchIn := make(chan *rowBatch)
	errCh := make(chan error)
	go reader(cr, batchIn, errCh)

	// prCh keeps processed batches in submission order.  it is buffered
	// so a fast worker can drop off results without waiting for workers
	// ahead of it.
	maxWorkers := runtime.GOMAXPROCS(0)
	prCh := make(chan chan [][]string, maxWorkers*2)
	batchSeq := make(chan *rowBatch)

	go func() {
		for b := range batchIn {
			b.rch = make(chan [][]string, 1)
			batchSeq <- b // queue batch for correcting
			prCh <- b.rch // queue return channel for printing
		}
		close(prCh)
	}()

	// start workers only as batches call for them.  a small catalog may
	// not need them all.
	go func() {
		for n := 0; n < maxWorkers; n++ {
			b, ok := <-batchSeq
			if !ok {
				return
			}
			go correct(b, batchSeq, ix, opt, errCh)
		}
	}()

	for {
		select {
		case err := <-errCh:
			return err
		// wait here for the next result channel in catalog order
		case rch, ok := <-prCh:
			if !ok {
				return nil
			}
			select {
			case err := <-errCh:
				return err
			case rows := <-rch:
				for _, r := range rows {
					if err := w.Write(r); err != nil {
						return err
					}
				}
			}
		}
	}
}

type rowBatch struct {
	rows  [][]string
	lines []int // file line number of each row, for error reports
	rch   chan [][]string
}

// reader feeds batches of catalog rows to the dispatcher.  If it
// encounters an error reading the catalog, it reports the error on errCh
// and terminates immediately.
func reader(cr *csv.Reader, batchCh chan *rowBatch, errCh chan error) {
	b := new(rowBatch)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errCh <- err
			return
		}
		// physical line of the record, not the record count.  the two
		// differ on catalogs with quoted multi-line fields.
		line, _ := cr.FieldPos(0)
		b.rows = append(b.rows, rec)
		b.lines = append(b.lines, line)
		if len(b.rows) == batchRows {
			batchCh <- b
			b = new(rowBatch)
		}
	}
	if len(b.rows) > 0 {
		batchCh <- b
	}
	close(batchCh)
}

// worker process, corrects batches of rows.
// the first batch to correct will be waiting in b.
// additional batches are requested by receiving on batchCh.
func correct(b *rowBatch, batchCh chan *rowBatch, ix colIndex, opt *outputOptions, errCh chan error) {
	for ; ; b = <-batchCh {
		out := make([][]string, len(b.rows))
		for i, row := range b.rows {
			r, err := correctRow(row, ix, opt)
			if err != nil {
				errCh <- fmt.Errorf("line %d: %v", b.lines[i], err)
				return
			}
			out[i] = r
		}
		b.rch <- out // buffered.  just drop off results and continue
	}
}

// correctRow corrects a single catalog row and returns the output row.
func correctRow(row []string, ix colIndex, opt *outputOptions) ([]string, error) {
	bpRp, err := parseCell(row[ix.bpRp])
	if err != nil {
		return nil, fmt.Errorf("color: %v", err)
	}
	solved, err := parseSolved(row[ix.solved])
	if err != nil {
		return nil, fmt.Errorf("solution type: %v", err)
	}
	gMag, err := parseCell(row[ix.gMag])
	if err != nil {
		return nil, fmt.Errorf("magnitude: %v", err)
	}
	gFlux, err := parseCell(row[ix.gFlux])
	if err != nil {
		return nil, fmt.Errorf("flux: %v", err)
	}
	mc, fc := gcorr.Correct(bpRp, solved, gMag, gFlux)
	if !opt.allColumns {
		return []string{formatCell(mc), formatCell(fc)}, nil
	}
	out := make([]string, len(row), len(row)+2)
	copy(out, row)
	return append(out, formatCell(mc), formatCell(fc)), nil
}

// parseCell interprets a catalog cell as a float.  Empty and null cells
// are missing values, represented as NaN.
func parseCell(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseSolved interprets a solution type cell.  A missing code excludes
// the source from correction.
func parseSolved(cell string) (int, error) {
	s := strings.TrimSpace(cell)
	if s == "" || strings.EqualFold(s, "null") {
		return gcorr.TwoParamNA, nil
	}
	return strconv.Atoi(s)
}

// formatCell formats an output float with round trip precision.  NaN
// results are written as empty cells, matching the input convention for
// missing values.
func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type colIndex struct {
	bpRp, solved, gMag, gFlux int
}

func findColumns(hdr []string, cols columnNames) (ix colIndex, err error) {
	find := func(name string) int {
		for i, h := range hdr {
			if strings.TrimSpace(h) == name {
				return i
			}
		}
		return -1
	}
	var missing []string
	if ix.bpRp = find(cols.bpRp); ix.bpRp < 0 {
		missing = append(missing, cols.bpRp)
	}
	if ix.solved = find(cols.solved); ix.solved < 0 {
		missing = append(missing, cols.solved)
	}
	if ix.gMag = find(cols.gMag); ix.gMag < 0 {
		missing = append(missing, cols.gMag)
	}
	if ix.gFlux = find(cols.gFlux); ix.gFlux < 0 {
		missing = append(missing, cols.gFlux)
	}
	if len(missing) > 0 {
		err = fmt.Errorf("catalog columns not found: %s",
			strings.Join(missing, ", "))
	}
	return
}

func outputHeader(hdr []string, opt *outputOptions) []string {
	if !opt.allColumns {
		return []string{"gmag_corrected", "gflux_corrected"}
	}
	out := make([]string, len(hdr), len(hdr)+2)
	copy(out, hdr)
	return append(out, "gmag_corrected", "gflux_corrected")
}

// correctOne corrects a single source given as comma separated values on
// the command line.
func correctOne(arg string) {
	parts := strings.Split(arg, ",")
	if len(parts) != 4 {
		exit.Log("-s must have 4 comma-separated values: bp_rp,solved,gmag,gflux")
	}
	bpRp, err := parseCell(parts[0])
	if err != nil {
		exit.Log(fmt.Sprintf("bad color %q: %v", parts[0], err))
	}
	solved, err := parseSolved(parts[1])
	if err != nil {
		exit.Log(fmt.Sprintf("bad solution type %q: %v", parts[1], err))
	}
	gMag, err := parseCell(parts[2])
	if err != nil {
		exit.Log(fmt.Sprintf("bad magnitude %q: %v", parts[2], err))
	}
	gFlux, err := parseCell(parts[3])
	if err != nil {
		exit.Log(fmt.Sprintf("bad flux %q: %v", parts[3], err))
	}
	mc, fc := gcorr.Correct(bpRp, solved, gMag, gFlux)
	fmt.Printf("correction factor  %.8g\n", gcorr.Factor(bpRp, solved, gMag))
	fmt.Printf("gmag corrected     %.8g\n", mc)
	fmt.Printf("gflux corrected    %.8g\n", fc)
}

type commandLine struct {
	dc    string // config file
	dp    string // default path
	s     string // single source values
	fnCat string // catalog
}

func parseCommandLine() *commandLine {
	// Package path of gband is the default location for the config file.
	pp, ppErr := build.Import(parentImport, "", build.FindOnly)
	var cl commandLine
	if ppErr == nil {
		cl.dp = pp.Dir
	}
	dh := flag.Bool("h", false, "")
	dv := flag.Bool("v", false, "")
	flag.StringVar(&cl.dc, "c", "", "")
	flag.StringVar(&cl.dp, "p", cl.dp, "")
	flag.StringVar(&cl.s, "s", "", "")
	flag.Usage = func() {
		os.Stderr.WriteString(`
Usage: gband [options] <catalog.csv>        correct catalog file
       gband [options] -                    correct catalog from stdin
       gband -s <bp_rp,solved,gmag,gflux>   correct a single source
       gband -h                             display help and quick reference
       gband -v                             display version and copyright

Options:
       -c <config-file>
       -p <path>
`)
		if ppErr == nil {
			os.Stderr.WriteString(`
Default:
       -p=` + pp.Dir + "\n")
		}
	}
	flag.Parse()
	switch {
	case *dh:
		printHelp()
		os.Exit(0)
	case *dv:
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	case cl.s != "":
		if flag.NArg() != 0 {
			flag.Usage()
			os.Exit(1)
		}
		return &cl
	case flag.NArg() != 1:
		flag.Usage()
		os.Exit(1)
	}
	cl.fnCat = flag.Arg(0)
	return &cl
}

type outputOptions struct {
	header     bool
	allColumns bool
}

type columnNames struct {
	bpRp, solved, gMag, gFlux string
}

func readConfig(cl *commandLine) (opt *outputOptions, cols columnNames) {
	// default configuration
	opt = &outputOptions{header: true, allColumns: true}
	cols = columnNames{
		bpRp:   "bp_rp",
		solved: "astrometric_params_solved",
		gMag:   "phot_g_mean_mag",
		gFlux:  "phot_g_mean_flux",
	}
	f, err := os.Open(cl.fixupCP(cl.dc, "gband.config"))
	if err != nil {
		if cl.dc == "" {
			return
		}
		exit.Log(err)
	}
	defer f.Close()

	rxColumn := regexp.MustCompile(
		`^(bprp|solved|gmag|gflux)[ \t]*=[ \t]*(.+?)[ \t]*$`)
	for lr := bufio.NewReader(f); ; {
		l, isPre, err := lr.ReadLine()
		switch {
		case err == io.EOF:
			return
		case err != nil:
			exit.Log(err)
		case isPre:
			exit.Log("Unexpected long line in config file.")
		case len(l) == 0:
			continue
		case l[0] == '#':
			continue
		}
		ls := string(l)
		switch ls {
		case "header":
			opt.header = true
			continue
		case "noheader":
			opt.header = false
			continue
		case "allcolumns":
			opt.allColumns = true
			continue
		case "correctedonly":
			opt.allColumns = false
			continue
		}
		if ss := rxColumn.FindStringSubmatch(ls); len(ss) == 3 {
			switch ss[1] {
			case "bprp":
				cols.bpRp = ss[2]
			case "solved":
				cols.solved = ss[2]
			case "gmag":
				cols.gMag = ss[2]
			case "gflux":
				cols.gFlux = ss[2]
			}
			continue
		}
		exit.Log("Unrecognized line in config file: " + ls)
	}
}

func (cl *commandLine) fixupCP(fnSpec, fnDefault string) string {
	if fnSpec > "" {
		return fnSpec
	}
	return filepath.Join(cl.dp, fnDefault)
}

func printHelp() {
	fmt.Println(`
Gband corrects the G-band photometry of catalog sources with 2-parameter
or 6-parameter astrometric solutions.  Input is a CSV catalog with a
header row.  Output is the catalog with corrected magnitude and flux
columns appended.

Config file keywords:
   header
   noheader
   allcolumns
   correctedonly
   bprp=<column name>
   solved=<column name>
   gmag=<column name>
   gflux=<column name>

Default catalog columns:
   bp_rp
   astrometric_params_solved
   phot_g_mean_mag
   phot_g_mean_flux

For full documentation:
   go doc ` + parentImport)
}
