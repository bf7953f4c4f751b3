/*
Command gband corrects the G-band photometry of catalog sources with
2-parameter or 6-parameter astrometric solutions.

Contents

Version 0.1

  Program overview
  Command line usage
  Configuring file locations
  File formats
  Algorithm outline


Program overview

Input is a CSV catalog of sources with a header row naming the columns.
Output is the catalog with corrected G magnitude and G flux columns
appended.

The G-band magnitudes and fluxes published for sources with 2-parameter
and 6-parameter astrometric solutions carry a known instrumental bias.
The correction removes it with a multiplicative factor on flux, computed
per source from the BP-RP color.  Sources with no color, sources
brighter than magnitude 13, and sources with the reserved solution code
31 are passed through unchanged.

Sample run:

Here are a few catalog sources.  You put them in a file, say cat.csv,

  source_id,bp_rp,astrometric_params_solved,phot_g_mean_mag,phot_g_mean_flux
  2067518817714952576,0.93,31,14.50,21088.0
  5853498713190525696,,95,17.60,1223.4
  4472832130942575872,1.72,3,11.72,270450.0

then type "gband cat.csv" and get the following output:

  source_id,bp_rp,astrometric_params_solved,phot_g_mean_mag,phot_g_mean_flux,gmag_corrected,gflux_corrected
  2067518817714952576,0.93,31,14.50,21088.0,14.5,21088
  5853498713190525696,,95,17.60,1223.4,17.6,1223.4
  4472832130942575872,1.72,3,11.72,270450.0,11.72,270450

None of these three sources qualify for correction, so the appended
columns repeat the input values.  The first has the excluded solution
code 31, the second has no color, and the third is brighter than
magnitude 13.  A source that does qualify gets corrected values, as
in this single-source run:

  gband -s 0.5,95,18,1000

  correction factor  0.99766875
  gmag corrected     18.002534
  gflux corrected    997.66875

Corrected output is aligned with the input.  Row i of the output always
corresponds to row i of the catalog, and the run fails rather than drop
a row it cannot parse.  A failure partway through a large catalog may
leave earlier rows already written; the failed row and everything after
it are withheld.


Command line usage

The main executable is gband.  Invoking the program without command line
arguments (or with invalid arguments) shows this usage prompt.

  Usage: gband [options] <catalog.csv>        correct catalog file
         gband [options] -                    correct catalog from stdin
         gband -s <bp_rp,solved,gmag,gflux>   correct a single source
         gband -h                             display help and quick reference
         gband -v                             display version and copyright

  Options:
         -c <config-file>
         -p <path>

The help information lists a quick reference to keywords allowed in the
configuration file.  The configuration file is explained below under
File formats.


Configuring file locations

When gband runs, it reads sources either from a file specified on the
command line or from stdin.

It also reads an optional configuration file, gband.config.  Its initial
location is determined by GOPATH; the full path is shown at the end of
the usage message as the -p default.  You can keep the file in its
default location or relocate it and specify its location with -c.
A configuration file is required to be present if -c is used.


File formats

The catalog, whether supplied in a file or through stdin, is CSV with a
header row.  Four columns are required, located by name:

  bp_rp                      BP-RP color
  astrometric_params_solved  astrometric solution code
  phot_g_mean_mag            G magnitude
  phot_g_mean_flux           G flux

Other columns pass through untouched.  Empty, null, and NaN cells in the
float columns are missing values; corrected values computed from them
are written as empty cells.  An empty solution code is treated as the
excluded code 31.

gband.config, the optional configuration file, is a text file with a
simple format.  Empty lines and lines beginning with # are ignored.
Other lines must contain a keyword:

  header
  noheader
  allcolumns
  correctedonly
  bprp=<column name>
  solved=<column name>
  gmag=<column name>
  gflux=<column name>

The header row can be turned off with noheader.  By default output
repeats all input columns with the two corrected columns appended;
correctedonly limits output to just gmag_corrected and gflux_corrected.
The key=value keywords rename the required input columns, for catalogs
exported with different column names.  White space around = is optional.


Algorithm outline

1.  Each source is classified from its own four values.  No correction
applies when the color is missing, the magnitude is less than 13, or the
solution code is 31.  Otherwise the bright coefficients apply for
magnitude 13 through 16 inclusive and the faint coefficients beyond 16.

2.  The color is clipped to the range 0.25 to 3.0, the range of validity
of the calibration fit, and a cubic in the clipped color c gives the
correction factor,

  bright:  1.00876 - 0.02540 c + 0.01747 c^2 - 0.00277 c^3
  faint:   1.00525 - 0.02323 c + 0.01740 c^2 - 0.00253 c^3

with factor 1 for sources that get no correction.  The coefficients are
empirical fits from the calibration reference.

3.  The corrected flux is the flux times the factor; the corrected
magnitude is the magnitude minus 2.5 log10 of the factor.  A missing
magnitude or flux yields a missing corrected value.

Sources are independent of each other, so rows are corrected
concurrently, with output kept strictly in catalog order.

The companion command gstat summarizes the corrections applied to a
catalog.  See its documentation with "go doc github.com/soniakeys/gband/gstat".

-------------
Public domain.
*/
package main
