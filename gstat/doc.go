/*
Command gstat summarizes the G-band corrections applied to a catalog.

Gband appends corrected magnitude and flux columns to a catalog but
passes excluded sources through unchanged, so the size of the applied
correction across a catalog is not obvious from the output.  Gstat reads
a corrected catalog and reports how many sources were corrected, how
many fall in each magnitude regime, how many corrections exceed a
threshold, and the mean and largest magnitude correction.

  Usage: gstat [options] <corrected.csv> [threshold]
    -G="gmag_corrected": column containing the corrected magnitude
    -g="phot_g_mean_mag": column containing the uncorrected magnitude
    -v=false: display version and copyright

The command line argument <corrected.csv> is a file containing captured
output of gband run with its default allcolumns configuration, so that
both the original and corrected magnitude columns are present.  The -g
and -G options identify those two columns if the catalog uses other
names.

The correction for each source is the absolute difference of the two
magnitude columns, reported in millimag.  A difference of exactly zero
counts the source as uncorrected; sources excluded from correction pass
through gband bitwise unchanged, so this count is exact.  Corrected
sources are counted by regime, bright for raw magnitude 13 through 16
and faint beyond 16, the same split the correction coefficients use.

The optional threshold argument specifies the correction size of
interest in millimag.  The default is 1, meaning the "Above threshold"
line counts sources whose magnitude changed by a millimag or more.

gstat ignores lines where either magnitude column has no numeric value,
such as sources with missing photometry.  The number of ignored lines is
reported when it is not zero.
*/
package main
