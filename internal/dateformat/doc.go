// Package dateformat renders times with short token patterns such as
// "yyyy-MM-dd HH:mm:ss.S".
//
// Recognized tokens are y (year), M (month), d (day), H (hour, 24h),
// m (minute), s (second), q (quarter) and S (millisecond). Only the first run
// of each token is substituted.
package dateformat
