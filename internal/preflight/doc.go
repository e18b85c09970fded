// Package preflight checks the filesystem locations and binaries framepack
// depends on.
//
// `framepack deps` renders every result as a table and exits non-zero when a
// required check fails. The stage commands do not run these checks; they
// report the classified error of whatever step actually fails.
package preflight
