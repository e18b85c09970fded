// Package blob manages the packed bitmap output file.
//
// A blob is a flat sequence of fixed-size records, one per packed image, with
// no header. Writers only ever append: re-packing into an existing blob adds
// another copy of every record. A sibling "<blob>.lock" file guarded by an
// advisory flock keeps two framepack processes from interleaving records.
package blob
