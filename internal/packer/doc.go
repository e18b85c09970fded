// Package packer converts a directory of frame images into blob records.
//
// PackDirectory lists the frame files, samples each one with a
// bitmap.Sampler, and appends the records to the output blob in list order.
// Decoding can fan out over several workers; records are still written in
// list order and the first failure, by list position, stops the run.
package packer
