// Package bitmap thresholds the top-left sampling window of an image into a
// one-bit-per-pixel bitmap.
//
// Every row of the window becomes ceil(window/8) bytes with the first sampled
// pixel in the most significant bit. With the defaults (8x8 window, three
// 8-bit channels, threshold 384) each image packs into exactly 8 bytes and a
// pixel is set when the average of its channels is at least 128.
package bitmap
