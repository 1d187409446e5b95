// Package crt implements an integer-only emulation of the NTSC composite
// video pipeline: encoding an RGB raster into a baseband analog composite
// signal the way a broadcast encoder would, and decoding that signal back
// into RGB the way a CRT receiver would, including sync search, color-burst
// phase recovery, and chroma/luma crosstalk artifacts.
//
// Every stage is fixed-point integer arithmetic; there is no floating point
// anywhere in the hot path. The encode/decode pipeline performs no I/O:
// callers own every buffer that crosses its boundary. The only file access
// in the package is LoadPreset and SavePreset.
package crt
