// Package conv provides checked integer conversions.
//
// Snapshot headers and bitmap row indices cross between Go's int and
// fixed-width integers; these helpers reject values that would wrap.
package conv
