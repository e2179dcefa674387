// Package distance provides float64 vector distance and norm helpers.
//
// All functions are thin wrappers over gonum's floats package so that every
// caller (prototype search, k-means, quality metrics) shares one numeric path.
//
// # Usage
//
//	d := distance.Euclidean(sample, prototype)
//	ok := distance.NormalizeL2InPlace(prototype)
package distance
