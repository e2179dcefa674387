// Package kmeans implements Lloyd's k-means over flattened float64 vectors.
//
// It is used to group trained prototypes into coarser metaclusters.
package kmeans
