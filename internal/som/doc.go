// Package som implements self-organizing map training and labeling for
// per-pixel channel-intensity vectors.
//
// A Grid holds X*Y prototype vectors ("neurons"). Training repeatedly picks a
// sample row, finds its nearest prototype (the winner) and pulls every
// prototype toward the sample with a Gaussian neighborhood weight centered on
// the winner. Both the neighborhood spread (sigma) and the learning rate decay
// asymptotically over the run.
//
// Training is strictly sequential: step t+1 observes the grid exactly as step t
// left it. Labeling (Winners + DenseLabels) reads the trained grid only and is
// computed as a parallel map followed by an order-preserving reduction.
package som
