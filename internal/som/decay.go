package som

// Decay returns param decayed asymptotically for step t of numIters:
//
//	param / (1 + t / (numIters / 2))
//
// It is param at t = 0 and tends to param/3 at the last step for large
// numIters. numIters > 0 is a precondition owned by the Trainer.
func Decay(param float64, t, numIters int) float64 {
	return param / (1 + float64(t)/(float64(numIters)/2))
}
