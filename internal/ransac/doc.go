// Package ransac detects circles in a binary edge mask with Random Sample
// Consensus.
//
// # Algorithm
//
// Each pass of the loop:
//
//  1. Sampling: draw three random indices into the current edge point list.
//     A draw with repeated indices is discarded.
//  2. Fitting: fit the exact circle through the three points
//     (geometry.FitCircle). Collinear samples give a non-finite circle,
//     which is rejected.
//  3. Scoring: sample the circumference every AngleStep radians and count
//     the samples whose distance-field value is below a radius-dependent
//     tolerance (see Score).
//  4. Acceptance: when the inlier ratio reaches MinInlierRatio the circle is
//     recorded, its footprint is erased from the mask, and the edge point
//     list and distance field are rebuilt from the mutated mask.
//
// # Stopping
//
// The loop has no convergence condition. It stops when the context is
// cancelled, when the optional iteration budget is spent, or when fewer
// than three edge points remain.
//
// # Iteration counting
//
// Report.Iterations counts loop passes that got past the duplicate-index
// check. Report.Attempts counts every pass, including discarded draws.
package ransac
