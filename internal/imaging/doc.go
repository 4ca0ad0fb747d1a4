// Package imaging loads input images and turns them into the binary edge
// masks consumed by the circle detector.
//
// # Pipeline
//
// An input is either an edge image (white edges on black) or, with
// MaskOptions.Canny, an ordinary image that first goes through Canny edge
// extraction. Either way it is converted to grayscale, binarised at a
// threshold level and optionally eroded to thin the edges:
//
//	img, err := cache.Load(path)
//	mask := imaging.PrepareMask(img, imaging.DefaultMaskOptions())
//
// # Coordinate System
//
// Masks and edge maps always have their origin at (0, 0), whatever the
// bounds of the source image. X increases rightward and Y downward.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. PrepareMask and CannyEdges do not
// mutate their input and allocate fresh outputs.
package imaging
