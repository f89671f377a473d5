// Package imaging provides the raster operations used to normalize and inspect
// cabinet layout drawings.
//
// This package implements decoding (including the first embedded raster of a PDF
// page), cropping, area-averaging resizes, cubic rotation, CIE L*a*b* conversion,
// contrast-limited adaptive histogram equalization, sharpening, Canny edge
// detection, intensity statistics and labelled band overlays. All operations work with standard Go
// image.Image types and use a coordinate system where (0,0) is at the top-left
// corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Ownership
//
// Every function returns a freshly allocated image. Inputs are never modified, so
// a stage can hand its output to the next stage without copying.
//
// # Thread Safety
//
// Operations are stateless and can be called concurrently on different images,
// or on the same image since inputs are only read.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Bytes that are not a supported raster format
//   - PDFs without an extractable page image
//   - Encoding errors during image output
package imaging
