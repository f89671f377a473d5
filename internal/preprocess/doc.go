// Package preprocess normalizes a raw drawing into the image every later
// stage works on.
//
// Process runs five steps, always in this order:
//
//  1. Decode the bytes (PNG, JPEG, GIF, BMP, TIFF, WebP, or the page image of
//     a PDF). Failure here is the only fatal error, reported as *DecodeError.
//  2. Downscale with an area filter when either side exceeds the configured
//     ceiling, preserving the aspect ratio.
//  3. Deskew: estimate the dominant near-horizontal angle from Hough lines and
//     rotate it away when it exceeds half a degree.
//  4. Enhance: CLAHE on the L*a*b* lightness channel, then a 3x3 sharpen.
//  5. Validate: mean intensity, contrast and edge density, reported as
//     advisory warnings. An invalid report never stops the pipeline.
package preprocess
