// Package detection finds straight lines in edge maps of technical drawings.
//
// Two detectors are provided, both built on the same Hough accumulator:
//
//   - HoughLines: infinite lines in normal form (rho, θ), used to estimate how
//     far a scanned drawing is rotated.
//   - DetectSegments: finite segments with endpoints, used to count shelves and
//     other horizontal features inside one cabinet.
//
// # Algorithm Overview
//
//  1. Edge Detection: callers run imaging.Canny and pass the resulting EdgeMap
//  2. Voting: every edge pixel votes for each of 180 one-degree θ bins
//  3. Peak picking: bins above the vote threshold that are maxima of their 5x5
//     neighbourhood, θ wrapping at 180°
//  4. Segment tracing (DetectSegments only): walk each peak line, bridging gaps
//     up to MaxGap pixels and dropping runs shorter than MinLength
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// θ is measured from the X axis to the line's normal, so horizontal lines have
// θ = 90° and vertical lines θ = 0°. Segment angles use the segment's own
// direction instead: 0° is horizontal, ±90° vertical.
//
// # Performance Considerations
//
// Voting costs O(edge pixels × 180). The accumulator holds
// (2·diagonal+1) × 180 counters, about 2M for a 4000×4000 image. Segment
// tracing costs O(peaks × max(width, height)).
package detection
