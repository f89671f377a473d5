// Package section splits a drawing into per-cabinet vertical bands and works
// out what each cabinet is.
//
// Detector turns the extracted widths into pixel bands using a single
// pixels-per-millimetre scale for the whole drawing. An Analyzer then reads
// depth, type and interior features for each band, either by asking the
// vision model (ModelAnalyzer) or from width rules and line counting alone
// (HeuristicAnalyzer).
package section
