// Package extract reads the per-cabinet width dimensions from the bottom
// dimension line of a kitchen layout drawing.
//
// Four sources are tried in order and the first one that yields widths wins:
//
//  1. The vision model's JSON reply (SourceModelJSON).
//  2. Numbers salvaged from the model's free-text reply (SourceModelText).
//  3. Tesseract OCR over the bottom 20% of the drawing (SourceOCR).
//  4. A fixed default layout (SourceDefault).
//
// Extraction never fails. How much the widths can be trusted is reported by
// Result.Confidence instead.
package extract
