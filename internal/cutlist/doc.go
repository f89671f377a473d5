// Package cutlist runs the whole drawing-to-cutting-list pipeline.
//
// Pipeline.Run takes the raw bytes of a kitchen layout drawing and returns a
// Result with one row per board to cut:
//
//  1. preprocess: decode, resize, deskew, enhance, validate
//  2. extract: read the cabinet widths from the bottom dimension line
//  3. section: cut the drawing into one band per cabinet
//  4. section: analyze every band, concurrently
//  5. rules: derive the components and add the end panels
//
// Run never returns an error. Anything that stops the pipeline, including a
// panic in one of the stages, becomes a Result with Success false.
package cutlist
