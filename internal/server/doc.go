// Package server exposes the cutting list pipeline as MCP (Model Context
// Protocol) tools.
//
// # Protocol
//
// The server speaks MCP over stdio using the official Go SDK:
//   - Input: JSON-RPC requests on stdin
//   - Output: JSON-RPC responses on stdout
//
// Logs must therefore go to stderr.
//
// # Available Tools
//
// Pipeline:
//   - cutlist_generate: Run the whole pipeline on a drawing file
//   - cutlist_components: Apply the manufacturing rules to given sections
//
// Individual stages, for inspecting what the pipeline sees:
//   - drawing_preprocess: Normalize a drawing and report the quality checks
//   - drawing_dimensions: Read the cabinet widths from the dimension line
//   - drawing_sections_overlay: Draw the detected section bands on the drawing
//
// # Error Handling
//
// Tool failures are returned as tool results with IsError set, carrying the
// error text, rather than as JSON-RPC errors. A cutlist_generate run that
// fails inside the pipeline is not a tool failure: it returns a result with
// success false.
//
// # Usage
//
//	p := cutlist.New(cfg, model, ocrEngine, logger)
//	srv := server.New(p, version, logger)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal("server error", zap.Error(err))
//	}
package server
