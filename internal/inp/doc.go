// Package inp repairs hydraulic-network definition documents in the
// line-oriented, bracket-sectioned INP format before they are handed to the
// solver engine.
//
// The package is a pure text transform: three stages (pipe-record repair,
// empty-section pruning, mandatory-section insertion) composed into a single
// Pipeline. Every stage is total — it never fails, never validates numbers,
// and preserves every line it was not asked to touch.
package inp
