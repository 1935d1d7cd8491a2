// Package service owns the current voucher catalog and exposes matching,
// itinerary resolution and rendering for embedding into other programs
// (the CLI and the MCP server use it).
//
// The catalog is held behind an atomic pointer: a reload builds a complete
// new index and swaps it in, so concurrent requests see either the old or the
// new catalog, never a partial one.
package service
