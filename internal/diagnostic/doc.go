// Package diagnostic provides structured warnings and infos, and the fatal
// error taxonomy for mirror operations.
//
// Key capabilities:
//   - Per-entity warnings (missing counterpart, ambiguous name match, skipped entity)
//   - Scope warnings (empty scope, collection cycle)
//   - Whole-operation failures (stale entity at apply, invalid axis for space)
//     that abort with no mutation
package diagnostic
