// Package plan builds mirror plans: the complete list of source -> target
// transform assignments for one operation, computed before anything is
// written.
//
// Planning pipeline:
//  1. Validate the mirror axis against the operation (InvalidAxisForSpace is
//     raised before any entity is read)
//  2. Filter the scope by operation:
//     - Flip Pose keeps bones and expands armature objects to their bones
//     - Flip Objects keeps non-armature objects
//     - Smart Flip routes each entity to the path for its kind
//  3. For each candidate, in scope order:
//     - Snapshot the source through an entity adapter
//     - Resolve the counterpart inside the entity's namespace
//     - Reflect the source transform and target the counterpart (or self)
//  4. Emit diagnostics (no counterpart, ambiguous names, skipped entities,
//     targets written more than once)
package plan
