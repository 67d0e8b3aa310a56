// Package match provides name normalization, edit distance and closest-name
// suggestions for entity names.
//
// Key functions:
//   - Normalize: folds case and drops separators so "Hand_R" and "hand.r" compare equal
//   - Levenshtein: computes edit distance between strings, rune by rune
//   - Suggest: picks the closest known name above a similarity threshold
package match
