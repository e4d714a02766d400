// Package match provides fuzzy field name matching.
//
// It is used to attach "did you mean" hints to unknown field errors and
// diagnostics.
//
// Key functions:
//   - Normalize: folds case and strips separators from a field name
//   - Levenshtein: computes edit distance between strings
//   - Similarity: normalized similarity score in [0, 1]
//   - Suggest: ranks known names against an unknown one
package match
