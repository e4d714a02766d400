// Package diagnostic provides structured errors, warnings and infos produced
// while loading and validating schema declarations.
//
// Key capabilities:
//   - Stable diagnostic codes for tooling
//   - Schema and field attribution
//   - "Did you mean" suggestions
//   - A combined error for callers that only care about failure
package diagnostic
