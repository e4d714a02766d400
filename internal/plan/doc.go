// Package plan provides the resolution pipeline that produces a final
// GenerationPlan consumed by code generation.
//
// Resolution pipeline:
//  1. Load a schema file (YAML) or extract one from struct tags
//  2. Validate it and build the runtime schemas in nested-dependency order
//  3. Select the requested types plus every schema they nest
//  4. Derive Go identifiers and parameter types for every generated method
//  5. Emit diagnostics (method name collisions, untyped parameters)
package plan
