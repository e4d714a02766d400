// Package gen provides deterministic Go code generation for typed update
// builders.
//
// Generation approach uses text/template + go/format for readable Go code;
// imports are then fixed with golang.org/x/tools/imports.
//
// For every planned schema one file is emitted containing:
//   - the package-level schema variable (UserSchema)
//   - the typed builder (UserUpdateBuilder) and its constructor
//   - Set/Push/Pull methods for every permitted operator of every field
//   - With<Field> and <Field>Path methods for nested fields
//   - SetPath, Err, Builder and Build
//
// Typed builders keep the first error and ignore later calls, so chains read
// naturally and the error surfaces from Build.
package gen
