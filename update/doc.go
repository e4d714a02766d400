// Package update assembles MongoDB partial-update documents for a record type
// described by a schema.Schema.
//
// A Builder accumulates mutations, each an operator ($set, $push or $pull), a
// dot delimited path and an opaque value, and validates every call against the
// schema it is bound to:
//
//	b := update.New(userSchema)
//	if err := b.Set("name", "John Doe"); err != nil { ... }
//	if err := b.Push("tags", "go"); err != nil { ... }
//	if err := b.WithNested("address", func(a *update.Builder) error {
//		return a.Set("city", "New York")
//	}); err != nil { ... }
//	doc, err := b.Build()
//	// {"$push": {"tags": "go"}, "$set": {"address.city": "New York", "name": "John Doe"}}
//
// Build is terminal and atomic: it either returns the whole document or an
// error wrapping ErrConflictingMutation, and a builder that built successfully
// rejects every further call with ErrAlreadyBuilt.
//
// Values are not encoded here. Whatever is passed in ends up in the document
// as is, ready for the database driver's own serializer.
//
// Typed per-record builders with methods such as SetName or PushTags are
// generated by cmd/mongo-ops-generator on top of this package.
package update
