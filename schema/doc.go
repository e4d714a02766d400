// Package schema describes record types for the update builder.
//
// A Schema is an ordered list of fields. Each field carries the set of update
// operators it permits ($set, $push, $pull) and, optionally, a nested Schema
// describing the sub-record stored under it.
//
// Schemas are built once per record type and are immutable afterwards, so a
// single *Schema may be shared by any number of builders:
//
//	address := schema.MustNew("Address",
//		schema.FieldSpec{Name: "city", Ops: schema.Ops(schema.OpSet)},
//	)
//	user := schema.MustNew("User",
//		schema.FieldSpec{Name: "name", Ops: schema.Ops(schema.OpSet)},
//		schema.FieldSpec{Name: "tags", Ops: schema.AllOperators},
//		schema.FieldSpec{Name: "password_hash", Ops: schema.None},
//		schema.FieldSpec{Name: "address", Nested: address},
//	)
//
// Field names are path segments and therefore must not contain the path
// separator ".".
package schema
