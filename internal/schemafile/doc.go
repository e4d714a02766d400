// Package schemafile loads, validates and writes YAML schema declarations.
//
// A schema file is the configuration-file way of declaring record types;
// struct tags read by internal/analyze are the other. Both produce the same
// schema.Schema values.
//
// # File Overview
//
//	version: "1"
//	package: models
//	schemas:
//	  - name: Address
//	    fields:
//	      - name: city
//	        ops: [set]
//	        type: string
//	  - name: User
//	    fields:
//	      - name: name
//	        ops: set                 # scalar or list
//	      - name: tags
//	        ops: [set, push, pull]
//	        type: "[]string"
//	      - name: password_hash
//	        ops: [none]              # excluded from updates
//	      - name: address
//	        nested: Address          # sub-field updates through Address
//
// Fields without ops default to [set], nested ones included: the whole
// sub-record can then be replaced with $set in addition to sub-field updates.
// Use ops: [none] to forbid that.
//
// # Types
//
// The optional "type" is the Go type used for generated method parameters.
// Push and pull parameters use the element type of a slice type. Types from
// the standard library (e.g. "time.Time") are imported automatically by the
// generator; others need an entry in the file-level "imports" list.
//
// The optional "go_name" overrides the identifier used in generated method
// names, which otherwise is derived from the field name ("password_hash"
// becomes PasswordHash).
package schemafile
