// Package script replays mutation scripts against a schema registry.
//
// A script names the root schema and lists steps; every step is one builder
// call and nested steps run inside WithNested:
//
//	schema: User
//	steps:
//	  - {op: set, field: name, value: John Doe}
//	  - {op: push, field: tags, value: [rust, go], modifier: each}
//	  - {op: set, path: address.zipcode, value: "10001"}
//	  - nested: address
//	    steps:
//	      - {op: set, field: city, value: New York}
//
// JSON scripts are accepted too since JSON is a subset of YAML.
package script
