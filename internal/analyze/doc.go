// Package analyze loads Go packages and extracts update schemas from struct
// tags.
//
// It uses golang.org/x/tools/go/packages with go/types to build an in-memory
// model of the structs in a package, then reads each field's `mongo` tag:
//
//	type User struct {
//		Name         string   `bson:"name"`                        // set (default)
//		Tags         []string `bson:"tags" mongo:"set,push,pull"`
//		PasswordHash string   `bson:"password_hash" mongo:"none"`  // or mongo:"-"
//		Address      Address  `bson:"address" mongo:"set,nested"`
//		Nick         string   `mongo:"set,name=nickname"`
//	}
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/named/pointer/slice/map/external)
//   - FieldInfo: describes field name, type, tags, and embedding
//   - Tag: a parsed `mongo` struct tag
package analyze
