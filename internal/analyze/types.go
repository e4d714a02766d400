package analyze

import (
	"go/types"
	"reflect"
	"strings"

	"mongo-ops-generator/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "mongo-ops-generator/examples/users"
	Name    string // e.g., "User"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindPointer           // pointer to another type
	TypeKindSlice             // slice of another type
	TypeKindArray             // array of another type
	TypeKindMap               // map type
	TypeKindNamed             // named type wrapping a non-struct (e.g. type Role string)
	TypeKindExternal          // named type from a package outside the analyzed set (e.g. time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindNamed:
		return "named"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a Go type in the type graph.
type TypeInfo struct {
	ID         TypeID      // Unique identifier (empty for unnamed types like *T or []T)
	Kind       TypeKind    // Kind of type
	Underlying *TypeInfo   // For named types, the underlying type
	ElemType   *TypeInfo   // For pointers, slices, arrays and maps, the element type
	Fields     []FieldInfo // For structs, the list of fields
	GoType     types.Type  // The original go/types.Type (for rendering type expressions)
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// StructTarget returns the named struct a field of this type can nest into:
// the type itself or, for a pointer, its element. It returns nil otherwise.
func (t *TypeInfo) StructTarget() *TypeInfo {
	if t == nil {
		return nil
	}

	if t.Kind == TypeKindPointer {
		t = t.ElemType
	}

	if t != nil && t.Kind == TypeKindStruct && t.IsNamed() {
		return t
	}

	return nil
}

// FieldInfo describes a struct field.
type FieldInfo struct {
	Name     string            // Go field name
	Exported bool              // Whether the field is exported
	Type     *TypeInfo         // Field type
	Tag      reflect.StructTag // Raw struct tag
	Embedded bool              // Whether the field is embedded (anonymous)
	Index    int               // Field index in the struct
}

// tagName returns the name part of a `key:"name,opts"` tag and whether the
// field is excluded with "-".
func (f *FieldInfo) tagName(key string) (string, bool) {
	tag, ok := f.Tag.Lookup(key)
	if !ok {
		return "", false
	}

	name, _, _ := strings.Cut(tag, ",")

	return name, name == "-"
}

// BSONName returns the bson tag name, or "" when absent.
func (f *FieldInfo) BSONName() string {
	name, _ := f.tagName("bson")
	return name
}

// BSONSkipped reports whether the field carries `bson:"-"` and is therefore
// never stored.
func (f *FieldInfo) BSONSkipped() bool {
	_, skip := f.tagName("bson")
	return skip
}

// HasTag returns true if the field has the specified tag.
func (f *FieldInfo) HasTag(key string) bool {
	_, ok := f.Tag.Lookup(key)
	return ok
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Dir   string   // Directory holding the package sources
	Types []TypeID // Named types defined in this package, sorted by name
}
