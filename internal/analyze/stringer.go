package analyze

import (
	"go/types"
	"slices"
)

// TypeStringer renders Go type expressions as they must be written inside a
// given package and records the imports those expressions need.
// Examples, rendered for package "example.com/app/models":
//   - "string"
//   - "[]Address" for a slice of models.Address
//   - "*time.Time", recording the import "time"
//   - "map[string]int"
type TypeStringer struct {
	pkgPath string
	imports map[string]struct{}
}

// NewTypeStringer creates a TypeStringer for code living in pkgPath.
func NewTypeStringer(pkgPath string) *TypeStringer {
	return &TypeStringer{
		pkgPath: pkgPath,
		imports: make(map[string]struct{}),
	}
}

// TypeString returns the Go expression for t, or "any" when t is unknown.
func (s *TypeStringer) TypeString(t *TypeInfo) string {
	if t == nil || t.GoType == nil {
		return "any"
	}

	return types.TypeString(t.GoType, s.qualifier)
}

// ElemString returns the element type expression of a slice or array type,
// or "any" for other types.
func (s *TypeStringer) ElemString(t *TypeInfo) string {
	if t == nil {
		return "any"
	}

	if t.Kind == TypeKindNamed && t.Underlying != nil {
		t = t.Underlying
	}

	if t.Kind != TypeKindSlice && t.Kind != TypeKindArray {
		return "any"
	}

	return s.TypeString(t.ElemType)
}

// Imports returns the recorded import paths, sorted.
func (s *TypeStringer) Imports() []string {
	paths := make([]string, 0, len(s.imports))
	for p := range s.imports {
		paths = append(paths, p)
	}

	slices.Sort(paths)

	return paths
}

func (s *TypeStringer) qualifier(pkg *types.Package) string {
	if pkg.Path() == s.pkgPath {
		return ""
	}

	s.imports[pkg.Path()] = struct{}{}

	return pkg.Name()
}
