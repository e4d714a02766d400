package plan

import (
	"fmt"

	"mongo-ops-generator/internal/diagnostic"
	"mongo-ops-generator/internal/match"
	"mongo-ops-generator/schema"
)

// selectTypes returns the names of the requested schemas and of every schema
// they nest, transitively. Without a request every schema is selected.
func (r *Resolver) selectTypes(reg *schema.Registry, diags *diagnostic.Diagnostics) map[string]bool {
	selected := make(map[string]bool, reg.Len())

	if len(r.config.Types) == 0 {
		for _, name := range reg.Names() {
			selected[name] = true
		}

		return selected
	}

	var visit func(s *schema.Schema)
	visit = func(s *schema.Schema) {
		if selected[s.Name()] {
			return
		}

		selected[s.Name()] = true

		for _, f := range s.Fields() {
			if f.Nested != nil {
				visit(f.Nested)
			}
		}
	}

	for _, name := range r.config.Types {
		s, ok := reg.Lookup(name)
		if !ok {
			diags.AddError(CodeUnknownType, fmt.Sprintf("schema %q not found", name), name, "",
				match.Suggest(name, reg.Names(), match.DefaultThreshold)...)

			continue
		}

		visit(s)
	}

	return selected
}
