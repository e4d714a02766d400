package schemafile

import (
	"fmt"
	"go/token"
	"strings"

	"mongo-ops-generator/internal/common"
	"mongo-ops-generator/internal/diagnostic"
	"mongo-ops-generator/internal/match"
	"mongo-ops-generator/schema"
)

// Diagnostic codes reported by Validate.
const (
	CodeFileIsNil           = "file_is_nil"
	CodeUnsupportedVersion  = "unsupported_version"
	CodeInvalidSchemaName   = "invalid_schema_name"
	CodeDuplicateSchema     = "duplicate_schema"
	CodeInvalidFieldName    = "invalid_field_name"
	CodeDuplicateField      = "duplicate_field"
	CodeInvalidOperator     = "invalid_operator"
	CodeInvalidGoName       = "invalid_go_name"
	CodeUnknownNestedSchema = "unknown_nested_schema"
	CodeNestedCycle         = "nested_cycle"
	CodeNoneWithOps         = "none_with_ops"
	CodeArrayOpOnScalar     = "array_op_on_scalar"
	CodeEmptySchema         = "empty_schema"
)

// Validate checks a schema file for structural problems. It never stops at the
// first problem; every finding is reported.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(CodeFileIsNil, "schema file is nil", "", "")
		return res
	}

	if f.Version != CurrentVersion {
		res.AddError(CodeUnsupportedVersion,
			fmt.Sprintf("unsupported version %q (want %q)", f.Version, CurrentVersion), "", "")
	}

	seenSchemas := map[string]struct{}{}

	for i := range f.Schemas {
		sd := &f.Schemas[i]

		if strings.TrimSpace(sd.Name) == "" {
			res.AddError(CodeInvalidSchemaName, fmt.Sprintf("schema #%d has no name", i), "", "")
			continue
		}

		if _, dup := seenSchemas[sd.Name]; dup {
			res.AddError(CodeDuplicateSchema, fmt.Sprintf("duplicate schema %q", sd.Name), sd.Name, "")
			continue
		}

		seenSchemas[sd.Name] = struct{}{}

		if len(sd.Fields) == 0 {
			res.AddInfo(CodeEmptySchema, "schema declares no fields", sd.Name, "")
		}

		validateFields(res, f, sd)
	}

	// Cycles are only meaningful once every reference resolves.
	if res.IsValid() {
		validateNestedCycles(res, f)
	}

	return res
}

func validateFields(res *diagnostic.Diagnostics, f *File, sd *SchemaDef) {
	seenFields := map[string]struct{}{}

	for i := range sd.Fields {
		fd := &sd.Fields[i]

		if err := schema.ValidateFieldName(fd.Name); err != nil {
			res.AddError(CodeInvalidFieldName, err.Error(), sd.Name, fd.Name)
			continue
		}

		if _, dup := seenFields[fd.Name]; dup {
			res.AddError(CodeDuplicateField, fmt.Sprintf("duplicate field %q", fd.Name), sd.Name, fd.Name)
			continue
		}

		seenFields[fd.Name] = struct{}{}

		if fd.GoName != "" && (!token.IsIdentifier(fd.GoName) || !token.IsExported(fd.GoName)) {
			res.AddError(CodeInvalidGoName,
				fmt.Sprintf("go_name %q is not an exported Go identifier", fd.GoName), sd.Name, fd.Name)
		}

		ops, err := fieldOps(fd)
		if err != nil {
			res.AddError(CodeInvalidOperator, err.Error(), sd.Name, fd.Name)
		}

		if fd.Ops.HasNone() && len(fd.Ops) > 1 {
			res.AddWarning(CodeNoneWithOps,
				fmt.Sprintf("ops %v contain none; the field is excluded from updates", []string(fd.Ops)),
				sd.Name, fd.Name)
		}

		if fd.Type != "" && !strings.HasPrefix(fd.Type, "[]") &&
			(ops.Has(schema.OpPush) || ops.Has(schema.OpPull)) {
			res.AddWarning(CodeArrayOpOnScalar,
				fmt.Sprintf("push/pull on non-slice type %s", fd.Type), sd.Name, fd.Name)
		}

		if fd.Nested != "" {
			if _, ok := f.Lookup(fd.Nested); !ok {
				res.AddError(CodeUnknownNestedSchema,
					fmt.Sprintf("nested schema %q not found", fd.Nested), sd.Name, fd.Name,
					match.Suggest(fd.Nested, f.SchemaNames(), match.DefaultThreshold)...)
			}
		}
	}
}

// fieldOps resolves the operator set of a field. "none" wins over everything
// else listed next to it.
func fieldOps(fd *FieldDef) (schema.OperatorSet, error) {
	if fd.Ops.HasNone() {
		return schema.None, nil
	}

	return schema.ParseOperatorSet(fd.Ops)
}

func validateNestedCycles(res *diagnostic.Diagnostics, f *File) {
	_, stuck, err := nestedOrder(f)
	if err == nil {
		return
	}

	names := make([]string, len(stuck))
	for i, idx := range stuck {
		names[i] = f.Schemas[idx].Name
	}

	res.AddError(CodeNestedCycle,
		fmt.Sprintf("nested schemas form a cycle: %s", strings.Join(names, ", ")), names[0], "")
}

// nestedOrder returns schema indices so that every nested schema precedes the
// schemas that embed it. On a cycle it returns the indices involved.
func nestedOrder(f *File) (order, stuck []int, err error) {
	index := make(map[string]int, len(f.Schemas))
	for i, sd := range f.Schemas {
		index[sd.Name] = i
	}

	res, err := common.TopoSort(len(f.Schemas), func(i int) []int {
		var deps []int

		for _, fd := range f.Schemas[i].Fields {
			if j, ok := index[fd.Nested]; ok && fd.Nested != "" {
				deps = append(deps, j)
			}
		}

		return deps
	})
	if err != nil {
		return nil, res, err
	}

	return res, nil, nil
}
