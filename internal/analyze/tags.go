package analyze

import (
	"errors"
	"fmt"
	"strings"

	"mongo-ops-generator/schema"
)

// TagKey is the struct tag key read by Extract.
const TagKey = "mongo"

// Tag is a parsed `mongo` struct tag.
//
// Grammar: a comma separated list of operator names (set, push, pull),
// "none" or "-" to forbid every operator, "nested" to update the field's
// struct type through its own schema, and "name=<path name>" to override the
// stored field name. Without operators the field allows set.
type Tag struct {
	Ops    schema.OperatorSet
	None   bool
	Nested bool
	Name   string
}

// ParseTag parses the value of a `mongo` struct tag.
func ParseTag(value string) (Tag, error) {
	var tag Tag

	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)

		switch {
		case part == "":
			continue
		case part == "-" || strings.EqualFold(part, "none"):
			tag.None = true
		case strings.EqualFold(part, "nested"):
			tag.Nested = true
		case strings.HasPrefix(part, "name="):
			name := strings.TrimPrefix(part, "name=")
			if err := schema.ValidateFieldName(name); err != nil {
				return Tag{}, err
			}

			tag.Name = name
		default:
			op, err := schema.ParseOperator(part)
			if err != nil {
				return Tag{}, fmt.Errorf("unknown tag option %q", part)
			}

			tag.Ops = tag.Ops.With(op)
		}
	}

	if tag.None {
		if !tag.Ops.IsEmpty() {
			return Tag{}, errors.New("none cannot be combined with operators")
		}

		return tag, nil
	}

	if tag.Ops.IsEmpty() {
		tag.Ops = schema.Ops(schema.OpSet)
	}

	return tag, nil
}
