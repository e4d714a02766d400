package schema

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Operator -linecomment -output=operator_string.go

// Operator is an update operator a field may permit.
type Operator int

const (
	_ Operator = iota // skip zero value, it is never a valid Operator

	OpSet  // set
	OpPush // push
	OpPull // pull
)

// operatorCount is the number of valid operators.
const operatorCount = 3

// IsValid reports whether op is one of OpSet, OpPush or OpPull.
func (op Operator) IsValid() bool {
	return op >= OpSet && op <= OpPull
}

// Key returns the update document key for the operator, e.g. "$set".
func (op Operator) Key() string {
	if !op.IsValid() {
		return ""
	}

	return "$" + op.String()
}

// ParseOperator parses "set", "push" or "pull". The "$"-prefixed form and any
// letter case are accepted.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "$")) {
	case "set":
		return OpSet, nil
	case "push":
		return OpPush, nil
	case "pull":
		return OpPull, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", s)
	}
}

// OperatorSet is a set of operators stored as a bitmask.
type OperatorSet uint8

const (
	// None permits no operator; the field is excluded from updates.
	None OperatorSet = 0
	// AllOperators permits set, push and pull.
	AllOperators OperatorSet = 1<<operatorCount - 1
)

func (op Operator) bit() OperatorSet {
	if !op.IsValid() {
		return None
	}

	return 1 << (op - 1)
}

// Ops builds an OperatorSet from the given operators. Invalid operators are
// ignored.
func Ops(ops ...Operator) OperatorSet {
	var s OperatorSet
	for _, op := range ops {
		s |= op.bit()
	}

	return s
}

// Has reports whether op is in the set.
func (s OperatorSet) Has(op Operator) bool {
	b := op.bit()
	return b != None && s&b == b
}

// With returns a copy of the set with op added.
func (s OperatorSet) With(op Operator) OperatorSet {
	return s | op.bit()
}

// IsEmpty reports whether the set permits nothing.
func (s OperatorSet) IsEmpty() bool {
	return s&AllOperators == None
}

// Operators returns the members of the set in set, push, pull order.
func (s OperatorSet) Operators() []Operator {
	var res []Operator
	for op := OpSet; op <= OpPull; op++ {
		if s.Has(op) {
			res = append(res, op)
		}
	}

	return res
}

// Strings returns the operator names in set, push, pull order, or ["none"]
// for the empty set.
func (s OperatorSet) Strings() []string {
	ops := s.Operators()
	if len(ops) == 0 {
		return []string{noneName}
	}

	res := make([]string, len(ops))
	for i, op := range ops {
		res[i] = op.String()
	}

	return res
}

// String returns the comma separated operator names, e.g. "set,push".
func (s OperatorSet) String() string {
	return strings.Join(s.Strings(), ",")
}

const noneName = "none"

// ParseOperatorSet parses operator names. The token "none" stands for the
// empty set and may not be combined with operators.
func ParseOperatorSet(names []string) (OperatorSet, error) {
	var (
		s       OperatorSet
		sawNone bool
	)

	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), noneName) {
			sawNone = true
			continue
		}

		op, err := ParseOperator(name)
		if err != nil {
			return None, err
		}

		s = s.With(op)
	}

	if sawNone && s != None {
		return None, fmt.Errorf("%q cannot be combined with operators (got %s)", noneName, s)
	}

	return s, nil
}
