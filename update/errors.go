package update

import (
	"errors"
	"fmt"
	"strings"

	"mongo-ops-generator/schema"
)

// Error kinds. Every error returned by a Builder wraps exactly one of them, so
// callers test with errors.Is and inspect details with errors.As(*Error).
var (
	// ErrUnknownField means the field is not part of the bound schema.
	ErrUnknownField = errors.New("unknown field")
	// ErrOperatorNotAllowed means the field exists but forbids the operator.
	ErrOperatorNotAllowed = errors.New("operator not allowed")
	// ErrNotNestable means WithNested was used on a field without a nested schema.
	ErrNotNestable = errors.New("field is not nestable")
	// ErrConflictingMutation means two mutations cannot share one update call.
	ErrConflictingMutation = errors.New("conflicting mutation")
	// ErrAlreadyBuilt means the builder already produced its document.
	ErrAlreadyBuilt = errors.New("builder already built")
	// ErrInvalidPath means MutatePath was given an empty path.
	ErrInvalidPath = errors.New("invalid path")
)

// Error describes a rejected builder call.
type Error struct {
	// Kind is one of the Err* sentinels above.
	Kind error
	// Schema is the name of the schema the builder is bound to.
	Schema string
	// Field is the schema field the call referenced, if any.
	Field string
	// Path is the full mutation path, if any.
	Path string
	// Op is the operator of the rejected mutation, if any.
	Op schema.Operator
	// Detail is extra context, e.g. which operators collided.
	Detail string
	// Suggestions lists similar known field names for ErrUnknownField.
	Suggestions []string
}

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("update")

	if e.Schema != "" {
		b.WriteString(" " + e.Schema)
	}

	b.WriteString(": ")
	b.WriteString(e.Kind.Error())

	loc := e.Path
	if loc == "" {
		loc = e.Field
	}

	switch {
	case errors.Is(e.Kind, ErrOperatorNotAllowed) && e.Op.IsValid():
		fmt.Fprintf(&b, ": %s on %q", e.Op.Key(), loc)
	case loc != "":
		fmt.Fprintf(&b, " %q", loc)
	}

	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", quoteJoin(e.Suggestions))
	}

	return b.String()
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}

	return strings.Join(quoted, " or ")
}
