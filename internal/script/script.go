package script

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"mongo-ops-generator/schema"
	"mongo-ops-generator/update"
)

var (
	// ErrUnknownSchema means the script names a schema missing from the registry.
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrInvalidStep means a step is malformed, independent of any schema.
	ErrInvalidStep = errors.New("invalid step")
)

// Value modifiers a step may apply before its value reaches the builder.
const (
	ModifierEach = "each"
	ModifierIn   = "in"
)

// Script is a recorded sequence of builder calls.
type Script struct {
	// Schema names the root schema in the registry.
	Schema string `yaml:"schema"`
	// Steps run in order.
	Steps []Step `yaml:"steps"`
}

// Step is one builder call. Exactly one of Field, Path and Nested is set.
type Step struct {
	// Op is the operator name for Field and Path steps.
	Op string `yaml:"op,omitempty"`
	// Field is a top-level field, applied with Mutate.
	Field string `yaml:"field,omitempty"`
	// Path is a raw dot delimited path, applied with MutatePath.
	Path string `yaml:"path,omitempty"`
	// Value is handed to the builder as decoded.
	Value any `yaml:"value,omitempty"`
	// Modifier optionally wraps Value with update.Each ("each") or update.In ("in").
	Modifier string `yaml:"modifier,omitempty"`
	// Nested is a nestable field; Steps then run against its schema.
	Nested string `yaml:"nested,omitempty"`
	// Steps are the nested steps.
	Steps []Step `yaml:"steps,omitempty"`
}

// LoadFile loads and parses a script file from the given path.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML or JSON data into a Script.
func Parse(data []byte) (*Script, error) {
	var s Script

	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	if s.Schema == "" {
		return nil, fmt.Errorf("%w: script names no schema", ErrInvalidStep)
	}

	return &s, nil
}

// Replay runs the steps of s on a new builder bound to the schema s names,
// without building. Step errors are prefixed with the step number ("step 3"
// or "step 3.1" for nested steps) and keep the builder error for errors.Is.
func Replay(reg *schema.Registry, s *Script) (*update.Builder, error) {
	root, ok := reg.Lookup(s.Schema)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, s.Schema)
	}

	b := update.New(root)
	if err := apply(b, s.Steps, ""); err != nil {
		return nil, err
	}

	return b, nil
}

// Run replays s and builds the update document.
func Run(reg *schema.Registry, s *Script) (update.Document, error) {
	b, err := Replay(reg, s)
	if err != nil {
		return nil, err
	}

	return b.Build()
}

func apply(b *update.Builder, steps []Step, prefix string) error {
	for i, st := range steps {
		label := strconv.Itoa(i + 1)
		if prefix != "" {
			label = prefix + "." + label
		}

		if err := applyStep(b, st, label); err != nil {
			return err
		}
	}

	return nil
}

func applyStep(b *update.Builder, st Step, label string) error {
	if st.Nested != "" {
		if st.Op != "" || st.Field != "" || st.Path != "" {
			return fmt.Errorf("step %s: %w: nested steps take no op, field or path", label, ErrInvalidStep)
		}

		var childFailed bool

		err := b.WithNested(st.Nested, func(child *update.Builder) error {
			err := apply(child, st.Steps, label)
			childFailed = err != nil

			return err
		})

		switch {
		case err == nil:
			return nil
		case childFailed:
			// Already labelled by the failing nested step.
			return err
		default:
			return fmt.Errorf("step %s: %w", label, err)
		}
	}

	op, err := schema.ParseOperator(st.Op)
	if err != nil {
		return fmt.Errorf("step %s: %w: %w", label, ErrInvalidStep, err)
	}

	value, err := modify(st)
	if err != nil {
		return fmt.Errorf("step %s: %w", label, err)
	}

	switch {
	case st.Field != "" && st.Path != "":
		err = fmt.Errorf("%w: field and path are exclusive", ErrInvalidStep)
	case st.Field != "":
		err = b.Mutate(st.Field, op, value)
	case st.Path != "":
		err = b.MutatePath(st.Path, op, value)
	default:
		err = fmt.Errorf("%w: step needs a field, path or nested", ErrInvalidStep)
	}

	if err != nil {
		return fmt.Errorf("step %s: %w", label, err)
	}

	return nil
}

func modify(st Step) (any, error) {
	if st.Modifier == "" {
		return st.Value, nil
	}

	values, ok := st.Value.([]any)
	if !ok {
		values = []any{st.Value}
	}

	switch st.Modifier {
	case ModifierEach:
		return update.Each(values...), nil
	case ModifierIn:
		return update.In(values...), nil
	default:
		return nil, fmt.Errorf("%w: unknown modifier %q", ErrInvalidStep, st.Modifier)
	}
}
