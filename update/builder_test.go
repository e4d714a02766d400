package update_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mongo-ops-generator/schema"
	"mongo-ops-generator/update"
)

var (
	addressSchema = schema.MustNew("Address",
		schema.FieldSpec{Name: "street", Ops: schema.Ops(schema.OpSet)},
		schema.FieldSpec{Name: "city", Ops: schema.Ops(schema.OpSet)},
		schema.FieldSpec{Name: "geo", Ops: schema.Ops(schema.OpSet), Nested: geoSchema},
	)

	geoSchema = schema.MustNew("Geo",
		schema.FieldSpec{Name: "lat", Ops: schema.Ops(schema.OpSet)},
		schema.FieldSpec{Name: "lng", Ops: schema.Ops(schema.OpSet)},
	)

	userSchema = schema.MustNew("User",
		schema.FieldSpec{Name: "name", Ops: schema.Ops(schema.OpSet)},
		schema.FieldSpec{Name: "email", Ops: schema.Ops(schema.OpSet)},
		schema.FieldSpec{Name: "tags", Ops: schema.AllOperators},
		schema.FieldSpec{Name: "password_hash", Ops: schema.None},
		schema.FieldSpec{Name: "address", Nested: addressSchema},
		schema.FieldSpec{Name: "history", Ops: schema.Ops(schema.OpSet, schema.OpPush), Nested: addressSchema},
	)
)

func TestBuilder_ExampleScenario(t *testing.T) {
	b := update.New(userSchema)

	require.NoError(t, b.Mutate("name", schema.OpSet, "John Doe"))
	require.NoError(t, b.Mutate("tags", schema.OpPush, "rust"))

	err := b.Mutate("password_hash", schema.OpSet, "x")
	require.ErrorIs(t, err, update.ErrOperatorNotAllowed)
	assert.Equal(t, 2, b.Len(), "rejected mutation must leave prior ones untouched")

	doc, err := b.Build()
	require.NoError(t, err)

	want := update.Document{
		"$set":  {"name": "John Doe"},
		"$push": {"tags": "rust"},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_FieldWithoutOperators(t *testing.T) {
	for _, op := range []schema.Operator{schema.OpSet, schema.OpPush, schema.OpPull} {
		t.Run(op.String(), func(t *testing.T) {
			err := update.New(userSchema).Mutate("password_hash", op, "secret")
			require.ErrorIs(t, err, update.ErrOperatorNotAllowed)

			var uerr *update.Error
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, "password_hash", uerr.Field)
			assert.Equal(t, op, uerr.Op)
		})
	}
}

func TestBuilder_UnknownField(t *testing.T) {
	b := update.New(userSchema)

	err := b.Mutate("nmae", schema.OpSet, "x")
	require.ErrorIs(t, err, update.ErrUnknownField)

	var uerr *update.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "User", uerr.Schema)
	assert.Equal(t, []string{"name"}, uerr.Suggestions)
	assert.Contains(t, err.Error(), `did you mean "name"?`)

	require.ErrorIs(t, b.WithNested("missing", func(*update.Builder) error { return nil }), update.ErrUnknownField)
	require.ErrorIs(t, b.MutatePath("missing", schema.OpSet, 1), update.ErrUnknownField)
	require.ErrorIs(t, b.MutatePath("missing.deep.path", schema.OpSet, 1), update.ErrUnknownField)

	for _, path := range []string{"missing.", "missing..x", ".", ".address"} {
		err := b.MutatePath(path, schema.OpSet, 1)
		require.ErrorIs(t, err, update.ErrUnknownField, path)
		assert.NotErrorIs(t, err, update.ErrInvalidPath, path)
	}

	assert.Zero(t, b.Len())
}

func TestBuilder_OperatorNotAllowed(t *testing.T) {
	b := update.New(userSchema)

	err := b.Push("name", "x")
	require.ErrorIs(t, err, update.ErrOperatorNotAllowed)
	assert.EqualError(t, err, `update User: operator not allowed: $push on "name": field allows set`)

	require.ErrorIs(t, b.Mutate("name", schema.Operator(0), "x"), update.ErrOperatorNotAllowed)
}

func TestBuilder_ArrayOperators(t *testing.T) {
	b := update.New(userSchema)

	require.NoError(t, b.Push("tags", update.Each("mongodb", "go")))
	require.NoError(t, b.Pull("tags", update.In("rust")))

	doc, err := b.Build()
	require.NoError(t, err)

	want := update.Document{
		"$push": {"tags": map[string]any{"$each": []any{"mongodb", "go"}}},
		"$pull": {"tags": map[string]any{"$in": []any{"rust"}}},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_NestedRoundTrip(t *testing.T) {
	b := update.New(userSchema)

	err := b.WithNested("address", func(a *update.Builder) error {
		return a.Mutate("city", schema.OpSet, "X")
	})
	require.NoError(t, err)

	doc, err := b.Build()
	require.NoError(t, err)

	want := update.Document{"$set": {"address.city": "X"}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_NestedComposes(t *testing.T) {
	b := update.New(userSchema)

	err := b.WithNested("address", func(a *update.Builder) error {
		if err := a.Set("street", "123 Broadway"); err != nil {
			return err
		}

		return a.WithNested("geo", func(g *update.Builder) error {
			if err := g.Set("lat", 40.7); err != nil {
				return err
			}

			return g.Set("lng", -74.0)
		})
	})
	require.NoError(t, err)

	assert.Equal(t, []update.Mutation{
		{Op: schema.OpSet, Path: "address.street", Value: "123 Broadway"},
		{Op: schema.OpSet, Path: "address.geo.lat", Value: 40.7},
		{Op: schema.OpSet, Path: "address.geo.lng", Value: -74.0},
	}, b.Mutations())
}

func TestBuilder_NestedFailureMergesNothing(t *testing.T) {
	b := update.New(userSchema)
	require.NoError(t, b.Set("name", "n"))

	boom := errors.New("boom")
	err := b.WithNested("address", func(a *update.Builder) error {
		require.NoError(t, a.Set("city", "partial"))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Same(t, boom, err, "child error must be surfaced verbatim")

	err = b.WithNested("address", func(a *update.Builder) error {
		require.NoError(t, a.Set("city", "partial"))
		return a.Push("city", "nope")
	})
	require.ErrorIs(t, err, update.ErrOperatorNotAllowed)

	var uerr *update.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Address", uerr.Schema)

	assert.Equal(t, []update.Mutation{{Op: schema.OpSet, Path: "name", Value: "n"}}, b.Mutations())
}

func TestBuilder_NotNestable(t *testing.T) {
	b := update.New(userSchema)

	called := false
	err := b.WithNested("name", func(*update.Builder) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, update.ErrNotNestable)
	assert.False(t, called)

	require.NoError(t, b.WithNested("address", nil))
	assert.Zero(t, b.Len())
}

func TestBuilder_NestedFieldKeepsOwnOperators(t *testing.T) {
	b := update.New(userSchema)

	require.NoError(t, b.Push("history", map[string]any{"city": "Paris"}))
	require.NoError(t, b.WithNested("history", func(h *update.Builder) error {
		return h.Set("city", "Rome")
	}))
	require.ErrorIs(t, b.Set("address", map[string]any{}), update.ErrOperatorNotAllowed)

	doc, err := b.Build()
	require.NoError(t, err)

	v, ok := doc.Get(schema.OpPush, "history")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"city": "Paris"}, v)

	v, ok = doc.Get(schema.OpSet, "history.city")
	require.True(t, ok)
	assert.Equal(t, "Rome", v)
}

func TestBuilder_MutatePath(t *testing.T) {
	b := update.New(userSchema)

	// Deep segments are not checked against the nested schema.
	require.NoError(t, b.MutatePath("address.zipcode", schema.OpSet, "10001"))
	require.NoError(t, b.SetPath("address.geo.whatever", 1))
	require.NoError(t, b.MutatePath("tags.$", schema.OpSet, "renamed"))

	// Single segment paths enforce the field's operators.
	require.NoError(t, b.MutatePath("email", schema.OpSet, "a@b.c"))
	require.ErrorIs(t, b.MutatePath("name", schema.OpPull, "x"), update.ErrOperatorNotAllowed)
	require.ErrorIs(t, b.MutatePath("password_hash", schema.OpSet, "x"), update.ErrOperatorNotAllowed)

	// A forbidden field is still reachable through deeper segments.
	require.NoError(t, b.MutatePath("password_hash.algo", schema.OpSet, "argon2"))

	doc, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"address.geo.whatever", "address.zipcode", "email", "password_hash.algo", "tags.$"},
		doc.Paths(schema.OpSet))
}

func TestBuilder_MutatePathEmpty(t *testing.T) {
	b := update.New(userSchema)

	err := b.MutatePath("", schema.OpSet, 1)
	require.ErrorIs(t, err, update.ErrInvalidPath)
	assert.Zero(t, b.Len())
}

// Only the first segment is checked, so a known field followed by empty
// segments is passed through untouched.
func TestBuilder_MutatePathFirstSegmentOnly(t *testing.T) {
	b := update.New(userSchema)

	require.NoError(t, b.MutatePath("address.", schema.OpSet, 1))
	require.NoError(t, b.MutatePath("address..city", schema.OpSet, 2))

	doc, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"address.", "address..city"}, doc.Paths(schema.OpSet))
}

func TestBuilder_CrossOperatorConflict(t *testing.T) {
	b := update.New(userSchema)

	require.NoError(t, b.Mutate("tags", schema.OpSet, []string{"a"}))
	require.NoError(t, b.Mutate("tags", schema.OpPush, "x"))

	doc, err := b.Build()
	require.ErrorIs(t, err, update.ErrConflictingMutation)
	assert.Nil(t, doc)
	assert.EqualError(t, err, `update User: conflicting mutation "tags": $push conflicts with $set`)
	assert.False(t, b.Built(), "failed build must not consume the builder")
}

func TestBuilder_Conflicts(t *testing.T) {
	tests := []struct {
		name      string
		mutations []update.Mutation
		conflict  bool
	}{
		{
			name: "duplicate set",
			mutations: []update.Mutation{
				{Op: schema.OpSet, Path: "name", Value: "a"},
				{Op: schema.OpSet, Path: "name", Value: "b"},
			},
			conflict: true,
		},
		{
			name: "duplicate push",
			mutations: []update.Mutation{
				{Op: schema.OpPush, Path: "tags", Value: "a"},
				{Op: schema.OpPush, Path: "tags", Value: "b"},
			},
			conflict: true,
		},
		{
			name: "pull then set",
			mutations: []update.Mutation{
				{Op: schema.OpPull, Path: "tags", Value: "a"},
				{Op: schema.OpSet, Path: "tags", Value: []string{}},
			},
			conflict: true,
		},
		{
			name: "push and pull coexist",
			mutations: []update.Mutation{
				{Op: schema.OpPush, Path: "tags", Value: "a"},
				{Op: schema.OpPull, Path: "tags", Value: "b"},
			},
		},
		{
			name: "different paths",
			mutations: []update.Mutation{
				{Op: schema.OpSet, Path: "tags", Value: []string{}},
				{Op: schema.OpPush, Path: "tags.0.names", Value: "a"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := update.New(userSchema)
			for _, m := range tt.mutations {
				require.NoError(t, b.MutatePath(m.Path, m.Op, m.Value))
			}

			_, err := b.Build()
			if tt.conflict {
				require.ErrorIs(t, err, update.ErrConflictingMutation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBuilder_NestedDuplicateConflicts(t *testing.T) {
	b := update.New(userSchema)

	require.NoError(t, b.SetPath("address.city", "A"))
	require.NoError(t, b.WithNested("address", func(a *update.Builder) error {
		return a.Set("city", "B")
	}))

	_, err := b.Build()
	require.ErrorIs(t, err, update.ErrConflictingMutation)

	var uerr *update.Error
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "address.city", uerr.Path)
}

func TestBuilder_OrderIndependent(t *testing.T) {
	mutations := []update.Mutation{
		{Op: schema.OpSet, Path: "name", Value: "n"},
		{Op: schema.OpSet, Path: "email", Value: "e"},
		{Op: schema.OpPush, Path: "tags", Value: "p"},
		{Op: schema.OpPull, Path: "tags", Value: "q"},
		{Op: schema.OpSet, Path: "address.city", Value: "c"},
	}

	build := func(order []update.Mutation) update.Document {
		b := update.New(userSchema)
		for _, m := range order {
			require.NoError(t, b.MutatePath(m.Path, m.Op, m.Value))
		}

		doc, err := b.Build()
		require.NoError(t, err)

		return doc
	}

	want := build(mutations)
	rng := rand.New(rand.NewSource(1))

	for range 20 {
		shuffled := append([]update.Mutation(nil), mutations...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		if diff := cmp.Diff(want, build(shuffled)); diff != "" {
			t.Fatalf("order changed the document (-want +got):\n%s", diff)
		}
	}
}

func TestBuilder_AlreadyBuilt(t *testing.T) {
	b := update.New(userSchema)
	require.NoError(t, b.Set("name", "n"))

	_, err := b.Build()
	require.NoError(t, err)
	assert.True(t, b.Built())

	require.ErrorIs(t, b.Set("email", "e"), update.ErrAlreadyBuilt)
	require.ErrorIs(t, b.Mutate("tags", schema.OpPush, "x"), update.ErrAlreadyBuilt)
	require.ErrorIs(t, b.MutatePath("address.city", schema.OpSet, "c"), update.ErrAlreadyBuilt)
	require.ErrorIs(t, b.WithNested("address", nil), update.ErrAlreadyBuilt)

	_, err = b.Build()
	require.ErrorIs(t, err, update.ErrAlreadyBuilt)
}

func TestBuilder_EmptyBuild(t *testing.T) {
	doc, err := update.New(userSchema).Build()
	require.NoError(t, err)
	assert.True(t, doc.IsEmpty())
	assert.Equal(t, "{}", doc.String())
}

func TestBuilder_MutationsIsACopy(t *testing.T) {
	b := update.New(userSchema)
	require.NoError(t, b.Set("name", "n"))

	ms := b.Mutations()
	ms[0].Path = "email"

	assert.Equal(t, "name", b.Mutations()[0].Path)
	assert.Same(t, userSchema, b.Schema())
}

func TestNew_NilSchemaPanics(t *testing.T) {
	assert.Panics(t, func() { update.New(nil) })
}
