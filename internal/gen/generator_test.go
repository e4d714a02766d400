package gen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mongo-ops-generator/internal/plan"
	"mongo-ops-generator/internal/schemafile"
	"mongo-ops-generator/schema"
)

const usersYAML = `
package: models
imports: [time]
schemas:
  - name: User
    fields:
      - {name: name, ops: [set], type: string}
      - {name: tags, ops: [set, push, pull], type: "[]string"}
      - {name: password_hash, ops: [none], type: string}
      - {name: last_login, type: time.Time}
      - {name: address, nested: Address, type: Address}
  - name: Address
    fields:
      - {name: city, type: string}
      - {name: zip_code, type: string}
`

func buildPlan(t *testing.T, data string) *plan.GenerationPlan {
	t.Helper()

	f, err := schemafile.Parse([]byte(data))
	require.NoError(t, err)

	p, err := plan.NewResolver(f, plan.DefaultConfig()).Resolve()
	require.NoError(t, err)

	return p
}

func generate(t *testing.T, data string) map[string]string {
	t.Helper()

	cfg := DefaultGeneratorConfig()
	cfg.OutputDir = t.TempDir()

	files, err := NewGenerator(cfg).Generate(buildPlan(t, data))
	require.NoError(t, err)

	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Filename] = string(f.Content)
	}

	return out
}

func TestGenerator_Generate_Users(t *testing.T) {
	files := generate(t, usersYAML)
	require.Len(t, files, 2)

	user, ok := files["user_update.go"]
	require.True(t, ok, "files: %v", files)

	assert.True(t, strings.HasPrefix(user, "// Code generated by mongo-ops-generator. DO NOT EDIT."))
	assert.Contains(t, user, "package models")
	assert.Contains(t, user, `"mongo-ops-generator/schema"`)
	assert.Contains(t, user, `"mongo-ops-generator/update"`)
	assert.Contains(t, user, "import (\n\t\"time\"\n\n\t\"mongo-ops-generator/schema\"\n\t\"mongo-ops-generator/update\"\n)",
		"standard library imports form their own group")

	// Schema variable
	assert.Contains(t, user, `var UserSchema = schema.MustNew("User",`)
	assert.Contains(t, user, `schema.FieldSpec{Name: "tags", Ops: schema.Ops(schema.OpSet, schema.OpPush, schema.OpPull)},`)
	assert.Contains(t, user, `schema.FieldSpec{Name: "password_hash", Ops: schema.None},`)
	assert.Contains(t, user, `schema.FieldSpec{Name: "address", Ops: schema.Ops(schema.OpSet), Nested: AddressSchema},`)

	// Per-operator methods
	assert.Contains(t, user, "func (u *UserUpdateBuilder) SetName(v string) *UserUpdateBuilder {")
	assert.Contains(t, user, "func (u *UserUpdateBuilder) SetTags(v []string) *UserUpdateBuilder {")
	assert.Contains(t, user, "func (u *UserUpdateBuilder) PushTags(v string) *UserUpdateBuilder {")
	assert.Contains(t, user, "func (u *UserUpdateBuilder) PullTags(v string) *UserUpdateBuilder {")
	assert.Contains(t, user, "func (u *UserUpdateBuilder) SetLastLogin(v time.Time) *UserUpdateBuilder {")
	assert.NotContains(t, user, "PasswordHash(")

	// Nested
	assert.Contains(t, user, "// WithAddress edits address with the nested AddressUpdateBuilder.\n"+
		"func (u *UserUpdateBuilder) WithAddress(edit func(*AddressUpdateBuilder)) *UserUpdateBuilder {")
	assert.Contains(t, user, "func (u *UserUpdateBuilder) AddressPath(sub string, v any) *UserUpdateBuilder {")
	assert.Contains(t, user, `u.b.SetPath(update.JoinPath("address", sub), v)`)

	// Common methods
	assert.Contains(t, user, "func NewUserUpdateBuilder() *UserUpdateBuilder {")
	assert.Contains(t, user, "func (u *UserUpdateBuilder) Build() (update.Document, error) {")

	address := files["address_update.go"]
	assert.NotContains(t, address, `"time"`, "unused imports are left out")
	assert.NotContains(t, address, "WithCity")

	for name, content := range files {
		_, err := parser.ParseFile(token.NewFileSet(), name, content, parser.AllErrors)
		require.NoError(t, err, "generated %s does not parse:\n%s", name, content)
	}
}

func TestGenerator_Generate_NoComments(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.OutputDir = t.TempDir()
	cfg.GenerateComments = false
	cfg.PackageName = "override"

	files, err := NewGenerator(cfg).Generate(buildPlan(t, usersYAML))
	require.NoError(t, err)

	content := string(files[0].Content)
	assert.Contains(t, content, "package override")
	assert.NotContains(t, content, "// SetCity")
}

func TestGenerator_Generate_Untyped(t *testing.T) {
	files := generate(t, `
package: models
schemas:
  - name: Event
    fields:
      - {name: labels, ops: [push]}
`)

	assert.Contains(t, files["event_update.go"], "func (u *EventUpdateBuilder) PushLabels(v any) *EventUpdateBuilder {")
}

func TestGenerator_Generate_NoPackage(t *testing.T) {
	p := buildPlan(t, `
schemas:
  - name: A
    fields: [{name: a}]
`)

	cfg := DefaultGeneratorConfig()
	cfg.OutputDir = t.TempDir()

	_, err := NewGenerator(cfg).Generate(p)
	require.ErrorIs(t, err, ErrNoPackageName)
}

func TestGenerator_Generate_FormatFailureWritesSidecar(t *testing.T) {
	p := buildPlan(t, `
package: models
schemas:
  - name: Broken
    fields: [{name: a, type: "[[oops"}]
`)

	cfg := DefaultGeneratorConfig()
	cfg.OutputDir = t.TempDir()

	_, err := NewGenerator(cfg).Generate(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formatting code")

	sidecar, err := os.ReadFile(filepath.Join(cfg.OutputDir, "broken_update.unformatted.go"))
	require.NoError(t, err)
	assert.Contains(t, string(sidecar), "SetA(v [[oops)")
}

func TestWriteFiles_RemovesStaleSidecar(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "user_update.unformatted.go")
	require.NoError(t, os.WriteFile(stale, []byte("broken"), 0o644))

	err := WriteFiles([]GeneratedFile{{Filename: "user_update.go", Content: []byte("package models\n")}}, filepath.Join(dir))
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "user_update.go"))
	require.NoError(t, err)
	assert.Equal(t, "package models\n", string(content))
	assert.NoFileExists(t, stale)
}

func TestOpsExpr(t *testing.T) {
	assert.Equal(t, "schema.None", opsExpr(schema.None))
	assert.Equal(t, "schema.Ops(schema.OpSet)", opsExpr(schema.Ops(schema.OpSet)))
	assert.Equal(t, "schema.Ops(schema.OpPush, schema.OpPull)", opsExpr(schema.Ops(schema.OpPull, schema.OpPush)))
}

func TestGenerator_ImportGroups(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())

	fields := []fieldData{
		{ValueType: "time.Time"},
		{ValueType: "[]users.Session", ElemType: "users.Session"},
		{ValueType: "uuid.UUID"},
	}

	std, other := g.collectImports(
		[]string{"github.com/google/uuid", "mongo-ops-generator/examples/users", "time", "net/url"}, fields)

	assert.Equal(t, []importSpec{{Path: "time"}}, std)
	assert.Equal(t, []importSpec{
		{Path: "github.com/google/uuid"},
		{Path: "mongo-ops-generator/examples/users"},
		{Path: "mongo-ops-generator/schema"},
		{Path: "mongo-ops-generator/update"},
	}, other)
}
