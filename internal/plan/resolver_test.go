package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
      - {name: zip_code, go_name: Zip, type: string}
  - name: Audit
    fields:
      - {name: note}
`

func resolve(t *testing.T, data string, cfg ResolutionConfig) (*GenerationPlan, error) {
	t.Helper()

	f, err := schemafile.Parse([]byte(data))
	require.NoError(t, err)

	return NewResolver(f, cfg).Resolve()
}

func typeNames(p *GenerationPlan) []string {
	names := make([]string, len(p.Types))
	for i := range p.Types {
		names[i] = p.Types[i].Schema.Name()
	}

	return names
}

func TestResolve_Users(t *testing.T) {
	p, err := resolve(t, usersYAML, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "models", p.Package)
	assert.Equal(t, []string{"time"}, p.Imports)
	assert.Equal(t, []string{"Address", "User", "Audit"}, typeNames(p))

	user, ok := p.Lookup("User")
	require.True(t, ok)
	assert.Equal(t, "UserUpdateBuilder", user.BuilderName())
	assert.Equal(t, "UserSchema", user.SchemaVar())
	require.Len(t, user.Fields, 5)

	name := user.Fields[0]
	assert.Equal(t, "Name", name.GoName)
	assert.Equal(t, "string", name.ValueType)
	assert.Equal(t, []string{"SetName"}, name.MethodNames())

	tags := user.Fields[1]
	assert.Equal(t, "[]string", tags.ValueType)
	assert.Equal(t, "string", tags.ElemType)
	assert.True(t, tags.Allows(schema.OpPull))
	assert.Equal(t, []string{"SetTags", "PushTags", "PullTags"}, tags.MethodNames())

	hash := user.Fields[2]
	assert.Equal(t, "PasswordHash", hash.GoName)
	assert.Empty(t, hash.MethodNames())

	assert.Equal(t, "time.Time", user.Fields[3].ValueType)
	assert.Equal(t, "any", user.Fields[3].ElemType)

	address := user.Fields[4]
	require.NotNil(t, address.Nested)
	assert.Same(t, &p.Types[0], address.Nested)
	assert.Equal(t, []string{"SetAddress", "WithAddress", "AddressPath"}, address.MethodNames())

	addr, _ := p.Lookup("Address")
	assert.Equal(t, "Zip", addr.Fields[1].GoName)

	audit, _ := p.Lookup("Audit")
	assert.Equal(t, "any", audit.Fields[0].ValueType)
	require.Len(t, p.Diagnostics.Infos, 1)
	assert.Equal(t, CodeUntypedField, p.Diagnostics.Infos[0].Code)

	assert.Equal(t, []string{"Address", "Audit", "User"}, p.Registry.Names())
}

func TestResolve_SelectTypes(t *testing.T) {
	p, err := resolve(t, usersYAML, ResolutionConfig{Types: []string{"User"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Address", "User"}, typeNames(p), "nested schemas are pulled in")

	p, err = resolve(t, usersYAML, ResolutionConfig{Types: []string{"Address"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Address"}, typeNames(p))
}

func TestResolve_UnknownType(t *testing.T) {
	p, err := resolve(t, usersYAML, ResolutionConfig{Types: []string{"Usr"}})
	require.ErrorIs(t, err, ErrResolution)

	require.Len(t, p.Diagnostics.Errors, 1)
	assert.Equal(t, CodeUnknownType, p.Diagnostics.Errors[0].Code)
	assert.Equal(t, []string{"User"}, p.Diagnostics.Errors[0].Suggestions)
}

func TestResolve_InvalidFile(t *testing.T) {
	p, err := resolve(t, `
schemas:
  - name: A
    fields: [{name: b, nested: Missing}]
`, DefaultConfig())
	require.ErrorIs(t, err, ErrResolution)
	assert.Contains(t, p.Diagnostics.Codes(), schemafile.CodeUnknownNestedSchema)
	assert.Nil(t, p.Registry)
}

func TestResolve_MethodCollisions(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
	}{
		{
			name: "field shadows SetPath",
			yaml: `
schemas:
  - name: A
    fields: [{name: path}]
`,
			code: CodeMethodCollision,
		},
		{
			name: "two fields one Go name",
			yaml: `
schemas:
  - name: A
    fields: [{name: zip_code}, {name: zip-code}]
`,
			code: CodeGoNameCollision,
		},
		{
			name: "two schemas one Go name",
			yaml: `
schemas:
  - name: user
    fields: [{name: a}]
  - name: User
    fields: [{name: a}]
`,
			code: CodeGoNameCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := resolve(t, tt.yaml, DefaultConfig())
			require.ErrorIs(t, err, ErrResolution)
			assert.Contains(t, p.Diagnostics.Codes(), tt.code)
		})
	}
}

func TestResolve_StrictMode(t *testing.T) {
	data := `
schemas:
  - name: A
    fields: [{name: secret, ops: [none, set]}]
`

	_, err := resolve(t, data, DefaultConfig())
	require.NoError(t, err)

	p, err := resolve(t, data, ResolutionConfig{StrictMode: true})
	require.ErrorIs(t, err, ErrResolution)
	assert.Contains(t, p.Diagnostics.Errors[0].Message, "strict mode")
}

func TestElemType(t *testing.T) {
	assert.Equal(t, "string", elemType("[]string"))
	assert.Equal(t, "*models.Item", elemType("[]*models.Item"))
	assert.Equal(t, "any", elemType("string"))
	assert.Equal(t, "any", elemType(""))
	assert.Equal(t, "any", elemType("[]"))
}
