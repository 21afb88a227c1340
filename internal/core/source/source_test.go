package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	coreerrors "github.com/aevon-lab/dashpoints/internal/core/errors"
	"github.com/aevon-lab/dashpoints/internal/core/filter"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	schema filter.Schema
}

func (s stubSource) Schema() filter.Schema                { return s.schema }
func (s stubSource) Filter(filter.Filter) RecordSource    { return s }
func (s stubSource) OrderBy(string) RecordSource          { return s }
func (s stubSource) Count(context.Context) (int64, error) { return 0, nil }

var usersSchema = filter.Schema{
	"username":    filter.TypeString,
	"date_joined": filter.TypeDateTime,
	"last_login":  filter.TypeDateTime,
	"birthday":    filter.TypeDate,
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("auth.User", usersSchema, func() (RecordSource, error) {
		return stubSource{schema: usersSchema}, nil
	}))
	require.NoError(t, reg.Register("blog.Post", filter.Schema{"published": filter.TypeDateTime}, func() (RecordSource, error) {
		return stubSource{}, nil
	}))

	src, err := reg.Resolve("auth.User")
	require.NoError(t, err)
	require.Equal(t, usersSchema, src.Schema())

	require.Equal(t, []string{"auth.User", "blog.Post"}, reg.Keys())

	attrs, err := reg.DateAttributes("auth.User")
	require.NoError(t, err)
	require.Equal(t, []string{"birthday", "date_joined", "last_login"}, attrs)
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry()
	factory := func() (RecordSource, error) { return stubSource{}, nil }

	require.Error(t, reg.Register("", usersSchema, factory))
	require.Error(t, reg.Register("x", usersSchema, nil))
	require.Error(t, reg.Register("x", filter.Schema{"a": "uuid"}, factory))

	require.NoError(t, reg.Register("x", usersSchema, factory))
	require.Error(t, reg.Register("x", usersSchema, factory))

	_, err := reg.Resolve("missing")
	require.ErrorIs(t, err, ErrUnresolvableSource)
	require.ErrorIs(t, err, coreerrors.ErrConfiguration)

	_, err = reg.DateAttributes("missing")
	require.ErrorIs(t, err, ErrUnresolvableSource)

	require.NoError(t, reg.Register("broken", usersSchema, func() (RecordSource, error) {
		return nil, errors.New("connection refused")
	}))
	_, err = reg.Resolve("broken")
	require.ErrorContains(t, err, "connection refused")
}

func TestRequireDateAttribute(t *testing.T) {
	require.NoError(t, RequireDateAttribute(usersSchema, "date_joined"))
	require.NoError(t, RequireDateAttribute(usersSchema, "birthday"))
	require.ErrorIs(t, RequireDateAttribute(usersSchema, "username"), ErrNotDateAttribute)
	require.ErrorIs(t, RequireDateAttribute(usersSchema, "missing"), ErrNotDateAttribute)
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.yaml", `
name: auth.User
table: auth_user
attributes:
  username: string
  date_joined: datetime
  is_active: bool
`)
	writeFile(t, dir, "signups.yml", `
name: demo.Signup
driver: memory
attributes:
  plan: string
  created_at: DateTime
records:
  - {plan: pro, created_at: "2024-03-04T09:00:00Z"}
  - {plan: free, created_at: "2024-03-04T10:00:00Z"}
`)
	writeFile(t, dir, "empty.yaml", "# nothing here\n")
	writeFile(t, dir, "notes.txt", "name: ignored")

	defs, err := LoadDefinitions(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	require.Equal(t, "auth.User", defs[0].Name)
	require.Equal(t, DriverSQL, defs[0].Driver)
	require.Equal(t, "auth_user", defs[0].Table)
	require.Equal(t, filter.TypeBool, defs[0].Attributes["is_active"])
	require.Len(t, defs[0].Fingerprint, 64)

	require.Equal(t, "demo.Signup", defs[1].Name)
	require.Equal(t, DriverMemory, defs[1].Driver)
	require.Equal(t, filter.TypeDateTime, defs[1].Attributes["created_at"])
	require.Len(t, defs[1].Records, 2)
	require.Equal(t, "pro", defs[1].Records[0]["plan"])
}

func TestLoadDefinitions_MissingDirIsEmpty(t *testing.T) {
	defs, err := LoadDefinitions(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.Empty(t, defs)
}

func TestLoadDefinitions_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{name: "bad driver", content: "name: a\ndriver: mongo\nattributes: {x: string}\n", errText: "unsupported driver"},
		{name: "no attributes", content: "name: a\n", errText: "attributes must not be empty"},
		{name: "bad type", content: "name: a\nattributes: {x: blob}\n", errText: "unknown type"},
		{name: "bad column", content: "name: a\nattributes: {\"x; drop\": string}\n", errText: "not a valid column name"},
		{name: "bad table", content: "name: a\ntable: \"a-b\"\nattributes: {x: string}\n", errText: "not a valid identifier"},
		{name: "records on sql", content: "name: a\nattributes: {x: string}\nrecords: [{x: y}]\n", errText: "only allowed with the memory driver"},
		{name: "malformed yaml", content: "name: [\n", errText: "parsing"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "src.yaml", tc.content)
			_, err := LoadDefinitions(dir)
			require.ErrorContains(t, err, tc.errText)
		})
	}
}

func TestLoadDefinitions_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "name: dup\nattributes: {x: string}\n")
	writeFile(t, dir, "b.yaml", "name: dup\nattributes: {x: string}\n")

	_, err := LoadDefinitions(dir)
	require.ErrorContains(t, err, "duplicate source name")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
