package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDotEnv(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    map[string]string
	}{
		{"pair", "BASE_URL=http://localhost:8080", map[string]string{"BASE_URL": "http://localhost:8080"}},
		{"several pairs", "USER=ada\nPASS=lovelace", map[string]string{"USER": "ada", "PASS": "lovelace"}},
		{"double quotes stripped", `GREETING="hello world"`, map[string]string{"GREETING": "hello world"}},
		{"single quotes stripped", `TOKEN_PATH='$.data.token'`, map[string]string{"TOKEN_PATH": "$.data.token"}},
		{"mismatched quotes kept", `X="a'`, map[string]string{"X": `"a'`}},
		{"comments and blanks skipped", "# header\n\nA=1\n   \n# B=2", map[string]string{"A": "1"}},
		{"surrounding space trimmed", "  A  =  1  ", map[string]string{"A": "1"}},
		{"first equals splits", "DSN=host=db port=5432", map[string]string{"DSN": "host=db port=5432"}},
		{"export prefix", "export A=1", map[string]string{"A": "1"}},
		{"trailing hash is part of the value", "A=1 # note", map[string]string{"A": "1 # note"}},
		{"line without equals ignored", "JUSTAWORD\nA=1", map[string]string{"A": "1"}},
		{"empty key ignored", "=1\nA=2", map[string]string{"A": "2"}},
		{"empty file", "", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadDotEnv(writeEnv(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	_, err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDotEnvInto(t *testing.T) {
	r := NewResolver()
	n, err := LoadDotEnvInto(r, writeEnv(t, "BASE_URL=https://api.example.com\nTOKEN='t-1'"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "https://api.example.com/users?t=t-1", r.Resolve("${BASE_URL}/users?t=${TOKEN}"))

	// Captures bound later win over seeded variables of the same name.
	r.Bind("TOKEN", "t-2")
	assert.Equal(t, "t-2", r.Resolve("${TOKEN}"))
}

func TestLoadDotEnvInto_Missing(t *testing.T) {
	r := NewResolver()
	n, err := LoadDotEnvInto(r, filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Empty(t, r.Snapshot())
}
