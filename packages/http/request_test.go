package http

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestSpec_Substitute(t *testing.T) {
	resolve := func(s string) string {
		return strings.ReplaceAll(s, "${token}", "abc123")
	}

	spec := &RequestSpec{
		Method:  "POST",
		URL:     "https://api.example.com/users/${token}",
		Headers: map[string]string{"Authorization": "Bearer ${token}"},
		Params:  map[string]any{"t": "${token}", "page": 2},
		Body: map[string]any{
			"user": map[string]any{"token": "${token}"},
			"tags": []any{"${token}", 1, true},
		},
	}

	out := spec.Substitute(resolve)

	assert.Equal(t, "POST", out.Method)
	assert.Equal(t, "https://api.example.com/users/abc123", out.URL)
	assert.Equal(t, "Bearer abc123", out.Headers["Authorization"])
	assert.Equal(t, "abc123", out.Params["t"])
	assert.Equal(t, 2, out.Params["page"])
	assert.Equal(t, map[string]any{
		"user": map[string]any{"token": "abc123"},
		"tags": []any{"abc123", 1, true},
	}, out.Body)

	// The original spec is untouched.
	assert.Equal(t, "Bearer ${token}", spec.Headers["Authorization"])
	assert.Equal(t, "${token}", spec.Body.(map[string]any)["user"].(map[string]any)["token"])
}

func TestRequestSpec_BuildURL(t *testing.T) {
	spec := &RequestSpec{URL: "https://example.com/get", Params: map[string]any{"user_id": "12345", "include": true}}
	assert.Equal(t, "https://example.com/get?include=true&user_id=12345", spec.BuildURL())

	spec = &RequestSpec{URL: "https://example.com/get"}
	assert.Equal(t, "https://example.com/get", spec.BuildURL())
}
