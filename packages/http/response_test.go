package http

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_OK(t *testing.T) {
	tests := []struct {
		status int
		ok     bool
	}{
		{200, true},
		{302, true},
		{399, true},
		{400, false},
		{500, false},
	}
	for _, tt := range tests {
		r := &Response{StatusCode: tt.status}
		assert.Equal(t, tt.ok, r.OK(), "status %d", tt.status)
	}
}

func TestResponse_JSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		r := &Response{Body: []byte(`{"data": {"id": 7}}`)}
		v, err := r.JSON()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"data": map[string]any{"id": float64(7)}}, v)
	})

	t.Run("invalid body", func(t *testing.T) {
		r := &Response{Body: []byte(`<html></html>`)}
		_, err := r.JSON()
		assert.Error(t, err)
	})

	t.Run("empty body", func(t *testing.T) {
		r := &Response{}
		_, err := r.JSON()
		assert.Error(t, err)
	})
}

func TestResponse_IsJSON(t *testing.T) {
	assert.True(t, (&Response{Headers: map[string]string{"content-type": "application/json"}}).IsJSON())
	assert.True(t, (&Response{Body: []byte(`[1,2]`)}).IsJSON())
	assert.False(t, (&Response{Body: []byte(`hello`)}).IsJSON())
	assert.False(t, (&Response{}).IsJSON())
}

func TestResponse_Charset(t *testing.T) {
	r := &Response{Headers: map[string]string{"Content-Type": "text/html; charset=ISO-8859-1"}}
	assert.Equal(t, "ISO-8859-1", r.Charset())

	r.Encoding = "utf-8"
	assert.Equal(t, "utf-8", r.Charset())

	assert.Equal(t, "", (&Response{}).Charset())
}

func TestResponse_Header(t *testing.T) {
	r := &Response{Headers: map[string]string{"X-Request-Id": "abc"}}
	assert.Equal(t, "abc", r.Header("x-request-id"))
	assert.Equal(t, "", r.Header("missing"))
}

func TestResponse_DurationMs(t *testing.T) {
	r := &Response{Duration: 1500 * time.Millisecond}
	assert.Equal(t, int64(1500), r.DurationMs())
}

func TestDecodeJSON_Numbers(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{"small integer", `7`, float64(7)},
		{"negative integer", `-12`, float64(-12)},
		{"fraction", `2.675`, 2.675},
		{"exponent", `1e3`, float64(1000)},
		{"largest exact integer", `9007199254740991`, float64(9007199254740991)},
		{"integer past float precision", `1234567890123456789`, int64(1234567890123456789)},
		{"integer past int64", `123456789012345678901234567890`, json.Number("123456789012345678901234567890")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := DecodeJSON([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	t.Run("nested", func(t *testing.T) {
		v, err := DecodeJSON([]byte(`{"ids":[1234567890123456789,1],"user":{"id":9223372036854775807}}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"ids":  []any{int64(1234567890123456789), float64(1)},
			"user": map[string]any{"id": int64(9223372036854775807)},
		}, v)
	})
}

func TestDecodeJSON_Malformed(t *testing.T) {
	for _, in := range []string{``, `{`, `{"a":1} trailing`, `// comment`, `<html>`} {
		_, err := DecodeJSON([]byte(in))
		assert.ErrorIs(t, err, ErrMalformedJSON, in)
	}
}
