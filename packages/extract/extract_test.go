package extract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abdul-hamid-achik/yhspec/packages/http"
	"github.com/abdul-hamid-achik/yhspec/packages/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createResponse(statusCode int, body string, headers map[string]string) *http.Response {
	if headers == nil {
		headers = map[string]string{"Content-Type": "application/json"}
	}
	return &http.Response{
		StatusCode: statusCode,
		URL:        "https://api.example.com/login",
		Headers:    headers,
		Cookies:    map[string]string{"session": "s-1"},
		Body:       []byte(body),
	}
}

func TestExtract_Scenarios(t *testing.T) {
	t.Run("jsonpath scalar", func(t *testing.T) {
		resp := createResponse(200, `{"data":{"token":"xyz"}}`, nil)
		res, err := Extract(resp, "$.data.token")
		require.NoError(t, err)
		assert.Equal(t, Scalar, res.Kind)
		assert.Equal(t, "xyz", res.Value)
	})

	t.Run("jmespath body index", func(t *testing.T) {
		resp := createResponse(200, `{"items":[{"id":7},{"id":8}]}`, nil)
		res, err := Extract(resp, "body.items[0].id")
		require.NoError(t, err)
		assert.Equal(t, Scalar, res.Kind)
		assert.Equal(t, float64(7), res.Value)
	})

	t.Run("jmespath hyphenated header", func(t *testing.T) {
		resp := createResponse(200, `{}`, map[string]string{"Content-Type": "application/json"})
		res, err := Extract(resp, "headers.Content-Type")
		require.NoError(t, err)
		assert.Equal(t, Scalar, res.Kind)
		assert.Equal(t, "application/json", res.Value)
	})
}

func TestExtract_JSONPathCardinality(t *testing.T) {
	resp := createResponse(200, `{"items":[{"id":7},{"id":8},{"id":9}],"one":[{"id":1}]}`, nil)

	t.Run("zero matches", func(t *testing.T) {
		res, err := Extract(resp, "$.missing.field")
		require.NoError(t, err)
		assert.Equal(t, Absent, res.Kind)
		assert.Nil(t, res.Value)
		assert.False(t, res.Found())
	})

	t.Run("one match", func(t *testing.T) {
		res, err := Extract(resp, "$.one[*].id")
		require.NoError(t, err)
		assert.Equal(t, Scalar, res.Kind)
		assert.Equal(t, float64(1), res.Value)
	})

	t.Run("many matches in document order", func(t *testing.T) {
		res, err := Extract(resp, "$.items[*].id")
		require.NoError(t, err)
		assert.Equal(t, List, res.Kind)
		assert.Equal(t, []any{float64(7), float64(8), float64(9)}, res.Value)
	})
}

func TestExtract_Regex(t *testing.T) {
	t.Run("zero matches is empty string", func(t *testing.T) {
		resp := createResponse(200, `no tokens here`, map[string]string{})
		res, err := Extract(resp, `token=(.+?);`)
		require.NoError(t, err)
		assert.Equal(t, Scalar, res.Kind)
		assert.Equal(t, "", res.Value)
		assert.NotNil(t, res.Value)
	})

	t.Run("single group", func(t *testing.T) {
		resp := createResponse(200, `{"token":"abc123","id":1}`, nil)
		res, err := Extract(resp, `"token":"(.+?)"`)
		require.NoError(t, err)
		assert.Equal(t, "abc123", res.Value)
	})

	t.Run("many matches", func(t *testing.T) {
		resp := createResponse(200, `<li>a</li><li>b</li>`, map[string]string{})
		res, err := Extract(resp, `<li>(.*?)</li>`)
		require.NoError(t, err)
		assert.Equal(t, List, res.Kind)
		assert.Equal(t, []any{"a", "b"}, res.Value)
	})

	t.Run("dot matches newline", func(t *testing.T) {
		resp := createResponse(200, "<p>line1\nline2</p>", map[string]string{})
		res, err := Extract(resp, `<p>(.*?)</p>`)
		require.NoError(t, err)
		assert.Equal(t, "line1\nline2", res.Value)
	})

	t.Run("several groups", func(t *testing.T) {
		resp := createResponse(200, `a=1;b=2;`, map[string]string{})
		res, err := Extract(resp, `(\w+?)=(.+?);`)
		require.NoError(t, err)
		assert.Equal(t, []any{[]any{"a", "1"}, []any{"b", "2"}}, res.Value)
	})

	t.Run("no groups", func(t *testing.T) {
		resp := createResponse(200, `id=42&x`, map[string]string{})
		res, err := Extract(resp, `id=.+?&`)
		require.NoError(t, err)
		assert.Equal(t, "id=42&", res.Value)
	})
}

func TestExtract_LiteralExpressions(t *testing.T) {
	carriers := map[string]any{
		"http":        createResponse(200, `{}`, nil),
		"socket":      ws.Message{Status: 101, Recv: `{}`},
		"raw json":    RawJSON{Value: map[string]any{}},
		"unsupported": "not a carrier",
	}

	for name, c := range carriers {
		t.Run(name, func(t *testing.T) {
			res, err := Extract(c, 42)
			require.NoError(t, err)
			assert.Equal(t, 42, res.Value)
			assert.Equal(t, StrategyLiteral, res.Strategy)

			list := []any{1, 2}
			res, err = Extract(c, list)
			require.NoError(t, err)
			assert.Equal(t, list, res.Value)
		})
	}

	t.Run("unmatched string is returned verbatim", func(t *testing.T) {
		res, err := Extract(createResponse(200, `{}`, nil), "plain value")
		require.NoError(t, err)
		assert.Equal(t, Scalar, res.Kind)
		assert.Equal(t, "plain value", res.Value)
	})
}

func TestExtract_Attributes(t *testing.T) {
	resp := createResponse(404, `not found`, map[string]string{"Content-Type": "text/plain; charset=utf-8"})

	tests := []struct {
		expr string
		want any
	}{
		{"status_code", 404},
		{"url", "https://api.example.com/login"},
		{"ok", false},
		{"encoding", "utf-8"},
		{"text", "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res, err := Extract(resp, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, StrategyAttribute, res.Strategy)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestExtract_Meta(t *testing.T) {
	resp := createResponse(200, `not json`, map[string]string{"X-Total": "3"})

	res, err := Extract(resp, "cookies.session")
	require.NoError(t, err)
	assert.Equal(t, "s-1", res.Value)

	res, err = Extract(resp, "headers.X-Total")
	require.NoError(t, err)
	assert.Equal(t, "3", res.Value)

	res, err = Extract(resp, "headers.Missing")
	require.NoError(t, err)
	assert.Equal(t, Absent, res.Kind)
}

func TestExtract_BodySubstringFallback(t *testing.T) {
	resp := createResponse(200, `{"x":{"y":1}}`, nil)

	res, err := Extract(resp, "xbody.y")
	require.NoError(t, err)
	assert.Equal(t, StrategyBody, res.Strategy)
	assert.Equal(t, Absent, res.Kind)
}

func TestExtract_InvalidJSON(t *testing.T) {
	resp := createResponse(200, `<html>oops</html>`, map[string]string{"Content-Type": "text/html"})

	for _, expr := range []string{"body.data", "$.data", "content.x"} {
		t.Run(expr, func(t *testing.T) {
			_, err := Extract(resp, expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidJSON))

			var ee *ExtractionError
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, expr, ee.Expression)
		})
	}

	t.Run("text stays available", func(t *testing.T) {
		res, err := Extract(resp, "text")
		require.NoError(t, err)
		assert.Equal(t, "<html>oops</html>", res.Value)
	})
}

func TestExtract_MalformedExpressions(t *testing.T) {
	resp := createResponse(200, `{"items":[1]}`, nil)

	tests := []struct {
		name string
		expr string
	}{
		{"jsonpath", "$.items["},
		{"jmespath", "body.items[?"},
		{"regex", "(.+?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(resp, tt.expr)
			require.Error(t, err)
			var ee *ExtractionError
			require.True(t, errors.As(err, &ee))
			assert.Equal(t, tt.expr, ee.Expression)
			assert.False(t, errors.Is(err, ErrInvalidJSON))
		})
	}
}

func TestExtract_Socket(t *testing.T) {
	msg := ws.Message{Status: 200, Recv: `{"data":{"id":5},"list":[1,2]}`}

	tests := []struct {
		expr string
		want any
	}{
		{"status", 200},
		{"status_code", 200},
		{"getstatus", 200},
		{"text", msg.Recv},
		{"body", msg.Recv},
		{"$.data.id", float64(5)},
		{"body.data.id", float64(5)},
		{`"id":(.+?)}`, "5"},
		{"url", "url"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res, err := Extract(msg, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Value)
		})
	}

	t.Run("list projection", func(t *testing.T) {
		res, err := ExtractByWS(msg, "body.list")
		require.NoError(t, err)
		assert.Equal(t, List, res.Kind)
		assert.Equal(t, []any{float64(1), float64(2)}, res.Value)
	})

	t.Run("pointer message", func(t *testing.T) {
		res, err := Extract(&msg, "status")
		require.NoError(t, err)
		assert.Equal(t, 200, res.Value)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := ws.Message{Status: 200, Recv: `pong`}
		for _, expr := range []string{"$.a", "body.a"} {
			_, err := Extract(bad, expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidJSON), expr)
		}
	})
}

func TestExtractByObject_DelegatesSocketMessages(t *testing.T) {
	res, err := ExtractByObject(ws.Message{Status: 101, Recv: "hi"}, "status")
	require.NoError(t, err)
	assert.Equal(t, StrategyStatus, res.Strategy)
	assert.Equal(t, 101, res.Value)
}

func TestExtract_RawJSON(t *testing.T) {
	doc := map[string]any{"user": map[string]any{"name": "ann", "roles": []any{"a", "b"}}}
	c := RawJSON{Value: doc}

	res, err := Extract(c, "$.user.name")
	require.NoError(t, err)
	assert.Equal(t, "ann", res.Value)

	res, err = Extract(c, "body.user.roles")
	require.NoError(t, err)
	assert.Equal(t, List, res.Kind)

	res, err = Extract(&c, `"name":"(.+?)"`)
	require.NoError(t, err)
	assert.Equal(t, "ann", res.Value)

	res, err = Extract(c, "status_code")
	require.NoError(t, err)
	assert.Equal(t, "status_code", res.Value)
}

func TestExtract_UnsupportedCarrier(t *testing.T) {
	_, err := Extract(map[string]any{"status": 1}, "status")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedCarrier))
}

func TestQuoteHyphenated(t *testing.T) {
	assert.Equal(t, `headers."Content-Type"`, quoteHyphenated("headers.Content-Type"))
	assert.Equal(t, `headers."X-Ids"[0]`, quoteHyphenated("headers.X-Ids[0]"))
	assert.Equal(t, `body.items[0].id`, quoteHyphenated("body.items[0].id"))
	assert.Equal(t, `headers."Content-Type"`, quoteHyphenated(`headers."Content-Type"`))
}

func TestResult_MarshalJSON(t *testing.T) {
	b, err := scalar(StrategyJSONPath, "xyz").MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"scalar","strategy":"jsonpath","value":"xyz"}`, string(b))
}

func TestExtract_HeaderNamesIgnoreCase(t *testing.T) {
	resp := createResponse(200, `{}`, map[string]string{"Server": "nginx", "X-Request-Id": "r-1"})

	tests := []struct {
		expr string
		want any
	}{
		{"headers.Server", "nginx"},
		{"headers.server", "nginx"},
		{"headers.x-request-id", "r-1"},
		{"headers.X-Request-Id", "r-1"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res, err := Extract(resp, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, Scalar, res.Kind)
			assert.Equal(t, tt.want, res.Value)
		})
	}

	t.Run("written key wins over alias", func(t *testing.T) {
		resp := createResponse(200, `{}`, map[string]string{"Server": "nginx", "server": "envoy"})
		res, err := Extract(resp, "headers.server")
		require.NoError(t, err)
		assert.Equal(t, "envoy", res.Value)
	})

	t.Run("cookies stay exact", func(t *testing.T) {
		res, err := Extract(resp, "cookies.SESSION")
		require.NoError(t, err)
		assert.Equal(t, Absent, res.Kind)
	})
}

func TestExtract_LargeIntegers(t *testing.T) {
	body := `{"data":{"id":1234567890123456789,"small":42,"ratio":0.5,"huge":123456789012345678901234567890}}`

	t.Run("http", func(t *testing.T) {
		resp := createResponse(200, body, nil)
		res, err := Extract(resp, "$.data.id")
		require.NoError(t, err)
		assert.Equal(t, int64(1234567890123456789), res.Value)

		res, err = Extract(resp, "body.data.small")
		require.NoError(t, err)
		assert.Equal(t, float64(42), res.Value)

		res, err = Extract(resp, "$.data.ratio")
		require.NoError(t, err)
		assert.Equal(t, 0.5, res.Value)

		res, err = Extract(resp, "$.data.huge")
		require.NoError(t, err)
		assert.Equal(t, "123456789012345678901234567890", fmt.Sprint(res.Value))
	})

	t.Run("socket", func(t *testing.T) {
		res, err := Extract(ws.Message{Recv: body}, "content.data.id")
		require.NoError(t, err)
		assert.Equal(t, int64(1234567890123456789), res.Value)
	})
}

func TestExtractAs(t *testing.T) {
	resp := createResponse(200, `{"data":{"token":"abc"},"items":[{"id":7},{"id":8}]}`, nil)
	text := createResponse(200, `id=7; id=8`, map[string]string{"Content-Type": "text/plain"})

	tests := []struct {
		name     string
		carrier  any
		strategy Strategy
		expr     string
		kind     ResultKind
		value    any
	}{
		{"jsonpath with root", resp, StrategyJSONPath, "$.data.token", Scalar, "abc"},
		{"jsonpath without root", resp, StrategyJSONPath, "data.token", Scalar, "abc"},
		{"jmespath bare body", resp, StrategyJMESPath, "items[1].id", Scalar, float64(8)},
		{"jmespath prefixed body", resp, StrategyJMESPath, "body.items[0].id", Scalar, float64(7)},
		{"jmespath headers", resp, StrategyJMESPath, "headers.Content-Type", Scalar, "application/json"},
		{"greedy regex", text, StrategyRegex, `id=(\d+)`, List, []any{"7", "8"}},
		{"regex without match", text, StrategyRegex, `name=(\w+)`, Scalar, ""},
		{"socket jmespath", ws.Message{Recv: `{"event":"joined"}`}, StrategyJMESPath, "event", Scalar, "joined"},
		{"raw json regex", RawJSON{Value: map[string]any{"a": "b"}}, StrategyRegex, `"a":"(\w)"`, Scalar, "b"},
		{"raw json jmespath", RawJSON{Value: map[string]any{"a": "b"}}, StrategyJMESPath, "a", Scalar, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ExtractAs(tt.carrier, tt.strategy, tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.value, res.Value)
		})
	}

	t.Run("invalid json body", func(t *testing.T) {
		_, err := ExtractAs(text, StrategyJMESPath, "data")
		var ee *ExtractionError
		require.True(t, errors.As(err, &ee))
		assert.Equal(t, StrategyJMESPath, ee.Strategy)
		assert.True(t, errors.Is(err, ErrInvalidJSON))
	})

	t.Run("not an engine", func(t *testing.T) {
		_, err := ExtractAs(resp, StrategyAttribute, "status_code")
		assert.True(t, errors.Is(err, ErrUnsupportedStrategy))
	})

	t.Run("unsupported carrier", func(t *testing.T) {
		_, err := ExtractAs(42, StrategyRegex, "x")
		assert.True(t, errors.Is(err, ErrUnsupportedCarrier))
	})
}

func TestJMESPath(t *testing.T) {
	doc := map[string]any{"users": []any{map[string]any{"name": "ada"}, map[string]any{"name": "alan"}}}

	res, err := JMESPath(doc, "users[*].name")
	require.NoError(t, err)
	assert.Equal(t, List, res.Kind)
	assert.Equal(t, []any{"ada", "alan"}, res.Value)
	assert.Equal(t, StrategyJMESPath, res.Strategy)

	res, err = JMESPath(doc, "missing")
	require.NoError(t, err)
	assert.False(t, res.Found())

	_, err = JMESPath(doc, "users[")
	assert.Error(t, err)
}
