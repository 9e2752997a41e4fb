package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedJSON is returned by DecodeJSON for input that is not exactly
// one JSON document.
var ErrMalformedJSON = errors.New("malformed JSON")

// maxExactInt is the largest integer magnitude a float64 holds exactly.
const maxExactInt = 1 << 53

// DecodeJSON decodes one JSON document. Numbers decode as float64, except
// integers beyond 2^53 which stay int64 (or json.Number past int64) so large
// ids survive extraction and substitution unchanged.
func DecodeJSON(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformedJSON
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return convertNumbers(v), nil
}

func convertNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		return number(val)
	case map[string]any:
		for k, item := range val {
			val[k] = convertNumbers(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = convertNumbers(item)
		}
		return val
	default:
		return v
	}
}

func number(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		if i > -maxExactInt && i < maxExactInt {
			return float64(i)
		}
		return i
	}
	if !strings.ContainsAny(n.String(), ".eE") {
		return n
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n
}
