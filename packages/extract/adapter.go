package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/yhspec/packages/http"
	"github.com/abdul-hamid-achik/yhspec/packages/ws"
)

// RawJSON is a carrier for an already decoded JSON document.
type RawJSON struct {
	Value any
}

// KindOf reports the carrier kind of c.
func KindOf(c any) (CarrierKind, error) {
	switch c.(type) {
	case *http.Response:
		return KindHTTP, nil
	case ws.Message, *ws.Message:
		return KindSocket, nil
	case RawJSON, *RawJSON:
		return KindJSON, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedCarrier, c)
	}
}

func attribute(resp *http.Response, name string) any {
	switch name {
	case "status_code":
		return resp.StatusCode
	case "url":
		return resp.URL
	case "ok":
		return resp.OK()
	case "encoding":
		return resp.Charset()
	case "text":
		return resp.Text()
	default:
		return nil
	}
}

// meta is the document headers/cookies expressions are evaluated against.
// Header names match case-insensitively: headers.server finds "Server".
func meta(resp *http.Response) map[string]any {
	return map[string]any{
		"headers": foldedMap(resp.Headers),
		"cookies": stringMap(resp.Cookies),
	}
}

// foldedMap is m plus a lower-cased alias of every key that lacks one.
// Keys as written win over aliases.
func foldedMap(m map[string]string) map[string]any {
	out := stringMap(m)
	for k, v := range m {
		lower := strings.ToLower(k)
		if _, ok := out[lower]; !ok {
			out[lower] = v
		}
	}
	return out
}

func stringMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func httpBody(resp *http.Response) (any, error) {
	v, err := resp.JSON()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return v, nil
}

func decode(text string) (any, error) {
	v, err := http.DecodeJSON([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return v, nil
}

func wrapBody(v any) map[string]any {
	return map[string]any{"body": v}
}

// rawText is the text regex expressions scan on a RawJSON carrier.
func rawText(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
