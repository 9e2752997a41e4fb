package http

import (
	"fmt"
	"net/url"
)

// RequestSpec is the request half of a test case definition.
type RequestSpec struct {
	Method  string            `yaml:"method" json:"method"`
	URL     string            `yaml:"url" json:"url"`
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Params  map[string]any    `yaml:"params,omitempty" json:"params,omitempty"`
	Body    any               `yaml:"body,omitempty" json:"body,omitempty"`
}

// Substitute returns a deep copy of the request with resolve applied to every
// string field: URL, header values, param values and body values at any depth.
// Map keys are left as written.
func (r *RequestSpec) Substitute(resolve func(string) string) *RequestSpec {
	out := &RequestSpec{
		Method: r.Method,
		URL:    resolve(r.URL),
	}
	if r.Headers != nil {
		out.Headers = make(map[string]string, len(r.Headers))
		for k, v := range r.Headers {
			out.Headers[k] = resolve(v)
		}
	}
	if r.Params != nil {
		out.Params = make(map[string]any, len(r.Params))
		for k, v := range r.Params {
			out.Params[k] = SubstituteValue(v, resolve)
		}
	}
	out.Body = SubstituteValue(r.Body, resolve)
	return out
}

// SubstituteValue applies resolve to every string reachable from v.
func SubstituteValue(v any, resolve func(string) string) any {
	switch val := v.(type) {
	case string:
		return resolve(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = SubstituteValue(item, resolve)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(val))
		for k, item := range val {
			out[k] = resolve(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = SubstituteValue(item, resolve)
		}
		return out
	case []string:
		out := make([]string, len(val))
		for i, item := range val {
			out[i] = resolve(item)
		}
		return out
	default:
		return v
	}
}

// BuildURL appends Params to URL as a query string.
func (r *RequestSpec) BuildURL() string {
	if len(r.Params) == 0 {
		return r.URL
	}

	u, err := url.Parse(r.URL)
	if err != nil {
		return r.URL
	}

	q := u.Query()
	for k, v := range r.Params {
		q.Set(k, stringify(v))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
