package http

import (
	"mime"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Response is an already received HTTP response.
type Response struct {
	StatusCode int
	Status     string
	URL        string
	Encoding   string
	Headers    map[string]string
	Cookies    map[string]string
	Body       []byte
	Duration   time.Duration
}

// OK reports whether the status code is below 400.
func (r *Response) OK() bool {
	return r.StatusCode < 400
}

func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the body with DecodeJSON.
func (r *Response) JSON() (any, error) {
	return DecodeJSON(r.Body)
}

func (r *Response) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

// IsJSON reports whether the body is a JSON document, either by declared
// content type or by its bytes.
func (r *Response) IsJSON() bool {
	if strings.Contains(r.ContentType(), "json") {
		return true
	}
	return len(r.Body) > 0 && gjson.ValidBytes(r.Body)
}

// Charset returns Encoding when set, otherwise the charset parameter of the
// Content-Type header.
func (r *Response) Charset() string {
	if r.Encoding != "" {
		return r.Encoding
	}
	ct := r.ContentType()
	if ct == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return params["charset"]
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
