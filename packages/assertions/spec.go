package assertions

import (
	"errors"
	"time"
)

type Type string

const (
	TypeStatusCode   Type = "status_code"
	TypeJSONPath     Type = "json_path"
	TypeJMESPath     Type = "jmes_path"
	TypeRegex        Type = "regex"
	TypeResponseTime Type = "response_time"
	TypeContains     Type = "contains"
	TypeEquals       Type = "equals"
	TypeLengthEquals Type = "length_equals"
	TypeJSONSchema   Type = "json_schema"
)

var (
	ErrUnknownType   = errors.New("unknown assertion type")
	ErrMissingPath   = errors.New("assertion requires a path")
	ErrInvalidSchema = errors.New("invalid json schema")
	ErrNoTiming      = errors.New("carrier has no response time")
)

// Spec is one declared assertion of a test case.
type Spec struct {
	Type     Type   `yaml:"type" json:"type"`
	Path     string `yaml:"path,omitempty" json:"path,omitempty"`
	Expected any    `yaml:"expected,omitempty" json:"expected,omitempty"`
	Schema   any    `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Expression is the text recorded for the assertion in audit trails.
func (s *Spec) Expression() string {
	if s.Path != "" {
		return s.Path
	}
	return string(s.Type)
}

// Outcome is the audit record of one evaluated assertion.
type Outcome struct {
	Type       Type      `json:"type"`
	Expression string    `json:"expression"`
	Expected   any       `json:"expected"`
	Actual     any       `json:"actual"`
	Passed     bool      `json:"passed"`
	Message    string    `json:"message,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
