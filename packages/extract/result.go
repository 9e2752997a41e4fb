package extract

import (
	"encoding/json"
	"fmt"
)

// ResultKind tells an empty extraction from a single value and a list.
type ResultKind int

const (
	Absent ResultKind = iota
	Scalar
	List
)

func (k ResultKind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Scalar:
		return "scalar"
	case List:
		return "list"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Result is the outcome of one extraction. Value is nil for Absent and a
// []any for List.
type Result struct {
	Kind     ResultKind
	Value    any
	Strategy Strategy
}

// Found reports whether the extraction matched anything.
func (r Result) Found() bool {
	return r.Kind != Absent
}

// MarshalJSON renders the result as {"kind", "strategy", "value"}.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     string `json:"kind"`
		Strategy string `json:"strategy"`
		Value    any    `json:"value"`
	}{r.Kind.String(), r.Strategy.String(), r.Value})
}

func absent(s Strategy) Result {
	return Result{Kind: Absent, Strategy: s}
}

func scalar(s Strategy, v any) Result {
	return Result{Kind: Scalar, Value: v, Strategy: s}
}

// collapse applies the match-count rule shared by JSONPath and regex: one
// match is a bare scalar, several stay a list. Zero matches are handled by
// the caller because the engines disagree on what "nothing" is.
func collapse(s Strategy, matches []any) Result {
	if len(matches) == 1 {
		return scalar(s, matches[0])
	}
	return Result{Kind: List, Value: matches, Strategy: s}
}

// fromValue classifies a value returned as-is by an engine.
func fromValue(s Strategy, v any) Result {
	switch val := v.(type) {
	case nil:
		return absent(s)
	case []any:
		return Result{Kind: List, Value: val, Strategy: s}
	default:
		return scalar(s, v)
	}
}
