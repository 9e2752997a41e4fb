package assertions

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/yhspec/packages/extract"
	"github.com/abdul-hamid-achik/yhspec/packages/http"
	"github.com/abdul-hamid-achik/yhspec/packages/ws"
)

// Resolver substitutes bound variables into assertion paths and expected values.
type Resolver interface {
	Resolve(input string) string
}

type Evaluator struct {
	carrier   any
	resolver  Resolver
	schemaDir string // Base directory for resolving schema file paths
	now       func() time.Time
}

// EvaluatorOption is a functional option for configuring an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithResolver substitutes variables into paths and string expected values
// before each evaluation.
func WithResolver(r Resolver) EvaluatorOption {
	return func(e *Evaluator) {
		e.resolver = r
	}
}

// WithSchemaDir sets the directory schema file paths are relative to.
func WithSchemaDir(dir string) EvaluatorOption {
	return func(e *Evaluator) {
		e.schemaDir = dir
	}
}

// WithClock overrides the clock used to stamp outcomes.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.now = now
	}
}

func NewEvaluator(carrier any, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		carrier: carrier,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate checks one assertion. A mismatch yields a failed Outcome and a nil
// error; an error means the assertion could not be evaluated.
func (e *Evaluator) Evaluate(spec *Spec) (*Outcome, error) {
	path := e.resolve(spec.Path)
	expected := http.SubstituteValue(spec.Expected, e.resolve)

	outcome := &Outcome{
		Type:       spec.Type,
		Expression: spec.Expression(),
		Expected:   expected,
	}
	if path != "" {
		outcome.Expression = path
	}

	var (
		actual  any
		passed  bool
		message string
		err     error
	)

	switch spec.Type {
	case TypeStatusCode:
		actual, err = statusOf(e.carrier)
		if err == nil {
			passed, message = equals(actual, expected)
		}

	case TypeResponseTime:
		actual, err = durationOf(e.carrier)
		if err == nil {
			passed, message = compareNumeric(actual, expected, "<=")
		}

	case TypeJSONPath, TypeJMESPath, TypeRegex:
		if path == "" {
			return nil, fmt.Errorf("%s: %w", spec.Type, ErrMissingPath)
		}
		actual, err = e.extractedAs(engines[spec.Type], path)
		if err == nil {
			passed, message = equals(actual, expected)
		}

	case TypeContains:
		actual, err = e.subject(path, bodyText)
		if err == nil {
			passed, message = contains(actual, expected)
		}

	case TypeEquals:
		actual, err = e.subject(path, bodyDocument)
		if err == nil {
			passed, message = equals(actual, expected)
		}

	case TypeLengthEquals:
		var value any
		value, err = e.subject(path, bodyDocument)
		if err == nil {
			actual = computeLength(value)
			passed, message = length(value, expected)
		}

	case TypeJSONSchema:
		actual, err = e.subject(path, strictDocument)
		if err == nil {
			schema := spec.Schema
			if schema == nil {
				schema = expected
			}
			passed, message, err = e.schema(actual, schema)
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, spec.Type)
	}

	if err != nil {
		return nil, err
	}

	outcome.Actual = actual
	outcome.Passed = passed
	outcome.Message = message
	outcome.Timestamp = e.now()
	return outcome, nil
}

func (e *Evaluator) resolve(s string) string {
	if e.resolver == nil {
		return s
	}
	return e.resolver.Resolve(s)
}

func (e *Evaluator) extracted(path string) (any, error) {
	res, err := extract.Extract(e.carrier, path)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// engines maps the path assertion types to the engine their path runs on.
var engines = map[Type]extract.Strategy{
	TypeJSONPath: extract.StrategyJSONPath,
	TypeJMESPath: extract.StrategyJMESPath,
	TypeRegex:    extract.StrategyRegex,
}

// extractedAs runs path on the engine the assertion type names, whatever
// the path looks like.
func (e *Evaluator) extractedAs(s extract.Strategy, path string) (any, error) {
	res, err := extract.ExtractAs(e.carrier, s, path)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// subject is the value an assertion without a path operates on.
func (e *Evaluator) subject(path string, fallback func(any) (any, error)) (any, error) {
	if path != "" {
		return e.extracted(path)
	}
	return fallback(e.carrier)
}

func statusOf(carrier any) (int, error) {
	switch c := carrier.(type) {
	case *http.Response:
		if c == nil {
			return 0, nil
		}
		return c.StatusCode, nil
	case ws.Message:
		return c.Status, nil
	case *ws.Message:
		if c == nil {
			return 0, nil
		}
		return c.Status, nil
	default:
		return 0, fmt.Errorf("status_code: %w: %T", extract.ErrUnsupportedCarrier, carrier)
	}
}

func durationOf(carrier any) (int64, error) {
	if r, ok := carrier.(*http.Response); ok && r != nil {
		return r.DurationMs(), nil
	}
	return 0, fmt.Errorf("response_time: %w (%T)", ErrNoTiming, carrier)
}

func bodyText(carrier any) (any, error) {
	switch c := carrier.(type) {
	case *http.Response:
		if c == nil {
			return "", nil
		}
		return c.Text(), nil
	case ws.Message:
		return c.Recv, nil
	case *ws.Message:
		if c == nil {
			return "", nil
		}
		return c.Recv, nil
	case extract.RawJSON:
		return compactText(c.Value)
	case *extract.RawJSON:
		if c == nil {
			return "", nil
		}
		return compactText(c.Value)
	default:
		return nil, fmt.Errorf("%w: %T", extract.ErrUnsupportedCarrier, carrier)
	}
}

func compactText(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// bodyDocument is the decoded body, or the raw text when the body is not JSON.
func bodyDocument(carrier any) (any, error) {
	doc, err := strictDocument(carrier)
	if err == nil {
		return doc, nil
	}
	var extractionErr *extract.ExtractionError
	if errors.As(err, &extractionErr) {
		return bodyText(carrier)
	}
	return nil, err
}

func strictDocument(carrier any) (any, error) {
	var (
		doc any
		err error
	)
	switch c := carrier.(type) {
	case *http.Response:
		if c == nil {
			c = &http.Response{}
		}
		doc, err = c.JSON()
	case ws.Message:
		doc, err = c.JSON()
	case *ws.Message:
		if c == nil {
			return nil, nil
		}
		doc, err = c.JSON()
	case extract.RawJSON:
		return c.Value, nil
	case *extract.RawJSON:
		if c == nil {
			return nil, nil
		}
		return c.Value, nil
	default:
		return nil, fmt.Errorf("%w: %T", extract.ErrUnsupportedCarrier, carrier)
	}
	if err != nil {
		return nil, &extract.ExtractionError{
			Expression: "body",
			Strategy:   extract.StrategyBody,
			Err:        fmt.Errorf("%w: %v", extract.ErrInvalidJSON, err),
		}
	}
	return doc, nil
}

// EvaluateAll evaluates specs in order against one carrier. It stops at the
// first assertion that cannot be evaluated and returns the outcomes so far.
func EvaluateAll(carrier any, specs []*Spec, opts ...EvaluatorOption) ([]*Outcome, error) {
	evaluator := NewEvaluator(carrier, opts...)
	outcomes := make([]*Outcome, 0, len(specs))
	for _, s := range specs {
		o, err := evaluator.Evaluate(s)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}
