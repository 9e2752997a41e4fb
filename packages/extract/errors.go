package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidJSON marks a body that had to be parsed as JSON and was not.
	ErrInvalidJSON = errors.New("response is not valid JSON")

	// ErrUnsupportedCarrier is returned for a carrier of an unknown type.
	ErrUnsupportedCarrier = errors.New("unsupported response carrier")

	// ErrUnsupportedStrategy is returned by ExtractAs for a strategy that
	// is not an engine.
	ErrUnsupportedStrategy = errors.New("strategy cannot be requested explicitly")
)

// ExtractionError reports a broken expression or an unparsable body. A value
// that is simply not there is never an ExtractionError.
type ExtractionError struct {
	Expression string
	Strategy   Strategy
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s <%s>: %v", e.Strategy, e.Expression, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// wrap attaches the expression to an engine error. Errors that already are
// an ExtractionError pass through unchanged.
func wrap(expr string, s Strategy, err error) error {
	if err == nil {
		return nil
	}
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return err
	}
	return &ExtractionError{Expression: expr, Strategy: s, Err: err}
}
