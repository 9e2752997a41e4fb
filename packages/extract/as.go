package extract

import (
	"fmt"

	"github.com/abdul-hamid-achik/yhspec/packages/http"
	"github.com/abdul-hamid-achik/yhspec/packages/ws"
)

// ExtractAs evaluates expr with the engine s regardless of the expression's
// shape. s is one of StrategyJSONPath, StrategyJMESPath or StrategyRegex.
//
// When the classifier already picks a compatible strategy for expr the
// result is exactly Extract's: "$.a" for JSONPath, a non-greedy pattern for
// regex, and a headers/cookies/body/content prefix for JMESPath. Otherwise
// JSONPath and JMESPath run over the decoded body and regex over the raw text.
func ExtractAs(carrier any, s Strategy, expr string) (Result, error) {
	kind, err := KindOf(carrier)
	if err != nil {
		return Result{}, wrap(expr, s, err)
	}
	if compatible(s, Classify(kind, expr)) {
		return Extract(carrier, expr)
	}

	switch s {
	case StrategyJSONPath, StrategyJMESPath:
		doc, err := document(carrier)
		if err != nil {
			return Result{}, wrap(expr, s, err)
		}
		if s == StrategyJSONPath {
			return JSONPath(doc, expr)
		}
		return JMESPath(doc, expr)
	case StrategyRegex:
		text, err := text(carrier)
		if err != nil {
			return Result{}, wrap(expr, s, err)
		}
		return Regex(text, expr)
	default:
		return Result{}, wrap(expr, s, fmt.Errorf("%w: %s", ErrUnsupportedStrategy, s))
	}
}

func compatible(requested, classified Strategy) bool {
	switch requested {
	case StrategyJMESPath:
		return classified == StrategyMeta || classified == StrategyBody
	case StrategyJSONPath, StrategyRegex:
		return classified == requested
	default:
		return false
	}
}

// document is the decoded body of carrier.
func document(carrier any) (any, error) {
	switch c := carrier.(type) {
	case *http.Response:
		if c == nil {
			c = &http.Response{}
		}
		return httpBody(c)
	case ws.Message:
		return decode(c.Recv)
	case *ws.Message:
		if c == nil {
			return decode("")
		}
		return decode(c.Recv)
	case RawJSON:
		return c.Value, nil
	case *RawJSON:
		if c == nil {
			return nil, nil
		}
		return c.Value, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedCarrier, carrier)
	}
}

// text is the raw text regex expressions scan.
func text(carrier any) (string, error) {
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
	case RawJSON:
		return rawText(c.Value)
	case *RawJSON:
		if c == nil {
			return "", nil
		}
		return rawText(c.Value)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedCarrier, carrier)
	}
}
