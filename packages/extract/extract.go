package extract

import (
	"github.com/abdul-hamid-achik/yhspec/packages/http"
	"github.com/abdul-hamid-achik/yhspec/packages/ws"
)

// Extract evaluates expression against any supported carrier. A non-string
// expression is a literal and is returned unchanged.
func Extract(carrier any, expression any) (Result, error) {
	switch c := carrier.(type) {
	case RawJSON:
		return ExtractByJSON(c.Value, expression)
	case *RawJSON:
		if c == nil {
			return ExtractByJSON(nil, expression)
		}
		return ExtractByJSON(c.Value, expression)
	default:
		return ExtractByObject(carrier, expression)
	}
}

// ExtractByObject evaluates expression against an *http.Response. Socket
// messages reach the same call sites and are handed to ExtractByWS.
func ExtractByObject(resp any, expression any) (Result, error) {
	expr, ok := expression.(string)
	if !ok {
		return scalar(StrategyLiteral, expression), nil
	}

	var r *http.Response
	switch c := resp.(type) {
	case ws.Message:
		return ExtractByWS(c, expression)
	case *ws.Message:
		if c == nil {
			return ExtractByWS(ws.Message{}, expression)
		}
		return ExtractByWS(*c, expression)
	case *http.Response:
		r = c
	default:
		_, err := KindOf(resp)
		return Result{}, wrap(expr, StrategyLiteral, err)
	}
	if r == nil {
		r = &http.Response{}
	}

	s := Classify(KindHTTP, expr)
	switch s {
	case StrategyAttribute:
		return scalar(s, attribute(r, expr)), nil
	case StrategyMeta:
		return jmesPath(meta(r), expr, s)
	case StrategyBody:
		body, err := httpBody(r)
		if err != nil {
			return Result{}, wrap(expr, s, err)
		}
		return jmesPath(wrapBody(body), expr, s)
	case StrategyJSONPath:
		body, err := httpBody(r)
		if err != nil {
			return Result{}, wrap(expr, s, err)
		}
		return JSONPath(body, expr)
	case StrategyRegex:
		return Regex(r.Text(), expr)
	default:
		return scalar(StrategyLiteral, expr), nil
	}
}

// ExtractByWS evaluates expression against a socket message. There are no
// headers or cookies, and the raw text lives in Recv.
func ExtractByWS(msg ws.Message, expression any) (Result, error) {
	expr, ok := expression.(string)
	if !ok {
		return scalar(StrategyLiteral, expression), nil
	}

	s := Classify(KindSocket, expr)
	switch s {
	case StrategyStatus:
		return scalar(s, msg.Status), nil
	case StrategyRecv:
		return scalar(s, msg.Recv), nil
	case StrategyJSONPath:
		doc, err := decode(msg.Recv)
		if err != nil {
			return Result{}, wrap(expr, s, err)
		}
		return JSONPath(doc, expr)
	case StrategyRegex:
		return Regex(msg.Recv, expr)
	case StrategyBody:
		doc, err := decode(msg.Recv)
		if err != nil {
			return Result{}, wrap(expr, s, err)
		}
		return jmesPath(wrapBody(doc), expr, s)
	default:
		return scalar(StrategyLiteral, expr), nil
	}
}

// ExtractByJSON evaluates expression against a decoded document.
func ExtractByJSON(value any, expression any) (Result, error) {
	expr, ok := expression.(string)
	if !ok {
		return scalar(StrategyLiteral, expression), nil
	}

	s := Classify(KindJSON, expr)
	switch s {
	case StrategyJSONPath:
		return JSONPath(value, expr)
	case StrategyRegex:
		text, err := rawText(value)
		if err != nil {
			return Result{}, wrap(expr, s, err)
		}
		return Regex(text, expr)
	case StrategyBody:
		return jmesPath(wrapBody(value), expr, s)
	default:
		return scalar(StrategyLiteral, expr), nil
	}
}
