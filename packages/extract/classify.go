package extract

import (
	"fmt"
	"strings"
)

// Strategy names how an expression is evaluated.
type Strategy int

const (
	StrategyLiteral Strategy = iota
	StrategyAttribute
	StrategyStatus
	StrategyRecv
	StrategyMeta
	StrategyBody
	StrategyJSONPath
	StrategyRegex
	// StrategyJMESPath is JMESPath over the bare decoded body. No rule table
	// selects it; ExtractAs does.
	StrategyJMESPath
)

var strategyNames = map[Strategy]string{
	StrategyLiteral:   "literal",
	StrategyAttribute: "attribute",
	StrategyStatus:    "status",
	StrategyRecv:      "recv",
	StrategyMeta:      "jmespath(meta)",
	StrategyBody:      "jmespath(body)",
	StrategyJSONPath:  "jsonpath",
	StrategyRegex:     "regex",
	StrategyJMESPath:  "jmespath",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// CarrierKind tags the response shape an expression runs against.
type CarrierKind int

const (
	KindHTTP CarrierKind = iota
	KindSocket
	KindJSON
)

func (k CarrierKind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindSocket:
		return "socket"
	case KindJSON:
		return "json"
	default:
		return fmt.Sprintf("CarrierKind(%d)", int(k))
	}
}

// Rule is one entry of a precedence table. The first rule whose Match
// returns true decides the strategy.
type Rule struct {
	Name     string
	Strategy Strategy
	Match    func(expr string) bool
}

var httpAttributes = []string{"status_code", "url", "ok", "encoding", "text"}

// httpRules is the precedence for *http.Response. "body substring" can only
// fire for expressions like "xbody.y": every "body"/"content" prefix is
// already taken by "body prefix".
var httpRules = []Rule{
	{Name: "attribute", Strategy: StrategyAttribute, Match: oneOf(httpAttributes...)},
	{Name: "headers/cookies", Strategy: StrategyMeta, Match: hasPrefix("headers", "cookies")},
	{Name: "body prefix", Strategy: StrategyBody, Match: hasPrefix("body", "content")},
	{Name: "jsonpath", Strategy: StrategyJSONPath, Match: hasPrefix("$.")},
	{Name: "non-greedy regex", Strategy: StrategyRegex, Match: isNonGreedyRegex},
	{Name: "body substring", Strategy: StrategyBody, Match: containsAny("body.", "content.")},
}

var socketRules = []Rule{
	{Name: "status", Strategy: StrategyStatus, Match: oneOf("status_code", "status", "getstatus")},
	{Name: "recv", Strategy: StrategyRecv, Match: oneOf("text", "body")},
	{Name: "jsonpath", Strategy: StrategyJSONPath, Match: hasPrefix("$.")},
	{Name: "non-greedy regex", Strategy: StrategyRegex, Match: isNonGreedyRegex},
	{Name: "body substring", Strategy: StrategyBody, Match: containsAny("body.", "content.")},
}

var jsonRules = []Rule{
	{Name: "jsonpath", Strategy: StrategyJSONPath, Match: hasPrefix("$.")},
	{Name: "non-greedy regex", Strategy: StrategyRegex, Match: isNonGreedyRegex},
	{Name: "body substring", Strategy: StrategyBody, Match: containsAny("body.", "content.")},
}

func rulesFor(kind CarrierKind) []Rule {
	switch kind {
	case KindHTTP:
		return httpRules
	case KindSocket:
		return socketRules
	case KindJSON:
		return jsonRules
	default:
		return nil
	}
}

// Rules returns a copy of the precedence table for kind.
func Rules(kind CarrierKind) []Rule {
	rules := rulesFor(kind)
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify returns the strategy of the first matching rule, or
// StrategyLiteral when none matches.
func Classify(kind CarrierKind, expr string) Strategy {
	for _, r := range rulesFor(kind) {
		if r.Match(expr) {
			return r.Strategy
		}
	}
	return StrategyLiteral
}

func oneOf(values ...string) func(string) bool {
	return func(expr string) bool {
		for _, v := range values {
			if expr == v {
				return true
			}
		}
		return false
	}
}

func hasPrefix(prefixes ...string) func(string) bool {
	return func(expr string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(expr, p) {
				return true
			}
		}
		return false
	}
}

func containsAny(subs ...string) func(string) bool {
	return func(expr string) bool {
		for _, s := range subs {
			if strings.Contains(expr, s) {
				return true
			}
		}
		return false
	}
}

func isNonGreedyRegex(expr string) bool {
	return strings.Contains(expr, ".+?") || strings.Contains(expr, ".*?")
}
