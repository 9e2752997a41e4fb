package extract

import (
	"regexp"

	"github.com/jmespath/go-jmespath"
	"github.com/ohler55/ojg/jp"
)

// JSONPath evaluates a JSONPath expression against a decoded document.
// No match is Absent, one match a Scalar, several a List in document order.
func JSONPath(doc any, expr string) (Result, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return Result{}, wrap(expr, StrategyJSONPath, err)
	}
	matches := x.Get(doc)
	if len(matches) == 0 {
		return absent(StrategyJSONPath), nil
	}
	return collapse(StrategyJSONPath, matches), nil
}

// JMESPath evaluates a JMESPath query against a decoded document. A query
// that selects nothing yields Absent; only a malformed query is an error.
func JMESPath(doc any, expr string) (Result, error) {
	return jmesPath(doc, expr, StrategyJMESPath)
}

func jmesPath(doc any, expr string, s Strategy) (Result, error) {
	compiled, err := jmespath.Compile(expr)
	if err != nil {
		quoted := quoteHyphenated(expr)
		if quoted == expr {
			return Result{}, wrap(expr, s, err)
		}
		compiled, err = jmespath.Compile(quoted)
		if err != nil {
			return Result{}, wrap(expr, s, err)
		}
	}
	v, err := compiled.Search(doc)
	if err != nil {
		return Result{}, wrap(expr, s, err)
	}
	return fromValue(s, v), nil
}

var hyphenatedField = regexp.MustCompile(`(^|\.)([A-Za-z_][A-Za-z0-9_]*(?:-[A-Za-z0-9_]+)+)`)

// quoteHyphenated turns headers.Content-Type into headers."Content-Type" so
// header names can be written the way they appear on the wire.
func quoteHyphenated(expr string) string {
	return hyphenatedField.ReplaceAllString(expr, `$1"$2"`)
}

// Regex runs findall over text with dot matching newlines. No match yields
// the empty string, not Absent. Patterns without groups return whole matches,
// a single group returns that group, several groups return one []any of
// group texts per match.
func Regex(text, expr string) (Result, error) {
	re, err := regexp.Compile("(?s)" + expr)
	if err != nil {
		return Result{}, wrap(expr, StrategyRegex, err)
	}
	found := re.FindAllStringSubmatch(text, -1)
	if len(found) == 0 {
		return scalar(StrategyRegex, ""), nil
	}

	groups := re.NumSubexp()
	matches := make([]any, len(found))
	for i, m := range found {
		switch groups {
		case 0:
			matches[i] = m[0]
		case 1:
			matches[i] = m[1]
		default:
			parts := make([]any, groups)
			for g := 1; g <= groups; g++ {
				parts[g-1] = m[g]
			}
			matches[i] = parts
		}
	}
	return collapse(StrategyRegex, matches), nil
}
