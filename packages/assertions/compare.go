package assertions

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xeipuuv/gojsonschema"
)

func equals(actual, expected any) (bool, string) {
	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	// Integers compare exactly so ids past 2^53 do not collapse together.
	actualInt, aInt := toInt64(actual)
	expectedInt, eInt := toInt64(expected)
	if aInt && eInt {
		if actualInt == expectedInt {
			return true, ""
		}
		return false, fmt.Sprintf("expected %v, got %v", expected, actual)
	}

	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)
	if aOk && eOk && actualNum == expectedNum {
		return true, ""
	}

	if actual != nil && expected != nil && fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

func compareNumeric(actual, expected any, op string) (bool, string) {
	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)

	if !aOk || !eOk {
		return false, fmt.Sprintf("cannot compare non-numeric values: %v %s %v", actual, op, expected)
	}

	var passed bool
	switch op {
	case "<":
		passed = actualNum < expectedNum
	case "<=":
		passed = actualNum <= expectedNum
	case ">":
		passed = actualNum > expectedNum
	case ">=":
		passed = actualNum >= expectedNum
	}

	if passed {
		return true, ""
	}
	return false, fmt.Sprintf("expected %v %s %v", actual, op, expected)
}

// contains is substring for strings, membership for lists and key presence
// for objects.
func contains(actual, expected any) (bool, string) {
	switch v := actual.(type) {
	case nil:
		return false, fmt.Sprintf("expected value to contain '%v', got null", expected)
	case string:
		if strings.Contains(v, fmt.Sprintf("%v", expected)) {
			return true, ""
		}
	case []any:
		for _, item := range v {
			if passed, _ := equals(item, expected); passed {
				return true, ""
			}
		}
		return false, fmt.Sprintf("expected list to contain %v", expected)
	case map[string]any:
		if _, ok := v[fmt.Sprintf("%v", expected)]; ok {
			return true, ""
		}
		return false, fmt.Sprintf("expected object to have key '%v'", expected)
	default:
		if strings.Contains(fmt.Sprintf("%v", actual), fmt.Sprintf("%v", expected)) {
			return true, ""
		}
	}
	return false, fmt.Sprintf("expected '%v' to contain '%v'", actual, expected)
}

// computeLength returns the length of a value, or -1 if length cannot be computed.
// Strings are measured in characters.
func computeLength(actual any) int {
	switch v := actual.(type) {
	case nil:
		return -1
	case string:
		return utf8.RuneCountInString(v)
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	default:
		rv := reflect.ValueOf(actual)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return rv.Len()
		case reflect.String:
			return utf8.RuneCountInString(rv.String())
		default:
			return -1
		}
	}
}

func length(actual, expected any) (bool, string) {
	expectedLen, ok := toInt(expected)
	if !ok {
		return false, fmt.Sprintf("expected length must be a number, got %v", expected)
	}

	actualLen := computeLength(actual)
	if actualLen == -1 {
		return false, fmt.Sprintf("cannot get length of %T", actual)
	}

	if actualLen == expectedLen {
		return true, ""
	}
	return false, fmt.Sprintf("expected length %d, got %d", expectedLen, actualLen)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f, true
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// toInt64 reports v as an integer when it is one exactly. Strings are not
// integers here; equals falls back to the float and text comparisons.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	return 0, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
	}
	return 0, false
}

// validatePathWithinBase checks that the resolved path stays within the base directory.
func validatePathWithinBase(path, baseDir string) error {
	if baseDir == "" {
		return nil
	}

	cleanBase, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %v", err)
	}

	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %v", err)
	}

	if !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) && cleanPath != cleanBase {
		return fmt.Errorf("path traversal detected: %s is outside allowed directory %s", path, baseDir)
	}

	return nil
}

// schemaLoader accepts an inline schema (a decoded map or a JSON string) or
// a path to a schema file relative to the schema directory.
func (e *Evaluator) schemaLoader(schema any) (gojsonschema.JSONLoader, error) {
	switch s := schema.(type) {
	case nil:
		return nil, fmt.Errorf("%w: no schema given", ErrInvalidSchema)
	case string:
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "{") {
			return gojsonschema.NewStringLoader(trimmed), nil
		}

		schemaPath := trimmed
		if !filepath.IsAbs(schemaPath) && e.schemaDir != "" {
			schemaPath = filepath.Join(e.schemaDir, schemaPath)
		}
		if err := validatePathWithinBase(schemaPath, e.schemaDir); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
		}
		data, err := os.ReadFile(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read schema file: %v", ErrInvalidSchema, err)
		}
		return gojsonschema.NewBytesLoader(data), nil
	default:
		return gojsonschema.NewGoLoader(s), nil
	}
}

func (e *Evaluator) schema(actual, schema any) (bool, string, error) {
	schemaLoader, err := e.schemaLoader(schema)
	if err != nil {
		return false, "", err
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(actual))
	if err != nil {
		return false, "", fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	if result.Valid() {
		return true, "", nil
	}

	var errors []string
	for _, desc := range result.Errors() {
		errors = append(errors, desc.String())
	}
	return false, fmt.Sprintf("schema validation failed: %s", strings.Join(errors, "; ")), nil
}
