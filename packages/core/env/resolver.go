package env

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/abdul-hamid-achik/yhspec/packages/builtin"
	"github.com/abdul-hamid-achik/yhspec/packages/http"
	"github.com/tidwall/gjson"
)

var variablePattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// WarnFunc is a function type for handling warnings
type WarnFunc func(format string, args ...any)

// Resolver is the variable store of one run. Seeded variables and captured
// (extracted) values live in separate maps; captures win on lookup. All
// methods are safe for concurrent use.
type Resolver struct {
	mu        sync.RWMutex
	variables map[string]any
	captures  map[string]any
	funcs     *builtin.Registry
	warnFunc  WarnFunc
}

func NewResolver() *Resolver {
	return &Resolver{
		variables: make(map[string]any),
		captures:  make(map[string]any),
		funcs:     builtin.NewRegistry(),
	}
}

// SetWarnFunc sets a function to be called when a placeholder cannot be resolved.
func (r *Resolver) SetWarnFunc(fn WarnFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnFunc = fn
}

func (r *Resolver) warn(format string, args ...any) {
	r.mu.RLock()
	fn := r.warnFunc
	r.mu.RUnlock()
	if fn != nil {
		fn(format, args...)
	}
}

func (r *Resolver) SetVariables(vars map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range vars {
		r.variables[k] = v
	}
}

func (r *Resolver) SetVariable(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variables[name] = value
}

// Bind stores an extracted value under name.
func (r *Resolver) Bind(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captures[name] = value
}

// SetCapture binds value under both name and scope.name, so a later case can
// refer to ${login.token} as well as ${token}.
func (r *Resolver) SetCapture(scope, name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captures[name] = value
	if scope != "" {
		r.captures[scope+"."+name] = value
	}
}

func (r *Resolver) GetCapture(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.captures[name]
	return v, ok
}

// Resolve replaces every ${...} placeholder in input. Unresolvable
// placeholders are left exactly as written.
func (r *Resolver) Resolve(input string) string {
	if !strings.Contains(input, "${") {
		return input
	}
	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-1])
		if val, ok := r.resolveExpr(expr); ok {
			return val
		}
		if strings.Contains(expr, "(") {
			r.warn("unresolved function call: %s", expr)
		} else {
			r.warn("unresolved variable: %s", expr)
		}
		return match
	})
}

func (r *Resolver) resolveExpr(expr string) (string, bool) {
	if strings.Contains(expr, "(") {
		if result, ok := r.funcs.Call(expr); ok {
			return Stringify(result), true
		}
		return "", false
	}
	v, ok := r.lookup(expr)
	if !ok {
		return "", false
	}
	return Stringify(v), true
}

// lookup finds name exactly, then tries every split point from the right so
// that ${login.user.id} finds a capture named "login.user" before "login".
func (r *Resolver) lookup(name string) (any, bool) {
	if v, ok := r.GetVariable(name); ok {
		return v, true
	}

	for i := len(name) - 1; i > 0; i-- {
		if name[i] != '.' && name[i] != '[' {
			continue
		}
		root, ok := r.GetVariable(name[:i])
		if !ok {
			continue
		}
		path := strings.TrimPrefix(name[i:], ".")
		if v, ok := lookupPath(root, path); ok {
			return v, true
		}
	}
	return nil, false
}

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// lookupPath reads path out of a structured value using gjson syntax.
// Bracket indexes are converted: items[0].id -> items.0.id
func lookupPath(root any, path string) (any, bool) {
	switch root.(type) {
	case map[string]any, []any, map[string]string, []string:
	default:
		return nil, false
	}
	data, err := json.Marshal(root)
	if err != nil {
		return nil, false
	}
	path = strings.TrimPrefix(bracketIndex.ReplaceAllString(path, ".$1"), ".")
	result := gjson.GetBytes(data, path)
	if !result.Exists() {
		return nil, false
	}
	if result.Type == gjson.Number {
		if v, err := http.DecodeJSON([]byte(result.Raw)); err == nil {
			return v, true
		}
	}
	return result.Value(), true
}

// Stringify renders a bound value for substitution. Structured values
// render as compact JSON.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case map[string]any, []any, map[string]string, []string:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (r *Resolver) HasVariable(name string) bool {
	_, ok := r.GetVariable(name)
	return ok
}

func (r *Resolver) GetVariable(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.captures[name]; ok {
		return v, true
	}
	if v, ok := r.variables[name]; ok {
		return v, true
	}
	return nil, false
}

// HasUnresolvedVariables reports whether Resolve would leave any placeholder
// of input in place.
func (r *Resolver) HasUnresolvedVariables(input string) bool {
	return len(r.GetUnresolvedVariables(input)) > 0
}

// GetUnresolvedVariables returns the placeholder expressions of input that
// cannot be resolved, in order of appearance.
func (r *Resolver) GetUnresolvedVariables(input string) []string {
	var unresolved []string
	for _, m := range variablePattern.FindAllStringSubmatch(input, -1) {
		expr := strings.TrimSpace(m[1])
		if _, ok := r.resolveExpr(expr); !ok {
			unresolved = append(unresolved, expr)
		}
	}
	return unresolved
}

// Snapshot returns a copy of every bound name, captures overriding variables.
func (r *Resolver) Snapshot() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.variables)+len(r.captures))
	for k, v := range r.variables {
		out[k] = v
	}
	for k, v := range r.captures {
		out[k] = v
	}
	return out
}
