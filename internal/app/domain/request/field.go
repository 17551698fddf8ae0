// Package request implements the declarative request-schema validation
// engine: typed field constraints composed into named schemas, and a
// fail-fast builder turning raw JSON-decoded maps into validated request
// instances.
package request

import (
	"errors"
	"fmt"
)

// Kind is the type tag a field constraint checks raw values against.
// Raw values come from encoding/json decoding into map[string]any, so
// numbers arrive as float64; integer kinds accept only integral ones.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindStringOrInt
	KindObject
	KindIntList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindStringOrInt:
		return "string or int"
	case KindObject:
		return "object"
	case KindIntList:
		return "list of int"
	default:
		return "unknown"
	}
}

// CheckFunc is an optional format or business rule run after the type and
// emptiness checks. It receives the coerced value.
type CheckFunc func(v any) error

// Field is a single named validation constraint. Required=false means
// absence is valid; Nullable=false means a present-but-empty value is
// rejected.
type Field struct {
	Name     string
	Required bool
	Nullable bool
	Kind     Kind
	Check    CheckFunc
}

var (
	errRequired = errors.New("field is required")
	errEmpty    = errors.New("can not be empty")
)

// Validate runs the constraint against a raw value. The checks run in a
// fixed order so error messages stay deterministic: absence, type tag,
// emptiness, format rule. The returned value is the coerced form stored in
// the request instance; absent optional fields yield nil.
func (f Field) Validate(raw any, present bool) (any, error) {
	if !present {
		if f.Required {
			return nil, errRequired
		}
		return nil, nil
	}

	v, ok := coerce(f.Kind, raw)
	if !ok {
		return nil, fmt.Errorf("must be %s", f.Kind)
	}

	if !f.Nullable && isEmpty(v) {
		return nil, errEmpty
	}

	if f.Check != nil {
		if err := f.Check(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// coerce normalizes a raw JSON value to the canonical form for the kind:
// string, int64, map[string]any or []any.
func coerce(k Kind, raw any) (any, bool) {
	switch k {
	case KindString:
		s, ok := raw.(string)
		return s, ok
	case KindInt:
		return coerceInt(raw)
	case KindStringOrInt:
		if s, ok := raw.(string); ok {
			return s, true
		}
		return coerceInt(raw)
	case KindObject:
		m, ok := raw.(map[string]any)
		return m, ok
	case KindIntList:
		l, ok := raw.([]any)
		return l, ok
	default:
		return nil, false
	}
}

func coerceInt(raw any) (any, bool) {
	switch n := raw.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != float64(int64(n)) {
			return nil, false
		}
		return int64(n), true
	default:
		return nil, false
	}
}

// isEmpty reports whether a coerced value is empty in the per-kind sense:
// empty string, empty list, empty map, or numeric zero.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case int64:
		return t == 0
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return v == nil
	}
}
