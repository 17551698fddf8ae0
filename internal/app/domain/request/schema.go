package request

import "fmt"

// Schema is an ordered set of field constraints describing one request
// shape. Schemas are defined once at process start and never mutated.
type Schema struct {
	name   string
	fields []Field
}

// NewSchema builds a schema from the given fields. Field names must be
// unique; a duplicate is a programming error and panics at init time.
func NewSchema(name string, fields ...Field) Schema {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			panic(fmt.Sprintf("schema %s: duplicate field %s", name, f.Name))
		}
		seen[f.Name] = true
	}
	return Schema{name: name, fields: fields}
}

// Name returns the schema's name.
func (s Schema) Name() string { return s.name }

// Instance is a validated request built from a schema: a mapping from field
// name to coerced value, immutable once built and owned by the call that
// built it.
type Instance struct {
	values  map[string]any
	present map[string]bool
}

// Build converts a raw key/value map into a validated instance. Fields are
// evaluated in declaration order and the first failure aborts immediately
// with an error of the form "<field>: <reason>"; no partial instance is
// ever returned. Identical malformed input therefore yields identical
// errors across runs.
func (s Schema) Build(raw map[string]any) (*Instance, error) {
	inst := &Instance{
		values:  make(map[string]any, len(s.fields)),
		present: make(map[string]bool, len(s.fields)),
	}

	for _, f := range s.fields {
		rawValue, ok := raw[f.Name]
		value, err := f.Validate(rawValue, ok)
		if err != nil {
			return nil, fmt.Errorf("%s: %s", f.Name, err)
		}
		inst.values[f.Name] = value
		if ok {
			inst.present[f.Name] = true
		}
	}
	return inst, nil
}

// Has reports whether the field was supplied in the raw input.
func (i *Instance) Has(name string) bool { return i.present[name] }

// Value returns the coerced value of a field, or nil when absent.
func (i *Instance) Value(name string) any { return i.values[name] }

// String returns a string field's value, or "" when absent.
func (i *Instance) String(name string) string {
	if s, ok := i.values[name].(string); ok {
		return s
	}
	return ""
}

// Int returns an integer field's value, or 0 when absent.
func (i *Instance) Int(name string) int64 {
	if n, ok := i.values[name].(int64); ok {
		return n
	}
	return 0
}

// Object returns an object field's value, or nil when absent.
func (i *Instance) Object(name string) map[string]any {
	if m, ok := i.values[name].(map[string]any); ok {
		return m
	}
	return nil
}

// Static schemas for the three request shapes.
var (
	methodSchema = NewSchema("method",
		Field{Name: "account", Kind: KindString, Nullable: true},
		Field{Name: "login", Kind: KindString, Required: true, Nullable: true},
		Field{Name: "token", Kind: KindString, Required: true, Nullable: true},
		Field{Name: "arguments", Kind: KindObject, Required: true, Nullable: true},
		Field{Name: "method", Kind: KindString, Required: true},
	)

	onlineScoreSchema = NewSchema("online_score",
		Field{Name: "first_name", Kind: KindString, Nullable: true},
		Field{Name: "last_name", Kind: KindString, Nullable: true},
		Field{Name: "email", Kind: KindString, Nullable: true, Check: checkEmail},
		Field{Name: "phone", Kind: KindStringOrInt, Nullable: true, Check: checkPhone},
		Field{Name: "birthday", Kind: KindString, Nullable: true, Check: checkBirthday},
		Field{Name: "gender", Kind: KindInt, Nullable: true, Check: checkGender},
	)

	clientsInterestsSchema = NewSchema("clients_interests",
		Field{Name: "client_ids", Kind: KindIntList, Required: true, Check: checkClientIDs},
		Field{Name: "date", Kind: KindString, Nullable: true, Check: checkDate},
	)
)
