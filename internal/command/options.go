package command

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Options holds the bound, typed values of one invocation.
type Options struct {
	values map[string]any
}

// NewOptions wraps already-typed values. It is mainly useful in tests.
func NewOptions(values map[string]any) Options {
	if values == nil {
		values = map[string]any{}
	}
	return Options{values: values}
}

// Has reports whether the option was supplied or defaulted.
func (o Options) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Value returns the raw bound value.
func (o Options) Value(name string) any {
	return o.values[name]
}

// String returns a string option or "".
func (o Options) String(name string) string {
	s, _ := o.values[name].(string)
	return s
}

// Bool returns a boolean option or false.
func (o Options) Bool(name string) bool {
	b, _ := o.values[name].(bool)
	return b
}

// Int returns an integer option or 0.
func (o Options) Int(name string) int64 {
	i, _ := o.values[name].(int64)
	return i
}

// Float returns a number option or 0.
func (o Options) Float(name string) float64 {
	f, _ := o.values[name].(float64)
	return f
}

// Strings returns a string-array option.
func (o Options) Strings(name string) []string {
	s, _ := o.values[name].([]string)
	return s
}

// Object returns an object option.
func (o Options) Object(name string) map[string]any {
	m, _ := o.values[name].(map[string]any)
	return m
}

// Bind maps raw arguments onto the descriptor's option schema. Unknown keys
// are ignored and defaults are applied for absent options. Missing required
// options are left for validation.
func Bind(desc Descriptor, raw map[string]any) (Options, error) {
	values := make(map[string]any, len(desc.Options))
	for _, opt := range desc.Options {
		v, ok := raw[opt.Name]
		if !ok || v == nil {
			if opt.Default != nil {
				values[opt.Name] = opt.Default
			}
			continue
		}
		coerced, err := coerce(opt, v)
		if err != nil {
			return Options{}, err
		}
		values[opt.Name] = coerced
	}
	return Options{values: values}, nil
}

func coerce(opt Option, v any) (any, error) {
	switch opt.Type {
	case TypeString:
		switch x := v.(type) {
		case string:
			return x, nil
		case bool, float64, int, int64, json.Number:
			return fmt.Sprint(x), nil
		}
		return nil, Invalid(opt.Name, "expected a string, got %T", v)

	case TypeBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			if err != nil {
				return nil, Invalid(opt.Name, "expected a boolean, got %q", x)
			}
			return b, nil
		}
		return nil, Invalid(opt.Name, "expected a boolean, got %T", v)

	case TypeInt:
		switch x := v.(type) {
		case int:
			return int64(x), nil
		case int64:
			return x, nil
		case float64:
			if x != math.Trunc(x) {
				return nil, Invalid(opt.Name, "expected an integer, got %v", x)
			}
			return int64(x), nil
		case json.Number:
			i, err := x.Int64()
			if err != nil {
				return nil, Invalid(opt.Name, "expected an integer, got %q", x.String())
			}
			return i, nil
		case string:
			i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
			if err != nil {
				return nil, Invalid(opt.Name, "expected an integer, got %q", x)
			}
			return i, nil
		}
		return nil, Invalid(opt.Name, "expected an integer, got %T", v)

	case TypeNumber:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int:
			return float64(x), nil
		case int64:
			return float64(x), nil
		case json.Number:
			f, err := x.Float64()
			if err != nil {
				return nil, Invalid(opt.Name, "expected a number, got %q", x.String())
			}
			return f, nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil {
				return nil, Invalid(opt.Name, "expected a number, got %q", x)
			}
			return f, nil
		}
		return nil, Invalid(opt.Name, "expected a number, got %T", v)

	case TypeObject:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
		return nil, Invalid(opt.Name, "expected an object, got %T", v)

	case TypeStringArray:
		switch x := v.(type) {
		case []string:
			return x, nil
		case []any:
			out := make([]string, 0, len(x))
			for i, item := range x {
				s, ok := item.(string)
				if !ok {
					return nil, Invalid(opt.Name, "element %d is %T, expected a string", i, item)
				}
				out = append(out, s)
			}
			return out, nil
		case string:
			// CLI callers pass comma separated lists
			return strings.Split(x, ","), nil
		}
		return nil, Invalid(opt.Name, "expected an array of strings, got %T", v)
	}
	return nil, Invalid(opt.Name, "unsupported option type %q", opt.Type)
}

// validate checks required options and allowed values, then runs the
// command's cross-option validation.
func validate(leaf Leaf, opts Options) error {
	var missing []string
	for _, opt := range leaf.Descriptor.Options {
		if !opt.Required {
			continue
		}
		v, ok := opts.values[opt.Name]
		if !ok {
			missing = append(missing, opt.Name)
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			missing = append(missing, opt.Name)
		}
	}
	if len(missing) > 0 {
		return MissingRequired(missing...)
	}

	for _, opt := range leaf.Descriptor.Options {
		if len(opt.Allowed) == 0 || !opts.Has(opt.Name) {
			continue
		}
		s := opts.String(opt.Name)
		found := false
		for _, a := range opt.Allowed {
			if strings.EqualFold(a, s) {
				found = true
				break
			}
		}
		if !found {
			return Invalid(opt.Name, "must be one of [%s], got %q", strings.Join(opt.Allowed, ", "), s)
		}
	}

	if v, ok := leaf.Command.(Validator); ok {
		if err := v.Validate(opts); err != nil {
			return err
		}
	}
	return nil
}
