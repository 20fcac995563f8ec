package router

import (
	"fmt"
	"maps"
	"reflect"
	"strconv"
	"strings"

	"github.com/ettle/strcase"
)

// Params holds named captures extracted by a Matcher.
type Params map[string]string

// Get returns the named param, or the first default when absent or empty.
func (p Params) Get(name string, defaultValue ...string) string {
	if v, ok := p[name]; ok && v != "" {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// Int returns the named param parsed as an int, or defaultValue.
func (p Params) Int(name string, defaultValue int) int {
	v, ok := p[name]
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

// Segments splits a greedy capture into its path segments.
func (p Params) Segments(name string) []string {
	v := p[name]
	if v == "" {
		return nil
	}
	return strings.Split(v, "/")
}

// Clone returns a copy safe to hand to components.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	return maps.Clone(p)
}

// BindParams populates a struct from params. The target must be a
// pointer to a struct. Fields are looked up by their `param` tag,
// then by the lowerCamel and snake_case forms of the field name.
//
// Example:
//
//	type userRoute struct {
//		ID   int      `param:"id"`
//		Tab  string
//		Rest []string `param:"rest"`
//	}
func BindParams(params Params, target any) error {
	if target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return newParamError("", fmt.Sprintf("target must be a pointer, got %s", v.Kind()), nil)
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return newParamError("", fmt.Sprintf("target must be a pointer to struct, got pointer to %s", v.Kind()), nil)
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("param")
		if tag == "-" {
			continue
		}

		name, value, ok := lookupParam(params, field.Name, tag)
		if !ok {
			continue
		}

		if err := setParamField(v.Field(i), value); err != nil {
			return newParamError(name, err.Error(), err)
		}
	}

	return nil
}

func lookupParam(params Params, fieldName, tag string) (string, string, bool) {
	candidates := []string{tag}
	if tag == "" {
		candidates = []string{
			strcase.ToCamel(fieldName),
			strcase.ToSnake(fieldName),
			fieldName,
		}
	}
	for _, name := range candidates {
		if value, ok := params[name]; ok {
			return name, value, true
		}
	}
	return "", "", false
}

func setParamField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float: %s", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		// greedy captures: "a/b/c" -> ["a", "b", "c"]
		var parts []string
		if value != "" {
			parts = strings.Split(value, "/")
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}

	return nil
}
