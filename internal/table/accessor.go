package table

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Resolve walks a dotted accessor path ("source.name") through structs,
// pointers, and string-keyed maps and returns the leaf value. Struct fields
// match by json tag first, then by case-insensitive field name. A broken path
// resolves to nil rather than panicking.
func Resolve(record any, path string) any {
	current := reflect.ValueOf(record)
	for _, segment := range strings.Split(path, ".") {
		current = indirect(current)
		if !current.IsValid() {
			return nil
		}
		switch current.Kind() {
		case reflect.Struct:
			field := fieldByJSONTag(current, segment)
			if !field.IsValid() {
				return nil
			}
			current = field
		case reflect.Map:
			if current.Type().Key().Kind() != reflect.String {
				return nil
			}
			current = current.MapIndex(reflect.ValueOf(segment))
		default:
			return nil
		}
	}
	current = indirect(current)
	if !current.IsValid() {
		return nil
	}
	return current.Interface()
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case time.Time:
		return s.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func fieldByJSONTag(v reflect.Value, name string) reflect.Value {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" {
			continue
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag == name {
			return v.Field(i)
		}
	}
	for i := 0; i < t.NumField(); i++ {
		if strings.EqualFold(t.Field(i).Name, name) {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}
