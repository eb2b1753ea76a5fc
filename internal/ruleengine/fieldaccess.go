package ruleengine

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/surfaceguard/ruleanalyzer/internal/observability"
)

// ResolveField walks a dotted path against a dynamic value, following:
//   - struct: look up the named field case-sensitively by its declared
//     Go field name; missing field -> nil.
//   - map keyed by string: look up the segment as a key; missing key ->
//     nil.
//   - slice/array: the segment must parse as a non-negative integer
//     index; out of range -> nil.
//   - nil at any point short-circuits the remaining path to nil.
//
// ResolveField never panics to the caller: any reflection failure along
// the way (type mismatch, invalid index, etc.) is recovered, logged, and
// yields nil.
func ResolveField(v any, path string) (result any) {
	defer func() {
		if r := recover(); r != nil {
			observability.LogFault(context.Background(), "fieldaccess",
				fmt.Sprintf("panic resolving path %q: %v", path, r))
			result = nil
		}
	}()

	if path == "" {
		return v
	}

	cur := v
	for _, segment := range strings.Split(path, ".") {
		if cur == nil {
			return nil
		}
		cur = resolveSegment(cur, segment)
	}
	return cur
}

func resolveSegment(v any, segment string) any {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
		fv := rv.FieldByName(segment)
		if !fv.IsValid() {
			observability.LogFault(context.Background(), "fieldaccess",
				fmt.Sprintf("struct %s has no field %q", rv.Type(), segment))
			return nil
		}
		if !fv.CanInterface() {
			return nil
		}
		return fv.Interface()

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			observability.LogFault(context.Background(), "fieldaccess",
				fmt.Sprintf("map key type %s is not string", rv.Type().Key()))
			return nil
		}
		mv := rv.MapIndex(reflect.ValueOf(segment).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()

	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return nil
		}
		return rv.Index(idx).Interface()

	default:
		observability.LogFault(context.Background(), "fieldaccess",
			fmt.Sprintf("cannot descend into kind %s at segment %q", rv.Kind(), segment))
		return nil
	}
}
