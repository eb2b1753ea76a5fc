package ruleengine

import (
	"context"
	"fmt"
	"reflect"

	"github.com/surfaceguard/ruleanalyzer/internal/observability"
	"github.com/surfaceguard/ruleanalyzer/pkg/model"
)

// ExtractValues normalizes an arbitrary resolved value into two parallel
// views: a flat list of scalars (nil entries representing null) and a
// flat list of (key, value) pairs. At most one of the two is populated
// for any given input shape, per spec's extraction table; empty inputs
// (an empty slice, or a value whose string form is empty) populate
// neither.
//
// Any panic while walking an unexpected shape is recovered, logged, and
// yields the degenerate empty result rather than propagating.
func ExtractValues(v any) (scalars []*string, pairs []model.Pair) {
	defer func() {
		if r := recover(); r != nil {
			observability.LogFault(context.Background(), "valueextract",
				fmt.Sprintf("panic extracting value: %v", r))
			scalars, pairs = nil, nil
		}
	}()

	if v == nil {
		return []*string{nil}, nil
	}

	switch t := v.(type) {
	case []string:
		return stringSliceToScalars(t), nil
	case map[string]string:
		return nil, stringMapToPairs(t)
	case map[string][]string:
		return nil, stringListMapToPairs(t)
	case []model.Pair:
		return nil, t
	case [][2]string:
		out := make([]model.Pair, len(t))
		for i, kv := range t {
			out[i] = model.Pair{Key: kv[0], Value: kv[1]}
		}
		return nil, out
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return []*string{nil}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if allStrings(rv) {
			out := make([]*string, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				s := toString(rv.Index(i).Interface())
				out[i] = &s
			}
			return out, nil
		}
		if pairs, ok := slicePairs(rv); ok {
			return nil, pairs
		}
		s := toString(v)
		if s == "" {
			return nil, nil
		}
		return []*string{&s}, nil

	case reflect.Map:
		if pairs, ok := mapPairs(rv); ok {
			return nil, pairs
		}
		s := toString(v)
		if s == "" {
			return nil, nil
		}
		return []*string{&s}, nil

	default:
		s := toString(v)
		if s == "" {
			return nil, nil
		}
		return []*string{&s}, nil
	}
}

func stringSliceToScalars(ss []string) []*string {
	out := make([]*string, len(ss))
	for i := range ss {
		v := ss[i]
		out[i] = &v
	}
	return out
}

func stringMapToPairs(m map[string]string) []model.Pair {
	out := make([]model.Pair, 0, len(m))
	for k, v := range m {
		out = append(out, model.Pair{Key: k, Value: v})
	}
	return out
}

func stringListMapToPairs(m map[string][]string) []model.Pair {
	var out []model.Pair
	for k, values := range m {
		for _, v := range values {
			out = append(out, model.Pair{Key: k, Value: v})
		}
	}
	return out
}

func allStrings(rv reflect.Value) bool {
	if rv.Len() == 0 {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		for elem.Kind() == reflect.Interface {
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.String {
			return false
		}
	}
	return true
}

// slicePairs recognizes a slice of (string,string)-shaped two-field
// structs as a pairs view.
func slicePairs(rv reflect.Value) ([]model.Pair, bool) {
	if rv.Len() == 0 {
		return nil, false
	}
	out := make([]model.Pair, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem := rv.Index(i)
		for elem.Kind() == reflect.Interface {
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Struct || elem.NumField() != 2 {
			return nil, false
		}
		k := elem.Field(0)
		val := elem.Field(1)
		if k.Kind() != reflect.String || val.Kind() != reflect.String {
			return nil, false
		}
		out = append(out, model.Pair{Key: k.String(), Value: val.String()})
	}
	return out, true
}

// mapPairs recognizes map[string]string and map[string][]string shapes
// reached via reflection (e.g. boxed behind an any-typed field).
func mapPairs(rv reflect.Value) ([]model.Pair, bool) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	elemType := rv.Type().Elem()
	var out []model.Pair
	switch {
	case elemType.Kind() == reflect.String:
		iter := rv.MapRange()
		for iter.Next() {
			out = append(out, model.Pair{Key: iter.Key().String(), Value: iter.Value().String()})
		}
		return out, true
	case elemType.Kind() == reflect.Slice && elemType.Elem().Kind() == reflect.String:
		iter := rv.MapRange()
		for iter.Next() {
			values := iter.Value()
			for i := 0; i < values.Len(); i++ {
				out = append(out, model.Pair{Key: iter.Key().String(), Value: values.Index(i).String()})
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
