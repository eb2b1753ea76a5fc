package ruleengine

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/surfaceguard/ruleanalyzer/internal/observability"
	"github.com/surfaceguard/ruleanalyzer/pkg/model"
)

var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

func parseDT(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// evaluateClauseUncached implements the per-clause operator table of
// spec.md §4.3. Any fault (missing field, bad parse, type mismatch)
// degrades silently to false rather than propagating.
func evaluateClauseUncached(rc *regexCache, result *model.CompareResult, clause *model.Clause) (verdict bool) {
	defer func() {
		if r := recover(); r != nil {
			observability.LogFault(context.Background(), "clause",
				fmt.Sprintf("panic evaluating clause %q: %v", clause.Field, r))
			verdict = false
		}
	}()

	var after, before any
	if result.ChangeType == model.Created || result.ChangeType == model.Modified {
		after = ResolveField(result.Compare, clause.Field)
	}
	if result.ChangeType == model.Deleted || result.ChangeType == model.Modified {
		before = ResolveField(result.Base, clause.Field)
	}

	scalarsB, pairsB := ExtractValues(before)
	scalarsA, pairsA := ExtractValues(after)
	S := append(append([]*string{}, scalarsB...), scalarsA...)
	P := append(append([]model.Pair{}, pairsB...), pairsA...)

	typeHolder := before
	if typeHolder == nil {
		typeHolder = after
	}

	switch clause.Operation {
	case model.OpEQ:
		return intersects(clause.Data, S)
	case model.OpNEQ:
		return !intersects(clause.Data, S)
	case model.OpContains:
		return evalContains(clause, S, P, typeHolder, true)
	case model.OpContainsAny:
		return evalContains(clause, S, P, typeHolder, false)
	case model.OpStartsWith:
		return anyHasAffix(S, clause.Data, strings.HasPrefix)
	case model.OpEndsWith:
		return anyHasAffix(S, clause.Data, strings.HasSuffix)
	case model.OpGT:
		return compareInt(clause.Data, S, func(s, n int64) bool { return s > n })
	case model.OpLT:
		return compareInt(clause.Data, S, func(s, n int64) bool { return s < n })
	case model.OpRegex:
		return evalRegex(rc, clause.Data, S)
	case model.OpIsNull:
		return allNull(S)
	case model.OpIsTrue:
		return anyTrue(S)
	case model.OpIsBefore:
		return compareDate(clause.Data, S, func(s, d time.Time) bool { return s.Before(d) })
	case model.OpIsAfter:
		return compareDate(clause.Data, S, func(s, d time.Time) bool { return s.After(d) })
	case model.OpIsExpired:
		now := time.Now()
		for _, s := range S {
			if s == nil {
				continue
			}
			if t, ok := parseDT(*s); ok && t.Before(now) {
				return true
			}
		}
		return false
	case model.OpWasModified:
		return result.ChangeType == model.Modified && !reflect.DeepEqual(before, after)
	default:
		// Reserved/unsupported operators (DOES_NOT_CONTAIN*) and anything
		// unrecognized evaluate false; the validator is what rejects them.
		return false
	}
}

func intersects(data []string, scalars []*string) bool {
	for _, d := range data {
		for _, s := range scalars {
			if s != nil && *s == d {
				return true
			}
		}
	}
	return false
}

func anyHasAffix(scalars []*string, data []string, affix func(s, prefix string) bool) bool {
	for _, s := range scalars {
		if s == nil {
			continue
		}
		for _, d := range data {
			if affix(*s, d) {
				return true
			}
		}
	}
	return false
}

func compareInt(data []string, scalars []*string, cmp func(s, n int64) bool) bool {
	if len(data) != 1 {
		return false
	}
	n, ok := parseInt(data[0])
	if !ok {
		return false
	}
	for _, s := range scalars {
		if s == nil {
			continue
		}
		if v, ok := parseInt(*s); ok && cmp(v, n) {
			return true
		}
	}
	return false
}

func compareDate(data []string, scalars []*string, cmp func(s, d time.Time) bool) bool {
	for _, s := range scalars {
		if s == nil {
			continue
		}
		st, ok := parseDT(*s)
		if !ok {
			continue
		}
		for _, d := range data {
			dt, ok := parseDT(d)
			if !ok {
				continue
			}
			if cmp(st, dt) {
				return true
			}
		}
	}
	return false
}

func allNull(scalars []*string) bool {
	for _, s := range scalars {
		if s != nil {
			return false
		}
	}
	return true
}

func anyTrue(scalars []*string) bool {
	for _, s := range scalars {
		if s != nil && parseBool(*s) {
			return true
		}
	}
	return false
}

func evalRegex(rc *regexCache, data []string, scalars []*string) bool {
	if len(data) == 0 {
		return false
	}
	pattern := strings.Join(data, "|")
	re := rc.compile(pattern)
	for _, s := range scalars {
		if s == nil {
			continue
		}
		if re.matchString(*s) {
			return true
		}
	}
	return false
}

// evalContains implements the CONTAINS/CONTAINS_ANY operand dispatch:
// dict-data membership over P when present, else list-membership over S
// when the resolved value was list-shaped, else substring membership
// against the first scalar when it was a bare string. all=true requires
// every entry to match (CONTAINS); all=false requires only one
// (CONTAINS_ANY).
func evalContains(clause *model.Clause, S []*string, P []model.Pair, typeHolder any, all bool) bool {
	if len(P) > 0 {
		return matchPairs(clause.DictData, P, all)
	}
	if isListShaped(typeHolder) {
		return matchScalarMembership(clause.Data, S, all)
	}
	if s, ok := typeHolder.(string); ok {
		return matchSubstring(clause.Data, s, all)
	}
	// Fall back: if we have extracted scalars at all, treat as list
	// membership so CONTAINS still behaves sensibly when typeHolder's
	// concrete kind couldn't be classified directly (e.g. it was a typed
	// string alias resolved through reflection).
	if len(S) > 0 {
		return matchScalarMembership(clause.Data, S, all)
	}
	return false
}

func isListShaped(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(string); ok {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

func matchPairs(want []model.Pair, have []model.Pair, all bool) bool {
	if len(want) == 0 {
		return false
	}
	matched := 0
	for _, w := range want {
		found := false
		for _, h := range have {
			if h.Key == w.Key && h.Value == w.Value {
				found = true
				break
			}
		}
		if found {
			matched++
			if !all {
				return true
			}
		} else if all {
			return false
		}
	}
	return all && matched == len(want)
}

func matchScalarMembership(data []string, scalars []*string, all bool) bool {
	if len(data) == 0 {
		return false
	}
	matched := 0
	for _, d := range data {
		found := false
		for _, s := range scalars {
			if s != nil && *s == d {
				found = true
				break
			}
		}
		if found {
			matched++
			if !all {
				return true
			}
		} else if all {
			return false
		}
	}
	return all && matched == len(data)
}

func matchSubstring(data []string, s string, all bool) bool {
	if len(data) == 0 {
		return false
	}
	matched := 0
	for _, d := range data {
		if strings.Contains(s, d) {
			matched++
			if !all {
				return true
			}
		} else if all {
			return false
		}
	}
	return all && matched == len(data)
}
