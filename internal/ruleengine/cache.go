package ruleengine

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/surfaceguard/ruleanalyzer/internal/observability"
	"github.com/surfaceguard/ruleanalyzer/pkg/model"
)

// clauseCacheKey identifies one (compare result, clause) evaluation. The
// compare result side uses the struct's own pointer as its opaque
// identity handle, stable for the lifetime of one Analyze call; the
// clause side uses the clause's own pointer, stable for the lifetime of
// the loaded RuleFile.
type clauseCacheKey struct {
	result *model.CompareResult
	clause *model.Clause
}

// clauseCache memoizes evaluateClauseUncached results within a single Analyze
// call. sync.Map gives lock-free reads and a compare-and-swap-like
// LoadOrStore for inserts; lost races on insert are harmless because the
// predicate is pure over its inputs.
type clauseCache struct {
	m sync.Map // clauseCacheKey -> bool
}

func newClauseCache() *clauseCache {
	return &clauseCache{}
}

func (c *clauseCache) get(result *model.CompareResult, clause *model.Clause) (bool, bool) {
	v, ok := c.m.Load(clauseCacheKey{result, clause})
	if !ok {
		return false, false
	}
	return v.(bool), true
}

func (c *clauseCache) put(result *model.CompareResult, clause *model.Clause, val bool) {
	c.m.LoadOrStore(clauseCacheKey{result, clause}, val)
}

// invalidate removes every entry keyed on the given compare result. This
// is best-effort: sync.Map offers no atomic "delete matching" primitive,
// so entries are found and deleted individually via Range.
func (c *clauseCache) invalidate(result *model.CompareResult) {
	c.m.Range(func(key, _ any) bool {
		k := key.(clauseCacheKey)
		if k.result == result {
			c.m.Delete(k)
		}
		return true
	})
}

// compiledRegex wraps a compiled pattern, or a never-matching sentinel
// when the source pattern failed to compile (spec: "invalid pattern
// caches an always-false regex and logs").
type compiledRegex struct {
	re    *regexp.Regexp
	valid bool
}

func (c *compiledRegex) matchString(s string) bool {
	if !c.valid {
		return false
	}
	return c.re.MatchString(s)
}

// regexCache is a process-wide, append-mostly cache of compiled
// patterns, keyed by the joined "|"-pattern string. First writer for a
// given key wins; subsequent compiles of the same pattern are wasted
// work but never observable, matching the spec's concurrency model.
type regexCache struct {
	m sync.Map // string -> *compiledRegex
}

func newRegexCache() *regexCache {
	return &regexCache{}
}

func (c *regexCache) compile(pattern string) *compiledRegex {
	if v, ok := c.m.Load(pattern); ok {
		return v.(*compiledRegex)
	}
	var entry *compiledRegex
	if re, err := regexp.Compile(pattern); err == nil {
		entry = &compiledRegex{re: re, valid: true}
	} else {
		observability.LogFault(context.Background(), "regex",
			fmt.Sprintf("invalid pattern %q: %v", pattern, err))
		entry = &compiledRegex{valid: false}
	}
	actual, _ := c.m.LoadOrStore(pattern, entry)
	return actual.(*compiledRegex)
}
