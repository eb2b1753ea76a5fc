package ruleengine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/surfaceguard/ruleanalyzer/internal/observability"
	"github.com/surfaceguard/ruleanalyzer/internal/ruleengine/precedence"
	"github.com/surfaceguard/ruleanalyzer/pkg/model"
)

// compiledRule pairs a rule with a precomputed label index so repeated
// Analyze calls don't rebuild the expression's atom lookup every time.
// precedenceAST is populated only when the owning Analyzer was built
// WithPrecedenceMode and the expression parsed successfully; a rule
// whose expression fails to parse in that mode never matches, the same
// way a load failure degrades rather than crashing.
type compiledRule struct {
	rule          model.Rule
	labels        map[string]*model.Clause
	precedenceAST *precedence.Expression
}

// Option configures optional Analyzer behavior at construction time.
type Option func(*Analyzer)

// WithPrecedenceMode selects the conventional-precedence expression
// evaluator (internal/ruleengine/precedence) instead of the default flat
// left-to-right grammar. Design Note 9 permits this as an additional
// mode; flat remains the default when this option is not supplied.
func WithPrecedenceMode() Option {
	return func(a *Analyzer) { a.usePrecedence = true }
}

// Analyzer is the facade described as C6: it selects candidate rules by
// platform/change-type/result-type, drives evaluation, and owns the
// shared caches.
type Analyzer struct {
	platform      model.Platform
	file          *model.RuleFile
	rules         []compiledRule
	usePrecedence bool

	clauses *clauseCache
	regex   *regexCache
}

// sharedRegexCache is the process-wide compiled-pattern cache that every
// Analyzer uses.
var sharedRegexCache = newRegexCache()

// NewAnalyzer constructs an Analyzer from an already-parsed rule file.
// A nil rule file is treated as empty, matching "loading failures yield
// an empty rule file; subsequent Analyze returns empty."
func NewAnalyzer(platform model.Platform, file *model.RuleFile, opts ...Option) *Analyzer {
	a := &Analyzer{
		platform: platform,
		file:     file,
		clauses:  newClauseCache(),
		regex:    sharedRegexCache,
	}
	for _, opt := range opts {
		opt(a)
	}
	if file == nil {
		a.file = &model.RuleFile{}
		return a
	}
	a.rules = make([]compiledRule, len(file.Rules))
	for i, rule := range file.Rules {
		labels := make(map[string]*model.Clause, len(rule.Clauses))
		ambiguous := make(map[string]bool)
		for j := range file.Rules[i].Clauses {
			c := &file.Rules[i].Clauses[j]
			if c.Label != "" {
				if _, dup := labels[c.Label]; dup {
					ambiguous[c.Label] = true
				}
				labels[c.Label] = c
			}
		}
		// A label shared by several clauses resolves to none of them.
		for label := range ambiguous {
			delete(labels, label)
		}
		cr := compiledRule{rule: rule, labels: labels}
		if a.usePrecedence && rule.Expression != "" {
			if ast, err := precedence.Parse(rule.Expression); err == nil {
				cr.precedenceAST = ast
			} else {
				observability.LogFault(context.Background(), "analyzer",
					"precedence parse failed for rule "+rule.Name+": "+err.Error())
			}
		}
		a.rules[i] = cr
	}
	return a
}

// NewAnalyzerFromSource loads a rule file via LoadRuleFile (A5) and
// constructs an Analyzer from it. Load failures degrade to an empty
// rule file rather than an error, per spec.md's "Construction" contract.
func NewAnalyzerFromSource(ctx context.Context, platform model.Platform, fs FileSystem, path string, opts ...Option) *Analyzer {
	file := LoadRuleFile(ctx, fs, path)
	return NewAnalyzer(platform, file, opts...)
}

// Analyze resets the compare result's output fields, selects candidate
// rules, evaluates each, and returns the rules that matched in
// declaration order. Analysis stays at VerdictNone: the engine never
// combines verdicts across matched rules, it only reports which rules
// fired. Mutations beyond Analysis/MatchedRules never occur; the rule
// file itself is read-only.
func (a *Analyzer) Analyze(ctx context.Context, result *model.CompareResult) ([]model.Rule, error) {
	if result == nil {
		return nil, ErrNilCompareResult
	}

	start := time.Now()
	correlationID := uuid.New().String()

	result.Analysis = model.VerdictNone
	result.MatchedRules = nil

	var matched []model.Rule
	for _, cr := range a.rules {
		if !a.isCandidate(&cr.rule, result) {
			continue
		}
		if a.evaluateRule(&cr, result) {
			matched = append(matched, cr.rule)
			result.MatchedRules = append(result.MatchedRules, cr.rule.Name)
		}
	}

	a.clauses.invalidate(result)

	observability.Debug(ctx, "analyze correlation=%s result_type=%s rules_matched=%d duration=%s",
		correlationID, result.ResultType, len(matched), time.Since(start))
	observability.RecordAnalyzeDuration(time.Since(start), len(matched) > 0)

	return matched, nil
}

func (a *Analyzer) isCandidate(rule *model.Rule, result *model.CompareResult) bool {
	if rule.ResultType != result.ResultType {
		return false
	}
	if rule.Platforms != nil && !rule.Platforms.Contains(a.platform) {
		return false
	}
	if rule.ChangeTypes != nil && !rule.ChangeTypes.Contains(result.ChangeType) {
		return false
	}
	return true
}

// evaluateRule fires a rule via its expression (C4) when present, or via
// implicit AND over its clauses (C3 directly) otherwise. A rule with
// zero clauses and no expression matches unconditionally.
func (a *Analyzer) evaluateRule(cr *compiledRule, result *model.CompareResult) bool {
	matched := a.evaluateRuleUnrecorded(cr, result)
	observability.RecordRuleEvaluation(matched)
	return matched
}

func (a *Analyzer) evaluateRuleUnrecorded(cr *compiledRule, result *model.CompareResult) bool {
	if cr.rule.Expression != "" {
		ec := &exprContext{
			result:      result,
			labels:      cr.labels,
			clauseCache: a.clauses,
			regexCache:  a.regex,
		}
		if a.usePrecedence {
			if cr.precedenceAST == nil {
				return false
			}
			return precedence.Evaluate(cr.precedenceAST, ec.evalAtomBool)
		}
		return EvaluateExpression(ec, cr.rule.Expression)
	}

	for i := range cr.rule.Clauses {
		clause := &cr.rule.Clauses[i]
		v, ok := a.clauses.get(result, clause)
		if !ok {
			v = evaluateClauseUncached(a.regex, result, clause)
			a.clauses.put(result, clause, v)
		}
		if !v {
			return false
		}
	}
	return true
}

// VerifyRules returns the accumulated validation violation list (C5)
// over every rule currently loaded.
func (a *Analyzer) VerifyRules() []string {
	return ValidateRuleFile(a.file)
}

// RuleCount reports how many rules are currently loaded.
func (a *Analyzer) RuleCount() int {
	return len(a.rules)
}
