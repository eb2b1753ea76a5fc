package ruleengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfaceguard/ruleanalyzer/pkg/model"
)

func newLabeledClauses(pairs map[string]bool) (map[string]*model.Clause, *model.CompareResult) {
	// Each label gets its own synthetic field name so a clause's truth
	// value is controlled directly by the field value rather than by
	// operator semantics; this isolates expr.go's control flow from
	// clause.go's.
	fields := make(map[string]any)
	labels := make(map[string]*model.Clause)
	for label, want := range pairs {
		fields[label] = want
		labels[label] = &model.Clause{Field: label, Operation: model.OpIsTrue, Label: label}
	}
	result := &model.CompareResult{ChangeType: model.Created, Compare: fields}
	return labels, result
}

func TestEvaluateExpression_S4(t *testing.T) {
	labels, result := newLabeledClauses(map[string]bool{"A": true, "B": false, "C": false})
	ec := &exprContext{result: result, labels: labels, clauseCache: newClauseCache(), regexCache: newRegexCache()}

	assert.True(t, EvaluateExpression(ec, "A AND (B OR NOT C)"))
	assert.False(t, EvaluateExpression(ec, "A AND B"))
	assert.False(t, EvaluateExpression(ec, "NOT A OR B"))
}

func TestEvaluateExpression_ShortCircuitSkipsAtom(t *testing.T) {
	labels, result := newLabeledClauses(map[string]bool{"A": false, "B": true})
	cache := newClauseCache()
	ec := &exprContext{result: result, labels: labels, clauseCache: cache, regexCache: newRegexCache()}

	assert.False(t, EvaluateExpression(ec, "A AND B"))

	// B must never have been evaluated (and therefore never cached)
	// because AND short-circuits once A is false.
	_, cached := cache.get(result, labels["B"])
	require.False(t, cached)

	_, cachedA := cache.get(result, labels["A"])
	require.True(t, cachedA)
}

func TestEvaluateExpression_UnresolvedLabelIsFalse(t *testing.T) {
	labels, result := newLabeledClauses(map[string]bool{"A": true})
	ec := &exprContext{result: result, labels: labels, clauseCache: newClauseCache(), regexCache: newRegexCache()}

	assert.False(t, EvaluateExpression(ec, "A AND MISSING"))
}

func TestEvaluateExpression_NestedGroupsAndXor(t *testing.T) {
	labels, result := newLabeledClauses(map[string]bool{"A": true, "B": true, "C": false})
	ec := &exprContext{result: result, labels: labels, clauseCache: newClauseCache(), regexCache: newRegexCache()}

	// A XOR B == false, OR'd with C(false) => false
	assert.False(t, EvaluateExpression(ec, "(A XOR B) OR C"))
	// NAND(A,B) = !(true&&true) = false; NOR(false, C=false) = true
	assert.True(t, EvaluateExpression(ec, "(A NAND B) NOR C"))
}
