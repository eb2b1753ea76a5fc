package precedence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(values map[string]bool) LabelLookup {
	return func(label string) bool { return values[label] }
}

func TestEvaluate_AndBindsTighterThanOr(t *testing.T) {
	expr, err := Parse("A OR B AND C")
	require.NoError(t, err)

	// A true alone must satisfy A OR (B AND C) regardless of B/C.
	assert.True(t, Evaluate(expr, lookupFrom(map[string]bool{"A": true, "B": false, "C": false})))
	// A false, B true C false must fail since B AND C is false.
	assert.False(t, Evaluate(expr, lookupFrom(map[string]bool{"A": false, "B": true, "C": false})))
	assert.True(t, Evaluate(expr, lookupFrom(map[string]bool{"A": false, "B": true, "C": true})))
}

func TestEvaluate_NotBindsTighterThanAnd(t *testing.T) {
	expr, err := Parse("NOT A AND B")
	require.NoError(t, err)

	// Must parse as (NOT A) AND B, not NOT (A AND B).
	assert.True(t, Evaluate(expr, lookupFrom(map[string]bool{"A": false, "B": true})))
	assert.False(t, Evaluate(expr, lookupFrom(map[string]bool{"A": true, "B": true})))
}

func TestEvaluate_ParenthesesOverridePrecedence(t *testing.T) {
	expr, err := Parse("(A OR B) AND C")
	require.NoError(t, err)

	assert.False(t, Evaluate(expr, lookupFrom(map[string]bool{"A": true, "B": false, "C": false})))
	assert.True(t, Evaluate(expr, lookupFrom(map[string]bool{"A": true, "B": false, "C": true})))
}

func TestEvaluate_Xor(t *testing.T) {
	expr, err := Parse("A XOR B")
	require.NoError(t, err)

	assert.True(t, Evaluate(expr, lookupFrom(map[string]bool{"A": true, "B": false})))
	assert.False(t, Evaluate(expr, lookupFrom(map[string]bool{"A": true, "B": true})))
}

func TestEvaluate_UnresolvedLabelIsFalse(t *testing.T) {
	expr, err := Parse("A AND MISSING")
	require.NoError(t, err)
	assert.False(t, Evaluate(expr, lookupFrom(map[string]bool{"A": true})))
}

func TestParse_RejectsMalformedExpression(t *testing.T) {
	_, err := Parse("A AND (B")
	assert.Error(t, err)
}
