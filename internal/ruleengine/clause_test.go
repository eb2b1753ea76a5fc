package ruleengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfaceguard/ruleanalyzer/pkg/model"
)

type fileStub struct {
	Name string
	Path string
}

func TestEvaluateClause_EQOnScalar(t *testing.T) {
	result := &model.CompareResult{
		ChangeType: model.Modified,
		Base:       fileStub{Name: "foo"},
		Compare:    fileStub{Name: "bar"},
	}
	rc := newRegexCache()

	matches := evaluateClauseUncached(rc, result, &model.Clause{Field: "Name", Operation: model.OpEQ, Data: []string{"bar"}})
	assert.True(t, matches)

	noMatch := evaluateClauseUncached(rc, result, &model.Clause{Field: "Name", Operation: model.OpEQ, Data: []string{"baz"}})
	assert.False(t, noMatch)
}

func TestEvaluateClause_ContainsDict(t *testing.T) {
	type attrs struct {
		Attrs map[string][]string
	}
	result := &model.CompareResult{
		ChangeType: model.Created,
		Compare:    attrs{Attrs: map[string][]string{"x": {"1", "2"}, "y": {"3"}}},
	}
	rc := newRegexCache()

	ok := evaluateClauseUncached(rc, result, &model.Clause{
		Field:     "Attrs",
		Operation: model.OpContains,
		DictData:  []model.Pair{{Key: "x", Value: "1"}, {Key: "y", Value: "3"}},
	})
	assert.True(t, ok)

	bad := evaluateClauseUncached(rc, result, &model.Clause{
		Field:     "Attrs",
		Operation: model.OpContains,
		DictData:  []model.Pair{{Key: "x", Value: "9"}},
	})
	assert.False(t, bad)
}

func TestEvaluateClause_RegexUnion(t *testing.T) {
	result := &model.CompareResult{
		ChangeType: model.Created,
		Compare:    fileStub{Path: "/etc/passwd"},
	}
	rc := newRegexCache()

	ok := evaluateClauseUncached(rc, result, &model.Clause{
		Field:     "Path",
		Operation: model.OpRegex,
		Data:      []string{"^/etc/", "^/usr/"},
	})
	assert.True(t, ok)
}

func TestEvaluateClause_WasModified(t *testing.T) {
	type obj struct{ X int }
	rc := newRegexCache()

	same := &model.CompareResult{ChangeType: model.Modified, Base: obj{X: 1}, Compare: obj{X: 1}}
	assert.False(t, evaluateClauseUncached(rc, same, &model.Clause{Field: "", Operation: model.OpWasModified}))

	changed := &model.CompareResult{ChangeType: model.Modified, Base: obj{X: 1}, Compare: obj{X: 2}}
	assert.True(t, evaluateClauseUncached(rc, changed, &model.Clause{Field: "", Operation: model.OpWasModified}))
}

func TestEvaluateClause_IsExpired(t *testing.T) {
	rc := newRegexCache()
	type cert struct{ NotAfter string }

	expired := &model.CompareResult{ChangeType: model.Created, Compare: cert{NotAfter: "2000-01-01"}}
	require.True(t, evaluateClauseUncached(rc, expired, &model.Clause{Field: "NotAfter", Operation: model.OpIsExpired}))

	future := &model.CompareResult{ChangeType: model.Created, Compare: cert{NotAfter: "2999-01-01"}}
	require.False(t, evaluateClauseUncached(rc, future, &model.Clause{Field: "NotAfter", Operation: model.OpIsExpired}))
}

func TestEvaluateClause_UnsupportedOperationIsFalse(t *testing.T) {
	rc := newRegexCache()
	result := &model.CompareResult{ChangeType: model.Created, Compare: fileStub{Name: "x"}}
	assert.False(t, evaluateClauseUncached(rc, result, &model.Clause{Field: "Name", Operation: model.OpDoesNotContain, Data: []string{"x"}}))
}
