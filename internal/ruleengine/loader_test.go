package ruleengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfaceguard/ruleanalyzer/pkg/model"
)

func TestLoadRuleFile_EmptyPathUsesEmbeddedDefault(t *testing.T) {
	fs := NewMockFileSystem()
	file := LoadRuleFile(context.Background(), fs, "")
	require.NotNil(t, file)
	assert.NotEmpty(t, file.Rules, "embedded default_rules.json should ship with at least one rule")
}

func TestLoadRuleFile_JSONFromFileSystem(t *testing.T) {
	fs := NewMockFileSystem()
	fs.PutFile("rules.json", []byte(`{
		"Rules": [{"Name": "r1", "ResultType": "FILE", "Clauses": [{"Field":"X","Operation":"IS_TRUE"}]}]
	}`))

	file := LoadRuleFile(context.Background(), fs, "rules.json")
	require.Len(t, file.Rules, 1)
	assert.Equal(t, "r1", file.Rules[0].Name)
}

func TestLoadRuleFile_JSONDictDataTupleArray(t *testing.T) {
	fs := NewMockFileSystem()
	fs.PutFile("rules.json", []byte(`{
		"Rules": [{
			"Name": "r1",
			"ResultType": "FILE",
			"Clauses": [{
				"Field": "Attrs",
				"Operation": "CONTAINS",
				"DictData": [["x", "1"], ["y", "3"]]
			}]
		}]
	}`))

	file := LoadRuleFile(context.Background(), fs, "rules.json")
	require.Len(t, file.Rules, 1)
	require.Len(t, file.Rules[0].Clauses, 1)
	assert.Equal(t, []model.Pair{{Key: "x", Value: "1"}, {Key: "y", Value: "3"}}, file.Rules[0].Clauses[0].DictData)
}

func TestLoadRuleFile_YAMLFromFileSystem(t *testing.T) {
	fs := NewMockFileSystem()
	fs.PutFile("rules.yaml", []byte(`
rules:
  - name: r1
    resultType: FILE
    flag: WARNING
    clauses:
      - field: X
        operation: IS_TRUE
`))

	file := LoadRuleFile(context.Background(), fs, "rules.yaml")
	require.Len(t, file.Rules, 1)
	assert.Equal(t, "r1", file.Rules[0].Name)
}

func TestLoadRuleFile_MissingFileDegradesToEmpty(t *testing.T) {
	fs := NewMockFileSystem()
	file := LoadRuleFile(context.Background(), fs, "nope.json")
	require.NotNil(t, file)
	assert.Empty(t, file.Rules)
}

func TestLoadRuleFile_MalformedJSONDegradesToEmpty(t *testing.T) {
	fs := NewMockFileSystem()
	fs.PutFile("bad.json", []byte(`{not valid json`))
	file := LoadRuleFile(context.Background(), fs, "bad.json")
	require.NotNil(t, file)
	assert.Empty(t, file.Rules)
}
