package ruleengine

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/surfaceguard/ruleanalyzer/internal/observability"
	"github.com/surfaceguard/ruleanalyzer/pkg/model"
)

//go:embed default_rules.json
var embeddedDefaultRules []byte

// LoadRuleFile loads a RuleFile from an embedded default (when path is
// empty), a filesystem JSON file, or a filesystem YAML file (when path
// ends in .yaml/.yml). I/O or parse failures degrade to an empty rule
// file; the loader never returns an error, matching spec.md §6's
// "I/O or parse failures result in an empty rule file; no crash."
func LoadRuleFile(ctx context.Context, fs FileSystem, path string) *model.RuleFile {
	start := time.Now()
	file, err := loadRuleFile(fs, path)
	observability.RuleLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.RuleLoadTotal.WithLabelValues("error").Inc()
		observability.LogFault(ctx, "loader", "load failed, using empty rule file: "+err.Error())
		return &model.RuleFile{}
	}
	observability.RuleLoadTotal.WithLabelValues("success").Inc()
	observability.RulesActive.Set(float64(len(file.Rules)))
	return file
}

func loadRuleFile(fs FileSystem, path string) (*model.RuleFile, error) {
	if path == "" {
		return decodeJSON(embeddedDefaultRules)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return decodeYAML(data)
	}
	return decodeJSON(data)
}

func decodeJSON(data []byte) (*model.RuleFile, error) {
	var rf model.RuleFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, err
	}
	return &rf, nil
}

func decodeYAML(data []byte) (*model.RuleFile, error) {
	var rf model.RuleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, err
	}
	return &rf, nil
}
