package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the analyzer's runtime configuration: which platform it
// evaluates as, where its rule file lives, and the resource limits a
// caller can apply to rule loading and expression complexity.
type Config struct {
	Platform     string       `mapstructure:"platform"`
	RuleFilePath string       `mapstructure:"rule_file_path"` // empty uses the embedded default
	Limits       LimitsConfig `mapstructure:"limits"`
}

// LimitsConfig bounds rule-file size and expression complexity. The
// engine itself never enforces these; they exist so a caller can reject
// an oversized or adversarial rule file before handing it to
// NewAnalyzer.
type LimitsConfig struct {
	MaxRules            int `mapstructure:"max_rules"`
	MaxExpressionLength int `mapstructure:"max_expression_length"` // bytes
	MaxClausesPerRule   int `mapstructure:"max_clauses_per_rule"`
}

// Load reads configuration from an optional file plus environment
// variables. Priority: env vars > config file > defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// RULEANALYZER_PLATFORM, RULEANALYZER_RULE_FILE_PATH,
	// RULEANALYZER_LIMITS_MAX_RULES, etc.
	v.SetEnvPrefix("RULEANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("platform", "LINUX")
	v.SetDefault("rule_file_path", "")

	v.SetDefault("limits.max_rules", 100000)
	v.SetDefault("limits.max_expression_length", 65536) // 64KB
	v.SetDefault("limits.max_clauses_per_rule", 256)
}
