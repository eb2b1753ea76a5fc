package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the rule analyzer engine.

var (
	AnalyzeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ruleanalyzer_analyze_duration_seconds",
			Help:    "Time taken by Analyze to evaluate one compare result against all candidate rules",
			Buckets: prometheus.ExponentialBuckets(0.000001, 2, 20), // 1μs to ~0.5s
		},
		[]string{"matched"}, // matched: true|false
	)

	RuleEvaluationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruleanalyzer_rule_evaluation_total",
			Help: "Total number of per-rule evaluations",
		},
		[]string{"result"}, // result: match|no_match
	)

	ClauseCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ruleanalyzer_clause_cache_hits_total",
			Help: "Number of clause evaluations served from the per-Analyze clause cache",
		},
	)

	RegexCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ruleanalyzer_regex_cache_size",
			Help: "Number of distinct compiled regex patterns currently cached",
		},
	)

	RuleLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ruleanalyzer_rule_load_duration_seconds",
			Help:    "Time taken to load and parse a rule file",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		},
	)

	RuleLoadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruleanalyzer_rule_load_total",
			Help: "Total number of rule file load attempts",
		},
		[]string{"status"}, // status: success|error
	)

	RulesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ruleanalyzer_rules_active",
			Help: "Number of rules currently loaded into the analyzer",
		},
	)

	ValidatorViolationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ruleanalyzer_validator_violations_total",
			Help: "Total number of validation violations accumulated across VerifyRules calls",
		},
	)

	// Performance Metrics
	MemoryUsageBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ruleanalyzer_memory_usage_bytes",
			Help: "Memory usage of analyzer components",
		},
		[]string{"component"}, // component: rule_engine|clause_cache|regex_cache
	)

	GoroutinesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ruleanalyzer_goroutines_active",
			Help: "Number of active goroutines in the analyzer process",
		},
	)

	GCPauseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ruleanalyzer_gc_pause_duration_seconds",
			Help:    "Duration of garbage collection pauses",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 20), // 10μs to ~5s
		},
	)
)

// RecordAnalyzeDuration records one Analyze call's wall time, labeled by
// whether any rule matched.
func RecordAnalyzeDuration(d time.Duration, matched bool) {
	label := "false"
	if matched {
		label = "true"
	}
	AnalyzeDuration.WithLabelValues(label).Observe(d.Seconds())
}

// RecordRuleEvaluation increments the per-rule match/no-match counter.
func RecordRuleEvaluation(matched bool) {
	if matched {
		RuleEvaluationTotal.WithLabelValues("match").Inc()
		return
	}
	RuleEvaluationTotal.WithLabelValues("no_match").Inc()
}
