package ruleengine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/surfaceguard/ruleanalyzer/pkg/model"
)

// ValidateRuleFile runs ValidateRule over every rule and prefixes each
// violation with the owning rule's name so the accumulated list reads
// like a lint report.
func ValidateRuleFile(rf *model.RuleFile) []string {
	var violations []string
	if rf == nil {
		return violations
	}
	for _, rule := range rf.Rules {
		for _, v := range ValidateRule(&rule) {
			violations = append(violations, fmt.Sprintf("rule %q: %s", rule.Name, v))
		}
	}
	return violations
}

// ValidateRule accumulates human-readable violation strings for a single
// rule per spec.md §4.5. It never panics and never returns an error
// value; an empty slice means the rule is well-formed.
func ValidateRule(rule *model.Rule) []string {
	var violations []string
	if rule == nil {
		return []string{"rule is nil"}
	}

	violations = append(violations, validateLabels(rule)...)
	for i := range rule.Clauses {
		violations = append(violations, validateOperand(&rule.Clauses[i])...)
	}
	if rule.Expression != "" {
		violations = append(violations, validateExpressionSyntax(rule)...)
	}
	return violations
}

func validateLabels(rule *model.Rule) []string {
	var violations []string

	seen := make(map[string]int, len(rule.Clauses))
	labeled, unlabeled := 0, 0
	for _, c := range rule.Clauses {
		if c.Label == "" {
			unlabeled++
			continue
		}
		labeled++
		seen[c.Label]++
		if strings.ContainsAny(c.Label, " ()") {
			violations = append(violations, fmt.Sprintf("clause label %q contains an illegal character", c.Label))
		}
	}
	for label, n := range seen {
		if n > 1 {
			violations = append(violations, fmt.Sprintf("duplicate clause label %q", label))
		}
	}
	if labeled > 0 && unlabeled > 0 {
		violations = append(violations, "clause labels must be either all present or all absent")
	}
	if rule.Expression != "" && unlabeled > 0 {
		violations = append(violations, "expression present but not every clause has a label")
	}
	return violations
}

func validateOperand(c *model.Clause) []string {
	var violations []string
	hasData := len(c.Data) > 0
	hasDict := len(c.DictData) > 0

	switch c.Operation {
	case model.OpEQ, model.OpNEQ, model.OpEndsWith, model.OpStartsWith, model.OpRegex:
		if !hasData {
			violations = append(violations, fmt.Sprintf("operation %s requires non-empty data", c.Operation))
		}
		if hasDict {
			violations = append(violations, fmt.Sprintf("operation %s does not accept dict_data", c.Operation))
		}
		if c.Operation == model.OpRegex {
			for _, pattern := range c.Data {
				if _, err := regexp.Compile(pattern); err != nil {
					violations = append(violations, fmt.Sprintf("invalid regex %q: %v", pattern, err))
				}
			}
		}

	case model.OpContains, model.OpContainsAny:
		if hasData == hasDict {
			violations = append(violations, fmt.Sprintf("operation %s requires exactly one of data or dict_data", c.Operation))
		}

	case model.OpGT, model.OpLT:
		if len(c.Data) != 1 {
			violations = append(violations, fmt.Sprintf("operation %s requires exactly one integer operand", c.Operation))
		} else if _, ok := parseInt(c.Data[0]); !ok {
			violations = append(violations, fmt.Sprintf("operation %s operand %q is not an integer", c.Operation, c.Data[0]))
		}
		if hasDict {
			violations = append(violations, fmt.Sprintf("operation %s does not accept dict_data", c.Operation))
		}

	case model.OpIsBefore, model.OpIsAfter:
		if len(c.Data) != 1 {
			violations = append(violations, fmt.Sprintf("operation %s requires exactly one timestamp operand", c.Operation))
		} else if _, ok := parseDT(c.Data[0]); !ok {
			violations = append(violations, fmt.Sprintf("operation %s operand %q is not a parseable timestamp", c.Operation, c.Data[0]))
		}
		if hasDict {
			violations = append(violations, fmt.Sprintf("operation %s does not accept dict_data", c.Operation))
		}

	case model.OpIsNull, model.OpIsTrue, model.OpIsExpired, model.OpWasModified:
		if hasData || hasDict {
			violations = append(violations, fmt.Sprintf("operation %s accepts neither data nor dict_data", c.Operation))
		}

	default:
		violations = append(violations, fmt.Sprintf("unsupported operation %q", c.Operation))
	}

	return violations
}

// validateExpressionSyntax implements the token-level checks of
// spec.md §4.5 over an expression string, independent of expr.go's
// runtime evaluator (the validator is, in effect, a small parser of its
// own over the same surface grammar).
func validateExpressionSyntax(rule *model.Rule) []string {
	var violations []string
	expr := rule.Expression

	if strings.Count(expr, "(") != strings.Count(expr, ")") {
		violations = append(violations, "unbalanced parentheses in expression")
	}

	tokens := strings.Fields(expr)
	if len(tokens) == 0 {
		violations = append(violations, "expression is empty")
		return violations
	}

	labels := make(map[string]bool, len(rule.Clauses))
	for _, c := range rule.Clauses {
		if c.Label != "" {
			labels[c.Label] = true
		}
	}
	used := make(map[string]bool, len(labels))

	expectVariable := true
	prevWasNot := false
	for idx, tok := range tokens {
		if tok == "NOT" {
			if !expectVariable {
				violations = append(violations, fmt.Sprintf("token %d: NOT may not follow another variable", idx))
			}
			if prevWasNot {
				violations = append(violations, fmt.Sprintf("token %d: consecutive NOT", idx))
			}
			if strings.Contains(tok, ")") {
				violations = append(violations, fmt.Sprintf("token %d: NOT may not carry a closing parenthesis", idx))
			}
			prevWasNot = true
			continue
		}

		if expectVariable {
			violations = append(violations, validateAtomToken(tok, idx)...)
			label := stripAllParens(tok)
			if label != "" {
				if !labels[label] {
					violations = append(violations, fmt.Sprintf("token %d: label %q is not declared by any clause", idx, label))
				}
				used[label] = true
			}
			expectVariable = false
		} else {
			if _, ok := parseBoolOp(tok); !ok {
				violations = append(violations, fmt.Sprintf("token %d: %q is not a valid binary operator", idx, tok))
			}
			expectVariable = true
		}
		prevWasNot = false
	}

	if expectVariable {
		violations = append(violations, "expression must end with a variable, not an operator")
	}

	for label := range labels {
		if !used[label] {
			violations = append(violations, fmt.Sprintf("declared label %q does not appear in expression", label))
		}
	}

	return violations
}

// validateAtomToken checks the intra-token shape rule: '(' only as a
// contiguous prefix, ')' only as a contiguous suffix, nothing else
// interleaved.
func validateAtomToken(tok string, idx int) []string {
	var violations []string
	i := 0
	for i < len(tok) && tok[i] == '(' {
		i++
	}
	j := len(tok)
	for j > i && tok[j-1] == ')' {
		j--
	}
	middle := tok[i:j]
	if strings.ContainsAny(middle, "()") {
		violations = append(violations, fmt.Sprintf("token %d: %q mixes parentheses with label characters", idx, tok))
	}
	return violations
}
