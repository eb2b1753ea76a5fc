package ruleengine

import "errors"

// ErrNilCompareResult is returned by Analyze for a nil compare result.
// ErrNilRule is declared alongside it, but no function in this package
// returns it: ValidateRule reports a nil rule as a violation string.
// Every other fault degrades to false/null and is logged instead.
var (
	ErrNilRule          = errors.New("ruleengine: rule is nil")
	ErrNilCompareResult = errors.New("ruleengine: compare result is nil")
)
