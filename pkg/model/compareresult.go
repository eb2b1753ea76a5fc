package model

// CompareResult is the diff object for a single collected entity between
// two snapshots. Base and Compare are dynamic Go values produced by an
// external collector/differ (structs, map[string]any, slices, or
// scalars) — out of scope for this module. Base is nil for CREATED,
// Compare is nil for DELETED.
//
// Analysis and MatchedRules are output fields: the analyzer resets and
// repopulates them on every Analyze call.
//
// A *CompareResult's own pointer identity is the "opaque identity handle"
// used to key the clause cache for the lifetime of one Analyze call.
type CompareResult struct {
	ResultType   ResultType
	ChangeType   ChangeType
	Base         any
	Compare      any
	Analysis     Verdict
	MatchedRules []string
}

// NewCompareResult constructs a compare result ready for analysis.
func NewCompareResult(resultType ResultType, changeType ChangeType, base, compare any) *CompareResult {
	return &CompareResult{
		ResultType: resultType,
		ChangeType: changeType,
		Base:       base,
		Compare:    compare,
	}
}
