package model

// Rule is a named, typed conjunction (or boolean expression) of clauses
// carrying a verdict. Clauses are evaluated left to right; if Expression
// is empty the rule fires iff every clause is true (implicit AND).
type Rule struct {
	Name        string        `json:"Name" yaml:"name"`
	Desc        string        `json:"Desc,omitempty" yaml:"desc,omitempty"`
	Flag        Verdict       `json:"Flag" yaml:"flag"`
	ResultType  ResultType    `json:"ResultType" yaml:"resultType"`
	Platforms   PlatformSet   `json:"Platforms,omitempty" yaml:"platforms,omitempty"`
	ChangeTypes ChangeTypeSet `json:"ChangeTypes,omitempty" yaml:"changeTypes,omitempty"`
	Clauses     []Clause      `json:"Clauses" yaml:"clauses"`
	Expression  string        `json:"Expression,omitempty" yaml:"expression,omitempty"`
}

// RuleFile is the top-level container loaded once at analyzer
// construction and treated as read-only for the remainder of the
// process's life.
type RuleFile struct {
	DefaultLevels map[ResultType]Verdict `json:"DefaultLevels,omitempty" yaml:"defaultLevels,omitempty"`
	Rules         []Rule                 `json:"Rules" yaml:"rules"`
}
