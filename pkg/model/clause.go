package model

import (
	"encoding/json"
	"fmt"
)

// Pair is an ordered (key, value) string tuple, used both for DictData
// operands and for the flattened key/value view the value extractor
// produces from maps.
type Pair struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// MarshalJSON renders a Pair as the canonical ["key","value"] tuple
// rule files use for DictData, rather than a {"Key":...,"Value":...}
// object.
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Key, p.Value})
}

// UnmarshalJSON reads a Pair from a ["key","value"] tuple.
func (p *Pair) UnmarshalJSON(data []byte) error {
	var tuple [2]string
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("model: Pair must be a [\"key\",\"value\"] tuple: %w", err)
	}
	p.Key = tuple[0]
	p.Value = tuple[1]
	return nil
}

// Clause is a single predicate over a dotted field path.
type Clause struct {
	Field     string    `json:"Field" yaml:"field"`
	Operation Operation `json:"Operation" yaml:"operation"`
	Data      []string  `json:"Data,omitempty" yaml:"data,omitempty"`
	DictData  []Pair    `json:"DictData,omitempty" yaml:"dictData,omitempty"`
	Label     string    `json:"Label,omitempty" yaml:"label,omitempty"`
}
