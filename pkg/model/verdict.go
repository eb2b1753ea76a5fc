package model

import (
	"encoding/json"
	"fmt"
)

// Verdict is an ordered analysis severity. The engine never combines
// verdicts across matched rules; it only reports which rules fired. The
// ordering exists so default levels and rule flags can be compared.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictInformation
	VerdictVerbose
	VerdictWarning
	VerdictError
)

var verdictNames = [...]string{
	VerdictNone:        "NONE",
	VerdictInformation: "INFORMATION",
	VerdictVerbose:     "VERBOSE",
	VerdictWarning:     "WARNING",
	VerdictError:       "ERROR",
}

var verdictByName = func() map[string]Verdict {
	m := make(map[string]Verdict, len(verdictNames))
	for v, name := range verdictNames {
		m[name] = Verdict(v)
	}
	return m
}()

func (v Verdict) String() string {
	if v < 0 || int(v) >= len(verdictNames) {
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
	return verdictNames[v]
}

func ParseVerdict(s string) (Verdict, error) {
	v, ok := verdictByName[s]
	if !ok {
		return VerdictNone, fmt.Errorf("unknown verdict: %q", s)
	}
	return v, nil
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Verdict) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVerdict(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Verdict) MarshalYAML() (any, error) {
	return v.String(), nil
}

func (v *Verdict) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseVerdict(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
