package model

// ResultType tags the kind of collected object a compare result describes
// (file, registry key, service, port, ...). It is deliberately an open
// string type rather than a closed Go enum: new collector object kinds
// should not require recompiling the rule engine.
type ResultType string

// Common result types shipped with the default rule set. Callers are free
// to define additional ones.
const (
	ResultTypeFile         ResultType = "FILE"
	ResultTypeRegistryKey  ResultType = "REGISTRYKEY"
	ResultTypeService      ResultType = "SERVICE"
	ResultTypePort         ResultType = "PORT"
	ResultTypeUser         ResultType = "USER"
	ResultTypeCertificate  ResultType = "CERTIFICATE"
	ResultTypeFirewallRule ResultType = "FIREWALLRULE"
)

func (r ResultType) String() string { return string(r) }
