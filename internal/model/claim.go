package model

// ClaimType identifies which verification strategy handles a claim
type ClaimType string

const (
	ClaimTypeIdentity    ClaimType = "identity"    // Exact symbolic equality of two expressions
	ClaimTypeInduction   ClaimType = "induction"   // Base cases plus a symbolic step check
	ClaimTypeLyapunov    ClaimType = "lyapunov"    // One-step energy descent, sampled
	ClaimTypeGate        ClaimType = "gate"        // Mutual exclusion/exhaustion of two predicates, sampled
	ClaimTypeContraction ClaimType = "contraction" // Jacobian norm bound, sampled
)

// ClaimSpec is a single claim as loaded from a claims file.
// The Data map holds the type-specific fields (expression strings, symbol
// lists, ranges, trial counts) exactly as they appeared in the source file.
type ClaimSpec struct {
	ID   string                 `json:"id" yaml:"id"`
	Type ClaimType              `json:"type" yaml:"type"`
	Data map[string]interface{} `json:"data" yaml:"data"`
}

// Range is an inclusive numeric sampling interval for one state variable
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}
