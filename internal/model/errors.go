package model

import "fmt"

// ConfigError indicates a claim record is missing or has a malformed
// required field. It is raised before the strategy runs and converted to an
// inconclusive result for that claim only.
type ConfigError struct {
	ClaimID string
	Field   string
	Reason  string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("claim %s: field %q: %s", e.ClaimID, e.Field, e.Reason)
	}
	return fmt.Sprintf("claim %s: missing required field %q", e.ClaimID, e.Field)
}

// ParseError indicates an expression string failed to parse into a valid
// symbolic form. Strategies catch it locally and reflect it in the verdict
// details; it never propagates out of a strategy.
type ParseError struct {
	Expr   string
	Pos    int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q at offset %d: %s", e.Expr, e.Pos, e.Reason)
}

// EvalError indicates numeric substitution or evaluation failed (domain
// error, division by zero, non-finite result, unbound symbol).
type EvalError struct {
	Expr   string
	Reason string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluate %q: %s", e.Expr, e.Reason)
}
