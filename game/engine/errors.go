package engine

import (
	"errors"
	"fmt"
)

// Reason is a machine-readable code explaining why an operation was refused
type Reason string

const (
	ReasonAlreadyRolled     Reason = "already_rolled"
	ReasonNotRolled         Reason = "not_rolled"
	ReasonLandingResolved   Reason = "landing_resolved"
	ReasonNotPurchasable    Reason = "not_purchasable"
	ReasonInsufficientFunds Reason = "insufficient_funds"
	ReasonNotOwner          Reason = "not_owner"
	ReasonMaxLevel          Reason = "max_level"
	ReasonNoPendingDraw     Reason = "no_pending_draw"
	ReasonCardNotOffered    Reason = "card_not_offered"
	ReasonPendingDraw       Reason = "pending_draw"
)

// RuleError is returned when an operation is not legal in the current state.
// The state is left untouched.
type RuleError struct {
	Op     string
	Reason Reason
}

func (e *RuleError) Error() string {
	if e.Op == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Is matches any RuleError with the same reason; an empty Op on the target matches every op.
func (e *RuleError) Is(target error) bool {
	t, ok := target.(*RuleError)
	if !ok {
		return false
	}
	return t.Reason == e.Reason && (t.Op == "" || t.Op == e.Op)
}

var (
	ErrAlreadyRolled     = &RuleError{Reason: ReasonAlreadyRolled}
	ErrNotRolled         = &RuleError{Reason: ReasonNotRolled}
	ErrLandingResolved   = &RuleError{Reason: ReasonLandingResolved}
	ErrNotPurchasable    = &RuleError{Reason: ReasonNotPurchasable}
	ErrInsufficientFunds = &RuleError{Reason: ReasonInsufficientFunds}
	ErrNotOwner          = &RuleError{Reason: ReasonNotOwner}
	ErrMaxLevel          = &RuleError{Reason: ReasonMaxLevel}
	ErrNoPendingDraw     = &RuleError{Reason: ReasonNoPendingDraw}
	ErrCardNotOffered    = &RuleError{Reason: ReasonCardNotOffered}
	ErrPendingDraw       = &RuleError{Reason: ReasonPendingDraw}
)

func ruleError(op string, reason Reason) *RuleError {
	return &RuleError{Op: op, Reason: reason}
}

// ReasonOf extracts the reason code from err, or "" if err is not a RuleError
func ReasonOf(err error) Reason {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}

// InvariantViolation reports a broken engine invariant or an unknown card.
// It is a programming error, distinct from a refused move.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Detail
}

func violation(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Detail: fmt.Sprintf(format, args...)}
}
