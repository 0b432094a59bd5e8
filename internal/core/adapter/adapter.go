// Package adapter contains the verification method adapters. Each adapter
// answers for one domain at a time and never fails for "domain not found";
// errors are reserved for transport, protocol, and auth failures.
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tldsweep/tldsweep/internal/core"
)

// Adapter is the uniform contract the resolution engine consumes.
type Adapter interface {
	// Method returns the method name this adapter implements.
	Method() core.Method

	// Check verifies one candidate. The returned outcome may be
	// inconclusive; an error means the call itself failed.
	Check(ctx context.Context, candidate core.DomainCandidate) (*core.VerificationOutcome, error)
}

// Error wraps a single-call adapter failure with its method and operation.
type Error struct {
	Method core.Method
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(method core.Method, op string, err error) *Error {
	return &Error{Method: method, Op: op, Err: err}
}

func outcome(method core.Method, status core.Status, conclusive bool, reason string) *core.VerificationOutcome {
	return &core.VerificationOutcome{
		CheckID:    uuid.New().String(),
		Method:     method,
		Status:     status,
		Conclusive: conclusive,
		Reason:     core.CapReason(reason),
		ResolvedAt: time.Now().UTC(),
	}
}

func conclusiveOutcome(method core.Method, status core.Status, reason string, price *core.Price) *core.VerificationOutcome {
	result := outcome(method, status, true, reason)
	result.Price = price
	return result
}

func inconclusiveOutcome(method core.Method, reason string) *core.VerificationOutcome {
	return outcome(method, core.StatusUnknown, false, reason)
}
