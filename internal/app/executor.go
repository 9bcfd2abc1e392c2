package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bodhitab/quote-service/internal/platform/logging"
)

// Writes that must be confirmed run as Validate -> Perform -> Verify:
//
//  1. VALIDATE - reject bad input before any state is touched
//  2. PERFORM  - apply the mutation and persist it
//  3. VERIFY   - read the state back and confirm the mutation is visible
//
// A verify failure is returned to the caller as-is (wrapped in an
// ExecutionError), so domain sentinels such as ErrWriteVerification remain
// detectable with errors.Is.

// ExecutionStep names a stage of an Operation.
type ExecutionStep string

// Execution steps.
const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
)

// ExecutionError records the step an operation failed in.
type ExecutionError struct {
	Operation string
	Step      ExecutionStep
	Cause     error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Operation, e.Step, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Operation defines the stages of a verified write. Nil stages are skipped.
// P is whatever Perform produced and Verify needs to check.
type Operation[I, P any] struct {
	// Name identifies the operation in logs and errors.
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) error
}

// Execute runs op against input and returns what Perform produced.
func Execute[I, P any](ctx context.Context, op Operation[I, P], input I) (P, error) {
	var zero P

	logger := logging.FromContext(ctx).With(slog.String("operation", op.Name))
	start := time.Now()

	fail := func(step ExecutionStep, err error) (P, error) {
		logger.WarnContext(ctx, "operation step failed",
			slog.String("step", string(step)),
			slog.String("error", err.Error()),
		)

		return zero, &ExecutionError{Operation: op.Name, Step: step, Cause: err}
	}

	if op.Validate != nil {
		if err := op.Validate(ctx, input); err != nil {
			return fail(StepValidate, err)
		}
	}

	var performed P

	if op.Perform != nil {
		var err error

		performed, err = op.Perform(ctx, input)
		if err != nil {
			return fail(StepPerform, err)
		}
	}

	if op.Verify != nil {
		if err := op.Verify(ctx, input, performed); err != nil {
			return fail(StepVerify, err)
		}
	}

	logger.DebugContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return performed, nil
}

// FailedStep reports the step an Execute error came from.
func FailedStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
