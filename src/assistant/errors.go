// Package assistant implements the conversation and task orchestration core:
// the completion gateway, the chat service, and the execution dispatcher.
package assistant

import (
	"errors"
	"fmt"
)

// Error kind tags surfaced to callers. Stable by contract.
const (
	KindValidation = "validation"
	KindNotFound   = "not_found"
	KindGateway    = "gateway"
	KindStore      = "store"
)

// ValidationError indicates malformed, missing or out-of-enum input. Always
// client-caused and locally detectable; never retried.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Detail
}

// NotFoundError indicates a referenced entity id did not resolve, optionally
// after tenant/user narrowing.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
	}
	return e.Entity + " not found"
}

// GatewayError indicates the external completion provider failed, timed out
// or returned an error payload.
type GatewayError struct {
	Detail string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway error: %s: %v", e.Detail, e.Err)
	}
	return "gateway error: " + e.Detail
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// StoreError indicates the persistence layer itself failed. Always fatal to
// the current operation; no automatic retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error in %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Kind classifies an error by its taxonomy tag. Unclassified errors return
// an empty string.
func Kind(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	var nfe *NotFoundError
	if errors.As(err, &nfe) {
		return KindNotFound
	}
	var ge *GatewayError
	if errors.As(err, &ge) {
		return KindGateway
	}
	var se *StoreError
	if errors.As(err, &se) {
		return KindStore
	}
	return ""
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
