// Package apperrors holds the sentinel errors shared across the service.
//
// ErrNotFound covers every "referenced entity absent" condition: missing
// texts and sets, a question with no votes yet, a strategy query with zero
// candidates. ErrValidation is malformed client input rejected at the
// boundary. ErrTransient marks store/transport unavailability that the queue
// layer may retry; request handlers never retry it synchronously.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrTransient  = errors.New("transient failure")
)

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func Transientf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrTransient)...)
}

func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
