// Package failure holds the error taxonomy shared by every entity service.
//
// Business-rule violations are recoverable and carry a message meant for the
// user. Store failures are logged here and surfaced as ErrOperationFailed so
// that callers never inspect driver specific errors. Not-found is not an
// error at all: services return nil or false.
package failure

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

var ErrOperationFailed = errors.New("operation impossible")

// RuleViolation is a business-rule error, e.g. a duplicate budget period.
type RuleViolation struct {
	Message string
	// Conflict marks violations caused by an existing row (duplicates,
	// rows still referenced) rather than by invalid input.
	Conflict bool
}

func (e *RuleViolation) Error() string {
	return e.Message
}

// Rule creates a new business-rule error. Packages keep the result in a
// sentinel variable so callers can match it with errors.Is.
func Rule(message string) error {
	return &RuleViolation{Message: message}
}

// Conflict creates a business-rule error about existing data.
func Conflict(message string) error {
	return &RuleViolation{Message: message, Conflict: true}
}

func IsRule(err error) bool {
	var rule *RuleViolation
	return errors.As(err, &rule)
}

func IsConflict(err error) bool {
	var rule *RuleViolation
	return errors.As(err, &rule) && rule.Conflict
}

// Store logs the underlying cause and returns a generic failure for op.
// Business-rule errors pass through untouched.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsRule(err) || errors.Is(err, ErrOperationFailed) {
		return err
	}
	log.Errorf("could not %s: %v", op, err)
	return fmt.Errorf("could not %s: %w", op, ErrOperationFailed)
}
