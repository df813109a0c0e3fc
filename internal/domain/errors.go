// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

var (
	// General errors
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// Operator-related errors
	ErrOperatorNotFound   = errors.New("operator not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Organization-related errors
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrAlreadyLinked        = errors.New("organization already linked to billing provider")
	ErrNotLinked            = errors.New("organization not linked to billing provider")
	ErrPlanNotConfigured    = errors.New("no price configured for deployment type and billing period")

	// Gateway-related errors
	ErrNoSubscriptionItem = errors.New("subscription has no billable line item")
)

// GatewayError wraps a failure from the external billing provider. Gateway
// failures never abort the local write path; callers log them and carry on.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("billing gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsGatewayError reports whether err originated in the billing gateway.
func IsGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}
