package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrInvalidToken     = fmt.Errorf("invalid token")
	ErrTokenExpired     = fmt.Errorf("access token expired")

	// Legacy source errors
	ErrSourceUnavailable = fmt.Errorf("legacy source unavailable")

	// Persistence errors
	ErrConflict        = fmt.Errorf("unique constraint conflict")
	ErrNotFound        = fmt.Errorf("record not found")
	ErrNoDefaultOwner  = fmt.Errorf("no default owner available")
	ErrTransactionFail = fmt.Errorf("transaction failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
