// Package services defines the business logic for accounts, ideas, swipes,
// and recommendations. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// Account-related errors.
var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registration uses an email that already
	// has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidEmail is returned when an email fails basic syntactic checks.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrWeakPassword is returned when a password is shorter than the minimum.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	// ErrInvalidCredentials is returned on a failed login. It deliberately
	// does not distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Domain-selection errors.
var (
	// ErrInvalidDomain is returned when a domain label is neither in the
	// catalog nor a well-formed custom domain.
	ErrInvalidDomain = errors.New("unknown interest domain")

	// ErrDomainSelection is returned when a selection would leave the user
	// with fewer than one or more than eight domains.
	ErrDomainSelection = errors.New("between 1 and 8 interest domains required")

	// ErrNotOnboarded is returned when an operation requires a completed
	// domain selection.
	ErrNotOnboarded = errors.New("onboarding not completed")
)

// Idea and swipe errors.
var (
	// ErrIdeaNotFound indicates that the requested idea does not exist.
	ErrIdeaNotFound = errors.New("idea not found")

	// ErrModelNotTrained is returned by model diagnostics endpoints before
	// the first successful training run.
	ErrModelNotTrained = errors.New("no trained model available")
)
