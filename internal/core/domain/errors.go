package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrStoreUnavailable   = errors.New("store unavailable, retry later")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user account is inactive")
	ErrInvalidRole  = errors.New("invalid role")
)

// Claim errors
var (
	ErrClaimNotFound      = errors.New("claim not found")
	ErrDuplicateKillmail  = errors.New("a claim for this killmail already exists")
	ErrIllegalTransition  = errors.New("illegal claim status transition")
	ErrClaimLocked        = errors.New("claim is being reviewed by someone else")
	ErrBelowMinimumValue  = errors.New("loss value is below the reimbursement minimum")
	ErrInvalidKillmailURL = errors.New("invalid killmail url")
	ErrInvalidOpContext   = errors.New("invalid operation context")
	ErrNegativeAmount     = errors.New("amount must not be negative")
	ErrNotClaimOwner      = errors.New("claim belongs to another member")
)

// Fleet errors
var (
	ErrFleetNotFound          = errors.New("fleet not found")
	ErrInvalidFleetTransition = errors.New("invalid fleet status transition")
)
