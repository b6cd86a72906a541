package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller lacks the permission required for the action.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates the action is illegal in the resource's current state.
var ErrConflict = errors.New("conflict")

// ErrRefreshTokenExpired indicates the stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrIdempotencyMismatch indicates an idempotency key was reused with a
// different request.
var ErrIdempotencyMismatch = errors.New("idempotency key reused with a different request")

// ErrSessionEnded indicates the local session is no longer usable and the user
// must authenticate again.
var ErrSessionEnded = errors.New("session ended, re-authentication required")
