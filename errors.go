package shop

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Stable text codes surfaced to API clients alongside the human message.
const (
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeDuplicateEmail  = "DUPLICATE_EMAIL"
	TextCodeTokenExpired    = "TOKEN_EXPIRED"
	TextCodeTokenMalformed  = "TOKEN_MALFORMED"
	TextCodeTokenConsumed   = "TOKEN_ALREADY_USED"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
	TextCodeTooManyRequests = "TOO_MANY_REQUESTS"
)

// ErrIdentityNotFound is returned when no user matches a lookup.
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrMismatchedHashAndPassword hides which of email/password was wrong.
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrDuplicateEmail normalizes the unique-index violation on users.email.
var ErrDuplicateEmail = goerrors.New("an account with this email already exists", goerrors.CategoryConflict).
	WithCode(goerrors.CodeConflict).
	WithTextCode(TextCodeDuplicateEmail)

// ErrTokenExpired signals an expired but otherwise valid token; clients may
// recover through the refresh endpoint.
var ErrTokenExpired = goerrors.New("authentication token has expired", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed signals a token that failed signature or shape checks.
// There is no refresh path out of this one.
var ErrTokenMalformed = goerrors.New("authentication token is malformed", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized).
	WithTextCode(TextCodeTokenMalformed)

// ErrResetTokenInvalid covers expired, consumed, and never-issued reset tokens
// with a single message so callers cannot probe which it was.
var ErrResetTokenInvalid = goerrors.New("password reset token is invalid or has expired", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound).
	WithTextCode(TextCodeTokenConsumed)

// ErrVerificationTokenInvalid is returned when the account is already verified
// or the token never existed.
var ErrVerificationTokenInvalid = goerrors.New("account is already verified or the token is invalid", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound).
	WithTextCode(TextCodeTokenConsumed)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest).
	WithTextCode(TextCodeEmptyPassword)

// ErrUnableToDecodeSession covers claims that fail to decode after validation.
var ErrUnableToDecodeSession = goerrors.New("unable to decode session claims", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// ErrTooManyRequests is returned when the mail rate limiter trips.
var ErrTooManyRequests = goerrors.New("too many requests, try again later", goerrors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyRequests)

// IsTokenExpiredError will check for expired tokens, matching both our
// structured sentinel and the raw jwt library message.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for malformed token errors.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
