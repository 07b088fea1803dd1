package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller is not authenticated or the credentials are invalid.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller is authenticated but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrRefreshTokenExpired indicates that the presented refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// Domain validation failures. All of these are local, synchronous and non-retryable;
// they surface to the immediate caller and are mapped to HTTP statuses only in handlers.
var (
	// ErrInvalidAmount indicates a monetary amount that cannot be represented.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrCurrencyMismatch indicates an operation between two different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInvalidPhoneNumber indicates a phone number that is not a valid Kenyan MSISDN.
	ErrInvalidPhoneNumber = errors.New("invalid phone number")

	// ErrInvalidAddress indicates a wallet address that does not match its network's format.
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrInvalidHash indicates a transaction hash that does not match its network's format.
	ErrInvalidHash = errors.New("invalid transaction hash")

	// ErrInvalidRate indicates an exchange rate that is zero or negative.
	ErrInvalidRate = errors.New("invalid exchange rate")
)
