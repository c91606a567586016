package domain

import "errors"

var (
	// ErrNetwork is returned when an outbound request fails at the transport level
	ErrNetwork = errors.New("network error")

	// ErrDecode is returned when a remote response body cannot be decoded
	ErrDecode = errors.New("malformed response")

	// ErrLookupFailed is returned when the nutrient database query fails.
	// It wraps ErrNetwork or ErrDecode where applicable.
	ErrLookupFailed = errors.New("nutrient lookup failed")

	// ErrClassifierFailed is returned when the photo classifier request fails
	ErrClassifierFailed = errors.New("photo classifier request failed")

	// ErrNoFoodDetected is returned when no prediction clears the confidence threshold
	ErrNoFoodDetected = errors.New("no food detected")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrStorage is returned when the record store fails to read or save
	ErrStorage = errors.New("storage error")

	// ErrProfileNotFound is returned when no biometric profile has been saved yet
	ErrProfileNotFound = errors.New("profile not found")

	// ErrRecordNotFound is returned when a stored record does not exist
	ErrRecordNotFound = errors.New("record not found")
)
