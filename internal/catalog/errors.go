package catalog

import "errors"

// Error taxonomy shared by both catalog backings and the controllers built
// on top of them. Controllers check these with errors.Is and always leave
// their state as it was before the failed attempt.
var (
	// ErrConfigurationMissing means no external-channel identity is set,
	// so an order cannot be handed off. Checked before any network call.
	ErrConfigurationMissing = errors.New("external channel not configured")

	// ErrValidationFailed means required input was empty or malformed.
	// Raised locally; no request is sent.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnauthorized means the session token is missing, expired, or
	// rejected. The UI must fall back to the login view.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means a stale id was referenced, e.g. editing a
	// just-deleted product.
	ErrNotFound = errors.New("not found")

	// ErrBackend wraps transport failures and non-success responses.
	ErrBackend = errors.New("backend error")
)
