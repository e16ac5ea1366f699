package entity

import "errors"

// Sentinel errors shared across services and handlers. Services wrap these
// with fmt.Errorf("...: %w", err) and handlers translate them into HTTP
// responses with errors.Is.
var (
	// ErrNetwork covers transport-level failures against the booking
	// backend. Retryable by re-invoking the same call.
	ErrNetwork = errors.New("backend unreachable")

	// ErrNotFound means the screening no longer exists on the backend.
	ErrNotFound = errors.New("screening not found")

	// ErrSessionNotFound means no live reservation session for the given id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSeatUnavailable rejects toggling a seat that is occupied or disabled.
	ErrSeatUnavailable = errors.New("seat is not available")

	// ErrSeatLimitReached rejects selecting more seats than the audience count allows.
	ErrSeatLimitReached = errors.New("seat limit reached")

	// ErrIncompleteSelection rejects advancing with fewer seats than tickets.
	ErrIncompleteSelection = errors.New("seat selection incomplete")

	// ErrInvalidStep rejects an operation not allowed at the current workflow step.
	ErrInvalidStep = errors.New("operation not allowed at current step")

	// ErrConflict means a selected seat was taken by another session before
	// submission. The backend is the seat-lock authority.
	ErrConflict = errors.New("seat no longer available")

	// ErrPayment means the payment gateway rejected the payment.
	ErrPayment = errors.New("payment rejected")

	// ErrValidation is a usage error: preconditions that handlers should have
	// enforced were violated.
	ErrValidation = errors.New("validation failed")
)

// ReasonCode returns a stable machine-readable code for a taxonomy error,
// suitable for the errors field of the response envelope.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrNetwork):
		return "NETWORK_ERROR"
	case errors.Is(err, ErrNotFound):
		return "SCREENING_NOT_FOUND"
	case errors.Is(err, ErrSessionNotFound):
		return "SESSION_NOT_FOUND"
	case errors.Is(err, ErrSeatUnavailable):
		return "SEAT_UNAVAILABLE"
	case errors.Is(err, ErrSeatLimitReached):
		return "SEAT_LIMIT_REACHED"
	case errors.Is(err, ErrIncompleteSelection):
		return "INCOMPLETE_SELECTION"
	case errors.Is(err, ErrInvalidStep):
		return "INVALID_STEP"
	case errors.Is(err, ErrConflict):
		return "SEAT_CONFLICT"
	case errors.Is(err, ErrPayment):
		return "PAYMENT_REJECTED"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_FAILED"
	default:
		return "INTERNAL_ERROR"
	}
}
