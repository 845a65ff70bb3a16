package types

import "errors"

// Booking and check-in outcomes surfaced to the UI layer. All of these are
// recovered at the failed operation and reported; none terminate the process.
var (
	ErrSoldOut          = errors.New("tickets are sold out")
	ErrLimitExceeded    = errors.New("maximum of 2 tickets per user reached")
	ErrMalformedPayload = errors.New("invalid QR code payload")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrAlreadyCheckedIn = errors.New("ticket already checked in")
	ErrStoreUnavailable = errors.New("record store unavailable")
)
