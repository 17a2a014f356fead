package model

import "strconv"

// CreditRequest asks the reward ledger to add points to a user exactly once per key.
type CreditRequest struct {
	UserID         int64
	Amount         int64
	IdempotencyKey string
}

// CreditResult is the ledger answer. Replayed is set when the key was applied before.
type CreditResult struct {
	UserID   int64
	Score    int64
	Replayed bool
}

// BookingIdempotencyKey derives the credit key of a booking.
func BookingIdempotencyKey(bookingID int64) string {
	return strconv.FormatInt(bookingID, 10)
}
