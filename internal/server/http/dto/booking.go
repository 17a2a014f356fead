package dto

import "time"

// CreateBookingRequest describes booking creation payload.
type CreateBookingRequest struct {
	User  int64  `json:"user" binding:"required"`
	Movie int64  `json:"movie" binding:"required"`
	Date  string `json:"date" binding:"required"`
}

// BookingResponse represents a booking with its reward state.
type BookingResponse struct {
	ID              int64      `json:"id"`
	User            int64      `json:"user"`
	Movie           int64      `json:"movie"`
	Date            string     `json:"date"`
	Rewarded        bool       `json:"rewarded"`
	RewardStatus    string     `json:"reward_status"`
	RewardRetryable bool       `json:"reward_retryable"`
	RewardAttempts  int        `json:"reward_attempts"`
	RewardError     string     `json:"reward_error,omitempty"`
	LastAttemptAt   *time.Time `json:"last_attempt_at,omitempty"`
	NextAttemptAt   *time.Time `json:"next_attempt_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// SweepReportResponse summarises one reconciliation pass.
type SweepReportResponse struct {
	Selected       int `json:"selected"`
	Rewarded       int `json:"rewarded"`
	RetryScheduled int `json:"retry_scheduled"`
	Rejected       int `json:"rejected"`
	Exhausted      int `json:"exhausted"`
	Superseded     int `json:"superseded"`
	Errors         int `json:"errors"`
}
