package model

import "time"

// User represents a registered cinema customer.
type User struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
