package dto

// NewUserRequest registers a user.
type NewUserRequest struct {
	Name string `json:"name" binding:"required"`
}

// UserResponse represents a user.
type UserResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieResponse describes a booked movie.
type MovieResponse struct {
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
	URI    string  `json:"uri"`
}
