package model

// Movie is the subset of the movies service representation shown to users.
type Movie struct {
	Title  string
	Rating float64
	URI    string
}

// BookedMovies groups movies booked by a user under the booking date (YYYY-MM-DD).
type BookedMovies map[string][]Movie
