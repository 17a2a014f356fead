package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/polkiloo/cinema/internal/domain/model"
	"github.com/polkiloo/cinema/internal/server/http/dto"
)

// UserHandler manages user endpoints.
type UserHandler struct {
	facade UserFacade
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(facade UserFacade) *UserHandler {
	return &UserHandler{facade: facade}
}

// Manual handles GET /.
func (h *UserHandler) Manual(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ManualResponse{
		URI: "/",
		SubresourceURIs: map[string]string{
			"users":     "/users",
			"user":      "/users/<user>",
			"new":       "/users/new",
			"bookings":  "/users/<user>/bookings",
			"suggested": "/users/<user>/suggested",
		},
	})
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.facade.Users(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(users, func(u model.User, _ int) dto.UserResponse {
		return dto.UserResponse{ID: u.ID, Name: u.Name}
	}))
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	user, err := h.facade.User(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserResponse{ID: user.ID, Name: user.Name})
}

// Create handles POST /users/new.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.NewUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.facade.RegisterUser(c.Request.Context(), req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.UserResponse{ID: user.ID, Name: user.Name})
}

// Bookings handles GET /users/:id/bookings.
func (h *UserHandler) Bookings(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}
	booked, err := h.facade.BookedMovies(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	resp := make(map[string][]dto.MovieResponse, len(booked))
	for date, movies := range booked {
		resp[date] = lo.Map(movies, func(m model.Movie, _ int) dto.MovieResponse {
			return dto.MovieResponse{Title: m.Title, Rating: m.Rating, URI: m.URI}
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Suggested handles GET /users/:id/suggested.
func (h *UserHandler) Suggested(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "suggestions are not implemented"})
}
