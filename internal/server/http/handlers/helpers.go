package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
)

// ParseID reads a positive integer path parameter.
func ParseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// StatusFor maps a domain error to the response status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrTransport),
		errors.Is(err, domainErrors.ErrCircuitOpen),
		errors.Is(err, domainErrors.ErrRemoteServer):
		return http.StatusServiceUnavailable
	case errors.Is(err, domainErrors.ErrRemoteRejected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
