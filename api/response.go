package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func abort(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message, Details: details},
	})
}

func badRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

// respondError maps the domain error taxonomy onto HTTP. Unexpected errors are
// attached to the context for the request logger and reported without detail.
func respondError(c *gin.Context, err error) {
	var (
		validation *domain.ValidationError
		insert     *domain.InsertFailureError
	)
	switch {
	case errors.As(err, &validation):
		abort(c, http.StatusBadRequest, "VALIDATION_ERROR", validation.Error(), gin.H{"field": validation.Field})
	case errors.Is(err, domain.ErrNotFound):
		abort(c, http.StatusNotFound, "NOT_FOUND", "resource not found", nil)
	case errors.Is(err, domain.ErrUnauthorized):
		abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
	case errors.Is(err, domain.ErrForbidden):
		abort(c, http.StatusForbidden, "FORBIDDEN", "not allowed", nil)
	case errors.Is(err, domain.ErrEmailTaken):
		abort(c, http.StatusConflict, "EMAIL_TAKEN", err.Error(), nil)
	case errors.As(err, &insert):
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "INSERT_FAILED", "booking could not be saved", gin.H{"cause": insert.Cause.Error()})
	default:
		if conflict, isConflict := domain.AsSeatConflict(err); isConflict {
			abort(c, http.StatusConflict, "SEAT_CONFLICT", conflict.Error(), gin.H{"seats": conflict.Seats})
			return
		}
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
	}
}
