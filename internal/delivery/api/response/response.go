// Package response renders the JSON envelope shared by every endpoint.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domainerrors "pricetracker/internal/domain/errors"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message,omitempty"`
	Data    any                       `json:"data,omitempty"`
	Errors  []domainerrors.FieldError `json:"errors,omitempty"`
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, message string, data any) error {
	return c.JSON(statusCode, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// OK returns a 200 response.
func OK(c echo.Context, message string, data any) error {
	return Success(c, http.StatusOK, message, data)
}

// Created returns a 201 response.
func Created(c echo.Context, message string, data any) error {
	return Success(c, http.StatusCreated, message, data)
}

// Error returns an error response. Field errors are dropped for 5xx responses.
func Error(c echo.Context, statusCode int, message string, fields []domainerrors.FieldError) error {
	if statusCode >= http.StatusInternalServerError {
		fields = nil
	}

	return c.JSON(statusCode, Envelope{
		Success: false,
		Message: message,
		Errors:  fields,
	})
}

// InternalServerError returns a 500 error
func InternalServerError(c echo.Context) error {
	return Error(c, http.StatusInternalServerError, domainerrors.ErrInternalError.Message(), nil)
}
