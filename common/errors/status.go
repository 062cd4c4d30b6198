package errors

import (
	"net/http"
)

type StatusCode int

// Error implements error
func (status StatusCode) Error() string {
	return http.StatusText(int(status))
}

func Status(code int) *Error {
	return &Error{
		Kind:    http.StatusText(code),
		Message: http.StatusText(code),
		status:  StatusCode(code),
	}
}

var (
	Invalid         *Error = Status(http.StatusBadRequest)
	Unauthorized    *Error = Status(http.StatusUnauthorized)
	NotFound        *Error = Status(http.StatusNotFound)
	Conflict        *Error = Status(http.StatusConflict)
	TooLarge        *Error = Status(http.StatusRequestEntityTooLarge)
	TooManyRequests *Error = Status(http.StatusTooManyRequests)
	Unavailable     *Error = Status(http.StatusServiceUnavailable)
)
