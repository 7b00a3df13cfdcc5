package response

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorBody is what clients receive for any unhandled error
type ErrorBody struct {
	Message    string `json:"message"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

// HTTPError attaches a status code to an error returned from a handler
type HTTPError struct {
	Code int
	Err  error
}

func (e *HTTPError) Error() string {
	return e.Err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewError(code int, err error) *HTTPError {
	return &HTTPError{Code: code, Err: err}
}

func BadRequest(format string, args ...any) *HTTPError {
	return NewError(http.StatusBadRequest, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...any) *HTTPError {
	return NewError(http.StatusNotFound, fmt.Errorf(format, args...))
}

// StatusCode is the code carried by err, or 500
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Code >= 400 && httpErr.Code < 600 {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

func Err(w http.ResponseWriter, err error) error {
	code := StatusCode(err)
	return JSON(w, code, ErrorBody{
		Message:    err.Error(),
		Error:      http.StatusText(code),
		StatusCode: code,
	})
}
