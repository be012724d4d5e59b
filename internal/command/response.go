package command

import (
	"errors"
	"fmt"
)

// Status codes carried by a Response. They mirror HTTP semantics.
const (
	StatusOK            = 200
	StatusBadRequest    = 400
	StatusNotFound      = 404
	StatusInternalError = 500
)

// Response is the uniform result of a tool invocation.
type Response struct {
	Status   int    `json:"status"`
	Message  string `json:"message,omitempty"`
	Results  any    `json:"results,omitempty"`
	Duration int64  `json:"duration"`
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// OK returns a 200 response with the given results.
func OK(results any) *Response {
	return &Response{Status: StatusOK, Message: "Success", Results: results}
}

// BadRequest returns a 400 response.
func BadRequest(message string) *Response {
	return &Response{Status: StatusBadRequest, Message: message}
}

// NotFound returns a 404 response for the named tool.
func NotFound(name string) *Response {
	return &Response{Status: StatusNotFound, Message: (&NotFoundError{Name: name}).Error()}
}

// Failed returns a 500 response whose message starts with the error text.
func Failed(err error) *Response {
	return &Response{Status: StatusInternalError, Message: err.Error()}
}

// FromError classifies err into a Response by its error type.
func FromError(err error) *Response {
	var verr *ValidationError
	var nerr *NotFoundError
	switch {
	case err == nil:
		return OK(nil)
	case errors.As(err, &verr):
		return BadRequest(verr.Error())
	case errors.As(err, &nerr):
		return NotFound(nerr.Name)
	default:
		return Failed(err)
	}
}

// String is used in debug logs.
func (r *Response) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("status=%d message=%q", r.Status, r.Message)
}
