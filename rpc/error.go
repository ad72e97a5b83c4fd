// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rpc

import (
	"fmt"

	"github.com/prosepilot/restbridge/schema"
)

// Code classifies a procedure failure. The REST adapter maps each code to
// a fixed HTTP status.
type Code string

const (
	CodeParseError           Code = "PARSE_ERROR"
	CodeBadRequest           Code = "BAD_REQUEST"
	CodeUnauthorized         Code = "UNAUTHORIZED"
	CodeForbidden            Code = "FORBIDDEN"
	CodeNotFound             Code = "NOT_FOUND"
	CodeMethodNotSupported   Code = "METHOD_NOT_SUPPORTED"
	CodeTimeout              Code = "TIMEOUT"
	CodeConflict             Code = "CONFLICT"
	CodePreconditionFailed   Code = "PRECONDITION_FAILED"
	CodePayloadTooLarge      Code = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMediaType Code = "UNSUPPORTED_MEDIA_TYPE"
	CodeUnprocessableContent Code = "UNPROCESSABLE_CONTENT"
	CodeTooManyRequests      Code = "TOO_MANY_REQUESTS"
	CodeClientClosedRequest  Code = "CLIENT_CLOSED_REQUEST"
	CodeInternalServerError  Code = "INTERNAL_SERVER_ERROR"
	CodeNotImplemented       Code = "NOT_IMPLEMENTED"
	CodeBadGateway           Code = "BAD_GATEWAY"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeGatewayTimeout       Code = "GATEWAY_TIMEOUT"
)

// Error is the failure a procedure signals to its caller. Its code and
// message travel to the client unchanged.
type Error struct {
	Code    Code
	Message string

	cause error
}

// NewError returns an [*Error] with the given code and message.
func NewError(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// NewErrorf formats the message with [fmt.Sprintf].
func NewErrorf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError keeps err as the cause, using its text as the message.
func WrapError(code Code, err error) *Error {
	return &Error{
		Code:    code,
		Message: err.Error(),
		cause:   err,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ErrorBody is the wire form of a failed call. Every transport adapter
// serializes failures into this envelope.
type ErrorBody struct {
	Message string         `json:"message"`
	Code    Code           `json:"code"`
	Issues  []schema.Issue `json:"issues,omitempty"`
}
