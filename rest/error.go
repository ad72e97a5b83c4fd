// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/prosepilot/restbridge/rpc"
	"github.com/prosepilot/restbridge/schema"
)

var codeToHTTPStatus = map[rpc.Code]int{
	rpc.CodeParseError:           http.StatusBadRequest,
	rpc.CodeBadRequest:           http.StatusBadRequest,
	rpc.CodeUnauthorized:         http.StatusUnauthorized,
	rpc.CodeForbidden:            http.StatusForbidden,
	rpc.CodeNotFound:             http.StatusNotFound,
	rpc.CodeMethodNotSupported:   http.StatusMethodNotAllowed,
	rpc.CodeTimeout:              http.StatusRequestTimeout,
	rpc.CodeConflict:             http.StatusConflict,
	rpc.CodePreconditionFailed:   http.StatusPreconditionFailed,
	rpc.CodePayloadTooLarge:      http.StatusRequestEntityTooLarge,
	rpc.CodeUnsupportedMediaType: http.StatusUnsupportedMediaType,
	rpc.CodeUnprocessableContent: http.StatusUnprocessableEntity,
	rpc.CodeTooManyRequests:      http.StatusTooManyRequests,
	rpc.CodeClientClosedRequest:  499,
	rpc.CodeInternalServerError:  http.StatusInternalServerError,
	rpc.CodeNotImplemented:       http.StatusNotImplemented,
	rpc.CodeBadGateway:           http.StatusBadGateway,
	rpc.CodeServiceUnavailable:   http.StatusServiceUnavailable,
	rpc.CodeGatewayTimeout:       http.StatusGatewayTimeout,
}

// statusForCode maps a procedure error code to its HTTP status.
// Unrecognized codes are reported as internal server errors.
func statusForCode(c rpc.Code) int {
	status, ok := codeToHTTPStatus[c]
	if !ok {
		return http.StatusInternalServerError
	}
	return status
}

// translateError converts any error raised while serving a request
// into an HTTP status and response envelope.
func translateError(err error) (int, rpc.ErrorBody) {
	var perr *rpc.Error
	if errors.As(err, &perr) {
		return statusForCode(perr.Code), rpc.ErrorBody{
			Message: perr.Message,
			Code:    perr.Code,
		}
	}

	var verr *schema.IssuesError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, rpc.ErrorBody{
			Message: "Input validation failed",
			Code:    rpc.CodeBadRequest,
			Issues:  verr.Issues,
		}
	}

	if errors.Is(err, context.Canceled) {
		return statusForCode(rpc.CodeClientClosedRequest), rpc.ErrorBody{
			Message: err.Error(),
			Code:    rpc.CodeClientClosedRequest,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return statusForCode(rpc.CodeTimeout), rpc.ErrorBody{
			Message: err.Error(),
			Code:    rpc.CodeTimeout,
		}
	}

	msg := err.Error()
	if msg == "" {
		msg = "Unknown error occurred"
	}
	return http.StatusInternalServerError, rpc.ErrorBody{
		Message: msg,
		Code:    rpc.CodeInternalServerError,
	}
}
