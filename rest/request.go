// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"net/http"
	"net/url"
)

// Request is a transport neutral view of an incoming HTTP request.
// Both [net/http] servers and API gateway proxy events are normalized
// into this form before being dispatched to a procedure.
type Request struct {
	// Method is the HTTP method, uppercased.
	Method string

	// Path is the raw request path, before any normalization.
	Path string

	// Query holds the parsed query string parameters.
	Query url.Values

	// Header holds the request headers.
	Header http.Header

	// Body is the raw request body. It may be nil.
	Body []byte
}

// Response is the transport neutral result of dispatching a [Request].
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header holds the response headers.
	Header http.Header

	// Body is the serialized response body.
	Body []byte
}
