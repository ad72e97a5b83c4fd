// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rpc

// HeaderField declares a request or response header on a procedure for
// documentation purposes. The adapter does not enforce declared headers.
type HeaderField struct {
	Name        string
	Description string
	Required    bool
}

// Meta is the REST exposure a procedure opts into. A procedure without a
// method and path template stays invisible to the HTTP adapter and the
// OpenAPI document.
type Meta struct {
	// Enabled is set as soon as a route option declares a method and
	// path. Disabled turns an exposed procedure off without discarding
	// the rest of its metadata.
	Enabled bool

	// Method is the uppercase HTTP verb.
	Method string

	// Path is the template matched against request paths. Segments
	// starting with ':' are named parameters, e.g. "/users/:id".
	Path string

	Summary     string
	Description string

	// Protected marks the operation as requiring the security schemes
	// configured on the OpenAPI document.
	Protected bool

	Tags []string

	// Headers documents request headers beyond the standard ones.
	Headers []HeaderField

	// ContentTypes restricts the request body media types this
	// procedure accepts. Empty means "application/json" only.
	ContentTypes []string

	Deprecated bool

	// RequestExample and ResponseExample surface in the generated
	// document's media type examples.
	RequestExample  any
	ResponseExample any

	// ResponseHeaders documents headers the success response carries.
	ResponseHeaders []HeaderField
}
