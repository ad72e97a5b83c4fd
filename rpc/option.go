// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rpc

import "net/http"

// ProcedureOption sets REST exposure metadata at registration time.
type ProcedureOption interface {
	ApplyProcedureOption(*Procedure)
}

type procedureOptionFunc func(*Procedure)

func (f procedureOptionFunc) ApplyProcedureOption(p *Procedure) {
	f(p)
}

// Route exposes the procedure over HTTP with the given method and path
// template. The adapters serve GET, POST, PUT, PATCH, and DELETE; any
// other method fails handler and document construction.
func Route(method, path string) ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.Method = method
		p.meta.Path = path
		p.meta.Enabled = true
	})
}

// Get exposes the procedure as a GET endpoint at the given path template.
func Get(path string) ProcedureOption {
	return Route(http.MethodGet, path)
}

// Post exposes the procedure as a POST endpoint at the given path template.
func Post(path string) ProcedureOption {
	return Route(http.MethodPost, path)
}

// Put exposes the procedure as a PUT endpoint at the given path template.
func Put(path string) ProcedureOption {
	return Route(http.MethodPut, path)
}

// Patch exposes the procedure as a PATCH endpoint at the given path template.
func Patch(path string) ProcedureOption {
	return Route(http.MethodPatch, path)
}

// Delete exposes the procedure as a DELETE endpoint at the given path template.
func Delete(path string) ProcedureOption {
	return Route(http.MethodDelete, path)
}

// Disabled keeps the procedure out of the HTTP adapter and the OpenAPI
// document while retaining its declared metadata.
func Disabled() ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.Enabled = false
	})
}

// Summary sets the operation summary in the OpenAPI document.
func Summary(s string) ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.Summary = s
	})
}

// Description sets the operation description in the OpenAPI document.
func Description(s string) ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.Description = s
	})
}

// Protected marks the operation as requiring the document's security
// schemes.
func Protected() ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.Protected = true
	})
}

// Tags appends OpenAPI tags to the operation.
func Tags(tags ...string) ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.Tags = append(p.meta.Tags, tags...)
	})
}

// Deprecated marks the operation as deprecated in the OpenAPI document.
func Deprecated() ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.Deprecated = true
	})
}

// ContentTypes restricts which request body media types the procedure
// accepts. Requests carrying other types are rejected with
// UNSUPPORTED_MEDIA_TYPE.
func ContentTypes(types ...string) ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.ContentTypes = append(p.meta.ContentTypes, types...)
	})
}

// Headers documents request headers the procedure reads.
func Headers(headers ...HeaderField) ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.Headers = append(p.meta.Headers, headers...)
	})
}

// ResponseHeaders documents headers the success response carries.
func ResponseHeaders(headers ...HeaderField) ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.ResponseHeaders = append(p.meta.ResponseHeaders, headers...)
	})
}

// RequestExample attaches an example request body to the OpenAPI document.
func RequestExample(v any) ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.RequestExample = v
	})
}

// ResponseExample attaches an example response body to the OpenAPI
// document.
func ResponseExample(v any) ProcedureOption {
	return procedureOptionFunc(func(p *Procedure) {
		p.meta.ResponseExample = v
	})
}
