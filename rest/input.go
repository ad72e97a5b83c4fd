// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"net/url"

	"github.com/prosepilot/restbridge/rpc"
	"github.com/prosepilot/restbridge/schema"
)

// reconcileInput assembles the single value a procedure expects from the
// pieces the wire delivered: the decoded body (or nil), the query string
// (for methods without a body), and the captured path parameters.
//
// Path parameters always win a key collision. Reconciliation never
// validates; the caller validates the result against the descriptor's
// coerced shape afterwards, so a mismatched body surfaces as a proper
// validation issue rather than a merge failure.
func reconcileInput(shape schema.Type, pathParams map[string]string, body any, query url.Values, fromQuery bool) (any, error) {
	switch shape.Kind() {
	case schema.KindVoid:
		return nil, nil
	case schema.KindArray:
		if _, ok := body.([]any); !ok {
			return nil, rpc.NewError(rpc.CodeBadRequest, "Expected array in request body")
		}
		return body, nil
	default:
		return reconcileObject(pathParams, body, query, fromQuery), nil
	}
}

func reconcileObject(pathParams map[string]string, body any, query url.Values, fromQuery bool) any {
	var input map[string]any
	switch {
	case fromQuery:
		input = make(map[string]any, len(query)+len(pathParams))
		for key := range query {
			// First value wins for repeated keys.
			input[key] = query.Get(key)
		}
	case body == nil:
		input = make(map[string]any, len(pathParams))
	default:
		m, ok := body.(map[string]any)
		if !ok {
			// Not an object: hand it to validation untouched so the
			// client sees what shape arrived.
			return body
		}
		input = make(map[string]any, len(m)+len(pathParams))
		for key, v := range m {
			input[key] = v
		}
	}

	for key, v := range pathParams {
		input[key] = v
	}
	return input
}
