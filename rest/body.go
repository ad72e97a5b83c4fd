// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/prosepilot/restbridge/rpc"

	"github.com/tidwall/gjson"
)

// defaultMaxBodySize caps request bodies at 1 MiB unless [MaxBodySize]
// overrides it.
const defaultMaxBodySize = 1 << 20

// mediaTypeOf extracts the lowercased media type from a Content-Type
// value, dropping parameters like charset.
func mediaTypeOf(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isJSONMediaType(mediaType string) bool {
	return mediaType == "" ||
		mediaType == "application/json" ||
		strings.HasSuffix(mediaType, "+json")
}

// decodeBody turns the raw request body into the value handed to the
// input reconciler:
//
//   - JSON bodies decode into plain values
//   - form-urlencoded bodies decode into an object of strings, repeated
//     keys becoming arrays
//   - every other media type passes through as the raw string, leaving
//     rejection to the procedure's input validation
//
// An empty body decodes to nil, meaning no input was supplied.
func decodeBody(body []byte, contentType string) (any, error) {
	if len(body) == 0 {
		return nil, nil
	}

	mediaType := mediaTypeOf(contentType)
	switch {
	case isJSONMediaType(mediaType):
		if !gjson.ValidBytes(body) {
			return nil, rpc.NewError(rpc.CodeParseError, "Failed to parse request body")
		}
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, rpc.NewError(rpc.CodeParseError, "Failed to parse request body")
		}
		return v, nil
	case mediaType == "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, rpc.NewError(rpc.CodeParseError, "Failed to parse request body")
		}

		m := make(map[string]any, len(values))
		for key, vs := range values {
			if len(vs) == 1 {
				m[key] = vs[0]
				continue
			}
			repeated := make([]any, len(vs))
			for i, v := range vs {
				repeated[i] = v
			}
			m[key] = repeated
		}
		return m, nil
	default:
		return string(body), nil
	}
}

// contentTypeAllowed reports whether the request's media type is in the
// procedure's declared allow-list. An empty allow-list accepts anything.
func contentTypeAllowed(allowed []string, mediaType string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if mediaTypeOf(a) == mediaType {
			return true
		}
	}
	return false
}
