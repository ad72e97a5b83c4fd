// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/prosepilot/restbridge/rest"
	"github.com/prosepilot/restbridge/rpc"

	"github.com/stretchr/testify/require"
)

type helloRequest struct {
	Name string `json:"name"`
}

type helloResponse struct {
	Greeting string `json:"greeting"`
}

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func hello(ctx context.Context, req *helloRequest) (*helloResponse, error) {
	return &helloResponse{Greeting: "Hello " + req.Name}, nil
}

func createUser(ctx context.Context, req *helloRequest) (*user, error) {
	return &user{ID: "u1", Name: req.Name}, nil
}

func newHandler(t *testing.T, register func(r *rpc.Router), opts ...rest.HandlerOption) *Handler {
	t.Helper()

	r := rpc.NewRouter()
	register(r)

	opts = append([]rest.HandlerOption{rest.LogHandler(slog.DiscardHandler)}, opts...)
	h, err := rest.NewHandler(r, opts...)
	require.NoError(t, err)
	return NewHandler(h, LogHandler(slog.DiscardHandler))
}

func invoke(t *testing.T, h *Handler, event string) proxyResponse {
	t.Helper()

	out, err := h.Invoke(t.Context(), []byte(event))
	require.NoError(t, err)

	var resp proxyResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	return resp
}

func TestHandler_Invoke(t *testing.T) {
	t.Run("will default the payload version to 1.0", func(t *testing.T) {
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Query(r, "greetings.hello", rpc.HandlerFunc[helloRequest, helloResponse](hello), rpc.Get("/hello"))
		})

		resp := invoke(t, h, `{"httpMethod":"GET","path":"/hello","multiValueQueryStringParameters":{"name":["James"]}}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "application/json", resp.Headers["Content-Type"])
		require.JSONEq(t, `{"greeting":"Hello James"}`, resp.Body)
		require.False(t, resp.IsBase64Encoded)
	})

	t.Run("will serve a version 1 event with single value query parameters", func(t *testing.T) {
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Query(r, "greetings.hello", rpc.HandlerFunc[helloRequest, helloResponse](hello), rpc.Get("/hello"))
		})

		resp := invoke(t, h, `{"version":"1.0","httpMethod":"GET","path":"/hello","queryStringParameters":{"name":"James"}}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"greeting":"Hello James"}`, resp.Body)
	})

	t.Run("will prefer multi value query parameters over single value ones", func(t *testing.T) {
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Query(r, "greetings.hello", rpc.HandlerFunc[helloRequest, helloResponse](hello), rpc.Get("/hello"))
		})

		resp := invoke(t, h, `{"httpMethod":"GET","path":"/hello","queryStringParameters":{"name":"Single"},"multiValueQueryStringParameters":{"name":["Multi"]}}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"greeting":"Hello Multi"}`, resp.Body)
	})

	t.Run("will serve a version 2 event", func(t *testing.T) {
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Query(r, "greetings.hello", rpc.HandlerFunc[helloRequest, helloResponse](hello), rpc.Get("/hello"))
		})

		resp := invoke(t, h, `{"version":"2.0","rawPath":"/hello","rawQueryString":"name=James","requestContext":{"http":{"method":"GET"}}}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"greeting":"Hello James"}`, resp.Body)
	})

	t.Run("will serve a version 2 event with a json body", func(t *testing.T) {
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Mutation(r, "users.create", rpc.HandlerFunc[helloRequest, user](createUser), rpc.Post("/users"))
		})

		resp := invoke(t, h, `{"version":"2.0","rawPath":"/users","requestContext":{"http":{"method":"POST"}},"body":"{\"name\":\"James\"}"}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"id":"u1","name":"James"}`, resp.Body)
	})

	t.Run("will reject an unsupported payload version before routing", func(t *testing.T) {
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Query(r, "greetings.hello", rpc.HandlerFunc[helloRequest, helloResponse](hello), rpc.Get("/hello"))
		})

		// The path would match, but the version gate fires first.
		resp := invoke(t, h, `{"version":"asdf","rawPath":"/hello","rawQueryString":"name=James","requestContext":{"http":{"method":"GET"}}}`)

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.Equal(t, "application/json", resp.Headers["Content-Type"])
		require.JSONEq(t, `{"message":"Unsupported payload format version: asdf","code":"INTERNAL_SERVER_ERROR"}`, resp.Body)
	})

	t.Run("will decode a base64 encoded body", func(t *testing.T) {
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Mutation(r, "users.create", rpc.HandlerFunc[helloRequest, user](createUser), rpc.Post("/users"))
		})

		event, err := json.Marshal(map[string]any{
			"httpMethod":      http.MethodPost,
			"path":            "/users",
			"body":            base64.StdEncoding.EncodeToString([]byte(`{"name":"James"}`)),
			"isBase64Encoded": true,
		})
		require.NoError(t, err)

		resp := invoke(t, h, string(event))

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"id":"u1","name":"James"}`, resp.Body)
	})

	t.Run("will reject an undecodable base64 body", func(t *testing.T) {
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Mutation(r, "users.create", rpc.HandlerFunc[helloRequest, user](createUser), rpc.Post("/users"))
		})

		resp := invoke(t, h, `{"httpMethod":"POST","path":"/users","body":"!!!","isBase64Encoded":true}`)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.JSONEq(t, `{"message":"Failed to parse request body","code":"PARSE_ERROR"}`, resp.Body)
	})

	t.Run("will reject a malformed event", func(t *testing.T) {
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Query(r, "greetings.hello", rpc.HandlerFunc[helloRequest, helloResponse](hello), rpc.Get("/hello"))
		})

		resp := invoke(t, h, `{"httpMethod":`)

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.JSONEq(t, `{"message":"Failed to parse gateway event","code":"INTERNAL_SERVER_ERROR"}`, resp.Body)
	})

	t.Run("will render routing failures as proxy responses", func(t *testing.T) {
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Query(r, "greetings.hello", rpc.HandlerFunc[helloRequest, helloResponse](hello), rpc.Get("/hello"))
		})

		resp := invoke(t, h, `{"httpMethod":"GET","path":"/nope"}`)

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		require.JSONEq(t, `{"message":"Not found","code":"NOT_FOUND"}`, resp.Body)
	})

	t.Run("will join version 2 cookies into a cookie header", func(t *testing.T) {
		var cookie string
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Query(r, "sessions.current", rpc.HandlerFunc[struct{}, helloResponse](func(ctx context.Context, _ *struct{}) (*helloResponse, error) {
				return &helloResponse{Greeting: "ok"}, nil
			}), rpc.Get("/session"))
		}, rest.WithContextFactory(rest.ContextFactoryFunc(func(ctx context.Context, req rest.Request, header http.Header, info rest.CallInfo) (context.Context, error) {
			cookie = req.Header.Get("Cookie")
			return ctx, nil
		})))

		resp := invoke(t, h, `{"version":"2.0","rawPath":"/session","requestContext":{"http":{"method":"GET"}},"cookies":["a=1","b=2"]}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "a=1; b=2", cookie)
	})

	t.Run("will forward version 1 multi value headers", func(t *testing.T) {
		var accept []string
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Query(r, "greetings.hello", rpc.HandlerFunc[helloRequest, helloResponse](hello), rpc.Get("/hello"))
		}, rest.WithContextFactory(rest.ContextFactoryFunc(func(ctx context.Context, req rest.Request, header http.Header, info rest.CallInfo) (context.Context, error) {
			accept = req.Header.Values("Accept")
			return ctx, nil
		})))

		resp := invoke(t, h, `{"httpMethod":"GET","path":"/hello","multiValueQueryStringParameters":{"name":["James"]},"multiValueHeaders":{"Accept":["application/json","text/plain"]},"headers":{"Accept":"ignored"}}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, []string{"application/json", "text/plain"}, accept)
	})

	t.Run("will keep the first value of each response header", func(t *testing.T) {
		h := newHandler(t, func(r *rpc.Router) {
			rpc.Query(r, "greetings.hello", rpc.HandlerFunc[helloRequest, helloResponse](hello), rpc.Get("/hello"))
		}, rest.WithContextFactory(rest.ContextFactoryFunc(func(ctx context.Context, req rest.Request, header http.Header, info rest.CallInfo) (context.Context, error) {
			header.Add("X-Trace", "one")
			header.Add("X-Trace", "two")
			return ctx, nil
		})))

		resp := invoke(t, h, `{"httpMethod":"GET","path":"/hello","multiValueQueryStringParameters":{"name":["James"]}}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "one", resp.Headers["X-Trace"])
	})
}
