// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package lambda adapts AWS API Gateway proxy events onto a procedure
// router served by the rest dispatch pipeline.
//
// [NewHandler] normalizes both REST API (payload format 1.0) and HTTP API
// (payload format 2.0) proxy events into the transport neutral request
// shape served by [rest.Handler], then renders the dispatch result as a
// proxy integration response. [NewRuntime] and [Run] drive a [Handler]
// from the Lambda custom runtime interface.
package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/prosepilot/restbridge"
	"github.com/prosepilot/restbridge/rest"
	"github.com/prosepilot/restbridge/rpc"

	"github.com/tidwall/gjson"
)

// proxyEventV1 is the API Gateway REST API proxy event, payload format
// version 1.0. Only the fields dispatch consumes are declared.
type proxyEventV1 struct {
	HTTPMethod                      string              `json:"httpMethod"`
	Path                            string              `json:"path"`
	Headers                         map[string]string   `json:"headers"`
	MultiValueHeaders               map[string][]string `json:"multiValueHeaders"`
	QueryStringParameters           map[string]string   `json:"queryStringParameters"`
	MultiValueQueryStringParameters url.Values          `json:"multiValueQueryStringParameters"`
	Body                            string              `json:"body"`
	IsBase64Encoded                 bool                `json:"isBase64Encoded"`
}

// proxyEventV2 is the API Gateway HTTP API proxy event, payload format
// version 2.0.
type proxyEventV2 struct {
	RawPath        string            `json:"rawPath"`
	RawQueryString string            `json:"rawQueryString"`
	Headers        map[string]string `json:"headers"`
	Cookies        []string          `json:"cookies"`
	RequestContext struct {
		HTTP struct {
			Method string `json:"method"`
		} `json:"http"`
	} `json:"requestContext"`
	Body            string `json:"body"`
	IsBase64Encoded bool   `json:"isBase64Encoded"`
}

// proxyResponse is the proxy integration response shape, identical for
// both payload format versions. API Gateway treats multi-value headers
// here as malformed, so each header carries a single value.
type proxyResponse struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

// HandlerOptions holds configuration for a [Handler].
type HandlerOptions struct {
	logHandler slog.Handler
}

// HandlerOption sets a value on [HandlerOptions].
type HandlerOption interface {
	ApplyHandlerOption(*HandlerOptions)
}

type handlerOptionFunc func(*HandlerOptions)

func (f handlerOptionFunc) ApplyHandlerOption(ho *HandlerOptions) {
	f(ho)
}

// LogHandler overrides the default [slog.Handler] used for event logs.
func LogHandler(h slog.Handler) HandlerOption {
	return handlerOptionFunc(func(ho *HandlerOptions) {
		ho.logHandler = h
	})
}

// Handler turns API Gateway proxy events into dispatched procedure calls.
// It is safe for concurrent use.
type Handler struct {
	rest *rest.Handler
	log  *slog.Logger
}

// NewHandler returns a [Handler] dispatching events through h.
func NewHandler(h *rest.Handler, opts ...HandlerOption) *Handler {
	ho := &HandlerOptions{
		logHandler: restbridge.LogHandler("lambda"),
	}
	for _, opt := range opts {
		opt.ApplyHandlerOption(ho)
	}

	return &Handler{
		rest: h,
		log:  slog.New(ho.logHandler),
	}
}

// Invoke takes a raw proxy event and returns the raw proxy response it
// resolves to. The returned error is reserved for failures to render the
// response itself; every event level failure is reported to the caller
// inside a well formed proxy response.
func (h *Handler) Invoke(ctx context.Context, event []byte) ([]byte, error) {
	version := "1.0"
	if v := gjson.GetBytes(event, "version"); v.Exists() {
		version = v.String()
	}

	var req rest.Request
	var err error
	switch version {
	case "1.0":
		req, err = normalizeV1(event)
	case "2.0":
		req, err = normalizeV2(event)
	default:
		// Version gating happens before any routing: an unknown payload
		// shape must never fall through to NOT_FOUND.
		return marshalProxy(proxyFailure(http.StatusInternalServerError, rpc.ErrorBody{
			Message: "Unsupported payload format version: " + version,
			Code:    rpc.CodeInternalServerError,
		}))
	}
	if err != nil {
		h.log.ErrorContext(ctx, "failed to normalize gateway event",
			slog.String("version", version),
			slog.Any("error", err),
		)

		var perr *rpc.Error
		if errors.As(err, &perr) {
			return marshalProxy(proxyFailure(http.StatusBadRequest, rpc.ErrorBody{
				Message: perr.Message,
				Code:    perr.Code,
			}))
		}
		return marshalProxy(proxyFailure(http.StatusInternalServerError, rpc.ErrorBody{
			Message: "Failed to parse gateway event",
			Code:    rpc.CodeInternalServerError,
		}))
	}

	return marshalProxy(proxyResponseOf(h.rest.Dispatch(ctx, req)))
}

func normalizeV1(event []byte) (rest.Request, error) {
	var ev proxyEventV1
	if err := json.Unmarshal(event, &ev); err != nil {
		return rest.Request{}, err
	}

	query := make(url.Values, len(ev.MultiValueQueryStringParameters)+len(ev.QueryStringParameters))
	for key, vals := range ev.MultiValueQueryStringParameters {
		query[key] = append(query[key], vals...)
	}
	for key, v := range ev.QueryStringParameters {
		if _, ok := query[key]; !ok {
			query.Set(key, v)
		}
	}

	header := make(http.Header, len(ev.MultiValueHeaders)+len(ev.Headers))
	for key, vals := range ev.MultiValueHeaders {
		for _, v := range vals {
			header.Add(key, v)
		}
	}
	for key, v := range ev.Headers {
		if len(header.Values(key)) == 0 {
			header.Set(key, v)
		}
	}

	body, err := eventBody(ev.Body, ev.IsBase64Encoded)
	if err != nil {
		return rest.Request{}, err
	}

	return rest.Request{
		Method: ev.HTTPMethod,
		Path:   ev.Path,
		Query:  query,
		Header: header,
		Body:   body,
	}, nil
}

func normalizeV2(event []byte) (rest.Request, error) {
	var ev proxyEventV2
	if err := json.Unmarshal(event, &ev); err != nil {
		return rest.Request{}, err
	}

	// Malformed pairs are dropped, matching [net/url.URL.Query] leniency.
	query, _ := url.ParseQuery(ev.RawQueryString)

	header := make(http.Header, len(ev.Headers)+1)
	for key, v := range ev.Headers {
		header.Set(key, v)
	}
	if len(ev.Cookies) > 0 {
		header.Set("Cookie", strings.Join(ev.Cookies, "; "))
	}

	body, err := eventBody(ev.Body, ev.IsBase64Encoded)
	if err != nil {
		return rest.Request{}, err
	}

	return rest.Request{
		Method: ev.RequestContext.HTTP.Method,
		Path:   ev.RawPath,
		Query:  query,
		Header: header,
		Body:   body,
	}, nil
}

func eventBody(body string, isBase64 bool) ([]byte, error) {
	if body == "" {
		return nil, nil
	}
	if !isBase64 {
		return []byte(body), nil
	}

	b, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, rpc.NewError(rpc.CodeParseError, "Failed to parse request body")
	}
	return b, nil
}

func proxyResponseOf(resp rest.Response) proxyResponse {
	headers := make(map[string]string, len(resp.Header))
	for key, vals := range resp.Header {
		if len(vals) > 0 {
			headers[key] = vals[0]
		}
	}

	return proxyResponse{
		StatusCode: resp.Status,
		Headers:    headers,
		Body:       string(resp.Body),
	}
}

func proxyFailure(status int, envelope rpc.ErrorBody) proxyResponse {
	body, err := json.Marshal(envelope)
	if err != nil {
		body = []byte(`{"message":"Unknown error occurred","code":"INTERNAL_SERVER_ERROR"}`)
	}

	return proxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func marshalProxy(resp proxyResponse) ([]byte, error) {
	return json.Marshal(resp)
}
