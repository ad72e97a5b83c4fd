// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/prosepilot/restbridge"
	"github.com/prosepilot/restbridge/rpc"
	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// CallInfo identifies the procedure invocation resolved for a request.
// It is handed to the context factory, the response metadata hook, and
// the error hook so they can correlate work without re-parsing the path.
type CallInfo struct {
	// RequestID uniquely identifies this invocation.
	RequestID string

	// Procedure is the dot separated registration name of the matched
	// procedure. It is empty when routing failed.
	Procedure string

	// Kind reports whether the matched procedure is a read or a write.
	Kind rpc.Kind

	// PathTemplate is the route template the request matched.
	PathTemplate string

	// PathParams holds the values captured from the request path.
	PathParams map[string]string
}

// ContextFactory builds the context a procedure executes under. The
// header sink can be used to stage response headers, e.g. session
// cookies, which are written whether the call succeeds or fails.
type ContextFactory interface {
	NewContext(ctx context.Context, req Request, header http.Header, info CallInfo) (context.Context, error)
}

// ContextFactoryFunc is a func based [ContextFactory] implementation.
type ContextFactoryFunc func(context.Context, Request, http.Header, CallInfo) (context.Context, error)

// NewContext implements the [ContextFactory] interface.
func (f ContextFactoryFunc) NewContext(ctx context.Context, req Request, header http.Header, info CallInfo) (context.Context, error) {
	return f(ctx, req, header, info)
}

// ResponseMeta overrides parts of a response after a call finishes.
type ResponseMeta struct {
	// Status replaces the HTTP status code when non zero.
	Status int

	// Header entries are added to the response headers.
	Header http.Header
}

// ResponseMetaFunc inspects a finished call and may override the
// response status or append headers. It runs on success and on
// failure; err is nil on success.
type ResponseMetaFunc func(ctx context.Context, info CallInfo, result any, err error) ResponseMeta

// ErrorEvent describes a failed dispatch.
type ErrorEvent struct {
	// Err is the failure, after any panic recovery.
	Err error

	// Procedure is the matched procedure name, empty when routing
	// failed.
	Procedure string

	// Kind is "read" or "write", or "unknown" when routing failed.
	Kind string

	// Input is the reconciled input, when assembly got that far.
	Input any

	// Req is the request that was being dispatched.
	Req Request
}

// ErrorHook observes dispatch failures. It runs synchronously before
// the error response is rendered but cannot alter it; a panicking hook
// is recovered and logged.
type ErrorHook func(ctx context.Context, ev ErrorEvent)

// HandlerOptions holds configuration for a [Handler].
type HandlerOptions struct {
	logHandler  slog.Handler
	maxBodySize int64
	contexts    ContextFactory
	respMeta    ResponseMetaFunc
	onError     ErrorHook
}

// HandlerOption sets a value on [HandlerOptions].
type HandlerOption interface {
	ApplyHandlerOption(*HandlerOptions)
}

type handlerOptionFunc func(*HandlerOptions)

func (f handlerOptionFunc) ApplyHandlerOption(ho *HandlerOptions) {
	f(ho)
}

// LogHandler overrides the default [slog.Handler] used for dispatch
// logs.
func LogHandler(h slog.Handler) HandlerOption {
	return handlerOptionFunc(func(ho *HandlerOptions) {
		ho.logHandler = h
	})
}

// MaxBodySize bounds how many request body bytes dispatch accepts.
// Larger bodies fail with PAYLOAD_TOO_LARGE. The default is 1 MiB and
// a non-positive value disables the bound.
func MaxBodySize(n int64) HandlerOption {
	return handlerOptionFunc(func(ho *HandlerOptions) {
		ho.maxBodySize = n
	})
}

// WithContextFactory installs the factory that builds each procedure's
// execution context. Without one, procedures execute under the request
// context as-is.
func WithContextFactory(cf ContextFactory) HandlerOption {
	return handlerOptionFunc(func(ho *HandlerOptions) {
		ho.contexts = cf
	})
}

// WithResponseMeta installs a hook that can override response status
// and headers after each call.
func WithResponseMeta(f ResponseMetaFunc) HandlerOption {
	return handlerOptionFunc(func(ho *HandlerOptions) {
		ho.respMeta = f
	})
}

// OnError installs a hook invoked for every failed dispatch.
func OnError(hook ErrorHook) HandlerOption {
	return handlerOptionFunc(func(ho *HandlerOptions) {
		ho.onError = hook
	})
}

// Handler dispatches requests to the procedures registered on a
// [rpc.Router]. It implements [http.Handler] and is safe for
// concurrent use; the route index is built once and read only
// afterwards.
type Handler struct {
	router   *rpc.Router
	index    *procedureIndex
	log      *slog.Logger
	tracer   trace.Tracer
	maxBody  int64
	contexts ContextFactory
	respMeta ResponseMetaFunc
	onError  ErrorHook
}

// NewHandler indexes every enabled procedure on r and returns a
// [Handler] serving them. It fails if the router recorded registration
// errors or any procedure exposes unservable route metadata.
func NewHandler(r *rpc.Router, opts ...HandlerOption) (*Handler, error) {
	ho := &HandlerOptions{
		logHandler:  restbridge.LogHandler("rest"),
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt.ApplyHandlerOption(ho)
	}

	log := slog.New(ho.logHandler)
	index, err := buildIndex(r, log)
	if err != nil {
		return nil, err
	}

	return &Handler{
		router:   r,
		index:    index,
		log:      log,
		tracer:   otel.Tracer("rest"),
		maxBody:  ho.maxBodySize,
		contexts: ho.contexts,
		respMeta: ho.respMeta,
		onError:  ho.onError,
	}, nil
}

// Router returns the router this handler serves.
func (h *Handler) Router() *rpc.Router {
	return h.router
}

// Dispatch resolves req against the route table and invokes the
// matched procedure, producing the response to write.
func (h *Handler) Dispatch(ctx context.Context, req Request) Response {
	method := strings.ToUpper(req.Method)

	desc, params, ok := h.index.find(method, req.Path)
	if !ok {
		// HEAD is never routable so a missing match is its normal
		// success case.
		if method == http.MethodHead {
			return Response{Status: http.StatusNoContent, Header: make(http.Header)}
		}

		err := rpc.NewError(rpc.CodeNotFound, "Not found")
		h.fireError(ctx, ErrorEvent{Err: err, Kind: "unknown", Req: req})
		return h.failure(ctx, CallInfo{RequestID: uuid.NewString()}, nil, err)
	}

	info := CallInfo{
		RequestID:    uuid.NewString(),
		Procedure:    desc.proc.Name(),
		Kind:         desc.proc.Kind(),
		PathTemplate: desc.meta.Path,
		PathParams:   params,
	}

	spanCtx, span := h.tracer.Start(ctx, info.Procedure)
	defer span.End()

	sink := make(http.Header)
	out, input, err := h.call(spanCtx, req, desc, info, sink)
	if err != nil {
		h.fireError(spanCtx, ErrorEvent{
			Err:       err,
			Procedure: info.Procedure,
			Kind:      info.Kind.String(),
			Input:     input,
			Req:       req,
		})

		resp := h.failure(spanCtx, info, nil, err)
		mergeHeader(resp.Header, sink)
		return resp
	}

	body, merr := json.Marshal(out)
	if merr != nil {
		err = rpc.WrapError(rpc.CodeInternalServerError, merr)
		h.fireError(spanCtx, ErrorEvent{
			Err:       err,
			Procedure: info.Procedure,
			Kind:      info.Kind.String(),
			Input:     input,
			Req:       req,
		})

		resp := h.failure(spanCtx, info, nil, err)
		mergeHeader(resp.Header, sink)
		return resp
	}

	resp := Response{
		Status: http.StatusOK,
		Header: make(http.Header),
		Body:   body,
	}
	resp.Header.Set("Content-Type", "application/json")
	mergeHeader(resp.Header, sink)
	h.applyMeta(spanCtx, info, out, nil, &resp)
	return resp
}

// call assembles the procedure input from the request and executes the
// procedure. The reconciled input is returned alongside any failure so
// the error hook can report what was about to be passed in.
func (h *Handler) call(ctx context.Context, req Request, desc *descriptor, info CallInfo, sink http.Header) (out any, input any, err error) {
	defer try.Recover(&err)

	method := desc.meta.Method
	fromQuery := method == http.MethodGet

	var body any
	if !fromQuery {
		contentType := req.Header.Get("Content-Type")
		if len(req.Body) > 0 && !contentTypeAllowed(desc.meta.ContentTypes, mediaTypeOf(contentType)) {
			return nil, nil, rpc.NewErrorf(rpc.CodeUnsupportedMediaType, "Unsupported content-type %q", contentType)
		}
		if h.maxBody > 0 && int64(len(req.Body)) > h.maxBody {
			return nil, nil, rpc.NewError(rpc.CodePayloadTooLarge, "Request body too large")
		}

		body, err = decodeBody(req.Body, contentType)
		if err != nil {
			return nil, nil, err
		}
	}

	input, err = reconcileInput(desc.input, info.PathParams, body, req.Query, fromQuery)
	if err != nil {
		return nil, nil, err
	}

	callCtx := ctx
	if h.contexts != nil {
		callCtx, err = h.contexts.NewContext(ctx, req, sink, info)
		if err != nil {
			var perr *rpc.Error
			if !errors.As(err, &perr) {
				err = rpc.WrapError(rpc.CodeInternalServerError, err)
			}
			return nil, input, err
		}
	}

	validated, err := desc.coerced.Validate(input)
	if err != nil {
		return nil, input, err
	}

	out, err = desc.proc.Resolve(callCtx, validated)
	if err != nil {
		return nil, input, err
	}
	return out, input, nil
}

// failure renders err into the error envelope, applying any response
// metadata overrides.
func (h *Handler) failure(ctx context.Context, info CallInfo, result any, err error) Response {
	status, envelope := translateError(err)

	resp := Response{
		Status: status,
		Header: make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")

	buf, merr := json.Marshal(envelope)
	if merr != nil {
		buf = []byte(`{"message":"Unknown error occurred","code":"INTERNAL_SERVER_ERROR"}`)
	}
	resp.Body = buf

	h.applyMeta(ctx, info, result, err, &resp)
	return resp
}

// applyMeta merges status and header overrides from the response
// metadata hook. A panicking hook is recovered and logged, leaving the
// response untouched.
func (h *Handler) applyMeta(ctx context.Context, info CallInfo, result any, err error, resp *Response) {
	if h.respMeta == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			h.log.ErrorContext(ctx, "response metadata hook panicked",
				slog.Any("recovered", r),
			)
		}
	}()

	meta := h.respMeta(ctx, info, result, err)
	mergeHeader(resp.Header, meta.Header)
	if meta.Status > 0 {
		resp.Status = meta.Status
	}
}

// fireError invokes the error hook, shielding dispatch from hook
// panics.
func (h *Handler) fireError(ctx context.Context, ev ErrorEvent) {
	if h.onError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			h.log.ErrorContext(ctx, "error hook panicked",
				slog.Any("recovered", r),
			)
		}
	}()
	h.onError(ctx, ev)
}

func mergeHeader(dst, src http.Header) {
	for key, vals := range src {
		for _, v := range vals {
			dst.Add(key, v)
		}
	}
}

// ServeHTTP implements [http.Handler].
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body []byte
	if r.Body != nil {
		rc := r.Body
		if h.maxBody > 0 {
			rc = http.MaxBytesReader(w, r.Body, h.maxBody)
		}

		b, err := io.ReadAll(rc)
		if err != nil {
			perr := rpc.WrapError(rpc.CodeBadRequest, err)
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				perr = rpc.NewError(rpc.CodePayloadTooLarge, "Request body too large")
			}

			h.fireError(ctx, ErrorEvent{Err: perr, Kind: "unknown", Req: Request{
				Method: r.Method,
				Path:   r.URL.Path,
				Query:  r.URL.Query(),
				Header: r.Header,
			}})
			h.write(ctx, w, h.failure(ctx, CallInfo{RequestID: uuid.NewString()}, nil, perr))
			return
		}
		body = b
	}

	resp := h.Dispatch(ctx, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header,
		Body:   body,
	})
	h.write(ctx, w, resp)
}

func (h *Handler) write(ctx context.Context, w http.ResponseWriter, resp Response) {
	header := w.Header()
	for key, vals := range resp.Header {
		for _, v := range vals {
			header.Add(key, v)
		}
	}

	w.WriteHeader(resp.Status)
	if len(resp.Body) == 0 {
		return
	}
	if _, err := w.Write(resp.Body); err != nil {
		h.log.ErrorContext(ctx, "failed to write response body",
			slog.Any("error", err),
		)
	}
}
