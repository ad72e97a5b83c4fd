// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prosepilot/restbridge"
	"github.com/prosepilot/restbridge/health"
	"github.com/prosepilot/restbridge/openapi"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
)

// ApiOptions holds configuration values used when constructing an [Api].
type ApiOptions struct {
	mux *chi.Mux
	def *openapi3.Spec

	bridge  *Handler
	docOpts []openapi.Option

	readiness health.Monitor
	liveness  health.Monitor
}

// ApiOption is an interface for configuring an [Api].
type ApiOption interface {
	ApplyApiOption(*ApiOptions)
}

type apiOptionFunc func(*ApiOptions)

func (f apiOptionFunc) ApplyApiOption(ao *ApiOptions) {
	f(ao)
}

// Bridge mounts a [Handler] as the catch-all route and replaces the served
// OpenAPI document with one generated from the handler's router. Extra
// options configure the generated document, for example
// [openapi.SecurityScheme].
//
// Routing inside the bridge follows procedure declaration order, so
// requests that match no procedure receive the bridge's JSON error
// envelope rather than the mux's plain 404.
func Bridge(h *Handler, opts ...openapi.Option) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.bridge = h
		ao.docOpts = opts
	})
}

// Readiness overrides the readiness probe served at GET /health/readiness.
// Readiness reports whether the application can currently accept traffic.
//
// See [Liveness, Readiness, and Startup Probes] for background.
//
// [Liveness, Readiness, and Startup Probes]: https://kubernetes.io/docs/concepts/configuration/liveness-readiness-startup-probes/
func Readiness(m health.Monitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.readiness = m
	})
}

// Liveness overrides the liveness probe served at GET /health/liveness.
// Liveness reports whether the application is still making progress or
// needs to be restarted.
//
// See [Liveness, Readiness, and Startup Probes] for background.
//
// [Liveness, Readiness, and Startup Probes]: https://kubernetes.io/docs/concepts/configuration/liveness-readiness-startup-probes/
func Liveness(m health.Monitor) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.liveness = m
	})
}

// NotFound configures a custom handler for requests that match no
// registered route. With a bridge mounted this only applies to requests
// the mux rejects before the catch-all, since the bridge answers unmatched
// requests itself.
func NotFound(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.NotFound(h.ServeHTTP)
	})
}

// MethodNotAllowed configures a custom handler for requests to valid
// routes with unsupported HTTP methods.
func MethodNotAllowed(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.mux.MethodNotAllowed(h.ServeHTTP)
	})
}

// Api is an [http.Handler] serving a bridged router alongside its OpenAPI
// document and health probes.
//
// Every Api provides:
//   - OpenAPI 3.0 document at GET /openapi.json
//   - liveness probe at GET /health/liveness
//   - readiness probe at GET /health/readiness
//
// Probes default to always healthy until overridden with [Readiness] and
// [Liveness].
type Api struct {
	router *chi.Mux
}

// NewApi creates a new [Api] with the specified title and version.
//
// The title and version are included in the OpenAPI document served at
// /openapi.json.
//
// Example:
//
//	h, err := rest.NewHandler(router)
//	if err != nil {
//	    return nil, err
//	}
//	api := rest.NewApi("User Service", "v1.0.0", rest.Bridge(h))
//	http.ListenAndServe(":8080", api)
func NewApi(title, version string, opts ...ApiOption) *Api {
	log := restbridge.Logger("github.com/prosepilot/restbridge/rest")

	var defaultHealth health.Binary
	defaultHealth.MarkHealthy()

	ao := &ApiOptions{
		mux: chi.NewMux(),
		def: &openapi3.Spec{
			Openapi: "3.0",
			Info: openapi3.Info{
				Title:   title,
				Version: version,
			},
		},
		readiness: &defaultHealth,
		liveness:  &defaultHealth,
	}
	for _, opt := range opts {
		opt.ApplyApiOption(ao)
	}

	if ao.bridge != nil {
		def, err := openapi.Generate(ao.bridge.Router(), openapi.Info{
			Title:   title,
			Version: version,
		}, ao.docOpts...)
		if err != nil {
			panic(err)
		}
		ao.def = def
	}

	ao.mux.Method(http.MethodGet, "/health/readiness", &monitorHandler{
		log:     log,
		monitor: ao.readiness,
	})
	ao.mux.Method(http.MethodGet, "/health/liveness", &monitorHandler{
		log:     log,
		monitor: ao.liveness,
	})

	ao.mux.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(ao.def); err != nil {
			log.ErrorContext(r.Context(), "failed to encode openapi document", slog.Any("error", err))
		}
	})

	if ao.bridge != nil {
		ao.mux.Handle("/*", ao.bridge)
	}

	return &Api{
		router: ao.mux,
	}
}

// ServeHTTP implements the [http.Handler] interface.
func (api *Api) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	api.router.ServeHTTP(w, req)
}

type monitorHandler struct {
	log     *slog.Logger
	monitor health.Monitor
}

func (h *monitorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	healthy, err := h.monitor.Healthy(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to check health", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
