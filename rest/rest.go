// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package rest adapts a procedure router into a served REST API.
//
// [NewHandler] builds the dispatch pipeline that matches requests against
// procedure route templates, reconciles path, query, and body values into
// the procedure's declared input shape, and translates failures into JSON
// error envelopes. [NewApi] wraps a handler with the OpenAPI document and
// health probe endpoints, and [Run] serves an [Api] as a full application.
package rest

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"syscall"

	"github.com/prosepilot/restbridge"
	"github.com/prosepilot/restbridge/internal"
	"github.com/prosepilot/restbridge/internal/httpserver"

	"github.com/z5labs/bedrock"
	"github.com/z5labs/bedrock/app"
	"github.com/z5labs/bedrock/appbuilder"
	"github.com/z5labs/bedrock/config"
	"github.com/z5labs/bedrock/lifecycle"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:embed default_config.yaml
var DefaultConfig []byte

// Configer constrains the custom config type to the hooks [Run] relies
// on: OTel bootstrap plus listener and server construction.
type Configer interface {
	appbuilder.OTelInitializer

	Listener(context.Context) (net.Listener, error)
	HttpServer(context.Context, http.Handler) (*http.Server, error)
}

// Config carries the serving settings every rest application shares.
// Embed it with `config:",squash"` to extend it with app specific fields.
type Config struct {
	restbridge.Config `config:",squash"`

	OpenApi struct {
		Title   string `config:"title"`
		Version string `config:"version"`
	} `config:"openapi"`

	HTTP struct {
		Port uint `config:"port"`
	} `config:"http"`
}

// Listener implements the [Configer] interface.
func (c Config) Listener(ctx context.Context) (net.Listener, error) {
	return net.Listen("tcp", fmt.Sprintf(":%d", c.HTTP.Port))
}

// HttpServer implements the [Configer] interface.
func (c Config) HttpServer(ctx context.Context, h http.Handler) (*http.Server, error) {
	s := &http.Server{
		Handler:  h,
		ErrorLog: slog.NewLogLogger(restbridge.Logger("rest").Handler(), slog.LevelError),
	}
	return s, nil
}

// Run reads config from r, unmarshals it into a new T and hands that to
// f to initialize an [Api]. The [Api] is then served over HTTP until an
// OS signal or fatal error stops it. Middlewares applied along the way
// include automattic panic recovery as well as OTel SDK initialization
// and shutdown.
func Run[T Configer](r io.Reader, f func(context.Context, T) (*Api, error)) {
	src := config.MultiSource(
		restbridge.DefaultConfig(),
		restbridge.ConfigSource(bytes.NewReader(DefaultConfig)),
		restbridge.ConfigSource(r),
	)

	builder := appbuilder.FromConfig(
		appbuilder.LifecycleContext(
			appbuilder.OTel(
				appbuilder.Recover(buildApp(f)),
			),
			&lifecycle.Context{},
		),
	)

	err := internal.Run(context.Background(), src, builder)
	if err == nil {
		return
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{}))
	log.Error("failed to run rest app", slog.String("error", err.Error()))
}

// buildApp turns the [Api] initializer into a [bedrock.AppBuilder] which
// wires the serving stack around it.
func buildApp[T Configer](f func(context.Context, T) (*Api, error)) bedrock.AppBuilderFunc[T] {
	return func(ctx context.Context, cfg T) (bedrock.App, error) {
		api, err := f(ctx, cfg)
		if err != nil {
			return nil, err
		}

		ls, err := cfg.Listener(ctx)
		if err != nil {
			return nil, err
		}

		srv, err := cfg.HttpServer(ctx, otelhttp.NewHandler(
			api,
			"rest",
			otelhttp.WithMessageEvents(otelhttp.ReadEvents, otelhttp.WriteEvents),
		))
		if err != nil {
			return nil, err
		}

		lc, _ := lifecycle.FromContext(ctx)
		lc.OnPostRun(lifecycle.HookFunc(func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		}))

		var base bedrock.App = httpserver.New(ls, srv)
		base = app.Recover(base)
		base = app.InterruptOn(base, os.Kill, os.Interrupt, syscall.SIGTERM)
		return base, nil
	}
}
