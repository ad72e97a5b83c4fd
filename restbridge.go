// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package restbridge provides the base config and logging for
// restbridge applications.
package restbridge

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"log/slog"
	"os"

	"github.com/prosepilot/restbridge/config"
	"github.com/prosepilot/restbridge/internal/otel"

	bedrockcfg "github.com/z5labs/bedrock/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] which records to the global
// OpenTelemetry logger provider under the given instrumentation name.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// LogHandler returns the [slog.Handler] backing [Logger].
func LogHandler(name string) slog.Handler {
	return otelslog.NewHandler(name)
}

// Config is the configuration shared by every restbridge application.
// Runtime specific configs embed it with `config:",squash"`.
type Config struct {
	OTel config.OTel `config:"otel"`
}

// InitializeOTel implements the [appbuilder.OTelInitializer] interface.
func (cfg Config) InitializeOTel(ctx context.Context) error {
	return otel.Initialize(ctx, cfg.OTel)
}

// ConfigSource parses YAML from r after rendering it as a Go template.
// Two template functions are available to the document:
//   - env: substitutes the named environment variable, or nil if unset
//   - default: replaces a nil value with the given fallback
func ConfigSource(r io.Reader) bedrockcfg.Source {
	return bedrockcfg.FromYaml(
		bedrockcfg.RenderTextTemplate(
			r,
			bedrockcfg.TemplateFunc("env", lookupEnv),
			bedrockcfg.TemplateFunc("default", defaultValue),
		),
	)
}

func lookupEnv(key string) any {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	return v
}

func defaultValue(def, v any) any {
	if v == nil {
		return def
	}
	return v
}

//go:embed default_config.yaml
var defaultConfig []byte

// DefaultConfig returns the config source corresponding to the [Config] type.
func DefaultConfig() bedrockcfg.Source {
	return ConfigSource(bytes.NewReader(defaultConfig))
}
