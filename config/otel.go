// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config declares the OpenTelemetry related config types for
// restbridge applications.
package config

import (
	"time"
)

// OTel gathers the settings for every OpenTelemetry signal pipeline. Each
// restbridge runtime embeds it under the "otel" key of its config document.
type OTel struct {
	Resource Resource `config:"resource"`
	Trace    Trace    `config:"trace"`
	Metric   Metric   `config:"metric"`
	Log      Log      `config:"log"`
}

// Resource identifies the service producing the telemetry.
type Resource struct {
	ServiceName    string `config:"service_name"`
	ServiceVersion string `config:"service_version"`
}

// Trace configures the trace pipeline.
type Trace struct {
	Processor SpanProcessor `config:"processor"`
	Sampling  Sampling      `config:"sampling"`
	Exporter  SpanExporter  `config:"exporter"`
}

// SpanProcessorType names a span processing strategy.
type SpanProcessorType string

const (
	BatchSpanProcessorType SpanProcessorType = "batch"
)

// SpanProcessor selects and tunes the span processor.
type SpanProcessor struct {
	Type  SpanProcessorType `config:"type"`
	Batch Batching          `config:"batch"`
}

// Sampling sets the ratio of traces which are recorded.
type Sampling struct {
	Ratio float64 `config:"ratio"`
}

// SpanExporterType names a span exporter. Any unrecognized value,
// including the empty string, disables span exporting.
type SpanExporterType string

const (
	OTLPSpanExporterType SpanExporterType = "otlp"
)

// SpanExporter selects where spans are published.
type SpanExporter struct {
	Type SpanExporterType `config:"type"`
	OTLP OTLPConn         `config:"otlp"`
}

// Metric configures the metric pipeline.
type Metric struct {
	Reader   MetricReader   `config:"reader"`
	Exporter MetricExporter `config:"exporter"`
}

// MetricReaderType names a metric reading strategy.
type MetricReaderType string

const (
	PeriodicReaderType MetricReaderType = "periodic"
)

// MetricReader selects and tunes the metric reader.
type MetricReader struct {
	Type     MetricReaderType `config:"type"`
	Periodic PeriodicReader   `config:"periodic"`
}

// PeriodicReader tunes the interval driven metric reader.
type PeriodicReader struct {
	ExportInterval time.Duration `config:"export_interval"`
}

// MetricExporterType names a metric exporter. Any unrecognized value,
// including the empty string, disables metric exporting.
type MetricExporterType string

const (
	OTLPMetricExporterType MetricExporterType = "otlp"
)

// MetricExporter selects where metrics are published.
type MetricExporter struct {
	Type MetricExporterType `config:"type"`
	OTLP OTLPConn           `config:"otlp"`
}

// Log configures the log pipeline.
type Log struct {
	Processor LogProcessor `config:"processor"`
	Exporter  LogExporter  `config:"exporter"`

	// Levels sets the minimum record severity per logger name. Keys
	// are instrumentation scope names and match by longest prefix,
	// values are one of "debug", "info", "warn" or "error". Loggers
	// without a matching key are unfiltered.
	Levels map[string]string `config:"levels"`
}

// LogProcessorType names a log processing strategy.
type LogProcessorType string

const (
	SimpleLogProcessorType LogProcessorType = "simple"
	BatchLogProcessorType  LogProcessorType = "batch"
)

// LogProcessor selects and tunes the log processor.
type LogProcessor struct {
	Type  LogProcessorType `config:"type"`
	Batch Batching         `config:"batch"`
}

// LogExporterType names a log exporter. Any unrecognized value, including
// the empty string, falls back to JSON records on stdout.
type LogExporterType string

const (
	OTLPLogExporterType LogExporterType = "otlp"
)

// LogExporter selects where log records are published.
type LogExporter struct {
	Type LogExporterType `config:"type"`
	OTLP OTLPConn        `config:"otlp"`
}

// OTLPConnType selects the transport used to reach an OTLP endpoint.
type OTLPConnType string

const (
	OTLPHTTP OTLPConnType = "http"
	OTLPGRPC OTLPConnType = "grpc"
)

// OTLPConn describes the OTLP endpoint an exporter publishes to.
type OTLPConn struct {
	Type   OTLPConnType `config:"type"`
	Target string       `config:"target"`
}

// Batching bounds how processors buffer telemetry before flushing.
type Batching struct {
	ExportInterval time.Duration `config:"export_interval"`
	MaxSize        int           `config:"max_size"`
}
