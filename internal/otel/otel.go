// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package otel stands up the global OpenTelemetry providers from config.
package otel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/prosepilot/restbridge/concurrent"
	"github.com/prosepilot/restbridge/config"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Initialize builds the trace, metric and log pipelines described by cfg
// and installs them as the process wide OpenTelemetry providers.
func Initialize(ctx context.Context, cfg config.OTel) error {
	res, err := detectResource(ctx, cfg.Resource)
	if err != nil {
		return err
	}

	s := &sdk{
		res:   res,
		conns: concurrent.NewCache[string, *grpc.ClientConn](),
	}

	if err := s.startTraces(ctx, cfg.Trace); err != nil {
		return err
	}
	if err := s.startMetrics(ctx, cfg.Metric); err != nil {
		return err
	}
	return s.startLogs(ctx, cfg.Log)
}

// sdk carries the state shared while the pipelines come up: the detected
// resource and one gRPC conn per distinct OTLP target.
type sdk struct {
	res   *resource.Resource
	conns *concurrent.Cache[string, *grpc.ClientConn]
}

func (s *sdk) conn(cfg config.OTLPConn) (*grpc.ClientConn, error) {
	return s.conns.GetOr(cfg.Target, func() (*grpc.ClientConn, error) {
		return grpc.NewClient(
			cfg.Target,
			// TODO: support secure transport credentials
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
	})
}

func (s *sdk) startTraces(ctx context.Context, cfg config.Trace) error {
	exp, err := s.spanExporter(ctx, cfg.Exporter)
	if err != nil {
		return err
	}

	var sp trace.SpanProcessor
	switch cfg.Processor.Type {
	case config.BatchSpanProcessorType:
		sp = trace.NewBatchSpanProcessor(
			exp,
			trace.WithBatchTimeout(cfg.Processor.Batch.ExportInterval),
			trace.WithMaxExportBatchSize(cfg.Processor.Batch.MaxSize),
		)
	default:
		return UnknownSpanProcessorTypeError{Type: cfg.Processor.Type}
	}

	otel.SetTracerProvider(trace.NewTracerProvider(
		trace.WithSpanProcessor(sp),
		trace.WithSampler(trace.TraceIDRatioBased(cfg.Sampling.Ratio)),
		trace.WithResource(s.res),
	))
	return nil
}

func (s *sdk) spanExporter(ctx context.Context, cfg config.SpanExporter) (trace.SpanExporter, error) {
	if cfg.Type != config.OTLPSpanExporterType {
		return discardSpans{}, nil
	}

	switch cfg.OTLP.Type {
	case config.OTLPGRPC:
		cc, err := s.conn(cfg.OTLP)
		if err != nil {
			return nil, err
		}
		return otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(cc))
	case config.OTLPHTTP:
		return otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.OTLP.Target))
	default:
		return nil, UnknownOTLPConnTypeError{Type: cfg.OTLP.Type}
	}
}

func (s *sdk) startMetrics(ctx context.Context, cfg config.Metric) error {
	exp, err := s.metricExporter(ctx, cfg.Exporter)
	if err != nil {
		return err
	}

	var reader metric.Reader
	switch cfg.Reader.Type {
	case config.PeriodicReaderType:
		reader = metric.NewPeriodicReader(
			exp,
			metric.WithInterval(cfg.Reader.Periodic.ExportInterval),
			metric.WithProducer(runtime.NewProducer()),
		)
	default:
		return UnknownMetricReaderTypeError{Type: cfg.Reader.Type}
	}

	otel.SetMeterProvider(metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithResource(s.res),
	))

	return runtime.Start(
		runtime.WithMinimumReadMemStatsInterval(time.Second),
	)
}

func (s *sdk) metricExporter(ctx context.Context, cfg config.MetricExporter) (metric.Exporter, error) {
	if cfg.Type != config.OTLPMetricExporterType {
		return discardMetrics{}, nil
	}

	switch cfg.OTLP.Type {
	case config.OTLPGRPC:
		cc, err := s.conn(cfg.OTLP)
		if err != nil {
			return nil, err
		}
		return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(cc))
	case config.OTLPHTTP:
		return otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(cfg.OTLP.Target))
	default:
		return nil, UnknownOTLPConnTypeError{Type: cfg.OTLP.Type}
	}
}

func (s *sdk) startLogs(ctx context.Context, cfg config.Log) error {
	exp, err := s.logExporter(ctx, cfg.Exporter)
	if err != nil {
		return err
	}

	var proc log.Processor
	switch cfg.Processor.Type {
	case config.SimpleLogProcessorType:
		proc = log.NewSimpleProcessor(exp)
	case config.BatchLogProcessorType:
		proc = log.NewBatchProcessor(
			exp,
			log.WithExportInterval(cfg.Processor.Batch.ExportInterval),
			log.WithExportMaxBatchSize(cfg.Processor.Batch.MaxSize),
		)
	default:
		return UnknownLogProcessorTypeError{Type: cfg.Processor.Type}
	}

	if len(cfg.Levels) > 0 {
		proc = newSeverityFilter(proc, cfg.Levels)
	}

	global.SetLoggerProvider(log.NewLoggerProvider(
		log.WithProcessor(proc),
		log.WithResource(s.res),
	))
	return nil
}

func (s *sdk) logExporter(ctx context.Context, cfg config.LogExporter) (log.Exporter, error) {
	if cfg.Type != config.OTLPLogExporterType {
		exp := &slogExporter{
			handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{}),
		}
		return exp, nil
	}

	switch cfg.OTLP.Type {
	case config.OTLPGRPC:
		cc, err := s.conn(cfg.OTLP)
		if err != nil {
			return nil, err
		}
		return otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(cc))
	case config.OTLPHTTP:
		return otlploghttp.New(ctx, otlploghttp.WithEndpoint(cfg.OTLP.Target))
	default:
		return nil, UnknownOTLPConnTypeError{Type: cfg.OTLP.Type}
	}
}

// UnknownOTLPConnTypeError signals an OTLP conn type which is neither
// "http" nor "grpc".
type UnknownOTLPConnTypeError struct {
	Type config.OTLPConnType
}

func (e UnknownOTLPConnTypeError) Error() string {
	return fmt.Sprintf("unknown otlp conn type: %q", e.Type)
}

// UnknownSpanProcessorTypeError signals an unrecognized span processor type.
type UnknownSpanProcessorTypeError struct {
	Type config.SpanProcessorType
}

func (e UnknownSpanProcessorTypeError) Error() string {
	return fmt.Sprintf("unknown span processor type: %q", e.Type)
}

// UnknownMetricReaderTypeError signals an unrecognized metric reader type.
type UnknownMetricReaderTypeError struct {
	Type config.MetricReaderType
}

func (e UnknownMetricReaderTypeError) Error() string {
	return fmt.Sprintf("unknown metric reader type: %q", e.Type)
}

// UnknownLogProcessorTypeError signals an unrecognized log processor type.
type UnknownLogProcessorTypeError struct {
	Type config.LogProcessorType
}

func (e UnknownLogProcessorTypeError) Error() string {
	return fmt.Sprintf("unknown log processor type: %q", e.Type)
}

// discardSpans is the span exporter used while span exporting is disabled.
type discardSpans struct{}

func (discardSpans) ExportSpans(context.Context, []trace.ReadOnlySpan) error { return nil }

func (discardSpans) Shutdown(context.Context) error { return nil }

// discardMetrics is the metric exporter used while metric exporting is
// disabled.
type discardMetrics struct{}

func (discardMetrics) Temporality(metric.InstrumentKind) metricdata.Temporality { return 0 }

func (discardMetrics) Aggregation(metric.InstrumentKind) metric.Aggregation { return nil }

func (discardMetrics) Export(context.Context, *metricdata.ResourceMetrics) error { return nil }

func (discardMetrics) ForceFlush(context.Context) error { return nil }

func (discardMetrics) Shutdown(context.Context) error { return nil }
