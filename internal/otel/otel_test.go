// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"testing"

	"github.com/prosepilot/restbridge/config"

	"github.com/stretchr/testify/require"
)

// batchTrace is a minimal trace config which initializes cleanly.
func batchTrace() config.Trace {
	return config.Trace{
		Processor: config.SpanProcessor{
			Type: config.BatchSpanProcessorType,
		},
	}
}

// periodicMetric is a minimal metric config which initializes cleanly.
func periodicMetric() config.Metric {
	return config.Metric{
		Reader: config.MetricReader{
			Type: config.PeriodicReaderType,
		},
	}
}

func TestInitialize(t *testing.T) {
	t.Run("will return an unknown otlp conn type error", func(t *testing.T) {
		t.Run("if the span exporter names an unrecognized transport", func(t *testing.T) {
			t.Parallel()

			err := Initialize(t.Context(), config.OTel{
				Trace: config.Trace{
					Exporter: config.SpanExporter{
						Type: config.OTLPSpanExporterType,
						OTLP: config.OTLPConn{
							Type: "unknown",
						},
					},
				},
			})

			var connErr UnknownOTLPConnTypeError
			require.ErrorAs(t, err, &connErr)
			require.Equal(t, config.OTLPConnType("unknown"), connErr.Type)
			require.NotEmpty(t, connErr.Error())
		})

		t.Run("if the metric exporter names an unrecognized transport", func(t *testing.T) {
			t.Parallel()

			err := Initialize(t.Context(), config.OTel{
				Trace: batchTrace(),
				Metric: config.Metric{
					Exporter: config.MetricExporter{
						Type: config.OTLPMetricExporterType,
						OTLP: config.OTLPConn{
							Type: "unknown",
						},
					},
				},
			})

			var connErr UnknownOTLPConnTypeError
			require.ErrorAs(t, err, &connErr)
			require.Equal(t, config.OTLPConnType("unknown"), connErr.Type)
		})

		t.Run("if the log exporter names an unrecognized transport", func(t *testing.T) {
			t.Parallel()

			err := Initialize(t.Context(), config.OTel{
				Trace:  batchTrace(),
				Metric: periodicMetric(),
				Log: config.Log{
					Exporter: config.LogExporter{
						Type: config.OTLPLogExporterType,
						OTLP: config.OTLPConn{
							Type: "unknown",
						},
					},
				},
			})

			var connErr UnknownOTLPConnTypeError
			require.ErrorAs(t, err, &connErr)
			require.Equal(t, config.OTLPConnType("unknown"), connErr.Type)
		})
	})

	t.Run("will return an unknown span processor type error", func(t *testing.T) {
		t.Run("if the span processor type is unrecognized", func(t *testing.T) {
			t.Parallel()

			err := Initialize(t.Context(), config.OTel{
				Trace: config.Trace{
					Processor: config.SpanProcessor{
						Type: "unknown",
					},
				},
			})

			var procErr UnknownSpanProcessorTypeError
			require.ErrorAs(t, err, &procErr)
			require.Equal(t, config.SpanProcessorType("unknown"), procErr.Type)
			require.NotEmpty(t, procErr.Error())
		})
	})

	t.Run("will return an unknown metric reader type error", func(t *testing.T) {
		t.Run("if the metric reader type is unrecognized", func(t *testing.T) {
			t.Parallel()

			err := Initialize(t.Context(), config.OTel{
				Trace: batchTrace(),
				Metric: config.Metric{
					Reader: config.MetricReader{
						Type: "unknown",
					},
				},
			})

			var readerErr UnknownMetricReaderTypeError
			require.ErrorAs(t, err, &readerErr)
			require.Equal(t, config.MetricReaderType("unknown"), readerErr.Type)
			require.NotEmpty(t, readerErr.Error())
		})
	})

	t.Run("will return an unknown log processor type error", func(t *testing.T) {
		t.Run("if the log processor type is unrecognized", func(t *testing.T) {
			t.Parallel()

			err := Initialize(t.Context(), config.OTel{
				Trace:  batchTrace(),
				Metric: periodicMetric(),
				Log: config.Log{
					Processor: config.LogProcessor{
						Type: "unknown",
					},
				},
			})

			var procErr UnknownLogProcessorTypeError
			require.ErrorAs(t, err, &procErr)
			require.Equal(t, config.LogProcessorType("unknown"), procErr.Type)
			require.NotEmpty(t, procErr.Error())
		})
	})
}
