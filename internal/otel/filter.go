// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package otel

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// severityFilter drops records below a per logger severity floor before
// they reach the wrapped processor.
type severityFilter struct {
	next   sdklog.Processor
	floors map[string]log.Severity
}

// newSeverityFilter wraps next with per logger severity floors.
//
// Keys of levels are instrumentation scope names and match by longest
// prefix, so "github.com/prosepilot/restbridge" also covers
// "github.com/prosepilot/restbridge/rest". Values are one of "debug",
// "info", "warn", "warning" or "error". Loggers without a matching key
// emit all records.
func newSeverityFilter(next sdklog.Processor, levels map[string]string) *severityFilter {
	floors := make(map[string]log.Severity, len(levels))
	for name, level := range levels {
		floors[name] = parseSeverity(level)
	}

	return &severityFilter{
		next:   next,
		floors: floors,
	}
}

// parseSeverity maps a level string to its severity. Unknown values map
// to debug, which lets every record through.
func parseSeverity(level string) log.Severity {
	switch strings.ToLower(level) {
	case "error":
		return log.SeverityError
	case "warn", "warning":
		return log.SeverityWarn
	case "info":
		return log.SeverityInfo
	default:
		return log.SeverityDebug
	}
}

// OnEmit implements the [sdklog.Processor] interface.
func (f *severityFilter) OnEmit(ctx context.Context, record *sdklog.Record) error {
	floor, found := f.minSeverity(record.InstrumentationScope().Name)
	if found && record.Severity() < floor {
		return nil
	}
	return f.next.OnEmit(ctx, record)
}

// minSeverity resolves the floor for a logger name. Two distinct floor
// names of equal length are never prefixes of the same logger, so the
// longest match is unambiguous.
func (f *severityFilter) minSeverity(logger string) (log.Severity, bool) {
	var (
		floor log.Severity
		best  int
		found bool
	)
	for name, severity := range f.floors {
		if !strings.HasPrefix(logger, name) {
			continue
		}
		if !found || len(name) > best {
			floor = severity
			best = len(name)
			found = true
		}
	}
	return floor, found
}

// Shutdown implements the [sdklog.Processor] interface.
func (f *severityFilter) Shutdown(ctx context.Context) error {
	return f.next.Shutdown(ctx)
}

// ForceFlush implements the [sdklog.Processor] interface.
func (f *severityFilter) ForceFlush(ctx context.Context) error {
	return f.next.ForceFlush(ctx)
}
