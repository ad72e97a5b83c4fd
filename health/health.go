// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package health defines how an application reports whether it is able to serve.
package health

import (
	"context"
	"errors"
	"sync/atomic"
)

// Monitor reports the current health of some part of an application.
type Monitor interface {
	// Healthy returns the current health state. The error is reserved for
	// cases where the state could not be determined at all.
	Healthy(ctx context.Context) (bool, error)
}

// MonitorFunc allows ordinary functions to be used as [Monitor]s.
type MonitorFunc func(ctx context.Context) (bool, error)

// Healthy implements the [Monitor] interface.
func (f MonitorFunc) Healthy(ctx context.Context) (bool, error) {
	return f(ctx)
}

// Binary is a [Monitor] that is either healthy or unhealthy, nothing in
// between. The zero value reports unhealthy and it is safe for concurrent use.
type Binary struct {
	state atomic.Bool
}

// MarkHealthy transitions the monitor to the healthy state.
func (b *Binary) MarkHealthy() {
	b.state.Store(true)
}

// MarkUnhealthy transitions the monitor to the unhealthy state.
func (b *Binary) MarkUnhealthy() {
	b.state.Store(false)
}

// Healthy implements the [Monitor] interface.
func (b *Binary) Healthy(ctx context.Context) (bool, error) {
	return b.state.Load(), nil
}

// All combines [Monitor]s with logical AND semantics: it is healthy only
// while every member is healthy. Members are checked in order and checking
// stops at the first member which is unhealthy or fails.
type All []Monitor

// Healthy implements the [Monitor] interface.
func (all All) Healthy(ctx context.Context) (bool, error) {
	for _, m := range all {
		healthy, err := m.Healthy(ctx)
		if err != nil || !healthy {
			return healthy, err
		}
	}
	return true, nil
}

// Any combines [Monitor]s with logical OR semantics: it is healthy while at
// least one member is healthy. Unlike [All], every member may be consulted.
// If no member reports healthy, any errors encountered along the way are
// joined with [errors.Join] and returned alongside the unhealthy state.
type Any []Monitor

// Healthy implements the [Monitor] interface.
func (a Any) Healthy(ctx context.Context) (bool, error) {
	var errs []error
	for _, m := range a {
		healthy, err := m.Healthy(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if healthy {
			return true, nil
		}
	}
	return false, errors.Join(errs...)
}
