// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package httpserver adapts a [http.Server] to the [bedrock.App] contract.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"
)

// Server drives a [http.Server] over a fixed listener.
type Server struct {
	ls  net.Listener
	srv *http.Server
}

// New returns a [Server] which serves srv over ls.
func New(ls net.Listener, srv *http.Server) *Server {
	return &Server{
		ls:  ls,
		srv: srv,
	}
}

// Run implements the [bedrock.App] interface. It blocks until ctx is
// cancelled or serving fails, draining in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return s.srv.Serve(s.ls)
	})
	eg.Go(func() error {
		<-egCtx.Done()

		return s.srv.Shutdown(context.Background())
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
