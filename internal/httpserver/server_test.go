// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingListener struct {
	err error
}

func (l failingListener) Accept() (net.Conn, error) {
	return nil, l.err
}

func (failingListener) Close() error {
	return nil
}

func (failingListener) Addr() net.Addr {
	return nil
}

func TestServer_Run(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the listener fails to accept connections", func(t *testing.T) {
			acceptErr := errors.New("failed to accept conn")

			srv := &http.Server{
				Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
			}

			err := New(failingListener{err: acceptErr}, srv).Run(context.Background())
			if !assert.ErrorIs(t, err, acceptErr) {
				return
			}
		})
	})

	t.Run("will shut down gracefully", func(t *testing.T) {
		t.Run("if the context is already cancelled", func(t *testing.T) {
			ls, err := net.Listen("tcp", ":0")
			if !assert.Nil(t, err) {
				return
			}

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			srv := &http.Server{
				Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
			}

			err = New(ls, srv).Run(ctx)
			if !assert.Nil(t, err) {
				return
			}
		})

		t.Run("if the context is cancelled while serving", func(t *testing.T) {
			ls, err := net.Listen("tcp", ":0")
			if !assert.Nil(t, err) {
				return
			}

			srv := &http.Server{
				Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusNoContent)
				}),
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				errCh <- New(ls, srv).Run(ctx)
			}()

			resp, err := http.Get(fmt.Sprintf("http://%s/", ls.Addr()))
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, http.StatusNoContent, resp.StatusCode) {
				return
			}

			cancel()

			err = <-errCh
			if !assert.Nil(t, err) {
				return
			}
		})
	})
}
