// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package lambda

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/prosepilot/restbridge"
	"github.com/prosepilot/restbridge/internal"

	"github.com/sourcegraph/conc/pool"
	"github.com/z5labs/bedrock"
	"github.com/z5labs/bedrock/app"
	"github.com/z5labs/bedrock/appbuilder"
	"github.com/z5labs/bedrock/config"
	"github.com/z5labs/bedrock/lifecycle"
)

// RuntimeOptions holds configuration for a [Runtime].
type RuntimeOptions struct {
	endpoint string
	client   *http.Client
}

// RuntimeOption sets a value on [RuntimeOptions].
type RuntimeOption interface {
	ApplyRuntimeOption(*RuntimeOptions)
}

type runtimeOptionFunc func(*RuntimeOptions)

func (f runtimeOptionFunc) ApplyRuntimeOption(ro *RuntimeOptions) {
	f(ro)
}

// Endpoint overrides the runtime API address. It defaults to the
// AWS_LAMBDA_RUNTIME_API environment variable set by the Lambda
// execution environment.
func Endpoint(hostport string) RuntimeOption {
	return runtimeOptionFunc(func(ro *RuntimeOptions) {
		ro.endpoint = hostport
	})
}

// PollClient overrides the [http.Client] used to talk to the runtime
// API. The client must not set a timeout: invocation polling blocks
// until work arrives.
func PollClient(c *http.Client) RuntimeOption {
	return runtimeOptionFunc(func(ro *RuntimeOptions) {
		ro.client = c
	})
}

// Runtime drives the Lambda custom runtime interface: it polls the
// runtime API for the next invocation, dispatches the event through a
// [Handler], and posts the resulting proxy response back.
type Runtime struct {
	handler  *Handler
	log      *slog.Logger
	endpoint string
	client   *http.Client
}

// NewRuntime initializes a [Runtime] serving h.
func NewRuntime(h *Handler, opts ...RuntimeOption) *Runtime {
	ro := &RuntimeOptions{
		endpoint: os.Getenv("AWS_LAMBDA_RUNTIME_API"),
		client:   &http.Client{},
	}
	for _, opt := range opts {
		opt.ApplyRuntimeOption(ro)
	}

	return &Runtime{
		handler:  h,
		log:      restbridge.Logger("lambda"),
		endpoint: ro.endpoint,
		client:   ro.client,
	}
}

// Run polls for invocations until ctx is cancelled. A failed invocation
// is logged and the loop moves on to the next one.
func (rt *Runtime) Run(ctx context.Context) error {
	p := pool.New().WithContext(ctx)

	p.Go(func(ctx context.Context) error {
		for {
			err := rt.serveNext(ctx)
			if err == nil {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			rt.log.ErrorContext(ctx, "failed to serve invocation", slog.Any("error", err))
		}
	})

	err := p.Wait()
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// serveNext performs one poll, dispatch, respond cycle.
func (rt *Runtime) serveNext(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("http://%s/2018-06-01/runtime/invocation/next", rt.endpoint), nil)
	if err != nil {
		return err
	}

	resp, err := rt.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	event, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lambda: runtime api returned status %d for next invocation", resp.StatusCode)
	}

	// Lambda-Runtime-Aws-Request-Id identifies this invocation; the
	// response must be posted back under the same id.
	id := resp.Header.Get("Lambda-Runtime-Aws-Request-Id")
	if id == "" {
		return errors.New("lambda: runtime api omitted the invocation request id")
	}

	callCtx := ctx
	if ms, perr := strconv.ParseInt(resp.Header.Get("Lambda-Runtime-Deadline-Ms"), 10, 64); perr == nil {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithDeadline(ctx, time.UnixMilli(ms))
		defer cancel()
	}

	out, err := rt.handler.Invoke(callCtx, event)

	// The post must finish even when shutdown has already begun,
	// otherwise the invocation is lost.
	postCtx := context.WithoutCancel(ctx)
	if err != nil {
		return rt.post(postCtx, id, "error", invocationError(err))
	}
	return rt.post(postCtx, id, "response", out)
}

func (rt *Runtime) post(ctx context.Context, id, kind string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("http://%s/2018-06-01/runtime/invocation/%s/%s", rt.endpoint, id, kind), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rt.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return err
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("lambda: runtime api returned status %d posting invocation %s", resp.StatusCode, kind)
	}
	return nil
}

// invocationError renders err into the runtime API error shape.
func invocationError(err error) []byte {
	body, merr := json.Marshal(struct {
		ErrorMessage string `json:"errorMessage"`
		ErrorType    string `json:"errorType"`
	}{
		ErrorMessage: err.Error(),
		ErrorType:    "Runtime.HandlerError",
	})
	if merr != nil {
		return []byte(`{"errorMessage":"Unknown error occurred","errorType":"Runtime.HandlerError"}`)
	}
	return body
}

// Configer constrains the custom config type to the hooks [Run] relies
// on, which for lambda apps is only the OTel bootstrap.
type Configer interface {
	appbuilder.OTelInitializer
}

// Config carries the settings every lambda application shares. Embed it
// with `config:",squash"` to extend it with app specific fields.
type Config struct {
	restbridge.Config `config:",squash"`
}

// Run reads config from r, unmarshals it into a new T and hands that to
// f to initialize a [Handler]. The [Handler] is then served from the
// Lambda custom runtime interface until the execution environment
// terminates the function. Middlewares applied along the way include
// automattic panic recovery as well as OTel SDK initialization and
// shutdown.
func Run[T Configer](r io.Reader, f func(context.Context, T) (*Handler, error)) {
	src := config.MultiSource(
		restbridge.DefaultConfig(),
		restbridge.ConfigSource(r),
	)

	builder := appbuilder.FromConfig(
		appbuilder.LifecycleContext(
			appbuilder.OTel(
				appbuilder.Recover(
					bedrock.AppBuilderFunc[T](func(ctx context.Context, cfg T) (bedrock.App, error) {
						h, err := f(ctx, cfg)
						if err != nil {
							return nil, err
						}

						var base bedrock.App = NewRuntime(h)
						base = app.Recover(base)
						base = app.InterruptOn(base, os.Kill, os.Interrupt, syscall.SIGTERM)
						return base, nil
					}),
				),
			),
			&lifecycle.Context{},
		),
	)

	err := internal.Run(context.Background(), src, builder)
	if err == nil {
		return
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{}))
	log.Error("failed to run lambda app", slog.String("error", err.Error()))
}
