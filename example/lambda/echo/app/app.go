// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"strings"

	"github.com/prosepilot/restbridge/lambda"
	"github.com/prosepilot/restbridge/rest"
	"github.com/prosepilot/restbridge/rpc"
)

type Config struct {
	lambda.Config `config:",squash"`
}

type EchoRequest struct {
	Message string `json:"message"`
}

type EchoResponse struct {
	Message string `json:"message"`
}

func Init(ctx context.Context, cfg Config) (*lambda.Handler, error) {
	r := rpc.NewRouter()

	rpc.Query(r, "echo.say", rpc.HandlerFunc[EchoRequest, EchoResponse](func(ctx context.Context, req *EchoRequest) (*EchoResponse, error) {
		return &EchoResponse{Message: req.Message}, nil
	}), rpc.Get("/say"), rpc.Summary("Echo a message back"))

	rpc.Query(r, "echo.shout", rpc.HandlerFunc[EchoRequest, EchoResponse](func(ctx context.Context, req *EchoRequest) (*EchoResponse, error) {
		return &EchoResponse{Message: strings.ToUpper(req.Message)}, nil
	}), rpc.Get("/shout"), rpc.Summary("Echo a message back, loudly"))

	h, err := rest.NewHandler(r)
	if err != nil {
		return nil, err
	}

	return lambda.NewHandler(h), nil
}
