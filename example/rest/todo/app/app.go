// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"

	"github.com/prosepilot/restbridge/example/internal/task"
	"github.com/prosepilot/restbridge/example/rest/todo/endpoint"
	"github.com/prosepilot/restbridge/rest"
	"github.com/prosepilot/restbridge/rpc"
)

type Config struct {
	rest.Config `config:",squash"`
}

func Init(ctx context.Context, cfg Config) (*rest.Api, error) {
	store := task.NewInMemory()

	r := rpc.NewRouter()
	endpoint.CreateTask(r, store)
	endpoint.GetTask(r, store)
	endpoint.ListTasks(r, store)
	endpoint.CompleteTask(r, store)
	endpoint.DeleteTask(r, store)

	h, err := rest.NewHandler(r)
	if err != nil {
		return nil, err
	}

	api := rest.NewApi(
		cfg.OpenApi.Title,
		cfg.OpenApi.Version,
		rest.Bridge(h),
	)

	return api, nil
}
