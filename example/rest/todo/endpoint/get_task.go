// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"

	"github.com/prosepilot/restbridge/example/internal/task"
	"github.com/prosepilot/restbridge/rpc"

	"go.opentelemetry.io/otel"
)

type GetStore interface {
	Get(context.Context, string) (task.Task, bool)
}

type getTaskHandler struct {
	store GetStore
}

// GetTask registers the tasks.byId procedure as GET /tasks/:id.
func GetTask(r *rpc.Router, store GetStore) {
	h := &getTaskHandler{
		store: store,
	}

	rpc.Query(r, "tasks.byId", h,
		rpc.Get("/tasks/:id"),
		rpc.Summary("Look up a task by id"),
		rpc.Tags("tasks"),
	)
}

type GetTaskRequest struct {
	ID string `json:"id"`
}

type GetTaskResponse struct {
	Task task.Task `json:"task"`
}

func (h *getTaskHandler) Handle(ctx context.Context, req *GetTaskRequest) (*GetTaskResponse, error) {
	spanCtx, span := otel.Tracer("endpoint").Start(ctx, "getTaskHandler.Handle")
	defer span.End()

	t, found := h.store.Get(spanCtx, req.ID)
	if !found {
		return nil, rpc.NewError(rpc.CodeNotFound, "Task not found")
	}

	resp := &GetTaskResponse{
		Task: t,
	}
	return resp, nil
}
