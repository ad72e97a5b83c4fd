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

type CompleteStore interface {
	Get(context.Context, string) (task.Task, bool)
	Add(context.Context, task.Task)
}

type completeTaskHandler struct {
	store CompleteStore
}

// CompleteTask registers the tasks.complete procedure as
// PATCH /tasks/:id/complete.
func CompleteTask(r *rpc.Router, store CompleteStore) {
	h := &completeTaskHandler{
		store: store,
	}

	rpc.Mutation(r, "tasks.complete", h,
		rpc.Patch("/tasks/:id/complete"),
		rpc.Summary("Mark a task as done"),
		rpc.Tags("tasks"),
	)
}

type CompleteTaskRequest struct {
	ID string `json:"id"`
}

type CompleteTaskResponse struct {
	Task task.Task `json:"task"`
}

func (h *completeTaskHandler) Handle(ctx context.Context, req *CompleteTaskRequest) (*CompleteTaskResponse, error) {
	spanCtx, span := otel.Tracer("endpoint").Start(ctx, "completeTaskHandler.Handle")
	defer span.End()

	t, found := h.store.Get(spanCtx, req.ID)
	if !found {
		return nil, rpc.NewError(rpc.CodeNotFound, "Task not found")
	}

	t.Done = true
	h.store.Add(spanCtx, t)

	resp := &CompleteTaskResponse{
		Task: t,
	}
	return resp, nil
}
