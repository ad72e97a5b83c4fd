// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"

	"github.com/prosepilot/restbridge/example/internal/task"
	"github.com/prosepilot/restbridge/rpc"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

type AddStore interface {
	Add(context.Context, task.Task)
}

type createTaskHandler struct {
	store AddStore
}

// CreateTask registers the tasks.create procedure as POST /tasks.
func CreateTask(r *rpc.Router, store AddStore) {
	h := &createTaskHandler{
		store: store,
	}

	rpc.Mutation(r, "tasks.create", h,
		rpc.Post("/tasks"),
		rpc.Summary("Create a task"),
		rpc.Tags("tasks"),
	)
}

type CreateTaskRequest struct {
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
}

type CreateTaskResponse struct {
	Task task.Task `json:"task"`
}

func (h *createTaskHandler) Handle(ctx context.Context, req *CreateTaskRequest) (*CreateTaskResponse, error) {
	spanCtx, span := otel.Tracer("endpoint").Start(ctx, "createTaskHandler.Handle")
	defer span.End()

	t := task.Task{
		ID:    uuid.NewString(),
		Title: req.Title,
		Notes: req.Notes,
	}

	h.store.Add(spanCtx, t)

	resp := &CreateTaskResponse{
		Task: t,
	}
	return resp, nil
}
