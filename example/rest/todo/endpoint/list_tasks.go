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

type ListStore interface {
	Tasks(context.Context, task.Status) []task.Task
}

type listTasksHandler struct {
	store ListStore
}

// ListTasks registers the tasks.list procedure as GET /tasks. The optional
// status query parameter filters to open or done tasks.
func ListTasks(r *rpc.Router, store ListStore) {
	h := &listTasksHandler{
		store: store,
	}

	rpc.Query(r, "tasks.list", h,
		rpc.Get("/tasks"),
		rpc.Summary("List tasks"),
		rpc.Tags("tasks"),
	)
}

type ListTasksRequest struct {
	Status string `json:"status,omitempty"`
}

type ListTasksResponse struct {
	Tasks []task.Task `json:"tasks"`
}

func (h *listTasksHandler) Handle(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error) {
	spanCtx, span := otel.Tracer("endpoint").Start(ctx, "listTasksHandler.Handle")
	defer span.End()

	status := task.Status(req.Status)
	switch status {
	case "", task.StatusOpen, task.StatusDone:
	default:
		return nil, rpc.NewErrorf(rpc.CodeBadRequest, "Unknown status %q", req.Status)
	}

	resp := &ListTasksResponse{
		Tasks: h.store.Tasks(spanCtx, status),
	}
	return resp, nil
}
