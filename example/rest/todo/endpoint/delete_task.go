// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"

	"github.com/prosepilot/restbridge/rpc"

	"go.opentelemetry.io/otel"
)

type DeleteStore interface {
	Delete(context.Context, string) bool
}

type deleteTaskHandler struct {
	store DeleteStore
}

// DeleteTask registers the tasks.delete procedure as DELETE /tasks/:id.
func DeleteTask(r *rpc.Router, store DeleteStore) {
	h := &deleteTaskHandler{
		store: store,
	}

	rpc.Mutation(r, "tasks.delete", h,
		rpc.Delete("/tasks/:id"),
		rpc.Summary("Delete a task"),
		rpc.Tags("tasks"),
	)
}

type DeleteTaskRequest struct {
	ID string `json:"id"`
}

type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

func (h *deleteTaskHandler) Handle(ctx context.Context, req *DeleteTaskRequest) (*DeleteTaskResponse, error) {
	spanCtx, span := otel.Tracer("endpoint").Start(ctx, "deleteTaskHandler.Handle")
	defer span.End()

	resp := &DeleteTaskResponse{
		Deleted: h.store.Delete(spanCtx, req.ID),
	}
	return resp, nil
}
