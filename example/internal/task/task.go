// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package task

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
)

type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
	Done  bool   `json:"done"`
}

type InMemory struct {
	mu    sync.Mutex
	tasks map[string]Task
	order []string
}

func NewInMemory() *InMemory {
	return &InMemory{
		tasks: make(map[string]Task),
	}
}

func (s *InMemory) Add(ctx context.Context, t Task) {
	_, span := otel.Tracer("task").Start(ctx, "InMemory.Add")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.tasks[t.ID] = t
}

func (s *InMemory) Get(ctx context.Context, id string) (Task, bool) {
	_, span := otel.Tracer("task").Start(ctx, "InMemory.Get")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.tasks[id]
	return t, exists
}

func (s *InMemory) Delete(ctx context.Context, id string) bool {
	_, span := otel.Tracer("task").Start(ctx, "InMemory.Delete")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return false
	}
	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Tasks returns tasks in insertion order, optionally filtered by status.
func (s *InMemory) Tasks(ctx context.Context, status Status) []Task {
	_, span := otel.Tracer("task").Start(ctx, "InMemory.Tasks")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		t := s.tasks[id]
		switch status {
		case StatusOpen:
			if t.Done {
				continue
			}
		case StatusDone:
			if !t.Done {
				continue
			}
		}
		tasks = append(tasks, t)
	}
	return tasks
}
