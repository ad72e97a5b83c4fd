// Copyright (c) 2025 ProsePilot and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemory_Add(t *testing.T) {
	t.Run("will add task to store", func(t *testing.T) {
		t.Run("always", func(t *testing.T) {
			store := NewInMemory()

			store.Add(context.Background(), Task{ID: "a", Title: "water plants"})

			if !assert.Contains(t, store.tasks, "a") {
				return
			}
		})
	})

	t.Run("will keep insertion order stable", func(t *testing.T) {
		t.Run("if an existing task is overwritten", func(t *testing.T) {
			store := NewInMemory()

			store.Add(context.Background(), Task{ID: "a", Title: "one"})
			store.Add(context.Background(), Task{ID: "b", Title: "two"})
			store.Add(context.Background(), Task{ID: "a", Title: "one again"})

			if !assert.Equal(t, []string{"a", "b"}, store.order) {
				return
			}
		})
	})
}

func TestInMemory_Get(t *testing.T) {
	t.Run("will not return task", func(t *testing.T) {
		t.Run("if the task id is not found", func(t *testing.T) {
			store := NewInMemory()

			_, found := store.Get(context.Background(), "a")
			if !assert.False(t, found) {
				return
			}
		})
	})

	t.Run("will return task", func(t *testing.T) {
		t.Run("if the task id is found", func(t *testing.T) {
			store := NewInMemory()
			store.Add(context.Background(), Task{ID: "a", Title: "water plants"})

			task, found := store.Get(context.Background(), "a")
			if !assert.True(t, found) {
				return
			}
			if !assert.Equal(t, "water plants", task.Title) {
				return
			}
		})
	})
}

func TestInMemory_Delete(t *testing.T) {
	t.Run("will delete task", func(t *testing.T) {
		t.Run("if the task id is found", func(t *testing.T) {
			store := NewInMemory()
			store.Add(context.Background(), Task{ID: "a"})

			deleted := store.Delete(context.Background(), "a")
			if !assert.True(t, deleted) {
				return
			}
			if !assert.Empty(t, store.tasks) {
				return
			}
			if !assert.Empty(t, store.order) {
				return
			}
		})
	})

	t.Run("will be a no-op", func(t *testing.T) {
		t.Run("if the task id is not found", func(t *testing.T) {
			store := NewInMemory()

			deleted := store.Delete(context.Background(), "a")
			if !assert.False(t, deleted) {
				return
			}
		})
	})
}

func TestInMemory_Tasks(t *testing.T) {
	t.Run("will return tasks in insertion order", func(t *testing.T) {
		t.Run("if no status filter is given", func(t *testing.T) {
			store := NewInMemory()
			store.Add(context.Background(), Task{ID: "b", Title: "two"})
			store.Add(context.Background(), Task{ID: "a", Title: "one"})

			tasks := store.Tasks(context.Background(), "")
			if !assert.Len(t, tasks, 2) {
				return
			}
			if !assert.Equal(t, "b", tasks[0].ID) {
				return
			}
			if !assert.Equal(t, "a", tasks[1].ID) {
				return
			}
		})
	})

	t.Run("will filter tasks", func(t *testing.T) {
		t.Run("if the open status is given", func(t *testing.T) {
			store := NewInMemory()
			store.Add(context.Background(), Task{ID: "a", Done: true})
			store.Add(context.Background(), Task{ID: "b"})

			tasks := store.Tasks(context.Background(), StatusOpen)
			if !assert.Len(t, tasks, 1) {
				return
			}
			if !assert.Equal(t, "b", tasks[0].ID) {
				return
			}
		})

		t.Run("if the done status is given", func(t *testing.T) {
			store := NewInMemory()
			store.Add(context.Background(), Task{ID: "a", Done: true})
			store.Add(context.Background(), Task{ID: "b"})

			tasks := store.Tasks(context.Background(), StatusDone)
			if !assert.Len(t, tasks, 1) {
				return
			}
			if !assert.Equal(t, "a", tasks[0].ID) {
				return
			}
		})
	})
}
