package async

import (
	"context"
)

// Task represents an asynchronous operation producing a value of type T.
type Task[T any] struct {
	Name string
	Func func(context.Context) (T, error)
}

// Result pairs a task's name with its outcome. Callers must correlate by
// Name, not by slice position.
type Result[T any] struct {
	Name  string
	Value T
	Err   error
}

// Collect starts all tasks concurrently, waits for every one to finish,
// and returns one result per task in completion order. A failing task
// never prevents the others from running to completion.
//
// Example:
//
//	tasks := []Task[string]{
//	    {Name: "10.0.0.4", Func: func(ctx context.Context) (string, error) { return run(ctx, "10.0.0.4") }},
//	    {Name: "10.0.0.5", Func: func(ctx context.Context) (string, error) { return run(ctx, "10.0.0.5") }},
//	}
//	for _, res := range Collect(ctx, tasks) {
//	    ...
//	}
func Collect[T any](ctx context.Context, tasks []Task[T]) []Result[T] {
	if len(tasks) == 0 {
		return nil
	}

	resultChan := make(chan Result[T], len(tasks))

	// Start all tasks
	for _, task := range tasks {
		go func() {
			value, err := task.Func(ctx)
			resultChan <- Result[T]{Name: task.Name, Value: value, Err: err}
		}()
	}

	// Wait for all tasks to complete
	results := make([]Result[T], 0, len(tasks))
	for range len(tasks) {
		results = append(results, <-resultChan)
	}

	return results
}

// FirstError returns the first failed result's error, or nil when every
// task succeeded.
func FirstError[T any](results []Result[T]) error {
	for _, res := range results {
		if res.Err != nil {
			return res.Err
		}
	}
	return nil
}
