package async

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
)

func TestCollect_AllSucceed(t *testing.T) {
	var count atomic.Int32

	tasks := []Task[string]{
		{Name: "a", Func: func(_ context.Context) (string, error) {
			count.Add(1)
			return "out-a", nil
		}},
		{Name: "b", Func: func(_ context.Context) (string, error) {
			count.Add(1)
			return "out-b", nil
		}},
		{Name: "c", Func: func(_ context.Context) (string, error) {
			count.Add(1)
			return "out-c", nil
		}},
	}

	results := Collect(context.Background(), tasks)

	if count.Load() != 3 {
		t.Errorf("expected 3 tasks to run, got %d", count.Load())
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	byName := map[string]Result[string]{}
	for _, res := range results {
		byName[res.Name] = res
	}
	if byName["b"].Value != "out-b" || byName["b"].Err != nil {
		t.Errorf("unexpected result for b: %+v", byName["b"])
	}
	if err := FirstError(results); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestCollect_FailureDoesNotStopOthers(t *testing.T) {
	var count atomic.Int32
	boom := errors.New("boom")

	tasks := []Task[string]{
		{Name: "ok1", Func: func(_ context.Context) (string, error) {
			count.Add(1)
			return "fine", nil
		}},
		{Name: "bad", Func: func(_ context.Context) (string, error) {
			count.Add(1)
			return "", boom
		}},
		{Name: "ok2", Func: func(_ context.Context) (string, error) {
			count.Add(1)
			return "fine", nil
		}},
	}

	results := Collect(context.Background(), tasks)

	if count.Load() != 3 {
		t.Errorf("expected all 3 tasks to run, got %d", count.Load())
	}

	var failed []string
	for _, res := range results {
		if res.Err != nil {
			failed = append(failed, res.Name)
		}
	}
	if len(failed) != 1 || failed[0] != "bad" {
		t.Errorf("expected exactly [bad] to fail, got %v", failed)
	}
	if !errors.Is(FirstError(results), boom) {
		t.Errorf("expected FirstError to surface the failure, got: %v", FirstError(results))
	}
}

func TestCollect_EmptyTasks(t *testing.T) {
	results := Collect[string](context.Background(), nil)
	if results != nil {
		t.Errorf("expected nil results for no tasks, got %v", results)
	}
	if err := FirstError(results); err != nil {
		t.Errorf("expected nil error for no tasks, got: %v", err)
	}
}

func TestCollect_OneResultPerTask(t *testing.T) {
	names := []string{"n1", "n2", "n3", "n4", "n5"}
	tasks := make([]Task[string], 0, len(names))
	for _, name := range names {
		tasks = append(tasks, Task[string]{Name: name, Func: func(_ context.Context) (string, error) {
			return name, nil
		}})
	}

	results := Collect(context.Background(), tasks)

	got := make([]string, 0, len(results))
	for _, res := range results {
		got = append(got, res.Name)
	}
	sort.Strings(got)
	for i, name := range names {
		if got[i] != name {
			t.Fatalf("expected results for %v, got %v", names, got)
		}
	}
}
