package workerpool

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"prodeck/internal/platform/logx"
	"prodeck/internal/testutil"
)

type countingTask struct {
	id      int
	counter *atomic.Int32
	fail    bool
}

func (t *countingTask) Name() string { return fmt.Sprintf("task-%d", t.id) }

func (t *countingTask) Execute(ctx context.Context) error {
	t.counter.Add(1)
	if t.fail {
		return fmt.Errorf("task %d failed", t.id)
	}
	return nil
}

func TestSubmitRunsEveryTask(t *testing.T) {
	pool := New(Config{Workers: 3, Logger: logx.NewSilent()})
	pool.Start()
	defer pool.Stop()

	var counter atomic.Int32
	tasks := make([]Task, 20)
	for i := range tasks {
		tasks[i] = &countingTask{id: i, counter: &counter}
	}

	results := pool.Submit(tasks, nil)
	testutil.AssertEqual(t, len(results), 20, "result count")
	testutil.AssertEqual(t, int(counter.Load()), 20, "executions")
}

func TestSubmitReportsTaskErrors(t *testing.T) {
	pool := New(Config{Workers: 2, Logger: logx.NewSilent()})
	pool.Start()
	defer pool.Stop()

	var counter atomic.Int32
	tasks := []Task{
		&countingTask{id: 0, counter: &counter},
		&countingTask{id: 1, counter: &counter, fail: true},
		&countingTask{id: 2, counter: &counter},
	}

	failures := 0
	results := pool.Submit(tasks, func(r TaskResult) {
		if r.Error != nil {
			failures++
		}
	})
	testutil.AssertEqual(t, len(results), 3, "result count")
	testutil.AssertEqual(t, failures, 1, "failed tasks")
}

type blockingTask struct {
	started chan struct{}
}

func (t *blockingTask) Name() string { return "blocking" }

func (t *blockingTask) Execute(ctx context.Context) error {
	select {
	case t.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestStopUnblocksRunningTasks(t *testing.T) {
	pool := New(Config{Workers: 1, Logger: logx.NewSilent()})
	pool.Start()

	task := &blockingTask{started: make(chan struct{}, 1)}
	done := make(chan struct{})
	go func() {
		pool.Submit([]Task{task}, nil)
		close(done)
	}()

	<-task.started
	pool.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit did not return after Stop")
	}
}

func TestSubmitEmpty(t *testing.T) {
	pool := New(Config{Workers: 2, Logger: logx.NewSilent()})
	pool.Start()
	defer pool.Stop()

	results := pool.Submit(nil, nil)
	testutil.AssertEqual(t, len(results), 0, "empty submit")
}
