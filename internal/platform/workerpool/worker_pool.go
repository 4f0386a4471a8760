// Package workerpool runs homogeneous tasks on a fixed number of
// goroutines. Results are delivered in completion order, not
// submission order.
package workerpool

import (
	"context"
	"sync"
	"time"

	"prodeck/internal/platform/logx"
)

// Task is one unit of work for the pool.
type Task interface {
	// Execute runs the task.
	Execute(ctx context.Context) error

	// Name identifies the task in logs.
	Name() string
}

// Pool manages concurrent task execution with a fixed worker count.
type Pool struct {
	workers int
	logger  logx.Logger

	taskQueue chan Task
	results   chan TaskResult

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// TaskResult pairs a finished task with its outcome.
type TaskResult struct {
	Task     Task
	Error    error
	Duration time.Duration
}

// Config configures the pool.
type Config struct {
	Workers int
	Logger  logx.Logger
}

// New creates a pool. Workers defaults to 3 when unset.
func New(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 3
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.New()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:   cfg.Workers,
		logger:    cfg.Logger.With("component", "worker-pool"),
		taskQueue: make(chan Task, cfg.Workers*2),
		results:   make(chan TaskResult, cfg.Workers*2),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	p.logger.Debug("starting worker pool", "workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.taskQueue:
			if !ok {
				return
			}
			p.executeTask(id, task)
		}
	}
}

func (p *Pool) executeTask(workerID int, task Task) {
	start := time.Now()
	err := task.Execute(p.ctx)
	duration := time.Since(start)

	p.logger.Debug("task completed",
		"worker_id", workerID,
		"task", task.Name(),
		"duration_ms", duration.Milliseconds(),
		"error", err != nil,
	)

	select {
	case p.results <- TaskResult{Task: task, Error: err, Duration: duration}:
	case <-p.ctx.Done():
		// Pool stopped, discard result.
	}
}

// Submit feeds tasks to the pool and blocks until every task finished
// or the pool stopped. Results arrive first-completed-first-appended.
// onResult, when non-nil, is called once per collected result.
func (p *Pool) Submit(tasks []Task, onResult func(TaskResult)) []TaskResult {
	if len(tasks) == 0 {
		return []TaskResult{}
	}

	go func() {
		for _, task := range tasks {
			select {
			case p.taskQueue <- task:
			case <-p.ctx.Done():
				return
			}
		}
	}()

	results := make([]TaskResult, 0, len(tasks))
	for i := 0; i < len(tasks); i++ {
		select {
		case result := <-p.results:
			results = append(results, result)
			if onResult != nil {
				onResult(result)
			}
		case <-p.ctx.Done():
			p.logger.Debug("pool stopped while waiting for results",
				"collected", len(results),
				"expected", len(tasks),
			)
			return results
		}
	}

	return results
}

// Stop cancels outstanding work and waits for the workers to exit.
// Already-running tasks observe the cancellation through their
// context; queued tasks never start.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}
