package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Job периодическая задача
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner запускает задачи по таймеру. Один и тот же job никогда не выполняется
// параллельно: повторный запуск во время работы присоединяется к текущему.
type Runner struct {
	jobs    map[string]Job
	order   []string
	group   singleflight.Group
	metrics Metrics
	logger  Logger

	// запуски через Enqueue живут в контексте Run, а не вызывающего
	mu      sync.Mutex
	ctx     context.Context
	stopped bool
	pending sync.WaitGroup
}

func NewRunner(metrics Metrics, logger Logger) *Runner {
	return &Runner{
		jobs:    make(map[string]Job),
		metrics: metrics,
		logger:  logger,
		ctx:     context.Background(),
	}
}

// Register добавляет задачу; вызывать до Run
func (r *Runner) Register(job Job) {
	if _, ok := r.jobs[job.Name]; !ok {
		r.order = append(r.order, job.Name)
	}
	r.jobs[job.Name] = job
}

// Run запускает все задачи и блокируется до отмены ctx.
// Перед выходом дожидается запусков, поставленных через Enqueue.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()

	for _, name := range r.order {
		job := r.jobs[name]
		if job.Interval <= 0 {
			r.logger.Warn("Run: job %s has no interval, skipping", job.Name)
			continue
		}
		g.Go(func() error {
			r.loop(ctx, job)
			return nil
		})
	}
	err := g.Wait()

	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	r.pending.Wait()

	return err
}

// Enqueue запускает задачу вне расписания в фоне и сразу возвращает управление.
// Выполнение не зависит от контекста вызывающего и отменяется только остановкой Run.
func (r *Runner) Enqueue(name string) error {
	job, ok := r.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return ErrStopped
	}

	ctx := r.ctx
	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		_, _ = r.Trigger(ctx, job.Name)
	}()
	return nil
}

// Trigger выполняет задачу вне расписания. shared = true, если запуск
// присоединился к уже идущему выполнению.
func (r *Runner) Trigger(ctx context.Context, name string) (shared bool, err error) {
	job, ok := r.jobs[name]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	_, err, shared = r.group.Do(name, func() (interface{}, error) {
		return nil, r.execute(ctx, job)
	})
	return shared, err
}

func (r *Runner) loop(ctx context.Context, job Job) {
	r.logger.Info("loop: job %s started, interval=%s", job.Name, job.Interval)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("loop: job %s stopped", job.Name)
			return
		case <-ticker.C:
			_, _ = r.Trigger(ctx, job.Name)
		}
	}
}

func (r *Runner) execute(ctx context.Context, job Job) (err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: job %s panicked: %v", ErrInternal, job.Name, p)
		}
		r.metrics.ObserveJob(job.Name, time.Since(start), err)
		if err != nil {
			r.logger.Error("execute: job %s failed: %v", job.Name, err)
		}
	}()

	return job.Run(ctx)
}
