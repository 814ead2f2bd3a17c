package scheduler

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/atomic"
)

type jobScheduler struct {
	logger                  log.Logger
	wg                      *sync.WaitGroup
	mappedCancellationsSync *sync.Map
	mu                      sync.Mutex
	cancellations           []context.CancelFunc
	active                  *atomic.Int64
}

type job struct {
	id   interface{} // job ID
	task func(ctx context.Context)
}

type Scheduler interface {
	NewJob(id interface{}, task func(ctx context.Context)) *job
	AddPeriodic(ctx context.Context, job *job, interval time.Duration)
	AddOneShot(ctx context.Context, job *job, duration time.Duration)
	Dispatch(ctx context.Context, id interface{}, task func(ctx context.Context))
	Cancel(jobId interface{})
	CancelWhere(match func(jobId interface{}) bool) int
	Clear(jobId interface{})
	Active() int64
	Stop()
}

type Processor interface {
	processPeriodic(ctx context.Context, job *job, interval time.Duration)
	processOneShot(ctx context.Context, cancel context.CancelFunc, job *job, duration time.Duration)
}

func (js *jobScheduler) AddPeriodic(ctx context.Context, job *job, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	js.mu.Lock()
	js.cancellations = append(js.cancellations, cancel)
	js.mu.Unlock()
	level.Debug(js.logger).Log("msg", "added periodic job", "id", job.id, "interval", interval)

	js.wg.Add(1)
	go js.processPeriodic(ctx, job, interval)
}

func (js *jobScheduler) AddOneShot(ctx context.Context, job *job, duration time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	js.mappedCancellationsSync.Store(job.id, cancel)
	level.Debug(js.logger).Log("msg", "added one shot job", "id", job.id, "delay", duration)

	js.wg.Add(1)
	js.active.Inc()
	go js.processOneShot(ctx, cancel, job, duration)
}

// Dispatch runs the task right away on its own goroutine. The task is
// cancelled only through Cancel, CancelWhere or Stop.
func (js *jobScheduler) Dispatch(ctx context.Context, id interface{}, task func(ctx context.Context)) {
	js.AddOneShot(ctx, js.NewJob(id, task), 0)
}

func (js *jobScheduler) Cancel(jobId interface{}) {
	if cancelFunc, ok := js.mappedCancellationsSync.LoadAndDelete(jobId); ok {
		if cancel, ok := cancelFunc.(context.CancelFunc); ok {
			cancel()
			level.Debug(js.logger).Log("msg", "stopped job", "id", jobId)
		}
	}
}

// CancelWhere cancels every pending one-shot job whose ID matches and
// reports how many were cancelled.
func (js *jobScheduler) CancelWhere(match func(jobId interface{}) bool) int {
	var cancelled int
	js.mappedCancellationsSync.Range(func(key, _ interface{}) bool {
		if match(key) {
			js.Cancel(key)
			cancelled++
		}
		return true
	})
	return cancelled
}

func (js *jobScheduler) Clear(jobId interface{}) {
	js.mappedCancellationsSync.Delete(jobId)
}

func (js *jobScheduler) Active() int64 {
	return js.active.Load()
}

func (js *jobScheduler) Stop() {
	level.Info(js.logger).Log("msg", "stopping all the contexts")
	js.mu.Lock()
	for _, cancel := range js.cancellations {
		cancel()
	}
	js.cancellations = make([]context.CancelFunc, 0)
	js.mu.Unlock()
	js.CancelWhere(func(interface{}) bool { return true })
	js.wg.Wait()
	level.Info(js.logger).Log("msg", "contexts have been stopped")
}

func (js *jobScheduler) processPeriodic(ctx context.Context, job *job, interval time.Duration) {
	defer js.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			job.task(ctx)
		case <-ctx.Done():
			level.Debug(js.logger).Log("msg", "ticker context was closed", "id", job.id)
			return
		}
	}
}

// processOneShot releases the job context when it returns, so finished jobs
// do not stay attached to their parent.
func (js *jobScheduler) processOneShot(ctx context.Context, cancel context.CancelFunc, job *job, duration time.Duration) {
	defer func() {
		js.Clear(job.id)
		cancel()
		js.active.Dec()
		js.wg.Done()
	}()
	timer := time.NewTimer(duration)
	select {
	case <-timer.C:
		job.task(ctx)
		level.Debug(js.logger).Log("msg", "job done", "id", job.id)
	case <-ctx.Done():
		if !timer.Stop() {
			<-timer.C
		}
		level.Debug(js.logger).Log("msg", "job canceled", "id", job.id, "err", ctx.Err())
	}
}

func (js *jobScheduler) NewJob(id interface{}, task func(ctx context.Context)) *job {
	return &job{id, task}
}

func New(logger log.Logger) Scheduler {
	if logger == nil {
		logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))
	}
	return &jobScheduler{
		logger:                  log.With(logger, "component", "scheduler"),
		wg:                      new(sync.WaitGroup),
		mappedCancellationsSync: new(sync.Map),
		cancellations:           make([]context.CancelFunc, 0),
		active:                  atomic.NewInt64(0),
	}
}
