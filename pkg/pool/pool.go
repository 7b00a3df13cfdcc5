package pool

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/vitistack/dnsmasq-hosts/pkg/bslog"
)

// IDLESTOP is how long a worker above the minimum waits for a job before exiting
const IDLESTOP = 30 * time.Second

type Job interface {
	Execute() error
	OnFailure(error)
	OnSuccess()
}

type WorkerPool struct {
	numRunningWorkers uint // cant be negative
	minRunningWorkers uint
	idleStop          time.Duration
	jobs              BufferedJobQueue
	start             sync.Once
	stop              sync.Once
	quit              chan struct{}
	poolWg            *sync.WaitGroup
	lock              sync.Mutex
	putLock           sync.RWMutex // guards sends against close(jobs)
	closed            *atomic.Bool
}

type Option func(*WorkerPool)

// WithIdleStop overrides IDLESTOP
func WithIdleStop(d time.Duration) Option {
	return func(wp *WorkerPool) {
		wp.idleStop = d
	}
}

func NewWorkerPool(minRunningWorkers, nonBlockingBufferSize uint, opts ...Option) *WorkerPool {
	closed := &atomic.Bool{}
	closed.Store(true)

	wp := &WorkerPool{
		minRunningWorkers: minRunningWorkers,
		idleStop:          IDLESTOP,
		jobs:              make(chan Job, nonBlockingBufferSize),
		quit:              make(chan struct{}),
		poolWg:            &sync.WaitGroup{},
		closed:            closed,
	}
	for _, opt := range opts {
		opt(wp)
	}
	return wp
}

func (wp *WorkerPool) Start() {
	wp.start.Do(func() {
		wg := sync.WaitGroup{}
		for range wp.minRunningWorkers {
			wg.Go(func() {
				wp.newWorker()
			})
		}
		wg.Wait() // blocks until all workers are spun up
		wp.closed.Store(false)
	})
}

// Stop signals every worker to quit and waits for running jobs to return.
// Jobs still queued are dropped.
func (wp *WorkerPool) Stop() {
	wp.stop.Do(func() {
		wp.closed.Store(true)
		close(wp.quit)
		wp.poolWg.Wait()

		wp.putLock.Lock()
		dropped := wp.jobs.Pending()
		close(wp.jobs)
		wp.putLock.Unlock()

		if dropped > 0 {
			bslog.Warn("worker pool stopped with pending jobs", slog.Int("dropped", dropped))
		}
	})
}

// Put queues a job. A worker is added when the queue is full, so Put only
// blocks until that worker picks a job up.
func (wp *WorkerPool) Put(job Job) error {
	wp.putLock.RLock()
	defer wp.putLock.RUnlock()

	if wp.closed.Load() { // pool is stopped or not started
		return ErrPutOnClosedPool
	}

	wp.scale()
	select {
	case wp.jobs <- job:
		return nil
	case <-wp.quit:
		return ErrPutOnClosedPool
	}
}

func (wp *WorkerPool) scale() {
	if wp.jobs.Blocked() {
		wp.newWorker()
	}
}

// ScaleTo does not enforce running worker count, it just ensure that there are ATLEAST a minimum amount of workers running.
// this means that workers will only be spawned if there are fewer running workers than the target.
// otherwise, the life of a worker is completely handled inside the worker loop, and the only way to explicitly stop workers, is to call Stop()
func (wp *WorkerPool) ScaleTo(targetWorkers uint) {
	wp.lock.Lock()
	wp.minRunningWorkers = targetWorkers
	if wp.numRunningWorkers >= targetWorkers {
		wp.lock.Unlock()
		return // already reached worker count
	}
	newWorkers := targetWorkers - wp.numRunningWorkers // amount of workers to add
	wp.lock.Unlock()

	for range newWorkers {
		wp.newWorker()
	}
}

func (wp *WorkerPool) newWorker() {
	wp.lock.Lock()
	defer wp.lock.Unlock()

	wp.numRunningWorkers++
	id := uuid.New().ID()

	wp.poolWg.Add(1)
	go wp.worker(id)
}

func (wp *WorkerPool) worker(id uint32) {
	defer wp.poolWg.Done()
	logger := bslog.With(slog.Any("worker_id", id))
	logger.Debug("worker started")

	idle := time.NewTimer(wp.idleStop)
	defer idle.Stop()

	for {
		select {
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}

			err := job.Execute()
			if err != nil {
				job.OnFailure(err)
			} else {
				job.OnSuccess()
			}
			idle.Reset(wp.idleStop)

		case <-wp.quit:
			wp.lock.Lock()
			wp.numRunningWorkers--
			wp.lock.Unlock()
			logger.Debug("worker stopped")
			return

		case <-idle.C: // worker is idle
			wp.lock.Lock()
			if wp.numRunningWorkers > wp.minRunningWorkers {
				wp.numRunningWorkers--
				wp.lock.Unlock()
				logger.Debug("idle worker exited")
				return
			}
			wp.lock.Unlock()
			idle.Reset(wp.idleStop)
		}
	}
}

func (wp *WorkerPool) NumWorkers() uint {
	wp.lock.Lock()
	defer wp.lock.Unlock()
	return wp.numRunningWorkers
}
