package common

import (
	"errors"
	"sync"
)

// ErrJobQueueStopped is returned by Do when the queue no longer accepts jobs.
var ErrJobQueueStopped = errors.New("job queue stopped")

type Job func() error

// JobQueue runs jobs one by one on a single goroutine, in the order they were enqueued. Front ends use it as their
// event loop: everything that touches session or display state is a job, so it's only ever mutated from one goroutine.
type JobQueue struct {
	jobsChannel chan Job
	stopChannel chan struct{}
	stopOnce    sync.Once
	waitGroup   sync.WaitGroup
	logger      Logger
}

func NewJobQueue(logger Logger) *JobQueue {
	worker := &JobQueue{
		jobsChannel: make(chan Job, 128),
		stopChannel: make(chan struct{}),
		logger:      logger,
	}
	worker.waitGroup.Add(1)
	go worker.run()
	return worker
}

// Enqueue schedules the job and returns immediately. Jobs enqueued after Stop are dropped.
func (j *JobQueue) Enqueue(job Job) {
	select {
	case j.jobsChannel <- job:
	case <-j.stopChannel:
		j.logger.Log("job dropped: queue stopped")
	}
}

// Do enqueues the job and blocks until it has run, returning its error. Must not be called from inside a job.
func (j *JobQueue) Do(job Job) error {
	done := make(chan error, 1)
	wrapped := func() error {
		err := job()
		done <- err
		return err
	}
	select {
	case j.jobsChannel <- wrapped:
	case <-j.stopChannel:
		return ErrJobQueueStopped
	}
	select {
	case err := <-done:
		return err
	case <-j.stopChannel:
		// The job may still have run right before the stop.
		select {
		case err := <-done:
			return err
		default:
			return ErrJobQueueStopped
		}
	}
}

// Stop waits for the job currently running (if any) and stops the queue. Safe to call more than once.
func (j *JobQueue) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChannel)
	})
	j.waitGroup.Wait()
}

func (j *JobQueue) run() {
	defer j.waitGroup.Done()
	for {
		select {
		case job := <-j.jobsChannel:
			err := job()
			if err != nil {
				j.logger.Log("failed to process a job: " + err.Error())
			}
		case <-j.stopChannel:
			return
		}
	}
}
