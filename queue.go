package main

import (
	"context"
	"log"
	"sync"
)

type JobType string

const (
	JobImage   JobType = "image"
	JobWelcome JobType = "welcome"
)

// Job is the unit of work handed to the post-processing workers.
type Job struct {
	Type   JobType
	FileID int64
	UserID int64
}

// ProcessFunc consumes one job. The image worker's internals (thumbnailing
// and the like) live behind this hook.
type ProcessFunc func(ctx context.Context, job Job) error

// Dispatcher is a bounded fire-and-forget work queue. Enqueue never blocks
// the request path: a full queue drops the job with a log line, and workers
// run until the dispatcher is closed.
type Dispatcher struct {
	queue   chan Job
	process ProcessFunc
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewDispatcher(size, workers int, process ProcessFunc) *Dispatcher {
	if process == nil {
		process = func(ctx context.Context, job Job) error {
			log.Printf("Processing %s job (file=%d user=%d)", job.Type, job.FileID, job.UserID)
			return nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		queue:   make(chan Job, size),
		process: process,
		cancel:  cancel,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.run(ctx)
	}

	return d
}

// Enqueue appends a job without waiting for its completion. Safe to call on
// a nil dispatcher.
func (d *Dispatcher) Enqueue(job Job) {
	if d == nil {
		return
	}
	select {
	case d.queue <- job:
	default:
		log.Printf("Job queue full, dropping %s job (file=%d user=%d)", job.Type, job.FileID, job.UserID)
	}
}

// Close stops the workers and waits for the in-flight job to finish.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.cancel()
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-d.queue:
			if err := d.process(ctx, job); err != nil {
				log.Printf("Job %s failed (file=%d user=%d): %v", job.Type, job.FileID, job.UserID, err)
			}
		}
	}
}
