package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherProcessesJobs(t *testing.T) {
	done := make(chan Job, 1)
	dispatcher := NewDispatcher(4, 1, func(ctx context.Context, job Job) error {
		done <- job
		return nil
	})
	defer dispatcher.Close()

	dispatcher.Enqueue(Job{Type: JobImage, FileID: 1, UserID: 2})

	select {
	case job := <-done:
		assert.Equal(t, JobImage, job.Type)
		assert.Equal(t, int64(1), job.FileID)
		assert.Equal(t, int64(2), job.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestDispatcherEnqueueNeverBlocks(t *testing.T) {
	// No workers: the queue fills and overflow is dropped, not waited on.
	dispatcher := NewDispatcher(1, 0, func(ctx context.Context, job Job) error { return nil })
	defer dispatcher.Close()

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			dispatcher.Enqueue(Job{Type: JobWelcome, UserID: int64(i)})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}
}

func TestDispatcherSwallowsHandlerErrors(t *testing.T) {
	var processed atomic.Int64
	dispatcher := NewDispatcher(4, 1, func(ctx context.Context, job Job) error {
		processed.Add(1)
		return errors.New("processing failed")
	})
	defer dispatcher.Close()

	dispatcher.Enqueue(Job{Type: JobImage, FileID: 1})
	dispatcher.Enqueue(Job{Type: JobImage, FileID: 2})

	assert.Eventually(t, func() bool {
		return processed.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDispatcherNilIsSafe(t *testing.T) {
	var dispatcher *Dispatcher
	assert.NotPanics(t, func() {
		dispatcher.Enqueue(Job{Type: JobImage})
		dispatcher.Close()
	})
}

func TestDispatcherCloseStopsWorkers(t *testing.T) {
	dispatcher := NewDispatcher(4, 2, func(ctx context.Context, job Job) error { return nil })

	finished := make(chan struct{})
	go func() {
		dispatcher.Close()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("close did not return")
	}
}
