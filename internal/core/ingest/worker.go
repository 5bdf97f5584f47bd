package ingest

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// Worker wraps a Pipeline with a bounded in-memory job queue, processed by a
// small pool of goroutines. Easy to swap for a real queue later.
type Worker struct {
	pipeline *Pipeline
	jobs     chan Request
	timeout  time.Duration
}

func NewWorker(pipeline *Pipeline) *Worker {
	return &Worker{
		pipeline: pipeline,
		jobs:     make(chan Request, 64),
		timeout:  10 * time.Minute,
	}
}

// Start launches numWorkers goroutines draining the queue until ctx is done.
func (w *Worker) Start(ctx context.Context, numWorkers int) {
	g, gctx := errgroup.WithContext(ctx)
	for i := 1; i <= numWorkers; i++ {
		id := i
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					log.Printf("ingest worker %d shutting down", id)
					return nil
				case req := <-w.jobs:
					procCtx, cancel := context.WithTimeout(gctx, w.timeout)
					res, err := w.pipeline.Process(procCtx, req)
					cancel()
					if err != nil {
						log.Printf("ingest worker %d: %s failed: %v", id, req.Filename, err)
						continue
					}
					log.Printf("ingest worker %d: %s processed, %d chunks over %d pages",
						id, req.Filename, res.ChunksCreated, res.Pages)
				}
			}
		})
	}
	go func() { _ = g.Wait() }()
}

// Enqueue schedules a manual for processing. Blocks when the queue is full.
func (w *Worker) Enqueue(req Request) {
	w.jobs <- req
}

// Process runs the pipeline synchronously for callers that want the result.
func (w *Worker) Process(ctx context.Context, req Request) (*Result, error) {
	return w.pipeline.Process(ctx, req)
}

var _ Ingestor = (*Worker)(nil)
