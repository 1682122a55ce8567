package queue

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelierbois/portfolio/internal/api/metrics"
	"github.com/atelierbois/portfolio/internal/imaging"
)

const channelBuffer = 64

var ErrPoolStopped = errors.New("encode pool stopped")

type encodeReply struct {
	res *imaging.Result
	err error
}

type encodeRequest struct {
	ctx   context.Context
	job   imaging.Job
	reply chan encodeReply
}

// EncodePool runs image encodes on a fixed set of workers so CPU-heavy
// decode/resize/encode work never piles up on request goroutines.
type EncodePool struct {
	jobs    chan encodeRequest
	workers int
	stopped chan struct{}
	process func(imaging.Job) (*imaging.Result, error)
	log     zerolog.Logger
}

// NewEncodePool creates a pool with numWorkers workers.
// If numWorkers <= 0, one worker per CPU is used.
func NewEncodePool(numWorkers int, log zerolog.Logger) *EncodePool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &EncodePool{
		jobs:    make(chan encodeRequest, channelBuffer),
		workers: numWorkers,
		stopped: make(chan struct{}),
		process: imaging.Process,
		log:     log,
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// and pending or later Encode calls fail with ErrPoolStopped.
func (p *EncodePool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		close(p.stopped)
	}()
}

// Encode queues job and waits for its result or for ctx to end.
func (p *EncodePool) Encode(ctx context.Context, job imaging.Job) (*imaging.Result, error) {
	req := encodeRequest{ctx: ctx, job: job, reply: make(chan encodeReply, 1)}

	select {
	case p.jobs <- req:
		metrics.ImageQueueDepth.Set(float64(len(p.jobs)))
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.stopped:
		return nil, ErrPoolStopped
	}

	select {
	case r := <-req.reply:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.stopped:
		return nil, ErrPoolStopped
	}
}

func (p *EncodePool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-p.jobs:
			metrics.ImageQueueDepth.Set(float64(len(p.jobs)))
			if err := req.ctx.Err(); err != nil {
				req.reply <- encodeReply{err: err}
				continue
			}

			start := time.Now()
			res, err := p.safeProcess(req.job)
			metrics.ImageProcessingDuration.WithLabelValues(req.job.Options.Mode.Label()).
				Observe(time.Since(start).Seconds())
			if err != nil {
				p.log.Debug().Err(err).Int("worker_id", id).Msg("image encode failed")
			}
			req.reply <- encodeReply{res: res, err: err}
		}
	}
}

// safeProcess turns a decoder panic on hostile input into an error.
func (p *EncodePool) safeProcess(job imaging.Job) (res *imaging.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("image encode panic: %v", r)
		}
	}()
	return p.process(job)
}
