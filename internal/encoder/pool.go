package encoder

import (
	"context"
	"errors"
	"sync"

	"github.com/koios/plotbox/internal/figure"
	"github.com/koios/plotbox/pkg/models"
	"go.uber.org/zap"
)

// ErrPoolStopped is returned by Submit once the pool is shutting down
var ErrPoolStopped = errors.New("encoder pool is shutting down")

// EncodeJob is a figure waiting for a worker
type EncodeJob struct {
	Figure figure.Figure
	Result chan *EncodeResult
}

// EncodeResult contains the result of an encode job
type EncodeResult struct {
	Box   *models.Box
	Error error
}

// Pool bounds the number of figures rasterized at once when boxes are
// requested from many request contexts
type Pool struct {
	workers  int
	encoder  *Encoder
	jobQueue chan *EncodeJob
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.Logger
	stopOnce sync.Once
}

// NewPool creates a pool with the specified number of workers
func NewPool(workers int, encoder *Encoder, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:  workers,
		encoder:  encoder,
		jobQueue: make(chan *EncodeJob, workers*2),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
	}
}

// Start launches all worker goroutines
func (p *Pool) Start() {
	p.logger.Info("Starting encoder pool",
		zap.Int("workers", p.workers),
		zap.Int("queue_size", cap(p.jobQueue)))

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop cancels pending submissions and waits for the workers to exit
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Stopping encoder pool")
		p.cancel()
		p.wg.Wait()
		p.logger.Info("Encoder pool stopped")
	})
}

// Submit queues fig and waits for its box
func (p *Pool) Submit(ctx context.Context, fig figure.Figure) (*models.Box, error) {
	if p.ctx.Err() != nil {
		return nil, ErrPoolStopped
	}

	job := &EncodeJob{
		Figure: fig,
		Result: make(chan *EncodeResult, 1),
	}

	select {
	case p.jobQueue <- job:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.ctx.Done():
		return nil, ErrPoolStopped
	}

	select {
	case result := <-job.Result:
		return result.Box, result.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.ctx.Done():
		return nil, ErrPoolStopped
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("Encoder worker started", zap.Int("worker_id", id))

	for {
		select {
		case job := <-p.jobQueue:
			box, err := p.encoder.Box(job.Figure)
			job.Result <- &EncodeResult{Box: box, Error: err}
		case <-p.ctx.Done():
			p.logger.Debug("Encoder worker stopping", zap.Int("worker_id", id))
			return
		}
	}
}
