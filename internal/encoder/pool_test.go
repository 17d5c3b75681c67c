package encoder

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/koios/plotbox/internal/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoolSubmit(t *testing.T) {
	pool := NewPool(2, New(zap.NewNop(), nil), zap.NewNop())
	pool.Start()
	defer pool.Stop()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			box, err := pool.Submit(context.Background(), stubFigure{data: []byte("png")})
			if err != nil {
				errs <- err
				return
			}
			if box.Mode != plugin.Mode() {
				errs <- errors.New("unexpected mode " + box.Mode)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestPoolPropagatesErrors(t *testing.T) {
	pool := NewPool(1, New(zap.NewNop(), nil), zap.NewNop())
	pool.Start()
	defer pool.Stop()

	libErr := errors.New("bad figure")
	box, err := pool.Submit(context.Background(), stubFigure{err: libErr})
	assert.Nil(t, box)
	assert.ErrorIs(t, err, libErr)
}

type blockingFigure struct {
	release chan struct{}
}

func (b blockingFigure) WritePNG(w io.Writer) error {
	<-b.release
	_, err := w.Write([]byte("png"))
	return err
}

func TestPoolSubmitContextCancelled(t *testing.T) {
	pool := NewPool(1, New(zap.NewNop(), nil), zap.NewNop())
	pool.Start()

	release := make(chan struct{})
	defer func() {
		close(release)
		pool.Stop()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := pool.Submit(ctx, blockingFigure{release: release})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPoolStopped(t *testing.T) {
	pool := NewPool(0, New(zap.NewNop(), nil), zap.NewNop())
	require.Equal(t, 4, pool.workers)
	pool.Start()
	pool.Stop()
	pool.Stop()

	_, err := pool.Submit(context.Background(), stubFigure{data: []byte("png")})
	assert.ErrorIs(t, err, ErrPoolStopped)
}
