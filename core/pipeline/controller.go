package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"npi-linker/core/reference"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ChunkReader hands out chunks in source order and io.EOF at the end.
// *reference.Scanner implements it.
type ChunkReader interface {
	Next(ctx context.Context) (*reference.Chunk, error)
}

// Consumer processes chunks. Done reports that no further chunk can change
// the outcome.
type Consumer interface {
	Consume(ctx context.Context, chunk *reference.Chunk) error
	Done() bool
}

// Options tune a Controller.
type Options struct {
	// Prefetch overlaps reading chunk N+1 with consuming chunk N. At most one
	// chunk is buffered, so memory stays bounded by two chunks.
	Prefetch bool
	// ProgressEvery invokes OnProgress every N chunks; 0 disables it.
	ProgressEvery int
	// OnProgress receives a snapshot of the running stats.
	OnProgress func(Stats)
}

// Controller drives one reader through one consumer.
type Controller struct {
	opts   Options
	logger *zap.Logger
}

// NewController returns a controller with opts.
func NewController(logger *zap.Logger, opts Options) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{opts: opts, logger: logger}
}

// Run reads chunks until the source ends, the consumer is done, or ctx is
// cancelled. Cancellation is checked between chunks and is not an error:
// the stats report it and whatever the consumer recorded so far stands.
// Stats are returned alongside any error.
func (c *Controller) Run(ctx context.Context, reader ChunkReader, consumer Consumer) (Stats, error) {
	start := time.Now()
	var stats Stats
	var err error
	if c.opts.Prefetch {
		err = c.runPrefetch(ctx, reader, consumer, &stats)
	} else {
		err = c.runSequential(ctx, reader, consumer, &stats)
	}
	stats.Duration = time.Since(start)

	if err != nil && isCancellation(ctx, err) {
		stats.Cancelled = true
		err = nil
	}

	fields := []zap.Field{
		zap.Int("chunks", stats.Chunks),
		zap.Int64("rows", stats.Rows),
		zap.Int64("malformed", stats.Malformed),
		zap.Bool("early_exit", stats.EarlyExit),
		zap.Bool("cancelled", stats.Cancelled),
		zap.Duration("duration", stats.Duration),
	}
	if err != nil {
		c.logger.Error("Scan aborted", append(fields, zap.Error(err))...)
	} else {
		c.logger.Info("Scan finished", fields...)
	}
	return stats, err
}

func isCancellation(ctx context.Context, err error) bool {
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *Controller) runSequential(ctx context.Context, reader ChunkReader, consumer Consumer, stats *Stats) error {
	for {
		if consumer.Done() {
			stats.EarlyExit = true
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk, err := reader.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := c.consume(ctx, consumer, chunk, stats); err != nil {
			return err
		}
	}
}

func (c *Controller) runPrefetch(ctx context.Context, reader ChunkReader, consumer Consumer, stats *Stats) error {
	if consumer.Done() {
		stats.EarlyExit = true
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunks := make(chan *reference.Chunk)
	stop := make(chan struct{})
	var stopOnce sync.Once
	halt := func() { stopOnce.Do(func() { close(stop) }) }
	defer halt()

	g.Go(func() error {
		defer close(chunks)
		for {
			chunk, err := reader.Next(gctx)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			select {
			case chunks <- chunk:
			case <-stop:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	var consumeErr error
	for chunk := range chunks {
		if err := ctx.Err(); err != nil {
			consumeErr = err
			break
		}
		if err := c.consume(ctx, consumer, chunk, stats); err != nil {
			consumeErr = err
			break
		}
		if consumer.Done() {
			stats.EarlyExit = true
			break
		}
	}
	halt()

	readErr := g.Wait()
	if consumeErr != nil {
		return consumeErr
	}
	return readErr
}

func (c *Controller) consume(ctx context.Context, consumer Consumer, chunk *reference.Chunk, stats *Stats) error {
	if err := consumer.Consume(ctx, chunk); err != nil {
		return fmt.Errorf("consume chunk %d: %w", chunk.Seq, err)
	}
	stats.add(chunk)

	if c.opts.ProgressEvery > 0 && stats.Chunks%c.opts.ProgressEvery == 0 {
		c.logger.Info("Scan progress",
			zap.Int("chunks", stats.Chunks),
			zap.Int64("rows", stats.Rows),
			zap.Int64("malformed", stats.Malformed),
		)
		if c.opts.OnProgress != nil {
			c.opts.OnProgress(*stats)
		}
	}
	return nil
}
