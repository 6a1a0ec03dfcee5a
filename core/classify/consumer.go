package classify

import (
	"context"
	"fmt"
	"sync/atomic"

	"npi-linker/core/reference"

	"go.uber.org/zap"
)

// Consumer forwards qualifying rows of each chunk to a sink, in source order.
type Consumer struct {
	filter  *Filter
	sink    reference.Sink
	logger  *zap.Logger
	matched atomic.Int64
	onChunk func(chunk *reference.Chunk, qualifying int)
}

// NewConsumer wires filter to sink.
func NewConsumer(filter *Filter, sink reference.Sink, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{filter: filter, sink: sink, logger: logger}
}

// OnChunk registers a callback invoked after each chunk with its qualifying
// row count. It must be set before the first Consume.
func (c *Consumer) OnChunk(fn func(chunk *reference.Chunk, qualifying int)) {
	c.onChunk = fn
}

// Consume filters one chunk and appends the qualifying raw records.
func (c *Consumer) Consume(_ context.Context, chunk *reference.Chunk) error {
	if chunk == nil {
		return nil
	}

	var batch [][]string
	for i := range chunk.Rows {
		if c.filter.Qualifies(chunk.Rows[i]) {
			batch = append(batch, chunk.Rows[i].Raw)
		}
	}
	if len(batch) > 0 {
		if err := c.sink.Append(batch); err != nil {
			return fmt.Errorf("write chunk %d to %s: %w", chunk.Seq, c.sink, err)
		}
		c.matched.Add(int64(len(batch)))
	}

	c.logger.Debug("Chunk classified",
		zap.Int("chunk", chunk.Seq),
		zap.Int("rows", len(chunk.Rows)),
		zap.Int("qualifying", len(batch)),
	)
	if c.onChunk != nil {
		c.onChunk(chunk, len(batch))
	}
	return nil
}

// Done is always false: classification reads the whole source.
func (c *Consumer) Done() bool {
	return false
}

// Matched returns the number of qualifying rows so far.
func (c *Consumer) Matched() int64 {
	return c.matched.Load()
}
