// Package pipeline drives a single pass over the reference source.
//
// A Controller pulls chunks from a ChunkReader and hands each one to a
// Consumer (the match cascade, the classification consumer or the coverage
// counter). Between chunks it checks two things: whether the consumer is
// done, which ends the pass early, and whether the context was cancelled,
// which ends it with whatever was recorded so far.
//
// With Options.Prefetch the next chunk is read on a second goroutine while
// the current one is consumed. The hand-off channel holds one chunk, so at
// most two chunks are in memory at once.
//
// Config carries the run parameters loaded by core/config.
package pipeline
