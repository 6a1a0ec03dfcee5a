package pipeline

import (
	"time"

	"npi-linker/core/reference"
)

// Stats describes one pass over the reference source.
type Stats struct {
	// Chunks is the number of chunks consumed.
	Chunks int `json:"chunks"`
	// Rows counts well-formed rows consumed.
	Rows int64 `json:"rows"`
	// Malformed counts records skipped by the scanner.
	Malformed int64 `json:"malformed"`
	// EarlyExit is set when the consumer finished before the source ended.
	EarlyExit bool `json:"early_exit"`
	// Cancelled is set when the context stopped the run between chunks.
	Cancelled bool `json:"cancelled"`
	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`
}

// Scanned is the number of records read, malformed ones included.
func (s Stats) Scanned() int64 {
	return s.Rows + s.Malformed
}

// RowsPerSecond is the scan throughput, 0 before any time has passed.
func (s Stats) RowsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Scanned()) / s.Duration.Seconds()
}

// Completed reports whether the run read the whole source.
func (s Stats) Completed() bool {
	return !s.EarlyExit && !s.Cancelled
}

func (s *Stats) add(chunk *reference.Chunk) {
	s.Chunks++
	s.Rows += int64(len(chunk.Rows))
	s.Malformed += int64(chunk.Malformed)
}
