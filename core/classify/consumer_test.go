package classify_test

import (
	"context"
	"errors"
	"testing"

	"npi-linker/core/classify"
	"npi-linker/core/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	records [][]string
	appends int
	err     error
}

func (m *memorySink) Append(records [][]string) error {
	if m.err != nil {
		return m.err
	}
	m.appends++
	m.records = append(m.records, records...)
	return nil
}

func (m *memorySink) Close() error { return nil }
func (m *memorySink) Written() int64 { return int64(len(m.records)) }
func (m *memorySink) String() string { return "memory" }

func TestConsumer_ForwardsQualifyingRowsInOrder(t *testing.T) {
	filter, err := classify.NewFilter([]string{"163W"}, classify.ModePrefix, classify.Predicates{State: "CO"})
	require.NoError(t, err)
	sink := &memorySink{}
	consumer := classify.NewConsumer(filter, sink, nil)

	var perChunk []int
	consumer.OnChunk(func(_ *reference.Chunk, qualifying int) {
		perChunk = append(perChunk, qualifying)
	})

	chunk1 := &reference.Chunk{Seq: 1, Rows: []reference.Row{
		nurseRow("A", "ONE", "DENVER", "CO", "163W00000X"),
		nurseRow("B", "TWO", "PHOENIX", "AZ", "163W00000X"),
		nurseRow("C", "THREE", "AURORA", "CO", "163WP0808X"),
	}}
	chunk2 := &reference.Chunk{Seq: 2, Rows: []reference.Row{
		nurseRow("D", "FOUR", "DENVER", "CO", "207Q00000X"),
	}}
	chunk3 := &reference.Chunk{Seq: 3, Rows: []reference.Row{
		nurseRow("E", "FIVE", "BOULDER", "co", "163W00000X"),
	}}

	for _, c := range []*reference.Chunk{chunk1, chunk2, chunk3} {
		require.NoError(t, consumer.Consume(context.Background(), c))
	}

	require.Len(t, sink.records, 3)
	assert.Equal(t, "A", sink.records[0][0])
	assert.Equal(t, "C", sink.records[1][0])
	assert.Equal(t, "E", sink.records[2][0])
	assert.Equal(t, 2, sink.appends, "chunks without qualifying rows are not appended")
	assert.Equal(t, int64(3), consumer.Matched())
	assert.Equal(t, []int{2, 0, 1}, perChunk)
	assert.False(t, consumer.Done())
}

func TestConsumer_SinkFailure(t *testing.T) {
	filter, err := classify.NewFilter([]string{"163W"}, classify.ModePrefix, classify.Predicates{})
	require.NoError(t, err)
	consumer := classify.NewConsumer(filter, &memorySink{err: errors.New("disk full")}, nil)

	err = consumer.Consume(context.Background(), &reference.Chunk{Seq: 4, Rows: []reference.Row{
		nurseRow("A", "ONE", "DENVER", "CO", "163W00000X"),
	}})
	assert.ErrorContains(t, err, "chunk 4")
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, int64(0), consumer.Matched())
}
