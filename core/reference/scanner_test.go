package reference_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"npi-linker/core/reference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct {
	data io.Reader
	err  error
}

func (f *failingReader) Read(p []byte) (int, error) {
	n, err := f.data.Read(p)
	if errors.Is(err, io.EOF) {
		return n, f.err
	}
	return n, err
}

func TestScanner_ChunksInOrder(t *testing.T) {
	s := reference.DefaultSchema()
	header := matchHeader()
	var rows []map[string]string
	for i := 1; i <= 5; i++ {
		rows = append(rows, map[string]string{s.NPI: fmt.Sprintf("%d", i)})
	}

	sc, err := reference.NewScanner(strings.NewReader(csvOf(header, rows...)), s, 2)
	require.NoError(t, err)

	var seqs []int
	var offsets []int64
	var npis []string
	for {
		chunk, err := sc.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		seqs = append(seqs, chunk.Seq)
		offsets = append(offsets, chunk.Offset)
		for _, r := range chunk.Rows {
			npis = append(npis, r.NPI.Value)
		}
	}

	assert.Equal(t, []int{1, 2, 3}, seqs)
	assert.Equal(t, []int64{0, 2, 4}, offsets)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, npis)

	_, err = sc.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestScanner_InvalidChunkSize(t *testing.T) {
	_, err := reference.NewScanner(strings.NewReader("NPI\n1\n"), reference.DefaultSchema(), 0)
	assert.ErrorIs(t, err, reference.ErrInvalidChunkSize)
}

func TestScanner_EmptySource(t *testing.T) {
	_, err := reference.NewScanner(strings.NewReader(""), reference.DefaultSchema(), 10)
	assert.ErrorIs(t, err, reference.ErrSourceUnavailable)
}

func TestScanner_HeaderOnly(t *testing.T) {
	sc, err := reference.NewScanner(strings.NewReader("NPI\n"), reference.DefaultSchema(), 10)
	require.NoError(t, err)

	_, err = sc.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestScanner_MissingColumnsAreAbsent(t *testing.T) {
	input := "\ufeffNPI,Provider First Name\n1001,JANE\n"
	sc, err := reference.NewScanner(strings.NewReader(input), reference.DefaultSchema(), 10)
	require.NoError(t, err)

	assert.Contains(t, sc.Missing(), "Provider Last Name (Legal Name)")
	assert.NotContains(t, sc.Missing(), "NPI")
	assert.True(t, sc.Binding().Has("NPI"))

	chunk, err := sc.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, chunk.Rows, 1)

	row := chunk.Rows[0]
	assert.Equal(t, reference.Field{Value: "1001", Present: true}, row.NPI)
	assert.False(t, row.LastName.Present)
	assert.True(t, row.LastName.Blank())
	assert.Equal(t, []string{"1001", "JANE"}, row.Raw)
}

func TestScanner_SkipsMalformedRows(t *testing.T) {
	input := "NPI,Provider First Name\n1,A\n2,B,extra\n3,C\n4,D\n"

	sc, err := reference.NewScanner(strings.NewReader(input), reference.DefaultSchema(), 3)
	require.NoError(t, err)

	first, err := sc.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Malformed)
	assert.Len(t, first.Rows, 2)
	assert.Equal(t, 3, first.Seen())
	assert.Equal(t, "3", first.Rows[1].NPI.Value)

	second, err := sc.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), second.Offset)
	assert.Equal(t, "4", second.Rows[0].NPI.Value)
}

func TestScanner_SkipsQuoteErrors(t *testing.T) {
	input := "NPI,Provider First Name\n1,A\n2,B\"x\"\n3,C\n"

	sc, err := reference.NewScanner(strings.NewReader(input), reference.DefaultSchema(), 10)
	require.NoError(t, err)

	chunk, err := sc.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, chunk.Malformed)
	require.Len(t, chunk.Rows, 2)
	assert.Equal(t, "1", chunk.Rows[0].NPI.Value)
	assert.Equal(t, "3", chunk.Rows[1].NPI.Value)
}

func TestScanner_ReadFailureIsFatal(t *testing.T) {
	boom := errors.New("connection reset")
	r := &failingReader{data: strings.NewReader("NPI\n1\n2\n"), err: boom}

	sc, err := reference.NewScanner(r, reference.DefaultSchema(), 10)
	require.NoError(t, err)

	_, err = sc.Next(context.Background())
	assert.ErrorIs(t, err, reference.ErrChunkRead)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestScanner_StopsOnCancelledContext(t *testing.T) {
	sc, err := reference.NewScanner(strings.NewReader("NPI\n1\n"), reference.DefaultSchema(), 10)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = sc.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
