package csv_test

import (
	"context"
	stdcsv "encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/shopparse"
	"github.com/fwojciec/shopparse/csv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Sink implements shopparse.RecordSink at compile time.
var _ shopparse.RecordSink = (*csv.Sink)(nil)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "\ufeff"), "file should start with a UTF-8 BOM")
	records, err := stdcsv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\ufeff"))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestSink_Write(t *testing.T) {
	t.Parallel()

	t.Run("writes listing and detail records to separate files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		listing := filepath.Join(dir, "items.csv")
		detail := filepath.Join(dir, "details.csv")
		sink := csv.NewSink(listing, detail)
		ctx := context.Background()

		require.NoError(t, sink.Write(ctx, &shopparse.Extraction{Items: []*shopparse.BasicItem{
			{ProductName: "A, with comma", Price: 1.5},
			{ProductName: "B", Price: 2},
		}}))
		require.NoError(t, sink.Write(ctx, &shopparse.Extraction{Detail: &shopparse.DetailedItem{ProductID: "1", ProductName: "C"}}))
		require.NoError(t, sink.Write(ctx, &shopparse.Extraction{Items: []*shopparse.BasicItem{{ProductName: "D"}}}))
		assert.ElementsMatch(t, []string{listing, detail}, sink.Paths())
		require.NoError(t, sink.Close())

		rows := readCSV(t, listing)
		require.Len(t, rows, 4)
		assert.Equal(t, csv.BasicHeader, rows[0])
		assert.Equal(t, "A, with comma", rows[1][3])
		assert.Equal(t, "D", rows[3][3])

		rows = readCSV(t, detail)
		require.Len(t, rows, 2)
		assert.Equal(t, csv.DetailHeader, rows[0])
		assert.Equal(t, "C", rows[1][1])
	})

	t.Run("creates no file for a record kind never written", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		detail := filepath.Join(dir, "details.csv")
		sink := csv.NewSink(filepath.Join(dir, "items.csv"), detail)

		require.NoError(t, sink.Write(context.Background(), &shopparse.Extraction{Items: []*shopparse.BasicItem{{ProductName: "A"}}}))
		require.NoError(t, sink.Close())

		_, err := os.Stat(detail)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("ignores empty extractions", func(t *testing.T) {
		t.Parallel()

		sink := csv.NewSink("", "")

		require.NoError(t, sink.Write(context.Background(), &shopparse.Extraction{}))
		require.NoError(t, sink.Write(context.Background(), nil))
		require.NoError(t, sink.Close())
	})

	t.Run("rejects records without a configured file", func(t *testing.T) {
		t.Parallel()

		sink := csv.NewSink(filepath.Join(t.TempDir(), "items.csv"), "")

		err := sink.Write(context.Background(), &shopparse.Extraction{Detail: &shopparse.DetailedItem{}})

		require.Error(t, err)
		assert.Equal(t, shopparse.EINVALID, shopparse.ErrorCode(err))
	})

	t.Run("returns context errors", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := csv.NewSink("", "").Write(ctx, &shopparse.Extraction{})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
