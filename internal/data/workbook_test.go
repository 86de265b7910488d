package data

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consumption-heatmap/internal/pivot"
	"consumption-heatmap/internal/testutil"
)

func TestWorkbookTable(t *testing.T) {
	raw := testutil.ExportWorkbook(t, []testutil.Reading{
		{Start: "01.03.2024 00:15:00", Value: 1.2},
		{Start: "01.03.2024 00:30:00", Value: 3.4},
	}, "Souhrn")

	wb, err := OpenWorkbookBytes(raw)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{testutil.Sheet, "Souhrn"}, wb.Sheets())

	tbl, err := wb.Table(context.Background(), testutil.Sheet)
	require.NoError(t, err)
	assert.Equal(t, testutil.Sheet, tbl.Sheet)
	assert.Equal(t, []string{"Export průběhových dat"}, tbl.Header)
	require.Len(t, tbl.Rows, 6)
	assert.Equal(t, testutil.TimestampColumn, tbl.Rows[3][0])
	assert.Equal(t, "01.03.2024 00:15:00", tbl.Cell(4, 0))
	assert.Equal(t, "1.2", tbl.Cell(4, 2))
	assert.Equal(t, "", tbl.Cell(4, 99))
}

func TestWorkbookTableFeedsTransform(t *testing.T) {
	raw := testutil.ExportWorkbook(t, testutil.QuarterHours("01.03.2024", 8))

	tbl, err := LoadTable(context.Background(), raw, testutil.Sheet)
	require.NoError(t, err)

	m, err := pivot.Transform(tbl, pivot.Request{
		Sheet:             testutil.Sheet,
		TimestampColumn:   testutil.TimestampColumn,
		ConsumptionColumn: testutil.ConsumptionColumn,
	}, pivot.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 8, m.Rows())
	assert.Equal(t, 1, m.Cols())
}

func TestWorkbookUnknownSheet(t *testing.T) {
	raw := testutil.ExportWorkbook(t, nil)

	_, err := LoadTable(context.Background(), raw, "Sheet9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pivot.ErrSheetLookup))
	assert.Contains(t, err.Error(), testutil.Sheet)
}

func TestOpenWorkbookGarbage(t *testing.T) {
	_, err := OpenWorkbookBytes([]byte("definitely not a zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pivot.ErrFileRead)
}

func TestWorkbookTableHonoursCancellation(t *testing.T) {
	raw := testutil.ExportWorkbook(t, testutil.QuarterHours("01.03.2024", 4))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadTable(ctx, raw, testutil.Sheet)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
