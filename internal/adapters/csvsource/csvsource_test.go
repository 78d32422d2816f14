package csvsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athProjector/internal/ports"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct {
	warnMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.warnMsgs = append(m.warnMsgs, msg)
}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func msEpoch(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).UnixMilli()
}

func TestFetchHistoricalData(t *testing.T) {
	dir := t.TempDir()
	logger := &mockLogger{}

	// Two files named so lexical order equals chronological order.
	writeFile(t, dir, "btcusd-d1-2020.csv", fmt.Sprintf(
		"timestamp,open,high,low,close,volume\n%d,100,105,95,102,500\n%d,102,108,100,107,600\n",
		msEpoch(2020, time.January, 1), msEpoch(2020, time.January, 2)))
	writeFile(t, dir, "btcusd-d1-2021.csv", fmt.Sprintf(
		"timestamp,open,high,low,close,volume\n%d,107,110,104,109,700\n",
		msEpoch(2021, time.January, 1)))
	// A different pair must not be picked up.
	writeFile(t, dir, "ethusd-d1-2020.csv", fmt.Sprintf(
		"timestamp,open,high,low,close,volume\n%d,10,11,9,10,100\n",
		msEpoch(2020, time.January, 1)))

	src, err := New(Config{DataDir: dir, Logger: logger})
	require.NoError(t, err)

	series, err := src.FetchHistoricalData(context.Background(), "btcusd", "d1")
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.True(t, series[0].Timestamp.Equal(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 100.0, series[0].Open)
	assert.Equal(t, 105.0, series[0].High)
	assert.Equal(t, 95.0, series[0].Low)
	assert.Equal(t, 102.0, series[0].Close)
	assert.Equal(t, 500.0, series[0].Volume)
	assert.Equal(t, 109.0, series[2].Close)
	assert.Empty(t, logger.warnMsgs)
}

func TestFetchHistoricalDataSkipsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	logger := &mockLogger{}

	writeFile(t, dir, "btcusd-d1-2020.csv", fmt.Sprintf(
		"timestamp,open,high,low,close,volume\n%d,100,105,95,102,500\n",
		msEpoch(2020, time.January, 1)))
	writeFile(t, dir, "btcusd-d1-2021.csv",
		"timestamp,open,high,low,close,volume\nnot-a-number,1,2,3,4,5\n")

	src, err := New(Config{DataDir: dir, Logger: logger})
	require.NoError(t, err)

	series, err := src.FetchHistoricalData(context.Background(), "btcusd", "d1")
	require.NoError(t, err)
	assert.Len(t, series, 1)
	assert.Len(t, logger.warnMsgs, 1)
}

func TestFetchHistoricalDataMissingHighLowIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "btcusd-d1-2020.csv", fmt.Sprintf(
		"timestamp,open,close,volume\n%d,100,102,500\n",
		msEpoch(2020, time.January, 1)))

	src, err := New(Config{DataDir: dir, Logger: &mockLogger{}})
	require.NoError(t, err)

	_, err = src.FetchHistoricalData(context.Background(), "btcusd", "d1")
	assert.ErrorIs(t, err, ports.ErrMissingColumns)
}

func TestFetchHistoricalDataVolumeOptional(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "btcusd-d1-2020.csv", fmt.Sprintf(
		"timestamp,open,high,low,close\n%d,100,105,95,102\n",
		msEpoch(2020, time.January, 1)))

	src, err := New(Config{DataDir: dir, Logger: &mockLogger{}})
	require.NoError(t, err)

	series, err := src.FetchHistoricalData(context.Background(), "btcusd", "d1")
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Zero(t, series[0].Volume)
}

func TestFetchHistoricalDataNoFiles(t *testing.T) {
	src, err := New(Config{DataDir: t.TempDir(), Logger: &mockLogger{}})
	require.NoError(t, err)

	_, err = src.FetchHistoricalData(context.Background(), "btcusd", "d1")
	assert.ErrorIs(t, err, ports.ErrNoSourceData)
}
