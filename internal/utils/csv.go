package utils

import (
	"encoding/csv"
	"os"
	"strconv"

	"athProjector/internal/domain"
)

// WriteBarsToCSV writes bars in the layout the CSV series source reads back:
// a millisecond-epoch timestamp column followed by OHLCV.
func WriteBarsToCSV(bars domain.Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	writer.Write([]string{"timestamp", "open", "high", "low", "close", "volume"})

	for _, b := range bars {
		writer.Write([]string{
			strconv.FormatInt(b.Timestamp.UnixMilli(), 10),
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatFloat(b.Volume, 'f', -1, 64),
		})
	}
	return writer.Error()
}
