package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// EventImportColumns is the required header set for bulk event import.
var EventImportColumns = []string{
	"name", "description", "start_datetime", "end_datetime",
	"category", "tags", "type", "location", "latitude", "longitude",
}

// CSVToMaps parses a CSV stream into one map per row, keyed by the
// header columns.
func CSVToMaps(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %v", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MapsToCSV renders rows as CSV text under the given header columns.
func MapsToCSV(rows []map[string]string, columns []string) (string, error) {
	var b strings.Builder
	writer := csv.NewWriter(&b)
	if err := writer.Write(columns); err != nil {
		return "", err
	}
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return b.String(), writer.Error()
}
