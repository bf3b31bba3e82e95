package gworkspace

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"
)

// AppendValues appends rows to the configured spreadsheet. The range is used
// exactly as given (e.g. "Attendance!A:D") and values are interpreted as if
// typed by a user so the provider parses types and formulas.
func (s *Service) AppendValues(ctx context.Context, valueRange string, values [][]interface{}) (*sheets.AppendValuesResponse, error) {
	body := &sheets.ValueRange{
		Values: values,
	}

	result, err := s.Sheets.Spreadsheets.Values.
		Append(s.cfg.SpreadsheetID, valueRange, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to append values: %w", err)
	}

	s.logger.Debug("sheet rows appended",
		"range", valueRange,
		"rows", len(values),
	)

	return result, nil
}
