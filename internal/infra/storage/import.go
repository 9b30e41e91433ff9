package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xavierca1/leadboard/internal/entity"
)

// Columns an upload must carry. Extra columns are ignored; status and
// notes are honored when present so a previously exported table can be
// re-imported.
var requiredImportColumns = []string{
	"summary", "lowHangingFruit", "originalPost", "solution",
	"date", "url", "subreddit",
}

type RowError struct {
	Line    int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Message)
}

// ImportError rejects a whole upload batch: nothing from a batch with
// missing columns or bad rows reaches the repository.
type ImportError struct {
	MissingColumns []string
	RowErrors      []RowError
}

func (e *ImportError) Error() string {
	var parts []string
	if len(e.MissingColumns) > 0 {
		parts = append(parts, "missing required columns: "+strings.Join(e.MissingColumns, ", "))
	}
	for _, re := range e.RowErrors {
		parts = append(parts, re.Error())
	}
	return "invalid import: " + strings.Join(parts, "; ")
}

// ParseImport reads an uploaded CSV into validated leads. The header row
// is mandatory. Any missing required column or malformed row fails the
// whole batch with a descriptive error.
func ParseImport(r io.Reader, statuses entity.StatusSet) ([]entity.Lead, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ImportError{MissingColumns: requiredImportColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	importErr := &ImportError{}
	for _, col := range requiredImportColumns {
		if _, ok := index[col]; !ok {
			importErr.MissingColumns = append(importErr.MissingColumns, col)
		}
	}
	if len(importErr.MissingColumns) > 0 {
		return nil, importErr
	}

	var leads []entity.Lead
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			importErr.RowErrors = append(importErr.RowErrors, RowError{line, err.Error()})
			continue
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		if strings.TrimSpace(field("url")) == "" {
			importErr.RowErrors = append(importErr.RowErrors, RowError{line, "url is required"})
			continue
		}
		date, err := entity.ParseDate(field("date"))
		if err != nil {
			importErr.RowErrors = append(importErr.RowErrors, RowError{line, err.Error()})
			continue
		}

		leads = append(leads, entity.Lead{
			Summary:         entity.CleanText(field("summary")),
			LowHangingFruit: entity.ParseFlag(field("lowHangingFruit")),
			OriginalPost:    entity.CleanText(field("originalPost")),
			Solution:        entity.CleanText(field("solution")),
			Date:            date,
			URL:             strings.TrimSpace(field("url")),
			Subreddit:       strings.TrimSpace(field("subreddit")),
			Status:          statuses.Normalize(field("status")),
			Notes:           field("notes"),
		})
	}

	if len(importErr.RowErrors) > 0 {
		return nil, importErr
	}
	return leads, nil
}
