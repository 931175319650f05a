// Package ingest turns uploaded tabular files into the plain string lists the
// seating core consumes.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	appErrors "github.com/noah-isme/exam-seating/pkg/errors"
)

// RollNumberColumn is the header the student file must carry.
const RollNumberColumn = "Roll Number"

const utf8BOM = "\ufeff"

// ReadRoster returns the roll numbers of a student file in file order. Only
// the header label is trimmed; cell values are kept verbatim. Blank cells are
// skipped and duplicates are kept.
func ReadRoster(r io.Reader) ([]string, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	column := -1
	for i, label := range rows[0] {
		if strings.TrimSpace(strings.TrimPrefix(label, utf8BOM)) == RollNumberColumn {
			column = i
			break
		}
	}
	if column < 0 {
		return nil, appErrors.Clone(appErrors.ErrMissingColumn, fmt.Sprintf("student file must contain a %q column", RollNumberColumn))
	}

	roster := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if column >= len(row) {
			continue
		}
		if roll := row[column]; !isBlank(roll) {
			roster = append(roster, roll)
		}
	}
	return roster, nil
}

// ReadProctors returns the first column of a proctor file, header excluded,
// with blank cells dropped. Repeated names stay in the pool.
func ReadProctors(r io.Reader) ([]string, error) {
	rows, err := readAll(r)
	if err != nil {
		return nil, err
	}

	pool := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || isBlank(row[0]) {
			continue
		}
		pool = append(pool, row[0])
	}
	return pool, nil
}

func isBlank(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

func readAll(r io.Reader) ([][]string, error) {
	if r == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("malformed csv at line %d", parseErr.Line))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unable to read file")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	return rows, nil
}
