package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yildizm/skeincare/internal/catalog"
)

const csvFields = 5

// ReadCSV parses headerless sku,name,r,g,b rows into brand records. The
// first row for a SKU wins; later duplicates and malformed rows are
// reported and skipped.
func ReadCSV(r io.Reader) (map[string]catalog.Record, []error, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records := make(map[string]catalog.Record)
	var problems []error

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				problems = append(problems, &RowError{Line: parseErr.Line, Reason: parseErr.Err.Error()})
				continue
			}
			return nil, problems, fmt.Errorf("failed to read CSV: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if isBlankRow(row) {
			continue
		}
		if len(row) != csvFields {
			problems = append(problems, &RowError{Line: line, Reason: fmt.Sprintf("expected %d fields, got %d", csvFields, len(row))})
			continue
		}

		sku := strings.TrimSpace(row[0])
		if sku == "" {
			problems = append(problems, &RowError{Line: line, Reason: "empty sku"})
			continue
		}
		if _, seen := records[sku]; seen {
			problems = append(problems, &RowError{Line: line, Reason: fmt.Sprintf("duplicate sku %s ignored", sku)})
			continue
		}

		var ch [3]int
		ok := true
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(strings.TrimSpace(row[2+i]))
			if err != nil {
				problems = append(problems, &RowError{Line: line, Reason: fmt.Sprintf("invalid channel %q", row[2+i])})
				ok = false
				break
			}
			ch[i] = n
		}
		if !ok {
			continue
		}

		name := strings.TrimSpace(row[1])
		if name == "" {
			name = catalog.DefaultName
		}
		records[sku] = catalog.Record{
			Name:  name,
			Color: []catalog.Color{catalog.NewColor(ch[0], ch[1], ch[2])},
		}
	}

	return records, problems, nil
}

func isBlankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
