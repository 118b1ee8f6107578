package employee

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csvRowParser reads bulk hiring files with a header row. Column order is
// free; unknown columns are ignored.
type csvRowParser struct{}

func NewCSVRowParser() RowParser {
	return &csvRowParser{}
}

func (p *csvRowParser) ParseRows(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var rows []ImportRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		rows = append(rows, ImportRow{
			FirstName:     cell("first_name"),
			LastName:      cell("last_name"),
			Email:         cell("email"),
			PersonalEmail: cell("personal_email"),
			Password:      cell("password"),
			ContactNumber: cell("contact_number"),
			Role:          strings.ToUpper(cell("role")),
			Position:      cell("position"),
			BaseSalary:    parseInt(cell("base_salary")),
			Allowances:    parseInt(cell("allowances")),
			Deductions:    parseInt(cell("deductions")),
			TaxRate:       parseFloat(cell("tax_rate")),
		})
	}

	return rows, nil
}

func parseInt(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
