package export

import "fmt"

// Dataset defines tabular export content. Rows are positional and must match Headers.
// Notes are free-text lines rendered after the table, such as rule violations.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
	Notes   []string
}

func (d Dataset) validate(format string) error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("%s requires at least one header", format)
	}
	for i, row := range d.Rows {
		if len(row) > len(d.Headers) {
			return fmt.Errorf("%s row %d has %d cells for %d headers", format, i, len(row), len(d.Headers))
		}
	}
	return nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
