package models

// Table is the neutral tabular artifact handed to persistence sinks. Rows are
// plain strings so each sink can render them however it likes (CSV cells,
// parquet UTF8 columns, JSON messages).
type Table struct {
	Headers []string
	Rows    [][]string
}

func NewTable(headers []string) *Table {
	return &Table{Headers: headers}
}

func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Records re-keys every row by header, the shape JSON-oriented sinks expect.
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make(map[string]string, len(t.Headers))
		for i, header := range t.Headers {
			if i < len(row) {
				record[header] = row[i]
			}
		}
		records = append(records, record)
	}
	return records
}
