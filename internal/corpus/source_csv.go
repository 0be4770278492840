package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// Source loads projected records from one external dataset
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Record, error)
}

// StatisticsCSV projects yearly sector statistics rows. The file carries a
// header row; every cell of a data row is folded into the evidence text
type StatisticsCSV struct {
	Path string
}

// Name implements Source
func (s StatisticsCSV) Name() string { return "statistics-csv" }

// Load implements Source
func (s StatisticsCSV) Load(_ context.Context) ([]Record, error) {
	rows, err := readCSV(s.Path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		text := statRowToText(header, row)
		if text == "" {
			continue
		}
		out = append(out, NewStatistic(text))
	}
	return out, nil
}

// statRowToText pairs header names with cell values after the statistics marker
func statRowToText(header, row []string) string {
	var b strings.Builder
	b.WriteString(MarkStatistic)
	wrote := false
	for i, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		b.WriteByte(' ')
		if i < len(header) && strings.TrimSpace(header[i]) != "" {
			b.WriteString(strings.TrimSpace(header[i]))
			b.WriteByte(' ')
		}
		b.WriteString(cell)
		wrote = true
	}
	if !wrote {
		return ""
	}
	return b.String()
}

// BusinessCSV projects registered-business rows. The file has no header
// names worth keeping; the first row is skipped. Expected column order is
// name, sector, address, status; missing trailing columns degrade to blanks
type BusinessCSV struct {
	Path string
}

// Name implements Source
func (b BusinessCSV) Name() string { return "business-csv" }

// Load implements Source
func (b BusinessCSV) Load(_ context.Context) ([]Record, error) {
	rows, err := readCSV(b.Path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		text := businessRowToText(row)
		if text == "" {
			continue
		}
		out = append(out, NewBusiness(text))
	}
	return out, nil
}

// businessRowToText renders "[사업장] name(sector/address) status"
func businessRowToText(row []string) string {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	name := cell(0)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s(%s/%s) %s", MarkBusiness, name, cell(1), cell(2), cell(3)))
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // source exports are ragged
	return r.ReadAll()
}
