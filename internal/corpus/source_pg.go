package corpus

import (
	"context"
	"fmt"

	"shopkeeper/internal/platform/store/pg"
)

// PGBusinesses loads registered-business rows from Postgres when the
// deployment keeps them in a database instead of a CSV export
type PGBusinesses struct {
	DB    *pg.PG
	Table string // defaults to "businesses"
}

// Name implements Source
func (s PGBusinesses) Name() string { return "business-pg" }

// Load implements Source
func (s PGBusinesses) Load(ctx context.Context) ([]Record, error) {
	table := s.Table
	if table == "" {
		table = "businesses"
	}

	q := fmt.Sprintf(`SELECT name, sector, address, status FROM %s ORDER BY id`, table)
	rows, err := s.DB.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var name, sector, address, status string
		if err := rows.Scan(&name, &sector, &address, &status); err != nil {
			return nil, err
		}
		text := businessRowToText([]string{name, sector, address, status})
		if text == "" {
			continue
		}
		out = append(out, NewBusiness(text))
	}
	return out, rows.Err()
}
