// README: Raw trip store backed by PostgreSQL.
package trips

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// storeColumns are read as text so the same cleaner handles database and file input.
var storeColumns = []string{ColCabType, ColProduct, ColDistance, ColSurge, ColHour, ColPrice}

type Store struct {
	db    *pgxpool.Pool
	table string
}

func NewStore(db *pgxpool.Pool, table string) *Store {
	return &Store{db: db, table: table}
}

// RawRecords returns the header followed by one string row per trip.
func (s *Store) RawRecords(ctx context.Context) ([][]string, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(cab_type::text, ''), COALESCE(name::text, ''),
		       COALESCE(distance::text, ''), COALESCE(surge_multiplier::text, ''),
		       COALESCE(hour::text, ''), COALESCE(price::text, '')
		FROM %s`, pgx.Identifier{s.table}.Sanitize())

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	out := [][]string{append([]string(nil), storeColumns...)}
	for rows.Next() {
		rec := make([]string, len(storeColumns))
		if err := rows.Scan(&rec[0], &rec[1], &rec[2], &rec[3], &rec[4], &rec[5]); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
