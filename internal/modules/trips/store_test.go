package trips

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Requires a database with a rideshare table; see FARE_DB_DSN.
func TestPostgresSource(t *testing.T) {
	dsn := os.Getenv("FARE_DB_DSN")
	if dsn == "" {
		t.Skip("FARE_DB_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	const table = "farecast_trips_test"
	if _, err := pool.Exec(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	if _, err := pool.Exec(ctx, `CREATE TABLE `+table+` (
		cab_type text, name text, distance double precision,
		surge_multiplier double precision, hour int, price double precision)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() { pool.Exec(context.Background(), `DROP TABLE IF EXISTS `+table) })
	if _, err := pool.Exec(ctx, `INSERT INTO `+table+` VALUES
		('Uber', 'UberX', 1.5, 1.0, 8, 7.5),
		('Lyft', 'Lyft', 2.0, 1.0, 9, 9.0),
		('Uber', 'Black', 3.0, 1.0, 17, NULL)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	src := PostgresSource{Store: NewStore(pool, table)}
	tbl, err := src.Load(ctx, LoadOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.Len() != 1 || tbl.RawRows() != 3 {
		t.Fatalf("Len = %d RawRows = %d, want 1 and 3", tbl.Len(), tbl.RawRows())
	}
}
