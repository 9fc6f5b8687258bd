// README: Dataset sources: upload stream, fixed local path, Postgres table.
package trips

import (
	"context"
	"io"
)

// Source produces a cleaned table from wherever the raw trips live.
type Source interface {
	Name() string
	Load(ctx context.Context, opts LoadOptions) (*Table, error)
}

// ReaderSource wraps an uploaded file body.
type ReaderSource struct {
	Filename string
	R        io.Reader
}

func (s ReaderSource) Name() string { return "upload:" + s.Filename }

func (s ReaderSource) Load(_ context.Context, opts LoadOptions) (*Table, error) {
	return Load(s.R, opts)
}

// FileSource reads the dataset from a fixed local path.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(_ context.Context, opts LoadOptions) (*Table, error) {
	return LoadFile(s.Path, opts)
}

// PostgresSource reads raw trips from the database.
type PostgresSource struct {
	Store *Store
}

func (s PostgresSource) Name() string { return "db:" + s.Store.table }

func (s PostgresSource) Load(ctx context.Context, opts LoadOptions) (*Table, error) {
	records, err := s.Store.RawRecords(ctx)
	if err != nil {
		return nil, err
	}
	return LoadRecords(records, opts)
}
