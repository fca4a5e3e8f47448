package internal

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type queryCall struct {
	SQL  string
	Args []any
}

// result is what spyDB answers to one Query call.
type result struct {
	cols []string
	rows [][]any
	err  error
}

func rowsOf(cols []string, rows ...[]any) result {
	return result{cols: cols, rows: rows}
}

func failure(err error) result {
	return result{err: err}
}

// spyDB records every query and answers from results in order; the last
// result repeats once the queue is drained.
type spyDB struct {
	mu      sync.Mutex
	calls   []queryCall
	results []result
	pingErr error
}

func newSpy(results ...result) *spyDB {
	return &spyDB{results: results}
}

func (s *spyDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, queryCall{SQL: sql, Args: args})

	var res result
	if len(s.results) > 0 {
		res = s.results[0]
		if len(s.results) > 1 {
			s.results = s.results[1:]
		}
	}
	if res.err != nil {
		return nil, res.err
	}
	return &fakeRows{cols: res.cols, data: res.rows}, nil
}

func (s *spyDB) Ping(context.Context) error {
	return s.pingErr
}

func (s *spyDB) Calls() []queryCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]queryCall(nil), s.calls...)
}

// fakeRows is an in-memory pgx.Rows. Scan converts each value to the
// destination type, allocating for pointer destinations and zeroing on nil.
type fakeRows struct {
	cols   []string
	data   [][]any
	pos    int
	closed bool
	err    error
}

var _ pgx.Rows = (*fakeRows)(nil)

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) RawValues() [][]byte           { return nil }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	if r.closed || r.pos >= len(r.data) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		if err := assign(d, row[i]); err != nil {
			return fmt.Errorf("scan column %s: %w", r.cols[i], err)
		}
	}
	return nil
}

func assign(dest, src any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("destination %T is not a pointer", dest)
	}
	dv = dv.Elem()

	if src == nil {
		dv.Set(reflect.Zero(dv.Type()))
		return nil
	}

	sv := reflect.ValueOf(src)
	target := dv.Type()
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	if !sv.Type().ConvertibleTo(target) {
		return fmt.Errorf("cannot convert %T to %s", src, target)
	}
	converted := sv.Convert(target)

	if dv.Kind() == reflect.Pointer {
		p := reflect.New(target)
		p.Elem().Set(converted)
		dv.Set(p)
		return nil
	}
	dv.Set(converted)
	return nil
}
