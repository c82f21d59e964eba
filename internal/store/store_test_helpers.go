package store

import (
	"context"
	"database/sql"
)

// Function-typed fakes for the connection interfaces in db.go. A nil
// function succeeds with zero values, so tests wire only the calls
// they exercise.

type execFn func(ctx context.Context, query string, args ...any) (sql.Result, error)

func (f execFn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f == nil {
		return stubResult{}, nil
	}
	return f(ctx, query, args...)
}

type getFn func(ctx context.Context, dest any, query string, args ...any) error

func (f getFn) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	if f == nil {
		return nil
	}
	return f(ctx, dest, query, args...)
}

type selectFn func(ctx context.Context, dest any, query string, args ...any) error

func (f selectFn) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	if f == nil {
		return nil
	}
	return f(ctx, dest, query, args...)
}

type stubDB struct {
	execFn
	getFn
	selectFn
}

type stubTx struct {
	execFn
	getFn
}

type stubResult struct {
	rows int64
	err  error
}

func (r stubResult) LastInsertId() (int64, error) {
	return 0, r.err
}

func (r stubResult) RowsAffected() (int64, error) {
	return r.rows, r.err
}

var (
	_ DB         = stubDB{}
	_ Tx         = stubTx{}
	_ Execer     = execFn(nil)
	_ Getter     = getFn(nil)
	_ sql.Result = stubResult{}
)
