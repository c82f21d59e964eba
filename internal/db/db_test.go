package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// fakeState is shared by every connection the pool opens, so the
// counters see all attempts regardless of connection reuse.
type fakeState struct {
	begins    int64
	commits   int64
	rollbacks int64
	commitErr func(call int64) error
}

type fakeDriver struct {
	state *fakeState
}

func (d *fakeDriver) Open(string) (driver.Conn, error) {
	return &fakeConn{state: d.state}, nil
}

type fakeConn struct {
	state *fakeState
}

func (c *fakeConn) Prepare(string) (driver.Stmt, error) {
	return fakeStmt{}, nil
}

func (c *fakeConn) Close() error {
	return nil
}

func (c *fakeConn) Begin() (driver.Tx, error) {
	return c.beginTx()
}

func (c *fakeConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return c.beginTx()
}

func (c *fakeConn) beginTx() (driver.Tx, error) {
	atomic.AddInt64(&c.state.begins, 1)
	return &fakeTx{state: c.state}, nil
}

type fakeTx struct {
	state *fakeState
}

func (t *fakeTx) Commit() error {
	call := atomic.AddInt64(&t.state.commits, 1)
	if t.state.commitErr != nil {
		return t.state.commitErr(call)
	}
	return nil
}

func (t *fakeTx) Rollback() error {
	atomic.AddInt64(&t.state.rollbacks, 1)
	return nil
}

type fakeStmt struct{}

func (fakeStmt) Close() error {
	return nil
}

func (fakeStmt) NumInput() int {
	return -1
}

func (fakeStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, nil
}

func (fakeStmt) Query([]driver.Value) (driver.Rows, error) {
	return nil, nil
}

var driverSeq uint64

func openFakeDB(t *testing.T, state *fakeState) *sqlx.DB {
	t.Helper()
	name := fmt.Sprintf("cashbox-fake-%d", atomic.AddUint64(&driverSeq, 1))
	sql.Register(name, &fakeDriver{state: state})
	sqlDB, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlx.NewDb(sqlDB, name)
}

func TestWithTxCommits(t *testing.T) {
	state := &fakeState{}
	xdb := openFakeDB(t, state)
	calls := 0
	if err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { calls++; return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 || state.commits != 1 || state.rollbacks != 0 {
		t.Fatalf("expected one committed attempt, got calls=%d commits=%d rollbacks=%d", calls, state.commits, state.rollbacks)
	}
}

func TestWithTxRollsBackWithoutRetryOnPlainError(t *testing.T) {
	state := &fakeState{}
	xdb := openFakeDB(t, state)
	boom := errors.New("boom")
	if err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected the function error back, got %v", err)
	}
	if state.begins != 1 || state.rollbacks != 1 {
		t.Fatalf("plain errors must not retry: begins=%d rollbacks=%d", state.begins, state.rollbacks)
	}
}

func TestWithTxRetriesSerializationFailure(t *testing.T) {
	state := &fakeState{
		commitErr: func(call int64) error {
			if call == 1 {
				return &pq.Error{Code: "40001"}
			}
			return nil
		},
	}
	xdb := openFakeDB(t, state)
	if err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.commits != 2 {
		t.Fatalf("expected a second attempt, got %d commits", state.commits)
	}
}

func TestWithTxGivesUpAfterMaxAttempts(t *testing.T) {
	state := &fakeState{
		commitErr: func(int64) error { return &pq.Error{Code: "40P01"} },
	}
	xdb := openFakeDB(t, state)
	err := WithTx(context.Background(), xdb, func(*sqlx.Tx) error { return nil })
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		t.Fatalf("expected the deadlock error to surface, got %v", err)
	}
	if state.commits != 5 {
		t.Fatalf("expected 5 attempts, got %d", state.commits)
	}
}

func TestTxRunnerDelegates(t *testing.T) {
	state := &fakeState{}
	runner := NewTxRunner(openFakeDB(t, state))
	ran := false
	if err := runner.WithTx(context.Background(), func(*sqlx.Tx) error { ran = true; return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran || state.commits != 1 {
		t.Fatalf("expected delegated commit, got ran=%v commits=%d", ran, state.commits)
	}
}
