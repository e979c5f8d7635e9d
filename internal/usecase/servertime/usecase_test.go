package servertime

import (
	"context"
	"errors"
	"testing"
	"time"

	"servertime-api/internal/domain/query"
	"servertime-api/internal/testutil/poolmock"
)

func TestNow_Success(t *testing.T) {
	var gotStmt string
	pool := &poolmock.Pool{
		Max: 10,
		QueryFn: func(ctx context.Context, stmt string) ([]query.Row, error) {
			gotStmt = stmt
			return []query.Row{{"current_timestamp()": "2024-01-01 00:00:00"}}, nil
		},
	}
	rows, err := NewUsecase(pool).Now(context.Background())
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	if gotStmt != "SELECT current_timestamp()" {
		t.Fatalf("stmt = %q", gotStmt)
	}
	if len(rows) != 1 || rows[0]["current_timestamp()"] != "2024-01-01 00:00:00" {
		t.Fatalf("rows = %#v", rows)
	}
	if pool.InUse() != 0 {
		t.Fatalf("connection leaked: in_use = %d", pool.InUse())
	}
}

func TestNow_AcquireErrorPropagates(t *testing.T) {
	cause := &query.ConnectionError{Err: errors.New("access denied")}
	pool := &poolmock.Pool{AcquireFn: func(ctx context.Context) error { return cause }}

	_, err := NewUsecase(pool).Now(context.Background())
	var ce *query.ConnectionError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConnectionError, got %v", err)
	}
	if pool.Acquired() != 0 || pool.ExtraReleases() != 0 {
		t.Fatalf("nothing should be checked out or released")
	}
}

func TestNow_QueryErrorStillReleases(t *testing.T) {
	pool := &poolmock.Pool{
		QueryFn: func(ctx context.Context, stmt string) ([]query.Row, error) {
			return nil, &query.QueryError{Stmt: stmt, Err: errors.New("server gone away")}
		},
	}
	_, err := NewUsecase(pool).Now(context.Background())
	var qe *query.QueryError
	if !errors.As(err, &qe) {
		t.Fatalf("want QueryError, got %v", err)
	}
	if pool.Acquired() != 1 || pool.InUse() != 0 {
		t.Fatalf("acquired=%d in_use=%d, want 1/0", pool.Acquired(), pool.InUse())
	}
	if pool.ExtraReleases() != 0 {
		t.Fatalf("connection released more than once")
	}
}

func TestNow_PanicStillReleases(t *testing.T) {
	pool := &poolmock.Pool{
		QueryFn: func(ctx context.Context, stmt string) ([]query.Row, error) {
			panic("driver bug")
		},
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_, _ = NewUsecase(pool).Now(context.Background())
	}()
	if pool.InUse() != 0 {
		t.Fatalf("connection leaked after panic: in_use = %d", pool.InUse())
	}
}

func TestNow_IgnoresCallerCancellation(t *testing.T) {
	var queryCtxErr error
	pool := &poolmock.Pool{
		QueryFn: func(ctx context.Context, stmt string) ([]query.Row, error) {
			queryCtxErr = ctx.Err()
			return []query.Row{poolmock.DefaultRow}, nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // client already gone

	if _, err := NewUsecase(pool).Now(ctx); err != nil {
		t.Fatalf("Now: %v", err)
	}
	if queryCtxErr != nil {
		t.Fatalf("query ran with a canceled context: %v", queryCtxErr)
	}
	if pool.InUse() != 0 {
		t.Fatalf("connection leaked")
	}
}

func TestNow_QueryTimeoutApplied(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	pool := &poolmock.Pool{
		QueryFn: func(ctx context.Context, stmt string) ([]query.Row, error) {
			deadline, hasDeadline = ctx.Deadline()
			return nil, nil
		},
	}
	start := time.Now()
	if _, err := NewUsecase(pool, WithQueryTimeout(time.Second)).Now(context.Background()); err != nil {
		t.Fatalf("Now: %v", err)
	}
	if !hasDeadline {
		t.Fatal("query context has no deadline")
	}
	if d := deadline.Sub(start); d <= 0 || d > 2*time.Second {
		t.Fatalf("deadline %v after start, want about 1s", d)
	}
}
