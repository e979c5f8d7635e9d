package servertime

import (
	"context"
	"log"
	"time"

	"servertime-api/internal/domain/query"
)

// Statement is the only query this service runs.
const Statement = "SELECT current_timestamp()"

type Usecase struct {
	pool         query.Pool
	queryTimeout time.Duration
}

type Option func(*Usecase)

// WithQueryTimeout bounds the database round trip. Zero disables it.
func WithQueryTimeout(d time.Duration) Option {
	return func(u *Usecase) { u.queryTimeout = d }
}

func NewUsecase(p query.Pool, opts ...Option) *Usecase {
	u := &Usecase{pool: p}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Now checks out one connection, runs Statement and hands the connection
// back on every path, including panics in the driver.
func (u *Usecase) Now(ctx context.Context) (rows []query.Row, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			log.Printf("servertime: %s error after %s: %v", query.Kind(err), time.Since(start), err)
			return
		}
		log.Printf("servertime: %d row(s) in %s", len(rows), time.Since(start))
	}()

	// a client hanging up must not cut the round trip or the release short
	ctx = context.WithoutCancel(ctx)

	conn, err := u.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	if u.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.queryTimeout)
		defer cancel()
	}
	return conn.Query(ctx, Statement)
}
