package poolmock

import (
	"context"
	"sync"

	"servertime-api/internal/domain/query"
)

// DefaultRow is what Conn.Query returns when QueryFn is nil.
var DefaultRow = query.Row{"current_timestamp()": "2024-01-01 00:00:00"}

// Pool is a function-backed fake that satisfies query.Pool and keeps
// count of checked-out connections. Set AcquireFn / QueryFn / PingFn to
// inject faults; a nil func succeeds.
type Pool struct {
	Max       int
	AcquireFn func(ctx context.Context) error
	QueryFn   func(ctx context.Context, stmt string) ([]query.Row, error)
	PingFn    func(ctx context.Context) error

	mu            sync.Mutex
	inUse         int
	acquired      int
	extraReleases int
}

func (p *Pool) Acquire(ctx context.Context) (query.Conn, error) {
	if p.AcquireFn != nil {
		if err := p.AcquireFn(ctx); err != nil {
			return nil, err
		}
	}
	p.mu.Lock()
	p.inUse++
	p.acquired++
	p.mu.Unlock()
	return &Conn{pool: p}, nil
}

func (p *Pool) Ping(ctx context.Context) error {
	if p.PingFn != nil {
		return p.PingFn(ctx)
	}
	return nil
}

func (p *Pool) Stats() query.Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return query.Stats{MaxOpen: p.Max, Open: p.inUse, InUse: p.inUse, Available: p.Max - p.inUse}
}

// InUse is connections acquired and not yet released.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse
}

func (p *Pool) Acquired() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquired
}

// ExtraReleases counts Release calls on an already released Conn.
func (p *Pool) ExtraReleases() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.extraReleases
}

type Conn struct {
	pool     *Pool
	released bool
}

func (c *Conn) Query(ctx context.Context, stmt string) ([]query.Row, error) {
	c.pool.mu.Lock()
	released := c.released
	c.pool.mu.Unlock()
	if released {
		return nil, &query.QueryError{Stmt: stmt, Err: query.ErrConnReleased}
	}
	if c.pool.QueryFn != nil {
		return c.pool.QueryFn(ctx, stmt)
	}
	return []query.Row{DefaultRow}, nil
}

func (c *Conn) Release() {
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	if c.released {
		c.pool.extraReleases++
		return
	}
	c.released = true
	c.pool.inUse--
}
