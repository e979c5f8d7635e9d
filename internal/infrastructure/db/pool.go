package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"servertime-api/internal/config"
	"servertime-api/internal/domain/query"

	"gorm.io/gorm"
)

type PoolOptions struct {
	MaxConns int
	// AcquireTimeout bounds the wait for a free connection. Zero means
	// the caller's context is the only bound.
	AcquireTimeout  time.Duration
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Pool hands out dedicated connections from the database/sql pool behind
// a gorm handle. At most MaxConns are checked out at once.
type Pool struct {
	gdb   *gorm.DB
	sqlDB *sql.DB
	opts  PoolOptions
}

func NewPool(gdb *gorm.DB, opts PoolOptions) (*Pool, error) {
	if opts.MaxConns <= 0 {
		return nil, fmt.Errorf("pool: max connections must be positive, got %d", opts.MaxConns)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(opts.MaxConns)
	// keep released connections around instead of redialing
	sqlDB.SetMaxIdleConns(opts.MaxConns)
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
	return &Pool{gdb: gdb, sqlDB: sqlDB, opts: opts}, nil
}

// Open connects to MySQL using cfg and sizes the pool from it.
func Open(cfg *config.Config) (*Pool, error) {
	gdb, err := OpenGorm(cfg.DSN())
	if err != nil {
		return nil, &query.ConnectionError{Err: err}
	}
	return NewPool(gdb, PoolOptions{
		MaxConns:        cfg.MaxConns,
		AcquireTimeout:  cfg.AcquireTimeout,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	})
}

func (p *Pool) Acquire(ctx context.Context) (query.Conn, error) {
	if p.opts.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.AcquireTimeout)
		defer cancel()
	}
	raw, err := p.sqlDB.Conn(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", query.ErrAcquireTimeout, err)
		}
		return nil, &query.ConnectionError{Err: err}
	}
	return &conn{raw: raw, gdb: p.gdb}, nil
}

func (p *Pool) Stats() query.Stats {
	s := p.sqlDB.Stats()
	return query.Stats{
		MaxOpen:      s.MaxOpenConnections,
		Open:         s.OpenConnections,
		InUse:        s.InUse,
		Idle:         s.Idle,
		Available:    s.MaxOpenConnections - s.InUse,
		WaitCount:    s.WaitCount,
		WaitDuration: s.WaitDuration,
	}
}

func (p *Pool) Ping(ctx context.Context) error { return p.sqlDB.PingContext(ctx) }

func (p *Pool) Close() error { return p.sqlDB.Close() }

type conn struct {
	raw *sql.Conn
	gdb *gorm.DB

	mu       sync.Mutex
	released bool
}

func (c *conn) Query(ctx context.Context, stmt string) ([]query.Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, &query.QueryError{Stmt: stmt, Err: query.ErrConnReleased}
	}

	// bind this statement to the checked-out connection, the same way
	// gorm.DB.Connection does
	tx := c.gdb.WithContext(ctx)
	tx.Statement.ConnPool = c.raw

	var out []map[string]any
	if err := tx.Raw(stmt).Scan(&out).Error; err != nil {
		return nil, &query.QueryError{Stmt: stmt, Err: err}
	}
	rows := make([]query.Row, 0, len(out))
	for _, m := range out {
		rows = append(rows, query.Row(m))
	}
	return rows, nil
}

func (c *conn) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	if err := c.raw.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		log.Printf("pool: release: %v", err)
	}
}
