package query

import (
	"context"
	"time"
)

// Row is one result row keyed by column name as reported by the driver.
type Row map[string]any

type Pool interface {
	// Acquire checks out a dedicated connection. Callers must Release it.
	Acquire(ctx context.Context) (Conn, error)
}

type Conn interface {
	Query(ctx context.Context, stmt string) ([]Row, error)
	// Release returns the connection to its pool. Calling it again is a no-op.
	Release()
}

// Stats is a point-in-time view of a pool. Available is how many more
// connections can be checked out without waiting for a release.
type Stats struct {
	MaxOpen      int           `json:"max_open"`
	Open         int           `json:"open"`
	InUse        int           `json:"in_use"`
	Idle         int           `json:"idle"`
	Available    int           `json:"available"`
	WaitCount    int64         `json:"wait_count"`
	WaitDuration time.Duration `json:"wait_duration_ns"`
}
