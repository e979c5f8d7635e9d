package query

import (
	"errors"
	"fmt"
)

var (
	ErrConnReleased   = errors.New("connection already released")
	ErrAcquireTimeout = errors.New("timed out waiting for a pooled connection")
)

// ConnectionError means the pool could not supply a connection
// (network, auth, exhaustion).
type ConnectionError struct{ Err error }

func (e *ConnectionError) Error() string { return fmt.Sprintf("acquire connection: %v", e.Err) }
func (e *ConnectionError) Unwrap() error { return e.Err }

// QueryError means the database rejected or failed to execute a statement.
type QueryError struct {
	Stmt string
	Err  error
}

func (e *QueryError) Error() string { return fmt.Sprintf("query %q: %v", e.Stmt, e.Err) }
func (e *QueryError) Unwrap() error { return e.Err }

// Kind classifies err for logging: "connection", "query" or "unknown".
func Kind(err error) string {
	var ce *ConnectionError
	var qe *QueryError
	switch {
	case errors.As(err, &ce):
		return "connection"
	case errors.As(err, &qe):
		return "query"
	default:
		return "unknown"
	}
}
