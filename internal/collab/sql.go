package collab

import (
	"context"

	"github.com/google/uuid"
)

// SQLQuery names a query against a configured external database
// connection (spec §6: "consumes SqlQuery{connection_id, query}").
type SQLQuery struct {
	ConnectionID uuid.UUID
	Query        string
}

// TestResponse reports whether a connection could be established, and
// why not when it couldn't.
type TestResponse struct {
	Connected bool
	Message   string
}

// SQLConnectionService proxies queries to whatever external database
// a connection_id names (Postgres, MySQL, BigQuery, ...), returning
// the result Arrow-encoded. This program never talks SQL directly —
// it only calls through this interface, matching the "external
// collaborator" scope of spec §6; no driver-specific implementation
// ships here (Non-goals: out of scope per SPEC_FULL.md §3.12[FULL]).
type SQLConnectionService interface {
	// Query runs q against the connection it names and returns the
	// result set Arrow-encoded (as Parquet bytes, matching the
	// upstream service's own wire format).
	Query(ctx context.Context, q SQLQuery) ([]byte, error)
	// Test reports whether the connection named by connID is reachable.
	Test(ctx context.Context, connID uuid.UUID) (TestResponse, error)
}
