package collab

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrJTIMismatch is returned by ValidateAndRotate when providedJTI
// does not match the currently registered one for fileID (including
// when fileID has no registration at all).
var ErrJTIMismatch = errors.New("collab: provided jti does not match current registration")

// WorkerJTIStore tracks the single valid JTI (JWT ID) for each
// code-execution worker, keyed by the file it's processing. A worker
// holds exactly one valid JTI at a time; rotating to a new one
// invalidates the old, so a stolen or replayed token stops working the
// moment the legitimate worker rotates (spec §5: "rotated atomically
// with a compare-and-swap primitive").
type WorkerJTIStore interface {
	// Register records the initial JTI and cached metadata for a
	// worker starting on fileID.
	Register(ctx context.Context, fileID uuid.UUID, jti, email string, teamID uuid.UUID) error
	// ValidateAndRotate atomically checks providedJTI against the
	// current registration for fileID and, if it matches, replaces it
	// with a freshly generated JTI and returns that new value.
	// Returns ErrJTIMismatch if providedJTI is stale or fileID is
	// unregistered.
	ValidateAndRotate(ctx context.Context, fileID uuid.UUID, providedJTI string) (string, error)
	// Remove drops a worker's registration (called on worker shutdown).
	Remove(ctx context.Context, fileID uuid.UUID) error
}

// PgWorkerJTIStore is the reference WorkerJTIStore, using a single
// conditional UPDATE as its compare-and-swap primitive instead of an
// advisory lock (spec §5[FULL]): the UPDATE's WHERE clause pins both
// file_id and the expected current jti, so two concurrent rotation
// attempts for the same file can never both succeed — exactly one
// UPDATE's RETURNING clause produces a row.
type PgWorkerJTIStore struct {
	pool *pgxpool.Pool
}

// NewPgWorkerJTIStore wraps an already-connected pool.
func NewPgWorkerJTIStore(pool *pgxpool.Pool) *PgWorkerJTIStore {
	return &PgWorkerJTIStore{pool: pool}
}

// Register inserts or replaces the worker registration for fileID,
// mirroring WorkerJtiStore::register's upsert-via-insert semantics
// (a fresh worker always starts with a clean registration).
func (s *PgWorkerJTIStore) Register(ctx context.Context, fileID uuid.UUID, jti, email string, teamID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO worker_jtis (file_id, jti, email, team_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (file_id) DO UPDATE SET jti = EXCLUDED.jti, email = EXCLUDED.email, team_id = EXCLUDED.team_id`,
		fileID, jti, email, teamID)
	if err != nil {
		return fmt.Errorf("collab: registering worker jti for %s: %w", fileID, err)
	}
	return nil
}

// ValidateAndRotate implements the compare-and-swap: the UPDATE only
// matches a row when file_id and jti both equal the caller's claims,
// so a stale or forged providedJTI updates zero rows and
// pgx.ErrNoRows surfaces as ErrJTIMismatch.
func (s *PgWorkerJTIStore) ValidateAndRotate(ctx context.Context, fileID uuid.UUID, providedJTI string) (string, error) {
	newJTI := uuid.New().String()
	var rotated string
	err := s.pool.QueryRow(ctx, `
		UPDATE worker_jtis SET jti = $1
		WHERE file_id = $2 AND jti = $3
		RETURNING jti`,
		newJTI, fileID, providedJTI).Scan(&rotated)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrJTIMismatch
	}
	if err != nil {
		return "", fmt.Errorf("collab: rotating worker jti for %s: %w", fileID, err)
	}
	return rotated, nil
}

// Remove drops fileID's registration entirely.
func (s *PgWorkerJTIStore) Remove(ctx context.Context, fileID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM worker_jtis WHERE file_id = $1`, fileID)
	if err != nil {
		return fmt.Errorf("collab: removing worker jti for %s: %w", fileID, err)
	}
	return nil
}
