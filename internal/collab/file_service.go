package collab

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FileService loads and saves a workbook's persisted byte stream (the
// self-describing versioned container from spec §6) by file ID. The
// core never touches storage directly — checkpoint/restore always
// goes through this interface, so the storage backend (Postgres, S3,
// local disk) is free to vary per deployment.
type FileService interface {
	Load(ctx context.Context, fileID uuid.UUID) ([]byte, error)
	Save(ctx context.Context, fileID uuid.UUID, data []byte) error
}

// PgFileService is the reference FileService backed by Postgres via
// pgx, mirroring the connection-pool pattern database.Connect already
// establishes for this program's other storage access.
type PgFileService struct {
	pool *pgxpool.Pool
}

// NewPgFileService wraps an already-connected pool.
func NewPgFileService(pool *pgxpool.Pool) *PgFileService {
	return &PgFileService{pool: pool}
}

// Load returns the most recently saved bytes for fileID.
func (s *PgFileService) Load(ctx context.Context, fileID uuid.UUID) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM files WHERE file_id = $1`, fileID).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("collab: loading file %s: %w", fileID, err)
	}
	return data, nil
}

// Save upserts data as the latest checkpoint for fileID.
func (s *PgFileService) Save(ctx context.Context, fileID uuid.UUID, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO files (file_id, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (file_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		fileID, data)
	if err != nil {
		return fmt.Errorf("collab: saving file %s: %w", fileID, err)
	}
	return nil
}
