package collab

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// workerData is the cached JTI plus worker metadata kept alongside it,
// so rotation never needs a round trip back to the API for a worker's
// email/team_id.
type workerData struct {
	jti    string
	email  string
	teamID uuid.UUID
}

// MemWorkerJTIStore is an in-process WorkerJTIStore, direct analogue
// of the original DashMap-backed store: fine for a single-process
// deployment or tests, where PgWorkerJTIStore's durability/CAS-across-
// processes guarantee isn't needed.
type MemWorkerJTIStore struct {
	mu   sync.Mutex
	data map[uuid.UUID]workerData
}

// NewMemWorkerJTIStore returns an empty store.
func NewMemWorkerJTIStore() *MemWorkerJTIStore {
	return &MemWorkerJTIStore{data: make(map[uuid.UUID]workerData)}
}

func (s *MemWorkerJTIStore) Register(ctx context.Context, fileID uuid.UUID, jti, email string, teamID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[fileID] = workerData{jti: jti, email: email, teamID: teamID}
	return nil
}

func (s *MemWorkerJTIStore) ValidateAndRotate(ctx context.Context, fileID uuid.UUID, providedJTI string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.data[fileID]
	if !ok || entry.jti != providedJTI {
		return "", ErrJTIMismatch
	}
	entry.jti = uuid.New().String()
	s.data[fileID] = entry
	return entry.jti, nil
}

func (s *MemWorkerJTIStore) Remove(ctx context.Context, fileID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, fileID)
	return nil
}
