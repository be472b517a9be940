package fileformat

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// CurrentVersion is the schema version UpgradeToCurrent always returns.
const CurrentVersion = "1.1"

// Migrator upgrades one version's raw file bytes into the next
// version's schema value plus that version's string tag.
type Migrator func(data []byte) (next any, nextVersion string, err error)

// Migrators is keyed by the version a file declares, so
// UpgradeToCurrent can walk v1_0 -> v1_1 -> ... one step at a time
// without its own call site changing when a new version is added.
var Migrators = map[string]Migrator{
	"1.0": migrateV1_0,
}

// UpgradeToCurrent reads data's declared version and repeatedly
// applies Migrators until it reaches CurrentVersion, returning the
// final *GridV1_1. A file already at CurrentVersion is parsed
// directly, with no migrator invoked.
func UpgradeToCurrent(data []byte) (*GridV1_1, error) {
	var probe struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("fileformat: reading version: %w", err)
	}

	version := probe.Version
	for version != CurrentVersion {
		migrate, ok := Migrators[version]
		if !ok {
			return nil, fmt.Errorf("fileformat: no migrator registered for version %q", version)
		}
		next, nextVersion, err := migrate(data)
		if err != nil {
			return nil, fmt.Errorf("fileformat: migrating from %q: %w", version, err)
		}
		data, err = json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("fileformat: re-encoding after migrating from %q: %w", version, err)
		}
		version = nextVersion
	}

	var grid GridV1_1
	if err := json.Unmarshal(data, &grid); err != nil {
		return nil, fmt.Errorf("fileformat: %w", err)
	}
	return &grid, nil
}

func migrateV1_0(data []byte) (any, string, error) {
	var old GridV1_0
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, "", err
	}
	return upgradeV1_0ToV1_1(old), CurrentVersion, nil
}

// upgradeV1_0ToV1_1 assigns each sheet a fresh SheetId (v1_0 had
// none), re-keys legacy "x,y" code cells as CellRef-keyed code runs,
// and drops the legacy Dependencies list: from v1_1 on, cell
// dependencies are recomputed from formula source when a file loads
// rather than persisted, the same simplified approach
// internal/operation takes for its own in-memory dependency tracking.
func upgradeV1_0ToV1_1(old GridV1_0) *GridV1_1 {
	next := &GridV1_1{Version: CurrentVersion}
	for _, sheet := range old.Sheets {
		s := SheetV1_1{
			ID:       uuid.New(),
			Name:     sheet.Name,
			Cells:    make(map[string]CellV1_1, len(sheet.Cells)),
			CodeRuns: make(map[string]CodeRunV1_1, len(sheet.Code)),
		}
		for key, cell := range sheet.Cells {
			s.Cells[key] = CellV1_1{Kind: cell.Kind, Value: cell.Value}
		}
		for key, code := range sheet.Code {
			s.CodeRuns[key] = CodeRunV1_1{Language: code.Language, Code: code.Code}
		}
		next.Sheets = append(next.Sheets, s)
	}
	return next
}
