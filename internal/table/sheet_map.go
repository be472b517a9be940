// Package table implements data tables (structured references) and
// A1Context, the per-evaluation snapshot combining sheet-name
// resolution and table lookups that the a1 package needs to parse and
// format references (spec §3.5/§3.6).
package table

import (
	"fmt"
	"strings"

	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// SheetMap is a bidirectional sheet_name <-> SheetId mapping with
// case-insensitive name lookup, mirroring the original's
// a1_context::sheet_map.
type SheetMap struct {
	names map[pos.SheetId]string
	ids   map[string]pos.SheetId // keyed by lowercase name
}

// NewSheetMap returns an empty SheetMap.
func NewSheetMap() *SheetMap {
	return &SheetMap{names: make(map[pos.SheetId]string), ids: make(map[string]pos.SheetId)}
}

// Insert records a sheet's name. Returns an error if another sheet
// already holds that name case-insensitively.
func (m *SheetMap) Insert(id pos.SheetId, name string) error {
	key := strings.ToLower(name)
	if existing, ok := m.ids[key]; ok && existing != id {
		return fmt.Errorf("table: sheet name %q already in use", name)
	}
	m.names[id] = name
	m.ids[key] = id
	return nil
}

// Remove drops a sheet from the map.
func (m *SheetMap) Remove(id pos.SheetId) {
	if name, ok := m.names[id]; ok {
		delete(m.ids, strings.ToLower(name))
		delete(m.names, id)
	}
}

// TrySheetName returns the SheetId for a case-insensitive name match.
func (m *SheetMap) TrySheetName(name string) (pos.SheetId, bool) {
	id, ok := m.ids[strings.ToLower(name)]
	return id, ok
}

// TrySheetID returns the display name for a sheet id.
func (m *SheetMap) TrySheetID(id pos.SheetId) (string, bool) {
	name, ok := m.names[id]
	return name, ok
}

// needsQuoting reports whether name must be single-quoted in an A1
// reference: it contains a space, '!', or '\''.
func needsQuoting(name string) bool {
	return strings.ContainsAny(name, " !'")
}

// QuoteSheetName renders name the way it must appear in an A1
// reference, quoting and escaping only when required (spec §3.6:
// "single-quote names containing space, !, or '; literal ' escaped as
// ''").
func QuoteSheetName(name string) string {
	if !needsQuoting(name) {
		return name
	}
	escaped := strings.ReplaceAll(name, "'", "''")
	return "'" + escaped + "'"
}

// UnquoteSheetName reverses QuoteSheetName: if raw is wrapped in single
// quotes, strips them and un-escapes doubled '' back to a single '.
func UnquoteSheetName(raw string) string {
	if len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'' {
		inner := raw[1 : len(raw)-1]
		return strings.ReplaceAll(inner, "''", "'")
	}
	return raw
}
