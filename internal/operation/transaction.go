package operation

// Class classifies a transaction's origin and determines stack and
// side-effect behavior (spec §4.7 "Transaction classification").
type Class int

const (
	ClassUser Class = iota
	ClassUndoRedo
	ClassMultiplayer
	ClassServer
)

// PendingTransaction bundles the operations one logical edit produced
// plus enough side-effect bookkeeping for a renderer to know what to
// redraw (spec §3.11). DirtyHashes/SheetsNeedingBorders/
// ModifiedOffsets hold sheet ids rather than actual hash/region
// values, since nothing downstream of this package renders anything —
// they exist so Apply's bookkeeping and tests can observe which
// sheets a transaction touched.
type PendingTransaction struct {
	Forward  []Operation
	Reverse  []Operation
	Class    Class
	Cursor   string
	ClientID string

	DirtyHashes          map[string]bool
	SheetsNeedingBorders  map[string]bool
	ModifiedOffsets       map[string]bool
	GenerateThumbnail     bool
}

func newPendingTransaction(class Class, cursor, clientID string) *PendingTransaction {
	return &PendingTransaction{
		Class:                class,
		Cursor:               cursor,
		ClientID:             clientID,
		DirtyHashes:          make(map[string]bool),
		SheetsNeedingBorders: make(map[string]bool),
		ModifiedOffsets:      make(map[string]bool),
	}
}

func (tx *PendingTransaction) markDirty(sheetID string) { tx.DirtyHashes[sheetID] = true }
func (tx *PendingTransaction) markBorders(sheetID string) {
	tx.SheetsNeedingBorders[sheetID] = true
}
func (tx *PendingTransaction) markOffsets(sheetID string) { tx.ModifiedOffsets[sheetID] = true }

// pushForward appends op to Forward and prepends its inverse to
// Reverse, matching spec §4.7 steps 3–4: "Appends the operation
// verbatim to forward_operations" / "Constructs the inverse operation
// and prepends it... so that replaying the reverse list executes them
// in the opposite temporal order."
func (tx *PendingTransaction) pushForward(op, inverse Operation) {
	tx.Forward = append(tx.Forward, op)
	tx.Reverse = append([]Operation{inverse}, tx.Reverse...)
}
