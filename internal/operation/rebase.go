package operation

import (
	"errors"

	"github.com/quadratichq/quadratic-sub012/internal/pos"
)

// ErrRebaseConflict is returned by Rebase when a peer transaction
// deletes a sheet that a pending local operation still references
// (spec §7 "Transaction rebase conflict").
var ErrRebaseConflict = errors.New("operation: rebase conflict")

// Rebase implements spec §4.7/§5's multiplayer rebase: unwind every
// unacknowledged local transaction, apply the incoming peer
// transaction, adjust (rebase) each local transaction's operations
// against it, then replay them atop the new state. Matches E4: a
// concurrent peer InsertColumn shifts a pending local InsertColumn and
// SetCellValue by the same one column.
//
// On ErrRebaseConflict, the offending local transaction (and every
// transaction queued after it) is dropped without being replayed —
// "the local transaction is dropped, and its reverse ops are
// discarded, since they were never applied" — and Unacked/UndoStack
// are truncated to match. The peer transaction itself is still
// applied and returned.
func (c *Controller) Rebase(peerOps []Operation, cursor, clientID string) (*PendingTransaction, error) {
	pending := c.Unacked
	survivors := len(c.UndoStack) - len(pending)

	for i := len(pending) - 1; i >= 0; i-- {
		scratch := newPendingTransaction(pending[i].Class, pending[i].Cursor, pending[i].ClientID)
		for _, rev := range pending[i].Reverse {
			c.mutate(scratch, rev)
		}
	}

	peerTx := c.Apply(peerOps, ClassMultiplayer, cursor, clientID)

	rebased := make([]*PendingTransaction, 0, len(pending))
	var conflictErr error
	for _, tx := range pending {
		if conflictErr != nil {
			break
		}
		forward := make([]Operation, len(tx.Forward))
		for i, op := range tx.Forward {
			for _, p := range peerOps {
				rebasedOp, err := rebaseOperation(op, p)
				if err != nil {
					conflictErr = err
					break
				}
				op = rebasedOp
			}
			if conflictErr != nil {
				break
			}
			forward[i] = op
		}
		if conflictErr != nil {
			break
		}
		replay := newPendingTransaction(tx.Class, tx.Cursor, tx.ClientID)
		for _, op := range forward {
			reverse := c.mutate(replay, op)
			replay.pushForward(op, reverse)
		}
		rebased = append(rebased, replay)
	}

	c.Unacked = rebased
	c.UndoStack = append(c.UndoStack[:survivors], rebased...)

	if conflictErr != nil {
		return peerTx, conflictErr
	}
	return peerTx, nil
}

// rebaseOperation adjusts local's column/row indices and the
// positions/rects it targets to account for peer having already
// structurally changed the sheet (spec §5 "rebase updates column/row
// indices ... as required"). Operations on a different sheet than
// peer are untouched. A peer DeleteSheet that local still references
// is the conflict case (§7); this repo has no RenameSheet operation,
// so a sheet's id going away under DeleteSheet is its analogue of "a
// peer op renames a sheet id that a local op references".
func rebaseOperation(local, peer Operation) (Operation, error) {
	if peer.Kind == KindDeleteSheet && referencesSheet(local, peer.SheetID) {
		return Operation{}, ErrRebaseConflict
	}
	if local.SheetID != peer.SheetID {
		return local, nil
	}
	switch peer.Kind {
	case KindInsertColumn:
		return shiftOpColumns(local, peer.At, 1), nil
	case KindDeleteColumn:
		return shiftOpColumns(local, peer.At, -1), nil
	case KindInsertRow:
		return shiftOpRows(local, peer.At, 1), nil
	case KindDeleteRow:
		return shiftOpRows(local, peer.At, -1), nil
	default:
		return local, nil
	}
}

func referencesSheet(op Operation, id pos.SheetId) bool {
	return op.SheetID == id || op.BeforeSheetID == id
}

func shiftOpColumns(op Operation, at, delta int64) Operation {
	switch op.Kind {
	case KindInsertColumn, KindDeleteColumn:
		if op.At >= at {
			op.At += delta
		}
	case KindSetCellValues, KindComputeCode, KindSetCodeRun:
		if op.Pos.X >= at {
			op.Pos.X += delta
		}
	case KindSetCellFormats, KindSetBorders:
		if op.Rect.Min.X >= at {
			op.Rect.Min.X += delta
			op.Rect.Max.X += delta
		} else if op.Rect.Max.X >= at {
			op.Rect.Max.X += delta
		}
	case KindResizeColumn:
		if op.Index >= at {
			op.Index += delta
		}
	}
	return op
}

func shiftOpRows(op Operation, at, delta int64) Operation {
	switch op.Kind {
	case KindInsertRow, KindDeleteRow:
		if op.At >= at {
			op.At += delta
		}
	case KindSetCellValues, KindComputeCode, KindSetCodeRun:
		if op.Pos.Y >= at {
			op.Pos.Y += delta
		}
	case KindSetCellFormats, KindSetBorders:
		if op.Rect.Min.Y >= at {
			op.Rect.Min.Y += delta
			op.Rect.Max.Y += delta
		} else if op.Rect.Max.Y >= at {
			op.Rect.Max.Y += delta
		}
	case KindResizeRow:
		if op.Index >= at {
			op.Index += delta
		}
	case KindResizeRows:
		for i, y := range op.Indices {
			if y >= at {
				op.Indices[i] += delta
			}
		}
	}
	return op
}
