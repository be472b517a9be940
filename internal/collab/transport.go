// Package collab defines the contracts this program's core consumes
// from its external collaborators (spec §6): the multiplayer
// coordinator, a SQL connection proxy, file storage, and a worker JTI
// store. The core imports only these interfaces — no socket or HTTP
// server lives in this package, per the Non-goals scope; a Postgres
// reference implementation is provided only for the two collaborators
// the spec calls out as needing durable/atomic semantics (FileService,
// WorkerJTIStore).
package collab

import (
	"context"

	"github.com/google/uuid"

	"github.com/quadratichq/quadratic-sub012/internal/operation"
)

// CellEdit mirrors one user's live cell-editing state, broadcast as
// part of UserState so every room member sees an in-progress edit.
type CellEdit struct {
	Active     bool    `json:"active"`
	Text       string  `json:"text"`
	Cursor     uint32  `json:"cursor"`
	CodeEditor bool    `json:"codeEditor"`
	Bold       *bool   `json:"bold,omitempty"`
	Italic     *bool   `json:"italic,omitempty"`
}

// UserState is a room member's presence: cursor selection, viewport,
// and any in-progress edit.
type UserState struct {
	SheetID     uuid.UUID `json:"sheetId"`
	Selection   string    `json:"selection"`
	CodeRunning string    `json:"codeRunning"`
	CellEdit    CellEdit  `json:"cellEdit"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Visible     bool      `json:"visible"`
	Viewport    string    `json:"viewport"`
}

// UserStateUpdate carries only the fields a user is changing; nil
// means "leave as-is", letting EnterRoom/UserUpdate messages omit
// unchanged fields instead of re-sending the whole UserState.
type UserStateUpdate struct {
	SheetID     *uuid.UUID `json:"sheetId,omitempty"`
	Selection   *string    `json:"selection,omitempty"`
	CellEdit    *CellEdit  `json:"cellEdit,omitempty"`
	CodeRunning *string    `json:"codeRunning,omitempty"`
	X           *float64   `json:"x,omitempty"`
	Y           *float64   `json:"y,omitempty"`
	Visible     *bool      `json:"visible,omitempty"`
	Viewport    *string    `json:"viewport,omitempty"`
}

// User is one room member, as broadcast in RoomState; Socket-layer
// identity (session transport) is out of scope here.
type User struct {
	SessionID    uuid.UUID `json:"sessionId"`
	UserID       string    `json:"userId"`
	ConnectionID uuid.UUID `json:"connectionId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Image        string    `json:"image"`
	State        UserState `json:"state"`
}

// InboundKind tags the variant of an inbound multiplayer message.
type InboundKind int

const (
	InboundEnterRoom InboundKind = iota
	InboundLeaveRoom
	InboundTransaction
	InboundHeartbeat
	InboundUserUpdate
)

// Inbound is a tagged union of every message shape the coordinator
// accepts from a client, mirroring the wire protocol's
// EnterRoom/LeaveRoom/Transaction/Heartbeat/UserUpdate variants (spec
// §6).
type Inbound struct {
	Kind      InboundKind
	SessionID uuid.UUID
	FileID    uuid.UUID

	// EnterRoom only.
	UserID    string
	FirstName string
	LastName  string
	Image     string

	// Transaction only: the operations this client applied locally.
	Operations []operation.Operation

	// UserUpdate only.
	Update UserStateUpdate
}

// OutboundKind tags the variant of an outbound multiplayer message.
type OutboundKind int

const (
	OutboundRoomState OutboundKind = iota
	OutboundTransaction
	OutboundUserUpdate
	OutboundEmpty
)

// Outbound is a tagged union of every message shape the coordinator
// broadcasts, mirroring the wire protocol's
// RoomState/Transaction/UserUpdate/Empty variants (spec §6).
type Outbound struct {
	Kind OutboundKind

	// RoomState only.
	FileID uuid.UUID
	Users  []User

	// Transaction only: relayed verbatim to every other room member.
	SessionID  uuid.UUID
	Operations []operation.Operation

	// UserUpdate only.
	Update UserStateUpdate
}

// MultiplayerTransport is the seam between the core and the
// coordinator process: it sends this client's Inbound messages and
// delivers the coordinator's Outbound broadcasts, without the core
// knowing anything about sockets, rooms, or other room members beyond
// what an Outbound message tells it. No implementation ships here —
// satisfying the "core consumes only the shape" scope from spec §6.
type MultiplayerTransport interface {
	Send(ctx context.Context, msg Inbound) error
	Receive(ctx context.Context) (Outbound, error)
	Close() error
}
