// Package orch owns every room mutation. All exported methods take one
// mutex, so each inbound message is applied as a whole before the next one
// (for any room) is looked at.
package orch

import (
	"sync"
	"time"

	"github.com/dkeye/rooms/internal/app"
	"github.com/dkeye/rooms/internal/core"
	"github.com/dkeye/rooms/internal/domain"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.RoomManager
	Policy   app.Policy
	Clock    clockwork.Clock

	mu sync.Mutex
}

func (o *Orchestrator) now() time.Time {
	if o.Clock == nil {
		return time.Now()
	}
	return o.Clock.Now()
}

func memberID(sid core.SessionID) domain.MemberID { return domain.MemberID(sid) }

// send encodes v and queues it for sid. Delivery failure is left to the
// liveness monitor and the read loop.
func (o *Orchestrator) send(sid core.SessionID, v any) {
	sig, ok := o.Registry.Signal(sid)
	if !ok {
		return
	}
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return
	}
	if err := sig.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("reply dropped")
	}
}

// roomOf resolves the room and member of a connection that is in a room.
func (o *Orchestrator) roomOf(sid core.SessionID) (*domain.Room, *domain.Member, bool) {
	conn, ok := o.Registry.Lookup(sid)
	if !ok || !conn.InRoom() {
		return nil, nil, false
	}
	room, ok := o.Rooms.GetRoom(conn.Room)
	if !ok {
		return nil, nil, false
	}
	m, ok := room.Member(memberID(sid))
	if !ok {
		return room, nil, false
	}
	return room, m, true
}

// ListRooms returns live rooms with their member counts.
func (o *Orchestrator) ListRooms() []core.RoomInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Rooms.List()
}

// Snapshot returns the room-state message for code.
func (o *Orchestrator) Snapshot(code domain.RoomCode) (core.RoomStateMessage, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	room, ok := o.Rooms.GetRoom(domain.NormalizeCode(string(code)))
	if !ok {
		return core.RoomStateMessage{}, false
	}
	return snapshot(room, o.now()), true
}
