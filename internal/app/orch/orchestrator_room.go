package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/rooms/internal/app"
	"github.com/dkeye/rooms/internal/core"
	"github.com/dkeye/rooms/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrUnknownSession = errors.New("unknown session")

// Create opens a new room with sid as its first member and replies joined.
func (o *Orchestrator) Create(sid core.SessionID, name string, settings domain.Settings) (domain.RoomCode, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.Registry.Lookup(sid); !ok {
		return "", ErrUnknownSession
	}
	o.leaveLocked(sid)

	room, err := o.Rooms.CreateRoom(settings)
	if err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	room.Admit(memberID(sid), name, o.now())
	o.Registry.Enter(sid, room.Code, name)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.Code)).Str("name", name).Msg("created room")

	o.send(sid, core.JoinedMessage{Type: core.TypeJoined, Code: room.Code, Settings: room.Settings})
	o.broadcastLocked(room)
	return room.Code, nil
}

// Join adds sid to an existing room. A member already in the room under the
// same name is replaced and its progress and time carry over.
func (o *Orchestrator) Join(sid core.SessionID, name string, rawCode string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	conn, ok := o.Registry.Lookup(sid)
	if !ok {
		return ErrUnknownSession
	}
	code := domain.NormalizeCode(rawCode)
	room, ok := o.Rooms.GetRoom(code)
	if !ok {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(code)).Msg("join: room not found")
		o.send(sid, core.ErrorMessage{Type: core.TypeError, Message: core.ErrMsgRoomNotFound})
		return app.ErrRoomNotFound
	}

	now := o.now()
	if conn.Room == code {
		// Re-joining the current room must not destroy it on the way out.
		// Under the same name Admit replaces the entry in place.
		if m, ok := room.Member(memberID(sid)); ok && m.Name != name {
			room.Remove(memberID(sid), now)
		}
	} else {
		o.leaveLocked(sid)
	}

	_, replaced := room.Admit(memberID(sid), name, now)
	if replaced != "" && replaced != memberID(sid) {
		o.Registry.Exit(core.SessionID(replaced))
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("replaced", string(replaced)).Str("room", string(code)).Msg("reconnect carried over member state")
	}
	o.Registry.Enter(sid, code, name)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(code)).Str("name", name).Int("members", room.MemberCount()).Msg("joined room")

	o.send(sid, core.JoinedMessage{Type: core.TypeJoined, Code: code, Settings: room.Settings})
	o.broadcastLocked(room)
	return nil
}

// Leave removes sid from its room, if any, and replies left.
func (o *Orchestrator) Leave(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.leaveLocked(sid)
	o.send(sid, core.ControlMessage{Type: core.TypeLeft})
}

// OnDisconnect runs the leave path for a closed transport and forgets sid.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.leaveLocked(sid)
	o.Registry.Unregister(sid)
}

func (o *Orchestrator) leaveLocked(sid core.SessionID) {
	conn, ok := o.Registry.Lookup(sid)
	if !ok || !conn.InRoom() {
		return
	}
	o.Registry.Exit(sid)
	room, ok := o.Rooms.GetRoom(conn.Room)
	if !ok {
		return
	}
	if _, ok := room.Remove(memberID(sid), o.now()); ok {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.Code)).Msg("left room")
	}
	if o.Rooms.DestroyIfEmpty(room.Code) {
		return
	}
	o.broadcastLocked(room)
}
