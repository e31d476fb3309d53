package app

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/dkeye/rooms/internal/core"
	"github.com/dkeye/rooms/internal/domain"
	"github.com/rs/zerolog/log"
)

// Connection is a read-only view of a registry entry.
type Connection struct {
	ID     core.SessionID
	Room   domain.RoomCode
	Name   string
	Client string
}

func (c Connection) InRoom() bool { return c.Room != "" }

type sessionEntry struct {
	Connection
	Signal core.SignalConnection
	alive  bool
}

// Registry tracks every live connection, the room it is in and the name it
// joined with.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
	nextID   atomic.Uint64
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

// Register adds a connection and returns its id. client is the caller's
// session token, kept for logging only.
func (r *Registry) Register(sig core.SignalConnection, client string) core.SessionID {
	sid := core.SessionID(strconv.FormatUint(r.nextID.Add(1), 10))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sid] = &sessionEntry{
		Connection: Connection{ID: sid, Client: client},
		Signal:     sig,
		alive:      true,
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("client", client).Msg("registered connection")
	return sid
}

func (r *Registry) Lookup(sid core.SessionID) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return Connection{}, false
	}
	return e.Connection, true
}

func (r *Registry) Signal(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	return e.Signal, true
}

func (r *Registry) Unregister(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unregistered connection")
}

// Enter records that sid joined room as name.
func (r *Registry) Enter(sid core.SessionID, room domain.RoomCode, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sid]
	if !ok {
		return false
	}
	e.Room = room
	e.Name = name
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(room)).Str("name", name).Msg("entered room")
	return true
}

// Exit clears the room association. The name is kept.
func (r *Registry) Exit(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok {
		e.Room = ""
	}
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Msg("exited room")
}

// MembersOfRoom lists the connections currently associated with room.
func (r *Registry) MembersOfRoom(room domain.RoomCode) []core.MemberSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.MemberSession, 0)
	for sid, e := range r.sessions {
		if e.Room == room {
			out = append(out, core.MemberSession{SID: sid, Signal: e.Signal})
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// MarkAlive records a probe answer for sid.
func (r *Registry) MarkAlive(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[sid]; ok {
		e.alive = true
	}
}

// probeRound splits connections into those that missed the previous probe
// and those that answered it. The latter are marked unanswered again.
func (r *Registry) probeRound() (stale, probe []core.MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sid, e := range r.sessions {
		snap := core.MemberSession{SID: sid, Signal: e.Signal}
		if !e.alive {
			stale = append(stale, snap)
			continue
		}
		e.alive = false
		probe = append(probe, snap)
	}
	return stale, probe
}
