package app

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sort"

	"github.com/dkeye/rooms/internal/core"
	"github.com/dkeye/rooms/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLen      = 5

	maxCodeAttempts = 1000
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrCodeSpaceExhausted = errors.New("no unique room code available")
)

// CodeGenerator returns a candidate room code.
type CodeGenerator func() (domain.RoomCode, error)

func RandomCode() (domain.RoomCode, error) {
	out := make([]byte, CodeLen)
	n := big.NewInt(int64(len(CodeAlphabet)))
	for i := range out {
		x, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", err
		}
		out[i] = CodeAlphabet[x.Int64()]
	}
	return domain.RoomCode(out), nil
}

// RoomManager is the in-memory room store. It is not safe for concurrent
// use; the orchestrator serializes every call.
type RoomManager struct {
	rooms   map[domain.RoomCode]*domain.Room
	newCode CodeGenerator
}

func NewRoomManager() *RoomManager {
	return NewRoomManagerWithCodes(RandomCode)
}

func NewRoomManagerWithCodes(gen CodeGenerator) *RoomManager {
	return &RoomManager{
		rooms:   make(map[domain.RoomCode]*domain.Room),
		newCode: gen,
	}
}

// CreateRoom allocates an empty room under a fresh code.
func (m *RoomManager) CreateRoom(settings domain.Settings) (*domain.Room, error) {
	for range maxCodeAttempts {
		code, err := m.newCode()
		if err != nil {
			return nil, err
		}
		if _, taken := m.rooms[code]; taken {
			continue
		}
		room := domain.NewRoom(code, settings)
		m.rooms[code] = room
		log.Info().Str("module", "app.rooms").Str("room", string(code)).Int("problems", len(room.Settings.Problems)).Msg("room created")
		return room, nil
	}
	return nil, ErrCodeSpaceExhausted
}

func (m *RoomManager) GetRoom(code domain.RoomCode) (*domain.Room, bool) {
	room, ok := m.rooms[code]
	return room, ok
}

// DestroyIfEmpty deletes the room when it has no members and reports whether it did.
func (m *RoomManager) DestroyIfEmpty(code domain.RoomCode) bool {
	room, ok := m.rooms[code]
	if !ok || !room.Empty() {
		return false
	}
	delete(m.rooms, code)
	log.Info().Str("module", "app.rooms").Str("room", string(code)).Msg("room destroyed (empty)")
	return true
}

func (m *RoomManager) Count() int { return len(m.rooms) }

func (m *RoomManager) List() []core.RoomInfo {
	out := make([]core.RoomInfo, 0, len(m.rooms))
	for code, r := range m.rooms {
		out = append(out, core.RoomInfo{Code: code, MemberCount: r.MemberCount()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
