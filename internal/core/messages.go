package core

import "github.com/dkeye/rooms/internal/domain"

// Server to client message types.
const (
	TypeJoined    = "joined"
	TypeRoomState = "room-state"
	TypeError     = "error"
	TypeLeft      = "left"
	TypePong      = "pong"
)

const ErrMsgRoomNotFound = "Room not found"

type JoinedMessage struct {
	Type     string          `json:"type"`
	Code     domain.RoomCode `json:"code"`
	Settings domain.Settings `json:"settings"`
}

// MemberDTO is the broadcast view of a member; TimeSpent includes the live timer.
type MemberDTO struct {
	Name        string                     `json:"name"`
	Problem     *string                    `json:"problem"`
	ProblemSlug *string                    `json:"problemSlug"`
	Status      domain.Status              `json:"status"`
	Progress    map[string]domain.Progress `json:"progress"`
	TimeSpent   map[string]int64           `json:"timeSpent"`
	ActiveSlug  *string                    `json:"activeSlug"`
}

// RoomStateMessage is a complete replacement of a client's room view.
type RoomStateMessage struct {
	Type          string            `json:"type"`
	Members       []MemberDTO       `json:"members"`
	Settings      domain.Settings   `json:"settings"`
	FirstSolvers  map[string]string `json:"firstSolvers"`
	RerolledSlots []int             `json:"rerolledSlots"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ControlMessage struct {
	Type string `json:"type"`
}

type RoomInfo struct {
	Code        domain.RoomCode `json:"code"`
	MemberCount int             `json:"memberCount"`
}
