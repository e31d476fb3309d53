package orch

import (
	"maps"
	"slices"
	"time"

	"github.com/dkeye/rooms/internal/app"
	"github.com/dkeye/rooms/internal/core"
	"github.com/dkeye/rooms/internal/domain"
	"github.com/rs/zerolog/log"
)

// snapshot builds a full room view with live timer values at now.
// Maps are copied so the encoded frame never aliases room state.
func snapshot(room *domain.Room, now time.Time) core.RoomStateMessage {
	members := room.Members()
	dtos := make([]core.MemberDTO, 0, len(members))
	for _, m := range members {
		dtos = append(dtos, core.MemberDTO{
			Name:        m.Name,
			Problem:     m.Problem,
			ProblemSlug: m.ProblemSlug,
			Status:      m.Status,
			Progress:    maps.Clone(m.Progress),
			TimeSpent:   m.LiveTimeSpent(now),
			ActiveSlug:  m.ActiveSlug(),
		})
	}
	return core.RoomStateMessage{
		Type:          core.TypeRoomState,
		Members:       dtos,
		Settings:      room.Settings,
		FirstSolvers:  maps.Clone(room.FirstSolvers),
		RerolledSlots: slices.Clone(room.RerolledSlots),
	}
}

// broadcastLocked sends one snapshot to every connection in the room.
// Connections whose queue is full are handed to the policy.
func (o *Orchestrator) broadcastLocked(room *domain.Room) core.PublishResult {
	frame, err := core.Encode(snapshot(room, o.now()))
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(room.Code)).Msg("encode snapshot")
		return core.PublishResult{}
	}

	res := core.Publish(o.Registry.MembersOfRoom(room.Code), frame)
	for _, ms := range res.Dropped {
		o.onSlowConsumer(room.Code, ms)
	}
	log.Debug().Str("module", "orch").Str("room", string(room.Code)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

func (o *Orchestrator) onSlowConsumer(code domain.RoomCode, ms core.MemberSession) {
	if o.Policy == nil {
		return
	}
	switch o.Policy.OnBackPressure(code, ms.SID) {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("room", string(code)).Str("sid", string(ms.SID)).Msg("kicking slow consumer")
		// Closing ends the read loop, which calls OnDisconnect.
		ms.Signal.Close()
	case app.NoAction:
	}
}
