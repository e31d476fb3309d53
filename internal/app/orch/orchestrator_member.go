package orch

import (
	"github.com/dkeye/rooms/internal/core"
	"github.com/dkeye/rooms/internal/domain"
	"github.com/rs/zerolog/log"
)

// MemberUpdate carries the optional fields of an update message.
type MemberUpdate struct {
	// SetProblem is true when the message carried a problem field, even null.
	SetProblem  bool
	Problem     *string
	ProblemSlug string
	// Status is empty when the message carried none.
	Status domain.Status
}

// Update applies a member's self-reported location and status. It is a
// no-op for connections that are not in a room.
func (o *Orchestrator) Update(sid core.SessionID, u MemberUpdate) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, m, ok := o.roomOf(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("update outside room ignored")
		return false
	}

	if u.SetProblem {
		m.Problem = u.Problem
	}
	if u.ProblemSlug != "" {
		slug := u.ProblemSlug
		m.ProblemSlug = &slug
	}
	if u.Status != "" {
		room.ApplyStatus(m, u.Status, m.CurrentSlug(), o.now())
	}

	o.broadcastLocked(room)
	return true
}

// UpdateSettings replaces the room's settings. With reroll set, the change
// is accepted only if that slot was never rerolled and nobody has progress
// on the problem currently in it; rejected changes are dropped silently.
func (o *Orchestrator) UpdateSettings(sid core.SessionID, settings domain.Settings, reroll *int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, _, ok := o.roomOf(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("update-settings outside room ignored")
		return false
	}
	if err := room.ReplaceSettings(settings, reroll); err != nil {
		ev := log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.Code))
		if reroll != nil {
			ev = ev.Int("slot", *reroll)
		}
		ev.Msg("settings update rejected")
		return false
	}
	if reroll != nil {
		log.Info().Str("module", "orch").Str("room", string(room.Code)).Int("slot", *reroll).Msg("slot rerolled")
	}

	o.broadcastLocked(room)
	return true
}
