package signal

import (
	"github.com/dkeye/rooms/internal/core"
	"github.com/dkeye/rooms/internal/domain"
	"github.com/rs/zerolog/log"
)

const errMsgInvalidName = "Invalid name"

func (ctl *SignalWSController) handleCreate(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	type createPayload struct {
		Name     string           `json:"name" validate:"required"`
		Settings *domain.Settings `json:"settings"`
	}
	var p createPayload
	if !ctl.decode(sid, typeCreate, data, &p) {
		return
	}
	name, err := domain.NormalizeName(p.Name)
	if err != nil {
		ctl.sendJSON(conn, core.ErrorMessage{Type: core.TypeError, Message: errMsgInvalidName})
		return
	}
	settings := domain.DefaultSettings()
	if p.Settings != nil {
		settings = p.Settings.Normalize()
	}

	if _, err := ctl.Orch.Create(sid, name, settings); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("create room")
	}
}

func (ctl *SignalWSController) handleJoin(
	sid core.SessionID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Name string `json:"name" validate:"required"`
		Code string `json:"code" validate:"required,max=16"`
	}
	var p joinPayload
	if !ctl.decode(sid, typeJoin, data, &p) {
		return
	}
	name, err := domain.NormalizeName(p.Name)
	if err != nil {
		ctl.sendJSON(conn, core.ErrorMessage{Type: core.TypeError, Message: errMsgInvalidName})
		return
	}

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("code", p.Code).Msg("join")
	// Room not found is reported to the client by the orchestrator.
	_ = ctl.Orch.Join(sid, name, p.Code)
}

// handleLeave leaves the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(sid core.SessionID) {
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("leave")
	ctl.Orch.Leave(sid)
}
