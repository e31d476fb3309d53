package signal

import (
	json "github.com/goccy/go-json"

	"github.com/dkeye/rooms/internal/app/orch"
	"github.com/dkeye/rooms/internal/core"
	"github.com/dkeye/rooms/internal/domain"
)

func (ctl *SignalWSController) handleUpdate(sid core.SessionID, data []byte) {
	type updatePayload struct {
		Problem     *string `json:"problem" validate:"omitempty,max=300"`
		ProblemSlug *string `json:"problemSlug" validate:"omitempty,max=200"`
		Status      *string `json:"status" validate:"omitempty,oneof=idle solving accepted browsing"`
	}
	var p updatePayload
	if !ctl.decode(sid, typeUpdate, data, &p) {
		return
	}
	// A null problem clears the label, an absent one leaves it alone.
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return
	}
	_, setProblem := fields["problem"]

	u := orch.MemberUpdate{SetProblem: setProblem, Problem: p.Problem}
	if p.ProblemSlug != nil {
		u.ProblemSlug = *p.ProblemSlug
	}
	if p.Status != nil {
		u.Status = domain.Status(*p.Status)
	}
	ctl.Orch.Update(sid, u)
}

func (ctl *SignalWSController) handleUpdateSettings(sid core.SessionID, data []byte) {
	type updateSettingsPayload struct {
		Settings     *domain.Settings `json:"settings" validate:"required"`
		RerolledSlot *int             `json:"rerolledSlot" validate:"omitempty,min=0"`
	}
	var p updateSettingsPayload
	if !ctl.decode(sid, typeUpdateSettings, data, &p) {
		return
	}
	ctl.Orch.UpdateSettings(sid, p.Settings.Normalize(), p.RerolledSlot)
}
