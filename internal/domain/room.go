package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

const MaxCodeLen = 16

var (
	ErrSlotRerolled   = errors.New("slot already rerolled")
	ErrSlotFrozen     = errors.New("slot has member progress")
	ErrSlotOutOfRange = errors.New("slot out of range")
)

type (
	RoomCode string
	MemberID string
)

// NormalizeCode makes join codes case-insensitive.
func NormalizeCode(raw string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(raw)))
}

// Problem occupies one slot of a room's problem list.
type Problem struct {
	Title      string `json:"title"`
	TitleSlug  string `json:"titleSlug"`
	Difficulty string `json:"difficulty"`
}

// Settings are chosen by the room creator. The problem list is produced
// by an external catalog lookup and treated as opaque beyond slot slugs.
type Settings struct {
	Difficulty []string  `json:"difficulty"`
	Topics     []string  `json:"topics"`
	Count      int       `json:"count,omitempty"`
	Problems   []Problem `json:"problems"`
}

func DefaultSettings() Settings {
	return Settings{}.Normalize()
}

// Normalize replaces nil lists with empty ones so snapshots encode arrays.
func (s Settings) Normalize() Settings {
	if s.Difficulty == nil {
		s.Difficulty = []string{}
	}
	if s.Topics == nil {
		s.Topics = []string{}
	}
	if s.Problems == nil {
		s.Problems = []Problem{}
	}
	return s
}

func (s Settings) slugs() map[string]struct{} {
	out := make(map[string]struct{}, len(s.Problems))
	for _, p := range s.Problems {
		out[p.TitleSlug] = struct{}{}
	}
	return out
}

type Room struct {
	Code          RoomCode
	Settings      Settings
	FirstSolvers  map[string]string
	RerolledSlots []int

	members map[MemberID]*Member
	nextSeq uint64
}

func NewRoom(code RoomCode, settings Settings) *Room {
	return &Room{
		Code:          code,
		Settings:      settings.Normalize(),
		FirstSolvers:  make(map[string]string),
		RerolledSlots: []int{},
		members:       make(map[MemberID]*Member),
	}
}

func (r *Room) MemberCount() int { return len(r.members) }

func (r *Room) Empty() bool { return len(r.members) == 0 }

func (r *Room) Member(id MemberID) (*Member, bool) {
	m, ok := r.members[id]
	return m, ok
}

// Members returns members in join order.
func (r *Room) Members() []*Member {
	out := make([]*Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (r *Room) add(id MemberID, m *Member) *Member {
	r.nextSeq++
	m.seq = r.nextSeq
	r.members[id] = m
	return m
}

// Admit adds a member under id. If a member with the same name is already
// present it is treated as that member reconnecting: its timer is flushed,
// its progress and time carry over, and the stale entry is dropped. The
// returned id is the replaced entry's id, or "" when nothing was replaced.
func (r *Room) Admit(id MemberID, name string, now time.Time) (*Member, MemberID) {
	for oldID, old := range r.members {
		if old.Name != name {
			continue
		}
		old.StopTimer(now)
		delete(r.members, oldID)
		return r.add(id, old.carryOver(name)), oldID
	}
	return r.add(id, NewMember(name)), ""
}

// Remove flushes the member's timer and deletes it.
func (r *Room) Remove(id MemberID, now time.Time) (*Member, bool) {
	m, ok := r.members[id]
	if !ok {
		return nil, false
	}
	m.StopTimer(now)
	delete(r.members, id)
	return m, true
}

// ApplyStatus updates a member's status on slug and credits the first solver.
func (r *Room) ApplyStatus(m *Member, status Status, slug string, now time.Time) {
	if !m.ApplyStatus(status, slug, now) {
		return
	}
	if _, taken := r.FirstSolvers[slug]; !taken {
		r.FirstSolvers[slug] = m.Name
	}
}

func (r *Room) slotRerolled(slot int) bool {
	for _, s := range r.RerolledSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// CheckReroll reports why slot may not be rerolled, or nil.
func (r *Room) CheckReroll(slot int) error {
	if slot < 0 || slot >= len(r.Settings.Problems) {
		return ErrSlotOutOfRange
	}
	if r.slotRerolled(slot) {
		return ErrSlotRerolled
	}
	slug := r.Settings.Problems[slot].TitleSlug
	if slug == "" {
		return nil
	}
	for _, m := range r.members {
		if m.HasProgress(slug) {
			return ErrSlotFrozen
		}
	}
	return nil
}

// ReplaceSettings installs settings. A non-nil reroll is validated first and
// nothing changes when it is rejected. First-solver entries for slugs no
// longer in the problem list are dropped.
func (r *Room) ReplaceSettings(settings Settings, reroll *int) error {
	if reroll != nil {
		if err := r.CheckReroll(*reroll); err != nil {
			return err
		}
		r.RerolledSlots = append(r.RerolledSlots, *reroll)
	}

	settings = settings.Normalize()
	keep := settings.slugs()
	for slug := range r.FirstSolvers {
		if _, ok := keep[slug]; !ok {
			delete(r.FirstSolvers, slug)
		}
	}
	r.Settings = settings
	return nil
}
