package domain

import "time"

type Status string

const (
	StatusIdle     Status = "idle"
	StatusSolving  Status = "solving"
	StatusAccepted Status = "accepted"
	StatusBrowsing Status = "browsing"
)

func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusSolving, StatusAccepted, StatusBrowsing:
		return true
	}
	return false
}

// Progress is the per-slug outcome. Accepted is terminal.
type Progress string

const (
	ProgressSolving  Progress = "solving"
	ProgressAccepted Progress = "accepted"
)

// ActiveTimer measures time on the slug a member is currently solving.
type ActiveTimer struct {
	Slug  string
	Start time.Time
}

// Member is one participant's state inside a room.
type Member struct {
	Name        string
	Problem     *string
	ProblemSlug *string
	Status      Status
	Progress    map[string]Progress
	// TimeSpent holds flushed milliseconds per slug. Only StopTimer writes it.
	TimeSpent map[string]int64
	Timer     *ActiveTimer

	seq uint64
}

func NewMember(name string) *Member {
	return &Member{
		Name:      name,
		Status:    StatusIdle,
		Progress:  make(map[string]Progress),
		TimeSpent: make(map[string]int64),
	}
}

// carryOver builds a fresh idle member that inherits progress and time.
func (m *Member) carryOver(name string) *Member {
	next := NewMember(name)
	next.Progress = m.Progress
	next.TimeSpent = m.TimeSpent
	return next
}

func elapsedMillis(start, now time.Time) int64 {
	ms := now.Sub(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

// StopTimer flushes the active timer into TimeSpent and clears it.
func (m *Member) StopTimer(now time.Time) {
	if m.Timer == nil {
		return
	}
	m.TimeSpent[m.Timer.Slug] += elapsedMillis(m.Timer.Start, now)
	m.Timer = nil
}

// ApplyStatus runs the timer and progress rules for a status change on slug.
// slug may be empty when the member has never reported one. It reports
// whether the member reached accepted on a non-empty slug.
func (m *Member) ApplyStatus(status Status, slug string, now time.Time) bool {
	if m.Timer != nil && (m.Timer.Slug != slug || status != StatusSolving) {
		m.StopTimer(now)
	}
	if status == StatusSolving && m.Timer == nil && slug != "" {
		m.Timer = &ActiveTimer{Slug: slug, Start: now}
	}

	m.Status = status
	if slug == "" {
		return false
	}
	switch status {
	case StatusAccepted:
		m.Progress[slug] = ProgressAccepted
		return true
	case StatusSolving:
		if m.Progress[slug] != ProgressAccepted {
			m.Progress[slug] = ProgressSolving
		}
	}
	return false
}

// LiveTimeSpent returns a copy of TimeSpent with the running timer added.
// The stored map is left untouched.
func (m *Member) LiveTimeSpent(now time.Time) map[string]int64 {
	out := make(map[string]int64, len(m.TimeSpent)+1)
	for slug, ms := range m.TimeSpent {
		out[slug] = ms
	}
	if m.Timer != nil {
		out[m.Timer.Slug] += elapsedMillis(m.Timer.Start, now)
	}
	return out
}

func (m *Member) ActiveSlug() *string {
	if m.Timer == nil {
		return nil
	}
	slug := m.Timer.Slug
	return &slug
}

// CurrentSlug is the member's last reported slug, or "".
func (m *Member) CurrentSlug() string {
	if m.ProblemSlug == nil {
		return ""
	}
	return *m.ProblemSlug
}

func (m *Member) HasProgress(slug string) bool {
	_, ok := m.Progress[slug]
	return ok
}
