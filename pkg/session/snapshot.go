package session

import (
	"time"

	"github.com/goliatone/go-surveygen/pkg/action"
	"github.com/goliatone/go-surveygen/pkg/form"
)

// Snapshot is the persisted state of a session.
type Snapshot struct {
	ID        string              `json:"id"`
	Form      form.Snapshot       `json:"form"`
	Step      int                 `json:"step"`
	Status    action.SubmitStatus `json:"status"`
	Submitted bool                `json:"submitted"`
	StartedAt time.Time           `json:"startedAt"`
}

// Snapshot captures answers, errors, the wizard cursor and submit state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.id,
		Form:      s.Form.Snapshot(),
		Step:      s.Wizard.CurrentStep(),
		Status:    s.Dispatcher.Status(),
		Submitted: s.Submitted(),
		StartedAt: s.startedAt,
	}
}

// Restore applies a snapshot taken from a session over the same document.
func (s *Session) Restore(snap Snapshot) {
	s.Form.Restore(snap.Form)
	s.Wizard.GoTo(snap.Step)
	s.Dispatcher.RestoreStatus(snap.Status)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = snap.Submitted
	s.torn = false
	if !snap.StartedAt.IsZero() {
		s.startedAt = snap.StartedAt
	}
}
