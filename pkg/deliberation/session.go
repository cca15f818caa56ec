package deliberation

import (
	"context"
	"sync"
)

// Session statuses, exposed to the presentation layer.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Session owns one deliberation's state: the immutable case context and the
// append-only round history. It lives in process memory for the session's
// duration only; there is no persistence and no reconnect.
type Session struct {
	ID      string
	Context CaseContext

	mu      sync.RWMutex
	rounds  []RoundRecord
	status  string
	reason  TerminationReason
	summary *PatientSummary
	cancel  context.CancelFunc
}

func NewSession(id string, cc CaseContext) *Session {
	return &Session{ID: id, Context: cc, status: StatusRunning}
}

// BindCancel stores the cancel function for the session run so a caller can
// abort it between rounds or mid-call.
func (s *Session) BindCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel = cancel
}

// Cancel aborts a running session. Safe to call at any time.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	if s.status == StatusRunning {
		s.status = StatusCancelled
	}
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// appendRound records a completed round. History is append-only; prior
// records are never touched.
func (s *Session) appendRound(rr RoundRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds = append(s.rounds, rr)
}

// Rounds returns a copy of the history so callers cannot mutate it.
func (s *Session) Rounds() []RoundRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RoundRecord, len(s.rounds))
	copy(out, s.rounds)
	return out
}

func (s *Session) RoundsCompleted() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rounds)
}

func (s *Session) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Session) TerminationReason() TerminationReason {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reason
}

// FinalDecision returns the authoritative decision: the synthesis of the
// last completed round.
func (s *Session) FinalDecision() (SupervisorDecision, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.rounds) == 0 {
		return SupervisorDecision{}, false
	}
	return s.rounds[len(s.rounds)-1].Synthesis, true
}

func (s *Session) Summary() (PatientSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil {
		return PatientSummary{}, false
	}
	return *s.summary, true
}

func (s *Session) SetSummary(summary PatientSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = &summary
}

func (s *Session) finish(status string, reason TerminationReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusRunning {
		s.status = status
	}
	s.reason = reason
}
