package game

import (
	"sync"
	"time"
)

// Scheduler arms at most one round-timeout trigger per session, stamped with
// the round generation, and one independent idle-expiry trigger. Disarming
// is best-effort: a timer that fires anyway hits the generation guard in the
// engine and no-ops.
type Scheduler struct {
	mu     sync.Mutex
	rounds map[string]*roundTimer
	idles  map[string]*time.Timer
}

type roundTimer struct {
	generation uint64
	timer      *time.Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		rounds: make(map[string]*roundTimer),
		idles:  make(map[string]*time.Timer),
	}
}

// ArmRound replaces any previously armed round trigger for the session.
func (s *Scheduler) ArmRound(sessionID string, generation uint64, d time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.rounds[sessionID]; ok {
		existing.timer.Stop()
	}

	s.rounds[sessionID] = &roundTimer{
		generation: generation,
		timer: time.AfterFunc(d, func() {
			s.clearRound(sessionID, generation)
			fire()
		}),
	}
}

// DisarmRound stops the pending trigger only when it still belongs to the
// given generation.
func (s *Scheduler) DisarmRound(sessionID string, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	armed, ok := s.rounds[sessionID]
	if !ok || armed.generation != generation {
		return
	}

	armed.timer.Stop()
	delete(s.rounds, sessionID)
}

func (s *Scheduler) clearRound(sessionID string, generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if armed, ok := s.rounds[sessionID]; ok && armed.generation == generation {
		delete(s.rounds, sessionID)
	}
}

// ArmIdle schedules the session's one-shot idle-expiry trigger. It is armed
// once at creation and deliberately never refreshed by activity.
func (s *Scheduler) ArmIdle(sessionID string, d time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.idles[sessionID]; ok {
		existing.Stop()
	}

	s.idles[sessionID] = time.AfterFunc(d, func() {
		s.mu.Lock()
		delete(s.idles, sessionID)
		s.mu.Unlock()
		fire()
	})
}

// Forget drops every trigger for a session that no longer exists.
func (s *Scheduler) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if armed, ok := s.rounds[sessionID]; ok {
		armed.timer.Stop()
		delete(s.rounds, sessionID)
	}
	if idle, ok := s.idles[sessionID]; ok {
		idle.Stop()
		delete(s.idles, sessionID)
	}
}

// Stop cancels all pending triggers; used on shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, armed := range s.rounds {
		armed.timer.Stop()
		delete(s.rounds, id)
	}
	for id, idle := range s.idles {
		idle.Stop()
		delete(s.idles, id)
	}
}
