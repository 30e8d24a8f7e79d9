package game

import "sync"

// sessionLocks hands out one mutex per session id. Every mutation of a
// session happens under its lock; sessions never share one, so work on
// different sessions proceeds in parallel.
type sessionLocks struct {
	locks sync.Map // map[string]*sync.Mutex
}

func (s *sessionLocks) get(sessionID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *sessionLocks) forget(sessionID string) {
	s.locks.Delete(sessionID)
}
