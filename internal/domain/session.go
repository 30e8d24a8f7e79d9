package domain

import (
	"context"
	"strings"
	"time"
)

const (
	maxPlayers = 10

	// noVacancy means the roster currently has a flagged master (or never lost
	// one mid-round), so rotation proceeds from the master's own seat.
	noVacancy = -1
)

type Status string

const (
	StatusWaiting Status = "waiting"
	StatusLive    Status = "live"
)

// Guess is one attempt recorded against the current round. The slice is
// cleared on every round-end commit, so it never outlives a round.
type Guess struct {
	PlayerID string    `bson:"player_id" json:"playerId"`
	Text     string    `bson:"text" json:"text"`
	At       time.Time `bson:"at" json:"at"`
}

// Session is the aggregate and the unit of mutual exclusion: every mutation
// of one session is serialized by the caller, and Question/Answer/TimerEndsAt
// are non-empty only while Status is StatusLive.
type Session struct {
	ID              string     `bson:"_id" json:"sessionId"`
	Roster          []Player   `bson:"roster" json:"players"`
	Status          Status     `bson:"status" json:"status"`
	Question        string     `bson:"question" json:"question,omitempty"`
	Answer          string     `bson:"answer" json:"-"`
	TimerEndsAt     *time.Time `bson:"timer_ends_at" json:"timerEndsAt,omitempty"`
	WinnerID        string     `bson:"winner_id" json:"-"`
	RoundGeneration uint64     `bson:"round_generation" json:"roundGeneration"`
	Guesses         []Guess    `bson:"guesses" json:"-"`

	// Attempts counts guesses per player for the current round only.
	Attempts map[string]int `bson:"attempts" json:"-"`

	// VacatedMasterIndex remembers the seat of a master who left mid-round;
	// rotation on the next round-end starts from that seat.
	VacatedMasterIndex int `bson:"vacated_master_index" json:"-"`

	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	LastActivityAt time.Time `bson:"last_activity_at" json:"lastActivityAt"`
}

// SessionRepository is the document-store surface the engine depends on.
// Save is last-write-wins on the whole aggregate.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}

func NewSession(id string, first *Player) (*Session, error) {
	validateID := strings.TrimSpace(id)
	if validateID == "" || len(validateID) > 64 {
		return nil, ErrInvalidInput
	}
	if first == nil {
		return nil, ErrPlayerNotFound
	}

	now := time.Now().UTC()

	first.IsMaster = true

	return &Session{
		ID:                 validateID,
		Roster:             []Player{*first},
		Status:             StatusWaiting,
		Attempts:           map[string]int{},
		VacatedMasterIndex: noVacancy,
		CreatedAt:          now,
		LastActivityAt:     now,
	}, nil
}

func (s *Session) AddPlayer(p *Player) error {
	if p == nil {
		return ErrPlayerNotFound
	}
	if len(s.Roster) >= maxPlayers {
		return ErrSessionFull
	}
	for _, existing := range s.Roster {
		if existing.ID == p.ID {
			return ErrAlreadyJoined
		}
	}
	// New joiners append; rotation order is join order.
	s.Roster = append(s.Roster, *p)
	return nil
}

func (s *Session) FindPlayer(playerID string) *Player {
	for i := range s.Roster {
		if s.Roster[i].ID == playerID {
			return &s.Roster[i]
		}
	}
	return nil
}

func (s *Session) Master() *Player {
	for i := range s.Roster {
		if s.Roster[i].IsMaster {
			return &s.Roster[i]
		}
	}
	return nil
}

func (s *Session) masterIndex() int {
	for i := range s.Roster {
		if s.Roster[i].IsMaster {
			return i
		}
	}
	return -1
}

// RemovePlayer splices the player out without reordering the remaining
// roster. If the departing player was master while a round is live, the seat
// is remembered for rotation at round end; outside a live round the next
// seat is promoted immediately so a non-empty roster always has a master.
func (s *Session) RemovePlayer(playerID string) (*Player, bool) {
	idx := -1
	for i := range s.Roster {
		if s.Roster[i].ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false
	}

	removed := s.Roster[idx]
	s.Roster = append(s.Roster[:idx], s.Roster[idx+1:]...)

	if removed.IsMaster && len(s.Roster) > 0 {
		if s.Status == StatusLive {
			s.VacatedMasterIndex = idx
		} else {
			next := idx
			if next >= len(s.Roster) {
				next = 0
			}
			s.Roster[next].IsMaster = true
		}
	}

	return &removed, true
}

// OpenRound transitions Waiting -> Live and stamps a new round generation.
func (s *Session) OpenRound(question, answer string, endsAt time.Time) error {
	if s.Status != StatusWaiting {
		return ErrRoundInProgress
	}
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return ErrInvalidInput
	}

	s.Status = StatusLive
	s.Question = question
	s.Answer = answer
	s.TimerEndsAt = &endsAt
	s.WinnerID = ""
	s.Guesses = nil
	s.Attempts = map[string]int{}
	s.RoundGeneration++
	s.Touch()

	return nil
}

// CloseRound is the generation guard. It commits the Live -> Waiting
// transition only for the first caller holding the current generation;
// a stale generation (or an already-ended round) is a no-op.
func (s *Session) CloseRound(generation uint64) bool {
	if s.Status != StatusLive || generation != s.RoundGeneration {
		return false
	}

	s.rotateMaster()

	s.Status = StatusWaiting
	s.Question = ""
	s.Answer = ""
	s.TimerEndsAt = nil
	s.WinnerID = ""
	s.Guesses = nil
	s.Attempts = map[string]int{}
	s.VacatedMasterIndex = noVacancy

	return true
}

// RecordGuess appends an attempt for the current round and returns how many
// attempts the player has left. The attempt counts whether or not it is
// correct.
func (s *Session) RecordGuess(playerID, text string, limit int) (remaining int, err error) {
	if s.Status != StatusLive {
		return 0, ErrRoundNotLive
	}
	if s.Attempts == nil {
		s.Attempts = map[string]int{}
	}
	if s.Attempts[playerID] >= limit {
		return 0, ErrGuessLimitReached
	}

	s.Attempts[playerID]++
	s.Guesses = append(s.Guesses, Guess{
		PlayerID: playerID,
		Text:     text,
		At:       time.Now().UTC(),
	})
	s.Touch()

	return limit - s.Attempts[playerID], nil
}

// AnswerMatches compares a guess against the hidden answer after trimming
// and case-folding both sides.
func (s *Session) AnswerMatches(guess string) bool {
	return strings.EqualFold(strings.TrimSpace(guess), strings.TrimSpace(s.Answer))
}

func (s *Session) Touch() {
	s.LastActivityAt = time.Now().UTC()
}

// rotateMaster advances the master flag to the next seat in circular roster
// order. A master who left mid-round is skipped by starting from the seat
// that now occupies the vacated index; with no usable hint the flag falls
// back to seat zero.
func (s *Session) rotateMaster() {
	if len(s.Roster) == 0 {
		return
	}

	idx := s.masterIndex()
	switch {
	case idx >= 0:
		s.Roster[idx].IsMaster = false
		s.Roster[(idx+1)%len(s.Roster)].IsMaster = true
	case s.VacatedMasterIndex != noVacancy:
		// After the splice, the player who followed the vacated seat sits at
		// the vacated index itself.
		next := s.VacatedMasterIndex
		if next >= len(s.Roster) {
			next = 0
		}
		s.Roster[next].IsMaster = true
	default:
		s.Roster[0].IsMaster = true
	}
}
