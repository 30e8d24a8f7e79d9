package domain

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExists     = errors.New("session already exists")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrAlreadyJoined     = errors.New("already joined session")
	ErrSessionFull       = errors.New("session is full")
	ErrNotMaster         = errors.New("only the current master can start a round")
	ErrMasterCannotGuess = errors.New("the master cannot submit guesses")
	ErrRoundInProgress   = errors.New("a round is already in progress")
	ErrRoundNotLive      = errors.New("no round is live")
	ErrGuessLimitReached = errors.New("guess limit reached for this round")
)
