package ws

const (
	RosterUpdated = "roster.updated"

	RoundStarted  = "round.started"
	RoundWon      = "round.won"
	RoundTimedOut = "round.timed_out"

	LeaderboardUpdated = "leaderboard.updated"

	SessionExpired = "session.expired"
	SessionDeleted = "session.deleted"

	ErrorEvent = "error"
)
